package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete an account from the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}

		if err := db.DeleteAccount(args[0]); err != nil {
			return err
		}
		if err := db.Save(); err != nil {
			return fmt.Errorf("saving database: %w", err)
		}

		printSuccess("Deleted account %q", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
