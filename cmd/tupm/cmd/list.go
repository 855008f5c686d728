package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List account names in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}

		accounts := db.Accounts()
		if len(accounts) == 0 {
			fmt.Println("(no accounts)")
			return nil
		}
		for _, a := range accounts {
			fmt.Println(a.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
