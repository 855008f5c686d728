package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a single account's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}

		account, err := db.Account(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("name:     %s\n", account.Name)
		fmt.Printf("user:     %s\n", account.User)
		fmt.Printf("password: %s\n", account.Password)
		fmt.Printf("url:      %s\n", account.URL)
		fmt.Printf("notes:    %s\n", account.Notes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
