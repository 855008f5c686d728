package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simmons/tupm/internal/upm/database"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new account to the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}

		reader := bufio.NewReader(os.Stdin)
		user := prompt(reader, "User: ")
		password, err := readPassphrase("Password: ")
		if err != nil {
			return err
		}
		url := prompt(reader, "URL: ")
		notes := prompt(reader, "Notes: ")

		if err := db.AddAccount(database.Account{
			Name:     args[0],
			User:     user,
			Password: password,
			URL:      url,
			Notes:    notes,
		}); err != nil {
			return err
		}

		if err := db.Save(); err != nil {
			return fmt.Errorf("saving database: %w", err)
		}

		printSuccess("Added account %q", args[0])
		return nil
	},
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func init() {
	rootCmd.AddCommand(addCmd)
}
