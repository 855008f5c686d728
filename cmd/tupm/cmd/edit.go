package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simmons/tupm/internal/upm/database"
)

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit an existing account; blank input keeps the current value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}

		existing, err := db.Account(args[0])
		if err != nil {
			return err
		}

		reader := bufio.NewReader(os.Stdin)
		user := promptDefault(reader, "User", existing.User)
		url := promptDefault(reader, "URL", existing.URL)
		notes := promptDefault(reader, "Notes", existing.Notes)

		password := existing.Password
		fmt.Print("Change password? [y/N]: ")
		if promptDefault(reader, "", "") == "y" {
			password, err = readPassphrase("Password: ")
			if err != nil {
				return err
			}
		}

		if err := db.UpdateAccount(args[0], database.Account{
			Name:     existing.Name,
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

		printSuccess("Updated account %q", args[0])
		return nil
	},
}

func promptDefault(reader *bufio.Reader, label, current string) string {
	if label != "" {
		fmt.Printf("%s [%s]: ", label, current)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return current
	}
	return line
}

func init() {
	rootCmd.AddCommand(editCmd)
}
