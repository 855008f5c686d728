package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simmons/tupm/internal/upm/database"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new, empty UPM database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfg.DatabasePath); err == nil {
			return fmt.Errorf("a database already exists at %s", cfg.DatabasePath)
		}

		passphrase, err := readPassphrase("New database passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		db := database.New()
		db.SetPassphrase(passphrase)
		if err := db.SaveAs(cfg.DatabasePath); err != nil {
			return fmt.Errorf("creating database: %w", err)
		}

		log.Info("created database", "path", cfg.DatabasePath)
		printSuccess("Created empty database at %s", cfg.DatabasePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
