package cmd

import (
	"fmt"

	"github.com/simmons/tupm/internal/upm/database"
)

// openDatabase prompts for the database passphrase and opens
// cfg.DatabasePath, the shared first step of every command that
// operates on an existing database.
func openDatabase() (*database.Database, error) {
	passphrase, err := readPassphrase("Database passphrase: ")
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.DatabasePath, passphrase)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.DatabasePath, err)
	}
	return db, nil
}
