package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/simmons/tupm/internal/upm/database"
	"github.com/simmons/tupm/internal/upm/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the database with its configured remote repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		if !db.HasRemote() {
			return fmt.Errorf("database has no remote configured; see 'tupm remote set'")
		}

		remote := db.Remote()
		client := sync.NewClient(remote.URL, remote.User, remote.Password)
		client.SetTimeout(time.Duration(cfg.SyncTimeoutSec) * time.Second)
		client.SetLogger(log)

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.SyncTimeoutSec)*time.Second)
		defer cancel()

		dbName := db.DBName()

		remoteRevision, err := client.ProbeRevision(ctx, dbName)
		if err != nil && !errors.Is(err, sync.ErrNotFound) {
			return fmt.Errorf("probing remote revision: %w", err)
		}

		switch {
		case errors.Is(err, sync.ErrNotFound) || db.Revision() > remoteRevision:
			return uploadLocal(ctx, client, db, dbName)
		case db.Revision() < remoteRevision:
			return downloadRemote(ctx, client, db, dbName)
		default:
			log.Info("database already in sync", "revision", db.Revision())
			printSuccess("Already in sync at revision %d", db.Revision())
			return nil
		}
	},
}

func uploadLocal(ctx context.Context, client *sync.Client, db *database.Database, dbName string) error {
	payload, err := db.Bytes()
	if err != nil {
		return fmt.Errorf("encoding database for upload: %w", err)
	}

	if err := client.Upload(ctx, dbName, db.Revision(), payload); err != nil {
		var remoteNewer *sync.RemoteNewerError
		if errors.As(err, &remoteNewer) {
			return fmt.Errorf("remote was updated concurrently (local=%d, remote=%d); run sync again to pull it down", remoteNewer.Local, remoteNewer.Remote)
		}
		return fmt.Errorf("uploading database: %w", err)
	}

	// Save performs the post-upload revision bump and persists it in
	// one step; a second MarkUploaded here would double-count.
	db.MarkSynced()
	if err := db.Save(); err != nil {
		return fmt.Errorf("saving local revision after upload: %w", err)
	}

	printSuccess("Uploaded local database (revision %d)", db.Revision())
	return nil
}

func downloadRemote(ctx context.Context, client *sync.Client, db *database.Database, dbName string) error {
	container, err := client.Download(ctx, dbName)
	if err != nil {
		return fmt.Errorf("downloading remote database: %w", err)
	}

	// Decode first so a passphrase mismatch or corrupt download never
	// replaces the local file.
	remoteDB, err := database.FromBytes(container, db.Passphrase())
	if err != nil {
		return fmt.Errorf("decoding remote database: %w", err)
	}

	// Adopt the downloaded container verbatim; re-encoding would bump
	// the revision and change the bytes the repository holds.
	if err := database.WriteContainer(db.Path(), container); err != nil {
		return fmt.Errorf("saving downloaded database: %w", err)
	}

	printSuccess("Replaced local database with remote (revision %d)", remoteDB.Revision())
	return nil
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
