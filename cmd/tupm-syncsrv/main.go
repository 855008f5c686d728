// Command tupm-syncsrv runs a reference UPM-compatible sync
// repository: the HTTP endpoints tupm's sync client (and the
// original UPM desktop client) speaks to for download, revision
// probing, and upload.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/simmons/tupm/internal/logging"
	"github.com/simmons/tupm/internal/upm/syncsrv"
	"github.com/simmons/tupm/internal/upm/syncsrv/config"
	"github.com/simmons/tupm/internal/upm/syncsrv/store"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env)

	repo, err := store.OpenSqlite(cfg.DatabasePath, cfg.MigrationsDir)
	if err != nil {
		log.Error("opening sqlite repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	srv := syncsrv.New(repo, syncsrv.Credentials{
		User:     cfg.SyncUser,
		Password: cfg.SyncPassword,
	}, log)

	log.Info("sync server listening", "addr", cfg.RunAddress)
	if err := http.ListenAndServe(cfg.RunAddress, srv); err != nil {
		fmt.Fprintf(os.Stderr, "tupm-syncsrv: %v\n", err)
		os.Exit(1)
	}
}
