// Package config loads the sync server's startup configuration:
// an optional .env file layered under environment variables, with
// built-in defaults for everything except the credentials.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultEnv           = EnvLocal
	defaultLogLevel      = "info"
	defaultRunAddress    = ":8420"
	defaultDatabasePath  = "syncsrv.db"
	defaultMigrationsDir = "internal/upm/syncsrv/store/migrations"
)

// Config holds everything cmd/tupm-syncsrv needs to start listening:
// the bind address, the sqlite repository location and its migrations
// directory, and the HTTP Basic credentials clients must present.
type Config struct {
	Env           string
	LogLevel      string
	RunAddress    string
	DatabasePath  string
	MigrationsDir string
	SyncUser      string
	SyncPassword  string
}

// MustLoad loads configuration and panics if required credentials are
// missing; the server must never come up unauthenticated.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "config: could not load .env: %v\n", err)
	}

	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("RUN_ADDRESS", defaultRunAddress)
	viper.SetDefault("DATABASE_PATH", defaultDatabasePath)
	viper.SetDefault("MIGRATIONS_PATH", defaultMigrationsDir)

	cfg := &Config{
		Env:           viper.GetString("APP_ENV"),
		LogLevel:      viper.GetString("LOG_LEVEL"),
		RunAddress:    viper.GetString("RUN_ADDRESS"),
		DatabasePath:  viper.GetString("DATABASE_PATH"),
		MigrationsDir: viper.GetString("MIGRATIONS_PATH"),
		SyncUser:      viper.GetString("SYNC_USER"),
		SyncPassword:  viper.GetString("SYNC_PASSWORD"),
	}

	if cfg.SyncUser == "" || cfg.SyncPassword == "" {
		panic("config: SYNC_USER and SYNC_PASSWORD must both be set")
	}

	return cfg
}
