// Package config loads tupm's CLI configuration: an optional .env
// file layered under environment variables, read through viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvLocal, EnvDev, and EnvProd select the logging profile New
	// Logger uses: EnvLocal and EnvDev are verbose, EnvProd is quiet.
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultEnv              = EnvLocal
	defaultLogLevel         = "info"
	defaultConfigDirName    = ".tupm"
	defaultDatabaseFilename = "primary"
	defaultSyncTimeoutSecs  = 30
)

// Config holds the settings tupm's CLI layer needs: where the
// database lives, how verbosely to log, and the default sync
// endpoint timeout. Database-specific remote credentials live inside
// the database itself (database.Remote), not here.
type Config struct {
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	ConfigDir      string `mapstructure:"config_dir"`
	DatabasePath   string `mapstructure:"database_path"`
	SyncTimeoutSec int    `mapstructure:"sync_timeout_seconds"`
}

// MustLoad loads configuration from environment variables, a local
// .env file (if present), and built-in defaults, in that precedence
// order; a .env entry never overrides a variable already set in the
// environment. It panics if the resulting configuration fails validation;
// there is nothing useful the CLI can do without one.
func MustLoad() *Config {
	loadDotEnvIfPresent()

	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDirName)
	viper.SetDefault("SYNC_TIMEOUT_SECONDS", defaultSyncTimeoutSecs)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDirName {
		configDir = filepath.Join(homeDir, configDir)
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "config: could not create config directory %s: %v\n", configDir, err)
	}

	databasePath := viper.GetString("DATABASE_PATH")
	if databasePath == "" {
		databasePath = filepath.Join(configDir, defaultDatabaseFilename)
	}

	cfg := &Config{
		Env:            viper.GetString("APP_ENV"),
		LogLevel:       viper.GetString("LOG_LEVEL"),
		ConfigDir:      configDir,
		DatabasePath:   databasePath,
		SyncTimeoutSec: viper.GetInt("SYNC_TIMEOUT_SECONDS"),
	}

	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

func loadDotEnvIfPresent() {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = filepath.Join("..", ".env")
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "config: could not load %s: %v\n", envPath, err)
		}
	}
}

func (c *Config) validate() error {
	if c.ConfigDir == "" {
		return fmt.Errorf("config_dir must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.SyncTimeoutSec <= 0 {
		return fmt.Errorf("sync_timeout_seconds must be positive")
	}
	return nil
}

// IsProd reports whether the configured environment is production.
func (c *Config) IsProd() bool { return c.Env == EnvProd }

// IsLocal reports whether the configured environment is local
// development (the default for an unset APP_ENV).
func (c *Config) IsLocal() bool { return c.Env == EnvLocal || c.Env == "" }
