// cmd/tupm/cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"github.com/simmons/tupm/internal/config"
	"github.com/simmons/tupm/internal/logging"
)

var (
	cfg        *config.Config
	log        *slog.Logger
	dbPathFlag string
)

var rootCmd = &cobra.Command{
	Use:   "tupm",
	Short: "tupm - a terminal UPM-compatible password manager",
	Long: `tupm reads and writes password databases in the same format as
the original Java Universal Password Manager (UPM) and can sync them
against a UPM-compatible HTTP repository.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command; it is the CLI's sole entry point.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(_ *cobra.Command, _ []string) error {
	cfg = config.MustLoad()
	if dbPathFlag != "" {
		cfg.DatabasePath = dbPathFlag
	}
	log = logging.New(cfg.Env)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "path to the UPM database file (default: configured database_path)")
}
