package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simmons/tupm/internal/upm/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a plaintext export of every account (secrets not redacted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}

		printWarning("The following includes unredacted passwords.")
		fmt.Print(export.Flat(db.Accounts()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
