package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simmons/tupm/internal/upm/database"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Inspect or configure the database's remote sync repository",
}

var remoteShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configured remote repository, if any",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}

		if !db.HasRemote() {
			fmt.Println("(no remote configured)")
			return nil
		}

		remote := db.Remote()
		fmt.Printf("url:  %s\n", remote.URL)
		fmt.Printf("user: %s\n", remote.User)
		return nil
	},
}

var remoteSetCmd = &cobra.Command{
	Use:   "set <url> <user>",
	Short: "Configure the remote repository used by 'tupm sync'",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}

		password, err := readPassphrase("Remote password: ")
		if err != nil {
			return err
		}

		db.SetRemote(database.Remote{URL: args[0], User: args[1], Password: password})
		if err := db.Save(); err != nil {
			return fmt.Errorf("saving database: %w", err)
		}

		printSuccess("Remote repository configured")
		return nil
	},
}

var remoteClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the configured remote repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}

		db.ClearRemote()
		if err := db.Save(); err != nil {
			return fmt.Errorf("saving database: %w", err)
		}

		printSuccess("Remote repository cleared")
		return nil
	},
}

func init() {
	remoteCmd.AddCommand(remoteShowCmd, remoteSetCmd, remoteClearCmd)
	rootCmd.AddCommand(remoteCmd)
}
