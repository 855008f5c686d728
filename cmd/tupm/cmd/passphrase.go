package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// readPassphrase prompts on stdout with prompt and reads a passphrase
// from stdin without echoing it.
func readPassphrase(prompt string) (string, error) {
	fmt.Print(prompt)
	bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(bytes), nil
}

func printSuccess(format string, args ...any) {
	color.New(color.FgGreen).Printf(format+"\n", args...)
}

func printWarning(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}
