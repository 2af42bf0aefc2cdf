package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X .../internal/cli.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "pausa",
	Short: "A short pause before opening distracting apps",
	Long: `pausa puts a little friction between you and the apps you open too often.

Every time a monitored app is opened, pausa makes you wait a few seconds,
asks why you are opening it, and lets you decide whether to go on. The wait
grows with each open during the day and resets at midnight.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExitError ends the process with Code without printing anything.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exit *ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(interveneCmd)
	rootCmd.AddCommand(migrateCmd)
}
