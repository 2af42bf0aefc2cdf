package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pausa/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: `Show the effective configuration, after the config file and PAUSA_*
environment variables are applied. The database auth token is redacted.

Examples:
  pausa config          # Print the effective configuration as TOML
  pausa config path     # Print the config file location`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(config.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	shown := *cfg
	if shown.Database.AuthToken != "" {
		shown.Database.AuthToken = "********"
	}

	fmt.Printf("# %s\n", config.Path())
	if err := toml.NewEncoder(os.Stdout).Encode(shown); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
