package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/devpulse/internal/config"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "devpulse",
	Short: "Capture editor and shell activity and infer what you are working on",
	Long: `devpulse records fine-grained development activity (file switches,
saves, edits, terminal commands, debug sessions) into a bounded in-memory
log, infers the current working phase from the recent window, and composes
shareable context bundles from the log plus ambient workspace state.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// setup runs before any config needs to exist.
		if cmd.Name() == "setup" {
			return nil
		}

		var warnings []string
		cfg, warnings = config.Load()
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}
