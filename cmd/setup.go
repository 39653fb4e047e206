package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/devpulse/internal/shellhook"
)

var setupShell string

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the shell plugin so terminal commands are captured",
	// Bypass the normal PersistentPreRunE so setup works before any config exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := setupShell
		if shell == "" {
			shell = currentShell()
		}
		if shell == "" {
			return fmt.Errorf("cannot detect shell from $SHELL; pass --shell zsh|bash")
		}

		if shellhook.IsInstalled(shell) {
			path, _ := shellhook.PluginPath(shell)
			fmt.Printf("Plugin already installed at %s, rewriting.\n", path)
		}
		return shellhook.Install(shell)
	},
}

// currentShell returns the base name of $SHELL, empty when unset.
func currentShell() string {
	sh := os.Getenv("SHELL")
	if sh == "" {
		return ""
	}
	return filepath.Base(sh)
}

func init() {
	setupCmd.Flags().StringVar(&setupShell, "shell", "", "shell to install the plugin for (zsh or bash)")
	rootCmd.AddCommand(setupCmd)
}
