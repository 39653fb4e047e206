package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/devpulse/internal/ambient"
	"github.com/fakeyudi/devpulse/internal/assemble"
	"github.com/fakeyudi/devpulse/internal/bundle"
	"github.com/fakeyudi/devpulse/internal/eventlog"
)

var (
	snapshotJSON bool
	snapshotOut  string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Assemble a one-shot context bundle from the current workspace",
	Long: `snapshot polls ambient workspace state (git status, open tabs) and
composes a bundle immediately, without a capture session. The event window is
empty, so the phase reads as unknown; the value is the state sections.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		workDir, err := os.Getwd()
		if err != nil {
			return err
		}

		now := time.Now()
		log := eventlog.New(GetConfig().RingCapacity)
		poller := ambient.NewHostPoller(workDir)
		assembler := &assemble.Assembler{
			Window:         time.Duration(GetConfig().WindowSeconds) * time.Second,
			MaxDiagnostics: GetConfig().MaxDiagnostics,
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		b := assembler.Assemble(ctx, log, poller, poller, now)

		var out []byte
		if snapshotJSON {
			out, err = bundle.Encode(b)
			if err != nil {
				return err
			}
		} else {
			out = []byte(bundle.Format(b, now))
		}

		if snapshotOut == "" {
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		}

		path := snapshotOut
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			ext := "txt"
			if snapshotJSON {
				ext = "json"
			}
			name := fmt.Sprintf("devpulse-%s.%s", now.Format("2006-01-02T15-04-05"), ext)
			path = filepath.Join(path, name)
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		fmt.Fprintf(os.Stderr, "devpulse: snapshot written to %s\n", path)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "emit the versioned JSON wire format instead of plain text")
	snapshotCmd.Flags().StringVar(&snapshotOut, "out", "", "write to a file or directory instead of stdout")
	rootCmd.AddCommand(snapshotCmd)
}
