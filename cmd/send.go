package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/devpulse/internal/bundle"
	"github.com/fakeyudi/devpulse/internal/sink"
)

var sendURL string

var sendCmd = &cobra.Command{
	Use:   "send <bundle.json>",
	Short: "Deliver a saved context bundle to the configured endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", args[0])
			}
			return err
		}

		b, err := bundle.Decode(data)
		if err != nil {
			return fmt.Errorf("not a valid bundle: %w", err)
		}

		url := sendURL
		if url == "" {
			url = GetConfig().DeliveryURL
		}
		if url == "" {
			return fmt.Errorf("no delivery URL: pass --url or set delivery_url in config")
		}

		s := &sink.HTTPSink{URL: url}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		if err := s.Deliver(ctx, b); err != nil {
			return err
		}
		cmd.Println("Bundle delivered.")
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendURL, "url", "", "delivery endpoint (overrides configured delivery_url)")
	rootCmd.AddCommand(sendCmd)
}
