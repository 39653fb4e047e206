package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/devpulse/internal/ambient"
	"github.com/fakeyudi/devpulse/internal/assemble"
	"github.com/fakeyudi/devpulse/internal/bundle"
	"github.com/fakeyudi/devpulse/internal/eventlog"
	"github.com/fakeyudi/devpulse/internal/recorder"
	"github.com/fakeyudi/devpulse/internal/shellhook"
	devsignal "github.com/fakeyudi/devpulse/internal/signal"
	"github.com/fakeyudi/devpulse/internal/sink"
)

var (
	watchFeedPath string
	watchInterval time.Duration
	watchDeliver  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Record activity until interrupted, then produce a context bundle",
	Long: `watch runs the capture pipeline: filesystem saves, shell commands
(when the shell plugin is installed), and editor-bridge notifications feed a
bounded in-memory event log. With --interval a bundle summary is printed
periodically; on Ctrl-C a final bundle is placed on the clipboard (or stdout
when no clipboard tool is available).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		workDir, err := os.Getwd()
		if err != nil {
			return err
		}

		log := eventlog.New(GetConfig().RingCapacity)
		hub := devsignal.NewHub()
		rec := recorder.New(log)
		rec.Attach(hub)
		defer rec.Close()

		poller := ambient.NewHostPoller(workDir)
		rec.Seed(nil) // nothing is known to be focused until a feed says so

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		watcher := &devsignal.FileWatcher{Root: workDir, IgnorePatterns: GetConfig().IgnorePatterns}
		go func() {
			if err := watcher.Run(ctx, hub); err != nil {
				fmt.Fprintf(os.Stderr, "warning: file watcher stopped: %v\n", err)
			}
		}()

		if shellhook.IsInstalled(currentShell()) {
			cmdFeed := &devsignal.CommandFeed{Hub: hub}
			go func() { _ = cmdFeed.Run(ctx) }()
		}

		if feedReader := openFeed(); feedReader != nil {
			feed := &devsignal.Feed{Hub: hub, OnState: poller.SetBridgeState}
			go func() {
				if err := feed.Run(ctx, feedReader); err != nil {
					fmt.Fprintf(os.Stderr, "warning: bridge feed stopped: %v\n", err)
				}
			}()
		}

		assembler := &assemble.Assembler{
			Window:         time.Duration(GetConfig().WindowSeconds) * time.Second,
			MaxDiagnostics: GetConfig().MaxDiagnostics,
		}

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

		fmt.Fprintln(os.Stderr, "devpulse: watching, Ctrl-C to finish")

		var ticker *time.Ticker
		var tick <-chan time.Time
		if watchInterval > 0 {
			ticker = time.NewTicker(watchInterval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				b := assembler.Assemble(ctx, log, poller, poller, time.Now())
				fmt.Println(bundle.Format(b, time.Now()))

			case <-interrupt:
				cancel()
				b := assembler.Assemble(context.Background(), log, poller, poller, time.Now())
				return emitFinal(b)

			case <-ctx.Done():
				return nil
			}
		}
	},
}

// openFeed resolves the bridge feed source: the --feed flag wins over the
// configured path, and "-" means stdin. Returns nil when no feed is set up.
func openFeed() *os.File {
	path := watchFeedPath
	if path == "" {
		path = GetConfig().FeedPath
	}
	switch path {
	case "":
		return nil
	case "-":
		return os.Stdin
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot open bridge feed %s: %v\n", path, err)
		return nil
	}
	return f
}

// emitFinal places the formatted bundle locally and optionally posts it.
func emitFinal(b *bundle.ContextBundle) error {
	text := bundle.Format(b, time.Now())

	if term.IsTerminal(os.Stdout.Fd()) {
		onClipboard, err := sink.PlaceText(text, os.Stdout)
		if err != nil {
			return err
		}
		if onClipboard {
			fmt.Fprintln(os.Stderr, "devpulse: bundle copied to clipboard")
		}
	} else {
		fmt.Print(text)
	}

	if watchDeliver {
		url := GetConfig().DeliveryURL
		if url == "" {
			return fmt.Errorf("--deliver set but no delivery_url configured")
		}
		s := &sink.HTTPSink{URL: url}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Deliver(ctx, b); err != nil {
			// Delivery is out of band; the bundle was already produced.
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "devpulse: bundle delivered")
		}
	}
	return nil
}

func init() {
	watchCmd.Flags().StringVar(&watchFeedPath, "feed", "", "editor-bridge JSONL stream (path or - for stdin)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "print a bundle summary every interval (0 disables)")
	watchCmd.Flags().BoolVar(&watchDeliver, "deliver", false, "POST the final bundle to the configured delivery_url")
	rootCmd.AddCommand(watchCmd)
}
