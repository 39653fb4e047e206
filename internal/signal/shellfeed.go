package signal

import (
	"context"
	"time"

	"github.com/fakeyudi/devpulse/internal/shellhook"
)

// defaultShellPoll is how often the command log is checked for new entries.
const defaultShellPoll = 1 * time.Second

// CommandFeed tails the shell hook command log and emits terminal command
// events into the hub. The shell plugin appends start and end markers; this
// feed polls for appended lines and replays them.
type CommandFeed struct {
	Hub  *Hub
	Poll time.Duration // zero uses defaultShellPoll

	offset int64
}

// Run polls the command log until ctx is cancelled, then drains once more
// and truncates the log so the next run does not replay consumed commands.
// Read errors are transient (the log may be mid-append); the feed just
// retries on the next tick.
func (f *CommandFeed) Run(ctx context.Context) error {
	poll := f.Poll
	if poll <= 0 {
		poll = defaultShellPoll
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.drain()
			return shellhook.Truncate()
		case <-ticker.C:
			f.drain()
		}
	}
}

func (f *CommandFeed) drain() {
	records, next, err := shellhook.ReadSince(f.offset)
	if err != nil {
		return
	}
	f.offset = next
	for _, rec := range records {
		cmd := TerminalCommand{
			Command:    rec.Command,
			TerminalID: rec.TerminalID,
			ExitCode:   rec.ExitCode,
		}
		if rec.Start {
			f.Hub.EmitTerminalCommandStarted(cmd)
		} else {
			f.Hub.EmitTerminalCommandEnded(cmd)
		}
	}
}
