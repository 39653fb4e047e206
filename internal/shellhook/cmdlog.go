package shellhook

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LogPath returns the path to the devpulse command log file.
func LogPath() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "devpulse", "commands.log"), nil
}

// Record is one parsed command log entry. Start entries mark a command
// beginning; end entries carry its exit code.
//
// Line formats:
//
//	start\t<epoch>\t<terminal>\t<command>
//	end\t<epoch>\t<terminal>\t<exit>\t<command>
type Record struct {
	Start      bool
	Time       int64 // unix seconds
	TerminalID string
	ExitCode   *int // end records only
	Command    string
}

// ReadSince reads records appended after the byte offset and returns them
// with the new offset to resume from. A missing log is not an error; the
// caller just sees no records yet. A shrunken log (truncated out of band)
// resets the offset to zero and rereads from the top.
func ReadSince(offset int64) ([]Record, int64, error) {
	path, err := LogPath()
	if err != nil {
		return nil, offset, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, offset, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, offset, err
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, err
	}

	var records []Record
	read := offset
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		read += int64(len(line)) + 1
		rec, ok := parseLine(line)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, read, scanner.Err()
}

func parseLine(line string) (Record, bool) {
	fields := strings.SplitN(line, "\t", 5)
	if len(fields) < 4 {
		return Record{}, false
	}
	epoch, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Record{}, false
	}
	rec := Record{Time: epoch, TerminalID: fields[2]}
	switch fields[0] {
	case "start":
		rec.Start = true
		rec.Command = strings.Join(fields[3:], "\t")
	case "end":
		if len(fields) < 5 {
			return Record{}, false
		}
		code, err := strconv.Atoi(fields[3])
		if err != nil {
			return Record{}, false
		}
		rec.ExitCode = &code
		rec.Command = fields[4]
	default:
		return Record{}, false
	}
	if rec.Command == "" || rec.TerminalID == "" {
		return Record{}, false
	}
	return rec, true
}

// Truncate empties the command log. The command feed calls it on shutdown
// after a final drain, so stale entries never replay into a later run.
func Truncate() error {
	path, err := LogPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(path, nil, 0o644)
}
