package signal

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher turns filesystem write events under a workspace root into
// document-saved notifications. A write reaching disk is, from outside the
// editor, the save; in-editor edit bursts arrive over the bridge feed instead.
type FileWatcher struct {
	Root           string
	IgnorePatterns []string
}

// Run watches Root recursively and emits into hub until ctx is cancelled.
// Newly created directories are added to the watch set as they appear.
func (w *FileWatcher) Run(ctx context.Context, hub *Hub) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := filepath.WalkDir(w.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	}); err != nil {
		return err
	}

	patterns := w.loadIgnorePatterns()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if w.isIgnored(ev.Name, patterns) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watcher.Add(ev.Name)
					continue
				}
			}
			hub.EmitDocumentSaved(Document{
				Resource: ev.Name,
				Language: languageForPath(ev.Name),
			})

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; keep watching.
		}
	}
}

// isIgnored reports whether path matches any pattern against its base name,
// root-relative path, or full path.
func (w *FileWatcher) isIgnored(path string, patterns []string) bool {
	rel := path
	if w.Root != "" {
		if r, err := filepath.Rel(w.Root, path); err == nil {
			rel = r
		}
	}
	base := filepath.Base(path)

	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

// loadIgnorePatterns merges configured patterns with .gitignore and
// .devpulseignore entries found at the root. Missing files are fine.
func (w *FileWatcher) loadIgnorePatterns() []string {
	patterns := make([]string, len(w.IgnorePatterns))
	copy(patterns, w.IgnorePatterns)

	for _, name := range []string{".gitignore", ".devpulseignore"} {
		extra, err := readPatternFile(filepath.Join(w.Root, name))
		if err != nil {
			continue
		}
		patterns = append(patterns, extra...)
	}
	return patterns
}

// readPatternFile reads a gitignore-style file, skipping blanks and comments.
func readPatternFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}

// languageForPath maps a file extension to a short content-type tag.
// Unknown extensions yield the bare extension without the dot.
func languageForPath(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch ext {
	case "go":
		return "go"
	case "ts", "tsx":
		return "typescript"
	case "js", "jsx", "mjs":
		return "javascript"
	case "py":
		return "python"
	case "rs":
		return "rust"
	case "md":
		return "markdown"
	case "yml", "yaml":
		return "yaml"
	case "json":
		return "json"
	case "sh", "bash", "zsh":
		return "shellscript"
	default:
		return ext
	}
}
