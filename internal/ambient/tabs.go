package ambient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// vscodeApps are the VS Code fork storage directory names probed for open-tab
// history.
var vscodeApps = []string{"Code", "Cursor", "Windsurf", "VSCodium", "Kiro"}

// TabReader enumerates open editor tabs from VS Code-family workspace
// storage, filtered to files under WorkDir.
type TabReader struct {
	WorkDir string
	// StorageDir overrides the auto-detected workspaceStorage path (tests).
	StorageDir string
}

// Read returns the open tabs it could find. Failures of individual apps are
// silent; an empty result is not an error.
func (t *TabReader) Read() []Tab {
	var dirs []string
	if t.StorageDir != "" {
		dirs = []string{t.StorageDir}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		for _, app := range vscodeApps {
			dirs = append(dirs, storageDir(home, app))
		}
	}

	seen := make(map[string]bool)
	var tabs []Tab
	for _, dir := range dirs {
		for _, path := range readWorkspaceStorage(dir) {
			if !underDir(path, t.WorkDir) {
				continue
			}
			if !seen[path] {
				seen[path] = true
				tabs = append(tabs, Tab{Resource: path})
			}
		}
	}
	return tabs
}

func storageDir(home, appDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appDir, "User", "workspaceStorage")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appDir, "User", "workspaceStorage")
	default:
		return filepath.Join(home, ".config", appDir, "User", "workspaceStorage")
	}
}

// readWorkspaceStorage lists files recorded in one app's workspaceStorage.
// Prefers the sqlite history.entries table, falls back to workspace.json.
func readWorkspaceStorage(storageDir string) []string {
	entries, err := os.ReadDir(storageDir)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		workspaceDir := filepath.Join(storageDir, entry.Name())

		dbPath := filepath.Join(workspaceDir, "state.vscdb")
		if _, err := os.Stat(dbPath); err == nil {
			if dbFiles, err := readHistoryEntries(dbPath); err == nil && len(dbFiles) > 0 {
				for _, f := range dbFiles {
					if !seen[f] {
						seen[f] = true
						files = append(files, f)
					}
				}
				continue
			}
		}

		data, err := os.ReadFile(filepath.Join(workspaceDir, "workspace.json"))
		if err != nil {
			continue
		}
		var ws struct {
			Folder string `json:"folder"`
		}
		if err := json.Unmarshal(data, &ws); err != nil || ws.Folder == "" {
			continue
		}
		path, err := uriToPath(ws.Folder)
		if err != nil || path == "" {
			continue
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	return files
}

func readHistoryEntries(dbPath string) ([]string, error) {
	out, err := exec.Command("sqlite3", dbPath,
		"SELECT value FROM ItemTable WHERE key='history.entries';").Output()
	if err != nil {
		return nil, fmt.Errorf("sqlite3: %w", err)
	}
	raw := strings.TrimSpace(string(out))
	if raw == "" {
		return nil, nil
	}

	var entries []struct {
		Editor struct {
			Resource string `json:"resource"`
		} `json:"editor"`
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("parse history.entries: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.Editor.Resource == "" {
			continue
		}
		path, err := uriToPath(e.Editor.Resource)
		if err != nil || path == "" {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", nil
	}
	return u.Path, nil
}

// underDir reports whether path is dir itself or below it.
// An empty dir matches everything.
func underDir(path, dir string) bool {
	if dir == "" {
		return true
	}
	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return path == dir || strings.HasPrefix(path, prefix)
}
