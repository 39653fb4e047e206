package ambient

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// GitRunner executes a git command and returns its output.
// This abstraction allows mocking in tests.
type GitRunner func(workDir string, args ...string) (string, error)

// GitPoller reads source-control status for one working directory. Whether
// the directory is a repository at all is resolved once on first use and
// cached for the process lifetime; an unavailable repository degrades every
// later Status call to (nil, nil).
type GitPoller struct {
	WorkDir string
	Runner  GitRunner // if nil, uses the real git subprocess

	resolveOnce sync.Once
	available   bool
}

// defaultGitRunner runs git as a real subprocess.
func defaultGitRunner(workDir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = workDir
	out, err := cmd.Output()
	return string(out), err
}

func (g *GitPoller) runner() GitRunner {
	if g.Runner != nil {
		return g.Runner
	}
	return defaultGitRunner
}

// resolve performs the one-time capability check.
func (g *GitPoller) resolve() bool {
	g.resolveOnce.Do(func() {
		out, err := g.runner()(g.WorkDir, "rev-parse", "--is-inside-work-tree")
		g.available = err == nil && strings.TrimSpace(out) == "true"
	})
	return g.available
}

// Status returns the current source-control summary, or (nil, nil) when no
// repository is available. It never fails the caller on a missing upstream.
func (g *GitPoller) Status(ctx context.Context) (*GitStatus, error) {
	if !g.resolve() {
		return nil, nil
	}
	run := g.runner()

	branch, err := run(g.WorkDir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		if isExitCode128(err) {
			return nil, nil
		}
		return nil, err
	}

	status := &GitStatus{Branch: strings.TrimSpace(branch)}

	// No upstream configured is normal; leave ahead/behind at zero.
	if counts, err := run(g.WorkDir, "rev-list", "--left-right", "--count", "@{upstream}...HEAD"); err == nil {
		fields := strings.Fields(counts)
		if len(fields) == 2 {
			status.Behind, _ = strconv.Atoi(fields[0])
			status.Ahead, _ = strconv.Atoi(fields[1])
		}
	}

	porcelain, err := run(g.WorkDir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	status.Modified, status.Staged = parsePorcelain(porcelain)

	return status, nil
}

// parsePorcelain splits `git status --porcelain` output into worktree-modified
// and index-staged paths. Untracked files count as modified.
func parsePorcelain(out string) (modified, staged []string) {
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		index, worktree := line[0], line[1]
		path := strings.TrimSpace(line[3:])
		if path == "" {
			continue
		}
		if index == '?' && worktree == '?' {
			modified = append(modified, path)
			continue
		}
		if index != ' ' {
			staged = append(staged, path)
		}
		if worktree != ' ' {
			modified = append(modified, path)
		}
	}
	return modified, staged
}

// isExitCode128 reports whether err is an *exec.ExitError with exit code 128.
func isExitCode128(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() == 128
	}
	return false
}
