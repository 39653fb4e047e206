package ambient

import (
	"context"
	"strings"
	"testing"
)

func scriptedRunner(t *testing.T, responses map[string]string) GitRunner {
	t.Helper()
	return func(workDir string, args ...string) (string, error) {
		key := strings.Join(args, " ")
		out, ok := responses[key]
		if !ok {
			t.Fatalf("unexpected git invocation: %s", key)
		}
		return out, nil
	}
}

func TestGitStatusSuccess(t *testing.T) {
	g := &GitPoller{
		WorkDir: "/some/dir",
		Runner: scriptedRunner(t, map[string]string{
			"rev-parse --is-inside-work-tree": "true\n",
			"rev-parse --abbrev-ref HEAD":     "feature/poll\n",
			"rev-list --left-right --count @{upstream}...HEAD": "1\t3\n",
			"status --porcelain": " M modified.go\n" +
				"M  staged.go\n" +
				"MM both.go\n" +
				"?? untracked.go\n",
		}),
	}

	st, err := g.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st == nil {
		t.Fatal("expected status, got nil")
	}
	if st.Branch != "feature/poll" {
		t.Errorf("Branch = %q", st.Branch)
	}
	if st.Behind != 1 || st.Ahead != 3 {
		t.Errorf("ahead/behind = %d/%d, want 3/1", st.Ahead, st.Behind)
	}
	wantModified := []string{"modified.go", "both.go", "untracked.go"}
	if len(st.Modified) != len(wantModified) {
		t.Fatalf("Modified = %v, want %v", st.Modified, wantModified)
	}
	wantStaged := []string{"staged.go", "both.go"}
	if len(st.Staged) != len(wantStaged) {
		t.Fatalf("Staged = %v, want %v", st.Staged, wantStaged)
	}
}

func TestGitStatusNotARepository(t *testing.T) {
	calls := 0
	g := &GitPoller{
		WorkDir: "/tmp",
		Runner: func(workDir string, args ...string) (string, error) {
			calls++
			return "false\n", nil
		},
	}

	for i := 0; i < 3; i++ {
		st, err := g.Status(context.Background())
		if err != nil || st != nil {
			t.Fatalf("non-repo should answer (nil, nil), got (%v, %v)", st, err)
		}
	}
	if calls != 1 {
		t.Errorf("capability check ran %d times, want once", calls)
	}
}

func TestGitStatusNoUpstream(t *testing.T) {
	g := &GitPoller{
		WorkDir: "/some/dir",
		Runner: func(workDir string, args ...string) (string, error) {
			switch strings.Join(args, " ") {
			case "rev-parse --is-inside-work-tree":
				return "true\n", nil
			case "rev-parse --abbrev-ref HEAD":
				return "main\n", nil
			case "status --porcelain":
				return "", nil
			default:
				return "", errUpstream{}
			}
		},
	}

	st, err := g.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st == nil || st.Branch != "main" {
		t.Fatalf("status = %+v", st)
	}
	if st.Ahead != 0 || st.Behind != 0 {
		t.Errorf("missing upstream should leave ahead/behind at zero, got %d/%d", st.Ahead, st.Behind)
	}
}

type errUpstream struct{}

func (errUpstream) Error() string { return "no upstream configured" }

func TestParsePorcelainSkipsShortLines(t *testing.T) {
	modified, staged := parsePorcelain("x\n\n M a.go\n")
	if len(modified) != 1 || modified[0] != "a.go" {
		t.Errorf("modified = %v", modified)
	}
	if len(staged) != 0 {
		t.Errorf("staged = %v", staged)
	}
}
