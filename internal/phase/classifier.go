// Package phase infers the developer's current work phase from a window of
// activity events. Classification is a pure function: same window in, same
// assessment out.
package phase

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/fakeyudi/devpulse/internal/event"
)

// Phase is the inferred mode of work.
type Phase string

const (
	Exploring   Phase = "exploring"
	Iterating   Phase = "iterating"
	Building    Phase = "building"
	Debugging   Phase = "debugging"
	Archaeology Phase = "archaeology"
	Unknown     Phase = "unknown"
)

// minEvents is the smallest window the classifier will guess from.
const minEvents = 3

// maxRecentFiles caps the recently-touched resource list.
const maxRecentFiles = 5

// Assessment is the classifier's verdict for one window.
type Assessment struct {
	Phase       Phase    `json:"phase"`
	Confidence  float64  `json:"confidence"` // in [0,1], two decimal places
	Reasoning   string   `json:"reasoning"`
	RecentFiles []string `json:"recent_files"`
}

// testCommandTokens mark a terminal command as a test or build run.
var testCommandTokens = []string{"test", "jest", "mocha", "pytest", "cargo test", "npm test", "npm run test"}

// historyCommandRe matches history-inspection git verbs.
var historyCommandRe = regexp.MustCompile(`(?i)git\s+(blame|log|diff|show|annotate)`)

// Classify maps an ordered event window to a phase assessment.
func Classify(events []event.Event) Assessment {
	if len(events) < minEvents {
		return Assessment{
			Phase:       Unknown,
			Confidence:  0,
			Reasoning:   "insufficient activity",
			RecentFiles: []string{},
		}
	}

	var (
		switches    int
		edits       int
		saves       int
		diagChanges int
		debugStarts int
		debugStops  int
		bpChanges   int
		testCmd     bool
		historyCmd  bool
	)
	seen := map[string]bool{}
	var recent []string
	touch := func(resource string) {
		if resource == "" || seen[resource] {
			return
		}
		seen[resource] = true
		recent = append(recent, resource)
	}

	for _, e := range events {
		switch e.Kind {
		case event.KindFileSwitch:
			switches++
			touch(e.PrevResource)
			touch(e.Resource)
		case event.KindTextChange:
			edits++
			touch(e.Resource)
		case event.KindFileSave:
			saves++
		case event.KindDiagnosticChange:
			diagChanges++
		case event.KindDebugStart:
			debugStarts++
		case event.KindDebugStop:
			debugStops++
		case event.KindBreakpointChange:
			bpChanges++
		case event.KindTerminalStart, event.KindTerminalEnd:
			if isTestCommand(e.Command) {
				testCmd = true
			}
			if historyCommandRe.MatchString(e.Command) {
				historyCmd = true
			}
		}
	}
	distinct := len(recent)

	// Scores accumulate independently; one event can feed several phases.
	// Evaluation order doubles as the tie-break: earlier wins a tied score.
	scores := []struct {
		phase  Phase
		points int
	}{
		{Exploring, 0}, {Iterating, 0}, {Building, 0}, {Debugging, 0}, {Archaeology, 0},
	}

	// exploring
	if switches >= 4 && edits <= 1 {
		scores[0].points += 3
		if distinct >= 3 && edits == 0 {
			scores[0].points += 2
		}
	}

	// iterating
	if edits >= 2 && saves >= 1 {
		scores[1].points += 2
	}
	if testCmd && edits >= 1 {
		scores[1].points += 3
	}
	if diagChanges >= 2 {
		scores[1].points += 1
	}

	// building
	if edits >= 3 && switches <= 2 {
		scores[2].points += 3
		if saves >= 2 && edits >= 2 && switches <= 1 {
			scores[2].points += 2
		}
	}

	// debugging
	if debugStarts > debugStops {
		scores[3].points += 4
	}
	if bpChanges >= 1 {
		scores[3].points += 2
	}
	if debugStarts >= 1 {
		scores[3].points += 1
	}

	// archaeology
	if historyCmd {
		scores[4].points += 3
		if switches >= 3 && edits == 0 {
			scores[4].points += 2
		}
	}

	winner := Unknown
	best := 0
	for _, s := range scores {
		if s.points > best {
			best = s.points
			winner = s.phase
		}
	}

	confidence := math.Min(1, float64(best)/5)
	confidence = math.Round(confidence*100) / 100

	if len(recent) > maxRecentFiles {
		recent = recent[:maxRecentFiles]
	}
	if recent == nil {
		recent = []string{}
	}

	return Assessment{
		Phase:       winner,
		Confidence:  confidence,
		Reasoning:   reasoning(winner, distinct, edits, switches),
		RecentFiles: recent,
	}
}

// isTestCommand reports a case-insensitive match against the known
// test/build command tokens.
func isTestCommand(command string) bool {
	if command == "" {
		return false
	}
	lower := strings.ToLower(command)
	for _, token := range testCommandTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// reasoning renders the deterministic per-phase explanation. Every template
// cites the distinct-file, edit-burst, and switch counts.
func reasoning(p Phase, distinct, edits, switches int) string {
	switch p {
	case Exploring:
		return fmt.Sprintf("browsing widely: %d file switches across %d distinct files with %d edit bursts", switches, distinct, edits)
	case Iterating:
		return fmt.Sprintf("edit-and-verify loop: %d edit bursts over %d distinct files, %d file switches", edits, distinct, switches)
	case Building:
		return fmt.Sprintf("focused writing: %d edit bursts concentrated in %d distinct files, only %d file switches", edits, distinct, switches)
	case Debugging:
		return fmt.Sprintf("active debug session alongside %d edit bursts, %d file switches, %d distinct files", edits, switches, distinct)
	case Archaeology:
		return fmt.Sprintf("history browsing through version control: %d file switches across %d distinct files, %d edit bursts", switches, distinct, edits)
	default:
		return fmt.Sprintf("no dominant pattern: %d file switches, %d edit bursts, %d distinct files", switches, edits, distinct)
	}
}
