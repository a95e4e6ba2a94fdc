package tasklist

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// --- Line grammar ---
//
// The checklist format recognizes exactly two line shapes; everything
// else is passed through untouched:
//
//	Phase heading:  ## Phase <digits>[:] <title>
//	Task line:      - [ |x|X] T<digits> [[P]] [[<STORY>]] <description>
//
// Matching is strictly line-local. The only context carried between
// lines is the current phase title.

var (
	// phaseRe captures the phase number and the full remaining title.
	// A single optional colon directly after the digits is consumed as
	// the separator; colons inside the title itself are kept.
	phaseRe = regexp.MustCompile(`^##\s+Phase\s+(\d+):?\s+(.*)$`)

	// taskRe captures the checkbox marker, the task id, an optional
	// "[P]" tag, an optional story tag, and the description.
	taskRe = regexp.MustCompile(`^- \[([ xX])\] (T\d+)(?: \[P\])?(?: \[([A-Za-z]+\d+)\])? (.*)$`)

	// taskPrefixRe matches just enough of a task line to identify it for
	// rewriting: the checkbox and the id. Used by the mutator, which must
	// not depend on the rest of the line being well formed.
	taskPrefixRe = regexp.MustCompile(`^- \[([ xX])\] (T\d+)(\s|$)`)
)

// parallelTag is detected anywhere on a task line, not just in the
// anchored position, so "- [ ] T001 [US1] [P] desc" still counts.
const parallelTag = "[P]"

// lineKind discriminates the result of classifying one checklist line.
type lineKind int

const (
	lineOther lineKind = iota
	linePhase
	lineTask
)

// classifyLine decides which of the two recognized shapes a line has.
// For linePhase, phase holds the trimmed title. For lineTask, task holds
// the parsed record without phase context (the caller owns that).
func classifyLine(line string) (kind lineKind, phase string, task Task) {
	if m := phaseRe.FindStringSubmatch(line); m != nil {
		return linePhase, strings.TrimSpace(m[2]), Task{}
	}
	if m := taskRe.FindStringSubmatch(line); m != nil {
		return lineTask, "", Task{
			ID:          m[2],
			Description: strings.TrimSpace(m[4]),
			Story:       m[3],
			Parallel:    strings.Contains(line, parallelTag),
			Completed:   m[1] == "x" || m[1] == "X",
		}
	}
	return lineOther, "", Task{}
}

// Parse converts checklist text into an ordered sequence of task records.
// It is a pure function of its input: identical text yields identical
// output on every call. Malformed lines are skipped, never reported.
// Empty input yields an empty sequence.
func Parse(text string) []Task {
	var tasks []Task
	currentPhase := ""

	for _, line := range strings.Split(text, "\n") {
		switch kind, phase, task := classifyLine(line); kind {
		case linePhase:
			currentPhase = phase
		case lineTask:
			task.Phase = currentPhase
			tasks = append(tasks, task)
		}
	}

	return tasks
}

// ParseFile reads and parses the checklist at path. The only failure
// mode is the read itself; parsing never errors.
func ParseFile(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading checklist %s: %w", path, err)
	}
	return Parse(string(data)), nil
}
