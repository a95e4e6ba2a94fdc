package workflow

import (
	"fmt"
	"os"
	"strings"
)

// --- Clarity gate ---
//
// The specify step embeds a literal marker wherever the feature
// description leaves a decision open. The clarify step scans the spec
// artifact for those markers; the gate passes only when none remain.

// ClarificationMarker is the open-decision tag as written by the spec
// template. Matched as a prefix so both "[NEEDS CLARIFICATION]" and
// "[NEEDS CLARIFICATION: which auth provider?]" count.
const ClarificationMarker = "[NEEDS CLARIFICATION"

// OpenQuestion is one unresolved marker found in a spec artifact.
type OpenQuestion struct {
	// Line is the 1-based line number of the marker.
	Line int `json:"line"`
	// Text is the full trimmed line carrying the marker.
	Text string `json:"text"`
}

// ClarityReport summarizes how unambiguous a spec artifact is.
type ClarityReport struct {
	Questions []OpenQuestion `json:"questions"`
	// Score is 100 with no open questions, dropping 15 per marker
	// (floored at 0). Informational — the gate keys on Passed.
	Score  int  `json:"score"`
	Passed bool `json:"passed"`
}

// ScanClarity inspects spec text for clarification markers.
func ScanClarity(text string) ClarityReport {
	var questions []OpenQuestion
	for i, line := range strings.Split(text, "\n") {
		if strings.Contains(line, ClarificationMarker) {
			questions = append(questions, OpenQuestion{
				Line: i + 1,
				Text: strings.TrimSpace(line),
			})
		}
	}

	score := 100 - 15*len(questions)
	if score < 0 {
		score = 0
	}
	return ClarityReport{
		Questions: questions,
		Score:     score,
		Passed:    len(questions) == 0,
	}
}

// ScanClarityFile runs ScanClarity over the artifact at path.
func ScanClarityFile(path string) (ClarityReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ClarityReport{}, fmt.Errorf("reading spec %s: %w", path, err)
	}
	return ScanClarity(string(data)), nil
}
