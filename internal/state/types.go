// Package state persists workflow orchestration progress, one JSON
// document per feature directory.
//
// The document records the most recently updated pipeline step, a
// free-form status payload per step, and feature metadata. It is read
// and rewritten whole on every update — no append log, no versioning,
// no locking. Two callers racing on the same feature directory lose one
// writer's change (last write wins); that is an accepted limitation.
package state

import "fmt"

// --- Step enum ---

// Step identifies one stage of the feature pipeline.
type Step string

const (
	StepSpecify   Step = "specify"
	StepClarify   Step = "clarify"
	StepPlan      Step = "plan"
	StepTasks     Step = "tasks"
	StepImplement Step = "implement"
	StepReview    Step = "review"
	StepComplete  Step = "complete"
)

// validSteps is the set of allowed step names.
var validSteps = map[Step]bool{
	StepSpecify:   true,
	StepClarify:   true,
	StepPlan:      true,
	StepTasks:     true,
	StepImplement: true,
	StepReview:    true,
	StepComplete:  true,
}

// ValidateStep returns an error if the step is not recognized.
func ValidateStep(s Step) error {
	if !validSteps[s] {
		return fmt.Errorf("invalid step %q: must be one of: specify, clarify, plan, tasks, implement, review, complete", s)
	}
	return nil
}

// --- Step payloads ---

// completedKey is forced to true on every step update. There is no way
// to record a step as merged-but-incomplete.
const completedKey = "completed"

// StepData is the free-form status payload for one step. Payloads are
// step-specific (counts, paths, artifact lists) and are never validated
// against a fixed schema beyond being merge-able key/value data.
type StepData map[string]any

// Completed reports whether the payload carries completed == true.
func (d StepData) Completed() bool {
	v, ok := d[completedKey].(bool)
	return ok && v
}

// mergeStepData shallow-merges partial into a copy of prev: keys present
// in partial overwrite, keys absent from partial are preserved, and
// completed is always forced to true.
func mergeStepData(prev, partial StepData) StepData {
	merged := make(StepData, len(prev)+len(partial)+1)
	for k, v := range prev {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	merged[completedKey] = true
	return merged
}

// --- State document ---

// Metadata holds free-form feature information.
type Metadata struct {
	StartedAt          string `json:"startedAt,omitempty"`
	CompletedAt        string `json:"completedAt,omitempty"`
	FeatureDescription string `json:"featureDescription,omitempty"`
}

// State is the persisted workflow record for one feature directory.
type State struct {
	// FeatureDir is the owning directory, immutable once initialized.
	FeatureDir string `json:"featureDir"`

	// CurrentStep is the step of the most recent update call — not
	// necessarily the furthest-progressed step. Updating an earlier
	// step after a later one regresses it.
	CurrentStep Step `json:"currentStep"`

	StepStatus map[Step]StepData `json:"stepStatus"`
	Metadata   Metadata          `json:"metadata"`
}
