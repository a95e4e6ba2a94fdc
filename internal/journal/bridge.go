package journal

import (
	"log"
	"path/filepath"

	"github.com/nmorales-dev/flowspec/internal/state"
)

// Recorder adapts a journal Store to the workflow engine's observer
// interface. It is best-effort: append failures are logged to stderr
// but never propagate — pipeline progress is the primary concern.
type Recorder struct {
	store *Store
}

// NewRecorder creates a Recorder. Returns nil if store is nil —
// callers pass the result straight through as an optional observer.
func NewRecorder(store *Store) *Recorder {
	if store == nil {
		return nil
	}
	return &Recorder{store: store}
}

// OnStepComplete appends a step_complete event.
func (r *Recorder) OnStepComplete(featureDir string, step state.Step, detail string) {
	_, err := r.store.Append(Event{
		Feature: filepath.Base(featureDir),
		Kind:    KindStepComplete,
		Step:    string(step),
		Detail:  detail,
	})
	if err != nil {
		log.Printf("journal: recording %s for %s failed: %v", step, featureDir, err)
	}
}

// OnTaskComplete appends a task_complete event.
func (r *Recorder) OnTaskComplete(featureDir, taskID string) {
	_, err := r.store.Append(Event{
		Feature: filepath.Base(featureDir),
		Kind:    KindTaskComplete,
		Detail:  taskID,
	})
	if err != nil {
		log.Printf("journal: recording task %s for %s failed: %v", taskID, featureDir, err)
	}
}
