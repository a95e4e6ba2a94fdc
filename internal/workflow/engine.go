package workflow

import (
	"fmt"
	"path/filepath"

	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/tasklist"
)

// TasksFile is the checklist artifact inside a feature directory.
const TasksFile = "tasks.md"

// Observer is notified when pipeline progress is made. It's an optional
// dependency — the engine works fine with a nil observer, and observer
// failures never fail the pipeline.
type Observer interface {
	// OnStepComplete is called after a step's state update has been
	// persisted. detail is a short human-readable summary.
	OnStepComplete(featureDir string, step state.Step, detail string)

	// OnTaskComplete is called after a checklist task has been marked
	// complete and written back.
	OnTaskComplete(featureDir, taskID string)
}

// Engine coordinates the state store, the task checklist, and an
// optional progress observer for one or more feature directories.
type Engine struct {
	states   state.Store
	observer Observer
}

// NewEngine creates an Engine. observer may be nil.
func NewEngine(states state.Store, observer Observer) *Engine {
	return &Engine{states: states, observer: observer}
}

// TasksPath returns the checklist location for a feature directory.
func TasksPath(featureDir string) string {
	return filepath.Join(featureDir, TasksFile)
}

// Start resets the feature to the beginning of the pipeline.
func (e *Engine) Start(featureDir, description string) (*state.State, error) {
	return e.states.Initialize(featureDir, description)
}

// CompleteStep records a finished step: currentStep moves to step, the
// partial data merges into that step's status, completed is forced
// true, and the observer is notified.
func (e *Engine) CompleteStep(featureDir string, step state.Step, data state.StepData, detail string) (*state.State, error) {
	st, err := e.states.Update(featureDir, step, data)
	if err != nil {
		return nil, err
	}
	if e.observer != nil {
		e.observer.OnStepComplete(featureDir, step, detail)
	}
	return st, nil
}

// Resume returns the step a caller should run next for featureDir:
// specify when no state exists, the recorded step while it is still
// incomplete, and otherwise the step after it.
func (e *Engine) Resume(featureDir string) (state.Step, error) {
	st, err := e.states.Read(featureDir)
	if err != nil {
		return "", err
	}
	if st == nil {
		return state.StepSpecify, nil
	}
	if st.CurrentStep == state.StepComplete {
		return state.StepComplete, nil
	}
	if !st.StepStatus[st.CurrentStep].Completed() {
		return st.CurrentStep, nil
	}
	// The implement step is only really done when the checklist agrees;
	// its status records completed=true after every task update.
	if st.CurrentStep == state.StepImplement {
		done, err := e.ImplementDone(featureDir)
		if err != nil {
			return "", err
		}
		if !done {
			return state.StepImplement, nil
		}
	}
	next, ok := Next(st.CurrentStep)
	if !ok {
		return "", fmt.Errorf("state for %s records unknown step %q", featureDir, st.CurrentStep)
	}
	return next, nil
}

// RemainingTasks reparses the checklist and returns the incomplete
// tasks in document order.
func (e *Engine) RemainingTasks(featureDir string) ([]tasklist.Task, error) {
	tasks, err := tasklist.ParseFile(TasksPath(featureDir))
	if err != nil {
		return nil, err
	}
	return tasklist.Incomplete(tasks), nil
}

// ImplementDone reports whether the implement step has nothing left to
// do — every checklist task is marked complete.
func (e *Engine) ImplementDone(featureDir string) (bool, error) {
	remaining, err := e.RemainingTasks(featureDir)
	if err != nil {
		return false, err
	}
	return len(remaining) == 0, nil
}

// CompleteTask marks one checklist task complete and records implement
// progress in the state store. changed is false when the id matched no
// line or the task was already complete; that is tolerated, not an
// error — the checklist may have drifted from what the caller expected.
func (e *Engine) CompleteTask(featureDir, taskID string) (changed bool, remaining int, err error) {
	changed, err = tasklist.MarkCompleteFile(TasksPath(featureDir), taskID)
	if err != nil {
		return false, 0, err
	}

	left, err := e.RemainingTasks(featureDir)
	if err != nil {
		return changed, 0, err
	}

	if _, err := e.states.Update(featureDir, state.StepImplement, state.StepData{
		"lastTask":  taskID,
		"remaining": len(left),
	}); err != nil {
		return changed, len(left), err
	}

	if changed && e.observer != nil {
		e.observer.OnTaskComplete(featureDir, taskID)
	}
	return changed, len(left), nil
}

// Finish moves the feature to the terminal complete step. It refuses to
// finish while checklist tasks remain open.
func (e *Engine) Finish(featureDir string) (*state.State, error) {
	remaining, err := e.RemainingTasks(featureDir)
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		return nil, fmt.Errorf("cannot finish %s: %d tasks still incomplete", featureDir, len(remaining))
	}
	return e.CompleteStep(featureDir, state.StepComplete, nil, "feature complete")
}
