package workflow

import (
	"os"
	"testing"

	"github.com/nmorales-dev/flowspec/internal/state"
)

const testChecklist = `# Tasks
## Phase 1: Setup
- [ ] T001 Initial setup
- [ ] T002 Wire config
## Phase 2: Core
- [ ] T003 [P] Build core
`

// --- Helpers ---

type recordingObserver struct {
	steps []string
	tasks []string
}

func (o *recordingObserver) OnStepComplete(featureDir string, step state.Step, detail string) {
	o.steps = append(o.steps, string(step))
}

func (o *recordingObserver) OnTaskComplete(featureDir, taskID string) {
	o.tasks = append(o.tasks, taskID)
}

func newTestEngine(t *testing.T) (*Engine, *recordingObserver, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(TasksPath(dir), []byte(testChecklist), 0o644); err != nil {
		t.Fatal(err)
	}
	obs := &recordingObserver{}
	return NewEngine(state.NewFileStore(), obs), obs, dir
}

// --- Resume ---

func TestResume_UninitializedStartsAtSpecify(t *testing.T) {
	e := NewEngine(state.NewFileStore(), nil)
	step, err := e.Resume(t.TempDir())
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if step != state.StepSpecify {
		t.Errorf("Resume = %s, want specify", step)
	}
}

func TestResume_AdvancesPastCompletedStep(t *testing.T) {
	e, _, dir := newTestEngine(t)
	if _, err := e.CompleteStep(dir, state.StepSpecify, nil, "spec written"); err != nil {
		t.Fatal(err)
	}

	step, err := e.Resume(dir)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if step != state.StepClarify {
		t.Errorf("Resume = %s, want clarify", step)
	}
}

func TestResume_ImplementLoopsWhileTasksRemain(t *testing.T) {
	e, _, dir := newTestEngine(t)
	if _, _, err := e.CompleteTask(dir, "T001"); err != nil {
		t.Fatal(err)
	}

	step, err := e.Resume(dir)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if step != state.StepImplement {
		t.Errorf("Resume = %s, want implement (tasks remain)", step)
	}
}

func TestResume_ImplementMovesOnWhenChecklistDone(t *testing.T) {
	e, _, dir := newTestEngine(t)
	for _, id := range []string{"T001", "T002", "T003"} {
		if _, _, err := e.CompleteTask(dir, id); err != nil {
			t.Fatal(err)
		}
	}

	step, err := e.Resume(dir)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if step != state.StepReview {
		t.Errorf("Resume = %s, want review", step)
	}
}

func TestResume_TerminalState(t *testing.T) {
	e, _, dir := newTestEngine(t)
	for _, id := range []string{"T001", "T002", "T003"} {
		if _, _, err := e.CompleteTask(dir, id); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := e.Finish(dir); err != nil {
		t.Fatal(err)
	}

	step, err := e.Resume(dir)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if step != state.StepComplete {
		t.Errorf("Resume = %s, want complete", step)
	}
}

// --- CompleteTask ---

func TestCompleteTask_UpdatesChecklistAndState(t *testing.T) {
	e, obs, dir := newTestEngine(t)

	changed, remaining, err := e.CompleteTask(dir, "T002")
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}
	if remaining != 2 {
		t.Errorf("remaining = %d, want 2", remaining)
	}
	if len(obs.tasks) != 1 || obs.tasks[0] != "T002" {
		t.Errorf("observer tasks = %v, want [T002]", obs.tasks)
	}

	st, err := state.NewFileStore().Read(dir)
	if err != nil || st == nil {
		t.Fatalf("state read: %v %v", st, err)
	}
	if st.CurrentStep != state.StepImplement {
		t.Errorf("CurrentStep = %s, want implement", st.CurrentStep)
	}
	if st.StepStatus[state.StepImplement]["lastTask"] != "T002" {
		t.Errorf("lastTask = %v, want T002", st.StepStatus[state.StepImplement]["lastTask"])
	}
}

func TestCompleteTask_UnknownIDTolerated(t *testing.T) {
	e, obs, dir := newTestEngine(t)

	changed, remaining, err := e.CompleteTask(dir, "T999")
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if changed {
		t.Error("changed = true for unknown id")
	}
	if remaining != 3 {
		t.Errorf("remaining = %d, want 3", remaining)
	}
	if len(obs.tasks) != 0 {
		t.Errorf("observer notified for a no-op: %v", obs.tasks)
	}
}

// --- ImplementDone / Finish ---

func TestImplementDone(t *testing.T) {
	e, _, dir := newTestEngine(t)

	done, err := e.ImplementDone(dir)
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("ImplementDone = true with open tasks")
	}

	for _, id := range []string{"T001", "T002", "T003"} {
		if _, _, err := e.CompleteTask(dir, id); err != nil {
			t.Fatal(err)
		}
	}

	done, err = e.ImplementDone(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("ImplementDone = false with all tasks marked")
	}
}

func TestFinish_RefusesWithOpenTasks(t *testing.T) {
	e, _, dir := newTestEngine(t)
	if _, err := e.Finish(dir); err == nil {
		t.Error("Finish should fail while tasks remain open")
	}
}

func TestFinish_SetsCompleteStep(t *testing.T) {
	e, obs, dir := newTestEngine(t)
	for _, id := range []string{"T001", "T002", "T003"} {
		if _, _, err := e.CompleteTask(dir, id); err != nil {
			t.Fatal(err)
		}
	}

	st, err := e.Finish(dir)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if st.CurrentStep != state.StepComplete {
		t.Errorf("CurrentStep = %s, want complete", st.CurrentStep)
	}
	if st.Metadata.CompletedAt == "" {
		t.Error("CompletedAt not stamped")
	}
	if len(obs.steps) == 0 || obs.steps[len(obs.steps)-1] != "complete" {
		t.Errorf("observer steps = %v, want trailing complete", obs.steps)
	}
}
