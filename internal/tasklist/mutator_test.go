package tasklist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// --- MarkComplete ---

func TestMarkComplete_FlipsOnlyTargetCheckbox(t *testing.T) {
	out, changed, err := MarkComplete(sampleChecklist, "T001")
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}
	if !strings.Contains(out, "- [x] T001 Initial setup") {
		t.Errorf("T001 not marked complete:\n%s", out)
	}
	// Every other line is byte-identical.
	want := strings.Replace(sampleChecklist, "- [ ] T001", "- [x] T001", 1)
	if out != want {
		t.Errorf("document changed beyond the T001 checkbox:\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestMarkComplete_MutationLocality(t *testing.T) {
	text := "- [ ] T001 One\n- [ ] T002 Two [P] [US3] tail  spacing \n- [X] T003 Three\n"
	out, changed, err := MarkComplete(text, "T002")
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}

	gotLines := strings.Split(out, "\n")
	wantLines := strings.Split(text, "\n")
	if gotLines[0] != wantLines[0] {
		t.Errorf("T001 line altered: %q", gotLines[0])
	}
	if gotLines[1] != "- [x] T002 Two [P] [US3] tail  spacing " {
		t.Errorf("T002 line = %q, want only the checkbox changed", gotLines[1])
	}
	if gotLines[2] != wantLines[2] {
		t.Errorf("T003 line altered: %q", gotLines[2])
	}
}

func TestMarkComplete_RoundTrip(t *testing.T) {
	out, _, err := MarkComplete(sampleChecklist, "T001")
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}

	tasks := Parse(out)
	if !tasks[0].Completed {
		t.Error("reparse shows T001 incomplete after mutation")
	}
	open := Incomplete(tasks)
	if len(open) != 1 || open[0].ID != "T003" {
		t.Errorf("incomplete after mutation = %v, want just T003", open)
	}

	// Re-marking is a byte-level no-op.
	again, changed, err := MarkComplete(out, "T001")
	if err != nil {
		t.Fatalf("second MarkComplete: %v", err)
	}
	if changed {
		t.Error("second mark reported changed = true")
	}
	if again != out {
		t.Error("second mark altered document bytes")
	}
}

func TestMarkComplete_AlreadyCompleteKeepsUppercaseMarker(t *testing.T) {
	out, changed, err := MarkComplete("- [X] T002 Done\n", "T002")
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if changed {
		t.Error("changed = true for already-complete task")
	}
	if !strings.Contains(out, "- [X] T002") {
		t.Errorf("existing X marker rewritten: %q", out)
	}
}

func TestMarkComplete_UnknownIDIsSilentNoOp(t *testing.T) {
	out, changed, err := MarkComplete(sampleChecklist, "T999")
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if changed {
		t.Error("changed = true for unknown id")
	}
	if out != sampleChecklist {
		t.Error("document altered for unknown id")
	}
}

func TestMarkComplete_FirstDuplicateWins(t *testing.T) {
	text := "- [ ] T001 First copy\n- [ ] T001 Second copy\n"
	out, changed, err := MarkComplete(text, "T001")
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}
	if out != "- [x] T001 First copy\n- [ ] T001 Second copy\n" {
		t.Errorf("wrong line mutated:\n%s", out)
	}
}

func TestMarkComplete_NoPrefixCollision(t *testing.T) {
	// T001 must not match T0012.
	text := "- [ ] T0012 Longer id\n- [ ] T001 Exact id\n"
	out, _, err := MarkComplete(text, "T001")
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if out != "- [ ] T0012 Longer id\n- [x] T001 Exact id\n" {
		t.Errorf("prefix collision:\n%s", out)
	}
}

func TestMarkComplete_EmptyIDIsCallerError(t *testing.T) {
	for _, id := range []string{"", "   ", "\t"} {
		if _, _, err := MarkComplete(sampleChecklist, id); err == nil {
			t.Errorf("MarkComplete(%q) should fail before any work", id)
		}
	}
}

// --- MarkCompleteFile ---

func TestMarkCompleteFile_PersistsRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.md")
	if err := os.WriteFile(path, []byte(sampleChecklist), 0o644); err != nil {
		t.Fatal(err)
	}

	changed, err := MarkCompleteFile(path, "T003")
	if err != nil {
		t.Fatalf("MarkCompleteFile: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}

	tasks, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !tasks[2].Completed {
		t.Error("T003 not persisted as complete")
	}
}

func TestMarkCompleteFile_EmptyIDBeforeIO(t *testing.T) {
	// The path doesn't exist; validation must fire first.
	_, err := MarkCompleteFile(filepath.Join(t.TempDir(), "absent.md"), "  ")
	if err == nil || !strings.Contains(err.Error(), "task id") {
		t.Errorf("want task id validation error, got %v", err)
	}
}

func TestMarkCompleteFile_MissingFile(t *testing.T) {
	_, err := MarkCompleteFile(filepath.Join(t.TempDir(), "absent.md"), "T001")
	if err == nil {
		t.Fatal("expected read error for missing checklist")
	}
}
