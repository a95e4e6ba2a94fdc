package templates

import (
	"strings"
	"testing"

	"github.com/nmorales-dev/flowspec/internal/tasklist"
)

// --- NewRenderer ---

func TestNewRenderer_Succeeds(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() failed: %v", err)
	}
	if r == nil {
		t.Fatal("NewRenderer() returned nil")
	}
}

// --- Render: Spec ---

func TestRender_Spec(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	result, err := r.Render(Spec, SpecData{
		FeatureName: "Dark Mode",
		Branch:      "004-dark-mode",
		Description: "Add a dark color scheme",
		CreatedAt:   "2026-08-30",
	})
	if err != nil {
		t.Fatalf("Render(Spec) failed: %v", err)
	}

	checks := []string{
		"# Feature Specification: Dark Mode",
		"`004-dark-mode`",
		"Add a dark color scheme",
		"## Requirements",
		"[NEEDS CLARIFICATION",
		"## Out of Scope",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("Spec output missing: %q", check)
		}
	}
}

// --- Render: Plan ---

func TestRender_Plan(t *testing.T) {
	r, _ := NewRenderer()

	result, err := r.Render(Plan, PlanData{
		FeatureName: "Dark Mode",
		Branch:      "004-dark-mode",
		Stack:       []string{"Go (go.mod)", "Docker Compose"},
	})
	if err != nil {
		t.Fatalf("Render(Plan) failed: %v", err)
	}

	for _, check := range []string{"# Implementation Plan: Dark Mode", "- Go (go.mod)", "- Docker Compose"} {
		if !strings.Contains(result, check) {
			t.Errorf("Plan output missing: %q", check)
		}
	}
}

func TestRender_PlanEmptyStack(t *testing.T) {
	r, _ := NewRenderer()

	result, err := r.Render(Plan, PlanData{FeatureName: "X", Branch: "001-x"})
	if err != nil {
		t.Fatalf("Render(Plan) failed: %v", err)
	}
	if !strings.Contains(result, "No known stack files found") {
		t.Error("empty stack should render the manual fallback")
	}
}

// --- Render: Tasks ---

// The tasks scaffold must emit lines the checklist parser recognizes —
// the two packages share the grammar.
func TestRender_TasksIsParseable(t *testing.T) {
	r, _ := NewRenderer()

	result, err := r.Render(Tasks, TasksData{
		FeatureName: "Dark Mode",
		Phases: []PhaseData{
			{Number: 1, Title: "Setup", Tasks: []TaskLine{
				{ID: "T001", Description: "Add theme toggle"},
				{ID: "T002", Description: "Persist preference", Parallel: true, Story: "US1"},
			}},
			{Number: 2, Title: "Polish", Tasks: []TaskLine{
				{ID: "T003", Description: "Tune contrast"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("Render(Tasks) failed: %v", err)
	}

	tasks := tasklist.Parse(result)
	if len(tasks) != 3 {
		t.Fatalf("parser found %d tasks in rendered scaffold, want 3\n%s", len(tasks), result)
	}
	if tasks[0].Phase != "Setup" || tasks[2].Phase != "Polish" {
		t.Errorf("phases = %q/%q, want Setup/Polish", tasks[0].Phase, tasks[2].Phase)
	}
	if !tasks[1].Parallel || tasks[1].Story != "US1" {
		t.Errorf("T002 tags lost in rendering: %+v", tasks[1])
	}
	for _, task := range tasks {
		if task.Completed {
			t.Errorf("fresh scaffold task %s rendered as complete", task.ID)
		}
	}
}

// --- Unknown template ---

func TestRender_UnknownName(t *testing.T) {
	r, _ := NewRenderer()
	if _, err := r.Render(Name("bogus"), nil); err == nil {
		t.Error("unknown template name should fail")
	}
}
