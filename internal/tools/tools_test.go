package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/templates"
)

// --- Test helpers ---

func mustRenderer(t *testing.T) templates.Renderer {
	t.Helper()
	r, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

// setupProject creates a temp project root with the journal disabled,
// so tool tests exercise the pipeline without touching SQLite.
func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	cfgYAML := "journal:\n  enabled: false\n"
	if err := os.WriteFile(filepath.Join(root, ".flowspec.yaml"), []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("setup: write config: %v", err)
	}
	return root
}

// toolReq builds a CallToolRequest with the given arguments.
func toolReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// specifyFeature runs flow_specify and returns the created feature dir.
func specifyFeature(t *testing.T, root, description string) string {
	t.Helper()
	tool := NewSpecifyTool(state.NewFileStore(), mustRenderer(t))
	result, err := tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"description":  description,
		"project_root": root,
	}))
	if err != nil {
		t.Fatalf("flow_specify: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("flow_specify error: %s", getResultText(result))
	}

	entries, err := os.ReadDir(filepath.Join(root, "specs"))
	if err != nil || len(entries) == 0 {
		t.Fatalf("no feature dir created: %v", err)
	}
	return filepath.Join(root, "specs", entries[len(entries)-1].Name())
}

// clearSpec rewrites the feature spec without clarification markers.
func clearSpec(t *testing.T, featureDir string) {
	t.Helper()
	content := "# Spec\n\nEverything is decided.\n"
	if err := os.WriteFile(filepath.Join(featureDir, SpecFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// --- SpecifyTool ---

func TestSpecifyTool_Handle_CreatesFeature(t *testing.T) {
	root := setupProject(t)
	featureDir := specifyFeature(t, root, "Add dark mode toggle")

	if !strings.HasPrefix(filepath.Base(featureDir), "001-") {
		t.Errorf("feature dir = %s, want 001- prefix", featureDir)
	}

	spec, err := os.ReadFile(filepath.Join(featureDir, SpecFile))
	if err != nil {
		t.Fatalf("spec.md not written: %v", err)
	}
	if !strings.Contains(string(spec), "Add dark mode toggle") {
		t.Error("spec should carry the feature description")
	}

	st, err := state.NewFileStore().Read(featureDir)
	if err != nil || st == nil {
		t.Fatalf("state not initialized: %v", err)
	}
	if st.CurrentStep != state.StepSpecify {
		t.Errorf("currentStep = %s, want specify", st.CurrentStep)
	}
	if !st.StepStatus[state.StepSpecify].Completed() {
		t.Error("specify step should be recorded complete")
	}
}

func TestSpecifyTool_Handle_MissingDescription(t *testing.T) {
	tool := NewSpecifyTool(state.NewFileStore(), mustRenderer(t))
	result, err := tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"project_root": setupProject(t),
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("missing description should yield an error result")
	}
}

func TestSpecifyTool_Handle_NumbersFeaturesSequentially(t *testing.T) {
	root := setupProject(t)
	specifyFeature(t, root, "first thing")
	second := specifyFeature(t, root, "second thing")

	if !strings.HasPrefix(filepath.Base(second), "002-") {
		t.Errorf("second feature dir = %s, want 002- prefix", filepath.Base(second))
	}
}

// --- ClarifyTool ---

func TestClarifyTool_Handle_ListsOpenQuestions(t *testing.T) {
	root := setupProject(t)
	featureDir := specifyFeature(t, root, "search feature")

	tool := NewClarifyTool(state.NewFileStore())
	result, err := tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"project_root": root,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "open question") {
		t.Errorf("scaffold spec should fail clarity, got: %s", text)
	}

	st, _ := state.NewFileStore().Read(featureDir)
	if st.CurrentStep != state.StepSpecify {
		t.Errorf("failed clarity should not advance the pipeline, currentStep = %s", st.CurrentStep)
	}
}

func TestClarifyTool_Handle_PassesCleanSpec(t *testing.T) {
	root := setupProject(t)
	featureDir := specifyFeature(t, root, "search feature")
	clearSpec(t, featureDir)

	tool := NewClarifyTool(state.NewFileStore())
	result, err := tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"project_root": root,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(getResultText(result), "passed") {
		t.Errorf("clean spec should pass, got: %s", getResultText(result))
	}

	st, _ := state.NewFileStore().Read(featureDir)
	if st.CurrentStep != state.StepClarify {
		t.Errorf("currentStep = %s, want clarify", st.CurrentStep)
	}
	score, ok := st.StepStatus[state.StepClarify]["clarityScore"]
	if !ok {
		t.Fatal("clarify status should record clarityScore")
	}
	if n, ok := score.(float64); !ok || n != 100 {
		t.Errorf("clarityScore = %v, want 100", score)
	}
}

// --- PlanTool ---

func TestPlanTool_Handle_DetectsStackAndWritesPlan(t *testing.T) {
	root := setupProject(t)
	featureDir := specifyFeature(t, root, "api rate limiting")
	goMod := "module github.com/acme/api\n\ngo 1.25\n"
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte(goMod), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := NewPlanTool(state.NewFileStore(), mustRenderer(t))
	result, err := tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"project_root":      root,
		"technical_context": "must stay backward compatible",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "Go (api)") {
		t.Errorf("result should mention the detected stack, got: %s", getResultText(result))
	}

	plan, err := os.ReadFile(filepath.Join(featureDir, PlanFile))
	if err != nil {
		t.Fatalf("plan.md not written: %v", err)
	}
	if !strings.Contains(string(plan), "must stay backward compatible") {
		t.Error("plan should carry the technical context")
	}

	st, _ := state.NewFileStore().Read(featureDir)
	if !st.StepStatus[state.StepPlan].Completed() {
		t.Error("plan step should be recorded complete")
	}
}

// --- Definitions ---

func TestToolDefinitions_NamesAndRequiredFields(t *testing.T) {
	states := state.NewFileStore()
	renderer := mustRenderer(t)

	cases := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewSpecifyTool(states, renderer).Definition(), "flow_specify", []string{"description"}},
		{NewClarifyTool(states).Definition(), "flow_clarify", nil},
		{NewPlanTool(states, renderer).Definition(), "flow_plan", nil},
		{NewTasksTool(states, renderer).Definition(), "flow_tasks", nil},
		{NewImplementTool(states).Definition(), "flow_implement", nil},
		{NewCompleteTaskTool(states).Definition(), "flow_complete_task", []string{"task_id"}},
		{NewReviewTool(states).Definition(), "flow_review", nil},
		{NewStatusTool(states).Definition(), "flow_status", nil},
		{NewDetectStackTool().Definition(), "flow_detect_stack", nil},
	}
	for _, tc := range cases {
		if tc.def.Name != tc.name {
			t.Errorf("tool name = %q, want %q", tc.def.Name, tc.name)
		}
		for _, want := range tc.required {
			found := false
			for _, got := range tc.def.InputSchema.Required {
				if got == want {
					found = true
				}
			}
			if !found {
				t.Errorf("%s: %q should be a required field", tc.name, want)
			}
		}
	}
}
