package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/techstack"
	"github.com/nmorales-dev/flowspec/internal/templates"
)

// PlanTool handles the flow_plan MCP tool.
// It detects the project's stack and writes the implementation plan.
type PlanTool struct {
	states   state.Store
	renderer templates.Renderer
}

// NewPlanTool creates a PlanTool with its dependencies.
func NewPlanTool(states state.Store, renderer templates.Renderer) *PlanTool {
	return &PlanTool{states: states, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *PlanTool) Definition() mcp.Tool {
	return mcp.NewTool("flow_plan",
		mcp.WithDescription(
			"Write the implementation plan for a feature. Detects the "+
				"project's technology stack from manifest files (go.mod, "+
				"package.json, pyproject.toml, ...) and scaffolds plan.md "+
				"with it. Run after flow_clarify passes.",
		),
		mcp.WithString("technical_context",
			mcp.Description("Extra technical constraints or decisions to record in the plan"),
		),
		mcp.WithString("feature_dir",
			mcp.Description("Feature directory (name under specs/ or absolute path). Defaults to the latest feature."),
		),
		mcp.WithString("project_root",
			mcp.Description("Project root directory. Defaults to auto-discovery from cwd."),
		),
	)
}

// Handle processes the flow_plan tool call.
func (t *PlanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}
	cfg, err := settings.Load(root)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	featureDir, err := resolveFeatureDir(root, cfg, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	detections, err := techstack.Detect(root)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("detecting stack: %v", err)), nil
	}
	stack := techstack.Summary(detections)

	content, err := t.renderer.Render(templates.Plan, templates.PlanData{
		FeatureName:      filepath.Base(featureDir),
		Branch:           filepath.Base(featureDir),
		Stack:            stack,
		TechnicalContext: req.GetString("technical_context", ""),
	})
	if err != nil {
		return nil, err
	}
	planPath := filepath.Join(featureDir, PlanFile)
	if err := writeArtifact(planPath, content); err != nil {
		return nil, err
	}

	engine, closeJournal, err := newEngine(root, cfg, t.states)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer closeJournal()

	if _, err := engine.CompleteStep(featureDir, state.StepPlan, state.StepData{
		"planPath": planPath,
		"stack":    stack,
	}, "plan written"); err != nil {
		return nil, err
	}

	stackLine := "none detected"
	if len(stack) > 0 {
		stackLine = strings.Join(stack, ", ")
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"# Plan written\n\n"+
			"Detected stack: %s\n\n"+
			"Plan scaffold at `%s`. Flesh out the approach, then run "+
			"`flow_tasks` to break the work into a checklist.",
		stackLine, planPath,
	)), nil
}
