package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/tasklist"
	"github.com/nmorales-dev/flowspec/internal/templates"
	"github.com/nmorales-dev/flowspec/internal/workflow"
)

// TasksTool handles the flow_tasks MCP tool.
// It scaffolds tasks.md when missing and records the checklist size.
type TasksTool struct {
	states   state.Store
	renderer templates.Renderer
}

// NewTasksTool creates a TasksTool with its dependencies.
func NewTasksTool(states state.Store, renderer templates.Renderer) *TasksTool {
	return &TasksTool{states: states, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *TasksTool) Definition() mcp.Tool {
	return mcp.NewTool("flow_tasks",
		mcp.WithDescription(
			"Create the task checklist for a feature. Writes a tasks.md "+
				"scaffold with the standard phase layout if none exists, then "+
				"parses the checklist and records its size. Edit tasks.md to "+
				"match the plan before moving on to flow_implement.",
		),
		mcp.WithString("feature_dir",
			mcp.Description("Feature directory (name under specs/ or absolute path). Defaults to the latest feature."),
		),
		mcp.WithString("project_root",
			mcp.Description("Project root directory. Defaults to auto-discovery from cwd."),
		),
	)
}

// scaffold is the starter checklist written when tasks.md is absent.
// Every line follows the grammar the parser accepts, so the file is
// immediately usable and editable.
func (t *TasksTool) scaffold(featureName string) (string, error) {
	return t.renderer.Render(templates.Tasks, templates.TasksData{
		FeatureName: featureName,
		Phases: []templates.PhaseData{
			{Number: 1, Title: "Setup", Tasks: []templates.TaskLine{
				{ID: "T001", Description: "Prepare project scaffolding for the feature"},
			}},
			{Number: 2, Title: "Core", Tasks: []templates.TaskLine{
				{ID: "T002", Description: "Implement the main behavior described in the spec"},
				{ID: "T003", Description: "Add tests covering the acceptance scenarios", Parallel: true},
			}},
			{Number: 3, Title: "Polish", Tasks: []templates.TaskLine{
				{ID: "T004", Description: "Update documentation and clean up"},
			}},
		},
	})
}

// Handle processes the flow_tasks tool call.
func (t *TasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	tasksPath := workflow.TasksPath(featureDir)
	created := false
	if _, err := os.Stat(tasksPath); os.IsNotExist(err) {
		content, err := t.scaffold(filepath.Base(featureDir))
		if err != nil {
			return nil, err
		}
		if err := writeArtifact(tasksPath, content); err != nil {
			return nil, err
		}
		created = true
	}

	tasks, err := tasklist.ParseFile(tasksPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	remaining := tasklist.Incomplete(tasks)

	engine, closeJournal, err := newEngine(root, cfg, t.states)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer closeJournal()

	if _, err := engine.CompleteStep(featureDir, state.StepTasks, state.StepData{
		"tasksPath": tasksPath,
		"taskCount": len(tasks),
	}, fmt.Sprintf("%d tasks", len(tasks))); err != nil {
		return nil, err
	}

	action := "Parsed existing checklist"
	if created {
		action = "Wrote checklist scaffold"
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"# Task checklist ready\n\n"+
			"%s at `%s`: %d task(s), %d incomplete.\n\n"+
			"Adjust the checklist to match the plan, then run `flow_implement` "+
			"to start working through it.",
		action, tasksPath, len(tasks), len(remaining),
	)), nil
}
