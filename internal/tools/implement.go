package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/tasklist"
)

// ImplementTool handles the flow_implement MCP tool.
// It lists what's left on the checklist, grouped by phase, with
// parallel-safe tasks flagged.
type ImplementTool struct {
	states state.Store
}

// NewImplementTool creates an ImplementTool with the given state store.
func NewImplementTool(states state.Store) *ImplementTool {
	return &ImplementTool{states: states}
}

// Definition returns the MCP tool definition for registration.
func (t *ImplementTool) Definition() mcp.Tool {
	return mcp.NewTool("flow_implement",
		mcp.WithDescription(
			"List the incomplete tasks for a feature, in checklist order, "+
				"grouped by phase. Tasks marked [P] can run in parallel with "+
				"their neighbors. Mark finished tasks with flow_complete_task.",
		),
		mcp.WithString("feature_dir",
			mcp.Description("Feature directory (name under specs/ or absolute path). Defaults to the latest feature."),
		),
		mcp.WithString("project_root",
			mcp.Description("Project root directory. Defaults to auto-discovery from cwd."),
		),
	)
}

// Handle processes the flow_implement tool call.
func (t *ImplementTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	engine, closeJournal, err := newEngine(root, cfg, t.states)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer closeJournal()

	remaining, err := engine.RemainingTasks(featureDir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Record progress without touching the journal — nothing finished.
	if _, err := t.states.Update(featureDir, state.StepImplement, state.StepData{
		"remaining": len(remaining),
	}); err != nil {
		return nil, err
	}

	if len(remaining) == 0 {
		return mcp.NewToolResultText(
			"# Nothing left to implement\n\n" +
				"Every checklist task is complete. Run `flow_review` to close " +
				"out the feature.",
		), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %d task(s) remaining\n", len(remaining))
	phase := ""
	for _, task := range remaining {
		if task.Phase != phase {
			phase = task.Phase
			fmt.Fprintf(&sb, "\n## %s\n", phase)
		}
		sb.WriteString(formatTaskLine(task))
	}
	sb.WriteString("\nWork the tasks in order (parallel-safe ones marked [P]), " +
		"calling `flow_complete_task` after each.")
	return mcp.NewToolResultText(sb.String()), nil
}

// formatTaskLine renders one task for human display.
func formatTaskLine(task tasklist.Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- %s", task.ID)
	if task.Parallel {
		sb.WriteString(" [P]")
	}
	if task.Story != "" {
		fmt.Fprintf(&sb, " [%s]", task.Story)
	}
	fmt.Fprintf(&sb, " %s\n", task.Description)
	return sb.String()
}
