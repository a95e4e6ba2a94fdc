package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/nmorales-dev/flowspec/internal/state"
)

// CompleteTaskTool handles the flow_complete_task MCP tool.
// It flips one checklist checkbox and reports what's left.
type CompleteTaskTool struct {
	states state.Store
}

// NewCompleteTaskTool creates a CompleteTaskTool with the given state store.
func NewCompleteTaskTool(states state.Store) *CompleteTaskTool {
	return &CompleteTaskTool{states: states}
}

// Definition returns the MCP tool definition for registration.
func (t *CompleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("flow_complete_task",
		mcp.WithDescription(
			"Mark one task complete in the feature's tasks.md. Only the "+
				"checkbox of the first matching task line changes; the rest of "+
				"the file is preserved byte for byte. An unknown or already "+
				"complete task id is reported but is not an error.",
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Task identifier from the checklist, e.g. T003"),
		),
		mcp.WithString("feature_dir",
			mcp.Description("Feature directory (name under specs/ or absolute path). Defaults to the latest feature."),
		),
		mcp.WithString("project_root",
			mcp.Description("Project root directory. Defaults to auto-discovery from cwd."),
		),
	)
}

// Handle processes the flow_complete_task tool call.
func (t *CompleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("task_id", "")
	if taskID == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

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

	changed, remaining, err := engine.CompleteTask(featureDir, taskID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status := fmt.Sprintf("Marked %s complete.", taskID)
	if !changed {
		status = fmt.Sprintf("%s did not change the checklist — no matching open task.", taskID)
	}
	next := fmt.Sprintf("%d task(s) remaining — `flow_implement` lists them.", remaining)
	if remaining == 0 {
		next = "The checklist is done. Run `flow_review` to close out the feature."
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", status, next)), nil
}
