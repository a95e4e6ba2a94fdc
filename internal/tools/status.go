package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nmorales-dev/flowspec/internal/journal"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/tasklist"
	"github.com/nmorales-dev/flowspec/internal/workflow"
)

// StatusTool handles the flow_status MCP tool.
// It is read-only: current step, per-step status, checklist progress,
// and recent journal history.
type StatusTool struct {
	states state.Store
}

// NewStatusTool creates a StatusTool with the given state store.
func NewStatusTool(states state.Store) *StatusTool {
	return &StatusTool{states: states}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("flow_status",
		mcp.WithDescription(
			"Show where a feature is in the pipeline: current step, which "+
				"steps are done, checklist progress, the suggested next step, "+
				"and recent journal events. Read-only.",
		),
		mcp.WithString("feature_dir",
			mcp.Description("Feature directory (name under specs/ or absolute path). Defaults to the latest feature."),
		),
		mcp.WithString("project_root",
			mcp.Description("Project root directory. Defaults to auto-discovery from cwd."),
		),
	)
}

// Handle processes the flow_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	st, err := t.states.Read(featureDir)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Feature %s\n\n", filepath.Base(featureDir))

	if st == nil {
		sb.WriteString("No workflow state yet. Run `flow_specify` to start the pipeline.\n")
		return mcp.NewToolResultText(sb.String()), nil
	}

	if st.Metadata.FeatureDescription != "" {
		fmt.Fprintf(&sb, "%s\n\n", st.Metadata.FeatureDescription)
	}

	sb.WriteString("## Pipeline\n")
	for _, step := range workflow.PipelineOrder {
		mark := "[ ]"
		if st.StepStatus[step].Completed() {
			mark = "[x]"
		}
		pointer := ""
		if step == st.CurrentStep {
			pointer = "  ← current"
		}
		fmt.Fprintf(&sb, "- %s %s%s\n", mark, step, pointer)
	}
	if st.CurrentStep == state.StepComplete {
		sb.WriteString("\nThe feature is **complete**.\n")
	}

	if tasks, err := tasklist.ParseFile(workflow.TasksPath(featureDir)); err == nil && len(tasks) > 0 {
		open := tasklist.Incomplete(tasks)
		fmt.Fprintf(&sb, "\n## Checklist\n%d/%d tasks done", len(tasks)-len(open), len(tasks))
		if len(open) > 0 {
			fmt.Fprintf(&sb, " — next up: %s %s", open[0].ID, open[0].Description)
		}
		sb.WriteString("\n")
	}

	t.appendJournal(&sb, root, cfg, featureDir)

	engine := workflow.NewEngine(t.states, nil)
	if next, err := engine.Resume(featureDir); err == nil && next != state.StepComplete {
		fmt.Fprintf(&sb, "\nNext step: `flow_%s`\n", next)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// appendJournal adds journal stats and the recent timeline when the
// project has the journal enabled. Journal trouble never fails status.
func (t *StatusTool) appendJournal(sb *strings.Builder, root string, cfg *settings.Settings, featureDir string) {
	path := cfg.JournalFile(root)
	if path == "" {
		return
	}
	js, err := journal.Open(path)
	if err != nil {
		return
	}
	defer func() { _ = js.Close() }()

	feature := filepath.Base(featureDir)
	stats, err := js.Stats(feature)
	if err != nil || (stats.StepsCompleted == 0 && stats.TasksCompleted == 0) {
		return
	}

	fmt.Fprintf(sb, "\n## History\n%d step(s) and %d task(s) recorded", stats.StepsCompleted, stats.TasksCompleted)
	if stats.LastEventAt != "" {
		fmt.Fprintf(sb, ", last activity %s", stats.LastEventAt)
	}
	sb.WriteString("\n")

	events, err := js.Timeline(feature, 5)
	if err != nil {
		return
	}
	for _, e := range events {
		label := e.Step
		if label == "" {
			label = e.Detail
		}
		fmt.Fprintf(sb, "- %s %s %s\n", e.CreatedAt, e.Kind, label)
	}
}
