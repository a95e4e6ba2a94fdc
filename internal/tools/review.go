package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/workflow"
)

// ReviewTool handles the flow_review MCP tool.
// It is the final gate: verifies artifacts and the checklist, then
// moves the feature to the terminal complete step.
type ReviewTool struct {
	states state.Store
}

// NewReviewTool creates a ReviewTool with the given state store.
func NewReviewTool(states state.Store) *ReviewTool {
	return &ReviewTool{states: states}
}

// Definition returns the MCP tool definition for registration.
func (t *ReviewTool) Definition() mcp.Tool {
	return mcp.NewTool("flow_review",
		mcp.WithDescription(
			"Review and close out a feature. Verifies that spec.md, plan.md "+
				"and tasks.md exist, that the spec has no open clarification "+
				"markers, and that every task is checked off — then marks the "+
				"feature complete. Fails the review with a findings list otherwise.",
		),
		mcp.WithString("feature_dir",
			mcp.Description("Feature directory (name under specs/ or absolute path). Defaults to the latest feature."),
		),
		mcp.WithString("project_root",
			mcp.Description("Project root directory. Defaults to auto-discovery from cwd."),
		),
	)
}

// Handle processes the flow_review tool call.
func (t *ReviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	var findings []string

	for _, name := range []string{SpecFile, PlanFile, workflow.TasksFile} {
		content, err := readArtifact(filepath.Join(featureDir, name))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if content == "" {
			findings = append(findings, fmt.Sprintf("%s is missing or empty", name))
		}
	}

	report, err := workflow.ScanClarityFile(filepath.Join(featureDir, SpecFile))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !report.Passed {
		findings = append(findings, fmt.Sprintf("spec.md still has %d open clarification marker(s)", len(report.Questions)))
	}

	remaining, err := engine.RemainingTasks(featureDir)
	if err == nil && len(remaining) > 0 {
		findings = append(findings, fmt.Sprintf("%d checklist task(s) incomplete", len(remaining)))
	}

	if len(findings) > 0 {
		var sb strings.Builder
		sb.WriteString("# Review failed\n\n")
		for _, f := range findings {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
		sb.WriteString("\nFix the findings and run `flow_review` again.")
		return mcp.NewToolResultText(sb.String()), nil
	}

	if _, err := engine.CompleteStep(featureDir, state.StepReview, nil, "review passed"); err != nil {
		return nil, err
	}
	if _, err := engine.Finish(featureDir); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Feature %s complete 🎉\n\n"+
			"All artifacts present, no open questions, checklist done. "+
			"The workflow state is now terminal.",
		filepath.Base(featureDir),
	)), nil
}
