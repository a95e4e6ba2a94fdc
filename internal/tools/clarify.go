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

// ClarifyTool handles the flow_clarify MCP tool.
// It scans the feature spec for open clarification markers and gates
// progression on a clean scan.
type ClarifyTool struct {
	states state.Store
}

// NewClarifyTool creates a ClarifyTool with the given state store.
func NewClarifyTool(states state.Store) *ClarifyTool {
	return &ClarifyTool{states: states}
}

// Definition returns the MCP tool definition for registration.
func (t *ClarifyTool) Definition() mcp.Tool {
	return mcp.NewTool("flow_clarify",
		mcp.WithDescription(
			"Check the feature spec for unresolved [NEEDS CLARIFICATION ...] "+
				"markers. Passes (and advances the pipeline) only when the spec "+
				"has none left; otherwise lists the open questions to resolve.",
		),
		mcp.WithString("feature_dir",
			mcp.Description("Feature directory (name under specs/ or absolute path). Defaults to the latest feature."),
		),
		mcp.WithString("project_root",
			mcp.Description("Project root directory. Defaults to auto-discovery from cwd."),
		),
	)
}

// Handle processes the flow_clarify tool call.
func (t *ClarifyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	report, err := workflow.ScanClarityFile(filepath.Join(featureDir, SpecFile))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !report.Passed {
		var sb strings.Builder
		fmt.Fprintf(&sb, "# Clarity check: %d open question(s), score %d/100\n\n", len(report.Questions), report.Score)
		for _, q := range report.Questions {
			fmt.Fprintf(&sb, "- line %d: %s\n", q.Line, q.Text)
		}
		sb.WriteString("\nResolve each marker in spec.md, then run `flow_clarify` again.")
		return mcp.NewToolResultText(sb.String()), nil
	}

	engine, closeJournal, err := newEngine(root, cfg, t.states)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer closeJournal()

	if _, err := engine.CompleteStep(featureDir, state.StepClarify, state.StepData{
		"clarityScore": report.Score,
	}, "spec has no open questions"); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(
		"# Clarity check passed (100/100)\n\n" +
			"The spec has no unresolved markers. Next: run `flow_plan` to " +
			"produce the implementation plan.",
	), nil
}
