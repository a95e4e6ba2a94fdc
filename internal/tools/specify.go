package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nmorales-dev/flowspec/internal/gitops"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/templates"
	"github.com/nmorales-dev/flowspec/internal/workflow"
)

// SpecifyTool handles the flow_specify MCP tool.
// It opens a new feature: numbered directory, git branch, spec scaffold.
type SpecifyTool struct {
	states   state.Store
	renderer templates.Renderer
}

// NewSpecifyTool creates a SpecifyTool with its dependencies.
func NewSpecifyTool(states state.Store, renderer templates.Renderer) *SpecifyTool {
	return &SpecifyTool{states: states, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *SpecifyTool) Definition() mcp.Tool {
	return mcp.NewTool("flow_specify",
		mcp.WithDescription(
			"Start a new feature: allocates the next numbered feature directory "+
				"under specs/, creates a matching git branch, writes a spec.md "+
				"scaffold, and initializes workflow state. "+
				"This is always the first step of the pipeline.",
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What the feature should do, in a sentence or two"),
		),
		mcp.WithString("project_root",
			mcp.Description("Project root directory. Defaults to auto-discovery from cwd."),
		),
	)
}

// Handle processes the flow_specify tool call.
func (t *SpecifyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description := req.GetString("description", "")
	if description == "" {
		return mcp.NewToolResultError("'description' is required"), nil
	}

	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}
	cfg, err := settings.Load(root)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	specsDir := cfg.SpecsPath(root)
	num, err := gitops.NextFeatureNumber(specsDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scanning %s: %v", specsDir, err)), nil
	}
	branch := gitops.BranchName(num, description)
	featureDir := filepath.Join(specsDir, branch)

	// Branch creation is best-effort: specs work fine outside a repo.
	branchNote := fmt.Sprintf("Created and checked out branch `%s`.", branch)
	if err := gitops.CreateBranch(root, branch); err != nil {
		branchNote = fmt.Sprintf("Branch not created (%v) — continuing without one.", err)
	}

	content, err := t.renderer.Render(templates.Spec, templates.SpecData{
		FeatureName: branch,
		Branch:      branch,
		Description: description,
		CreatedAt:   time.Now().UTC().Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}
	specPath := filepath.Join(featureDir, SpecFile)
	if err := writeArtifact(specPath, content); err != nil {
		return nil, err
	}

	engine, closeJournal, err := newEngine(root, cfg, t.states)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer closeJournal()

	if _, err := engine.Start(featureDir, description); err != nil {
		return nil, fmt.Errorf("initializing workflow state: %w", err)
	}
	if _, err := engine.CompleteStep(featureDir, state.StepSpecify, state.StepData{
		"specPath": specPath,
		"branch":   branch,
	}, "spec scaffold written"); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Feature %s\n\n"+
			"%s\n\n"+
			"Spec scaffold written to `%s`.\n\n"+
			"Fill in the spec: replace every `%s ...]` marker with a concrete "+
			"answer, then run `flow_clarify` to check readiness.",
		branch, branchNote, specPath, workflow.ClarificationMarker,
	)), nil
}
