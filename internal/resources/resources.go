// Package resources implements MCP resource handlers for the flowspec
// pipeline.
//
// Resources provide read-only data the host can consume for context.
// They use URI-based addressing (flowspec://...) following MCP
// conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/tasklist"
	"github.com/nmorales-dev/flowspec/internal/workflow"
)

// Handler manages flowspec resource endpoints.
type Handler struct {
	states state.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(states state.Store) *Handler {
	return &Handler{states: states}
}

// StatusResource returns the MCP resource definition for feature status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		"flowspec://feature/status",
		"Feature Workflow Status",
		mcp.WithResourceDescription("Workflow state of the latest feature: current step, per-step status, metadata"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the latest feature's workflow state as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	featureDir, err := findLatestFeature()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	st, err := h.states.Read(featureDir)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if st == nil {
		return errorResource(req.Params.URI, fmt.Sprintf("no workflow state in %s", featureDir)), nil
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling status: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// TasksResource returns the MCP resource definition for the checklist.
func (h *Handler) TasksResource() mcp.Resource {
	return mcp.NewResource(
		"flowspec://feature/tasks",
		"Feature Task Checklist",
		mcp.WithResourceDescription("Parsed task checklist of the latest feature, in document order"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleTasks returns the latest feature's parsed checklist as JSON.
func (h *Handler) HandleTasks(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	featureDir, err := findLatestFeature()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	tasks, err := tasklist.ParseFile(workflow.TasksPath(featureDir))
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	payload := struct {
		Feature   string          `json:"feature"`
		Total     int             `json:"total"`
		Remaining int             `json:"remaining"`
		Tasks     []tasklist.Task `json:"tasks"`
	}{
		Feature:   featureDir,
		Total:     len(tasks),
		Remaining: len(tasklist.Incomplete(tasks)),
		Tasks:     tasks,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling tasks: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// jsonResource wraps a JSON document as resource contents.
func jsonResource(uri, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		},
	}
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
