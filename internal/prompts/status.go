package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the flow-status MCP prompt.
// It instructs the AI to read and present the feature's pipeline state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("flow-status",
		mcp.WithPromptDescription(
			"Check where the current feature is in the pipeline: "+
				"completed steps, checklist progress, and what to do next.",
		),
	)
}

// Handle processes the flow-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Feature pipeline status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `flow_status` to check the current feature.\n\n" +
						"Then:\n" +
						"1. Show the pipeline state in a clear, visual format\n" +
						"2. Point out anything blocking progress (open clarifications, stuck tasks)\n" +
						"3. Tell me exactly what I should do next",
				),
			},
		},
	}, nil
}
