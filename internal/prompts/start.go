// Package prompts implements MCP prompt handlers for the flowspec
// pipeline.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the flow-start MCP prompt.
// It guides the AI to open a new feature and walk the pipeline.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("flow-start",
		mcp.WithPromptDescription(
			"Start a new feature through the flowspec pipeline: "+
				"specify, clarify, plan, tasks, implement, review.",
		),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("What the feature should do, in a sentence or two"),
		),
	)
}

// Handle processes the flow-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	description := "a new feature"
	if args := req.Params.Arguments; args != nil {
		if d, ok := args["description"]; ok && d != "" {
			description = d
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Start feature: %s", description),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to build this feature: %s\n\n"+
						"Please drive the flowspec pipeline:\n"+
						"1. Run `flow_specify` with my description to open the feature\n"+
						"2. Fill in the spec scaffold, asking me about anything genuinely unclear\n"+
						"3. Run `flow_clarify` until it passes with no open questions\n"+
						"4. Run `flow_plan`, then refine plan.md with the real approach\n"+
						"5. Run `flow_tasks` and shape tasks.md to match the plan\n"+
						"6. Work through `flow_implement`, marking each task with `flow_complete_task`\n"+
						"7. Finish with `flow_review`",
					description,
				)),
			},
		},
	}, nil
}
