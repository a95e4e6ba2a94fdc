// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/nmorales-dev/flowspec/internal/prompts"
	"github.com/nmorales-dev/flowspec/internal/resources"
	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/templates"
	"github.com/nmorales-dev/flowspec/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// Tools resolve the project root and open the journal per call, so the
// server itself holds no per-project resources and needs no cleanup.
func New() (*server.MCPServer, error) {
	// --- Create shared dependencies ---

	states := state.NewFileStore()

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating template renderer: %w", err)
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"flowspec",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register pipeline tools ---

	specifyTool := tools.NewSpecifyTool(states, renderer)
	s.AddTool(specifyTool.Definition(), specifyTool.Handle)

	clarifyTool := tools.NewClarifyTool(states)
	s.AddTool(clarifyTool.Definition(), clarifyTool.Handle)

	planTool := tools.NewPlanTool(states, renderer)
	s.AddTool(planTool.Definition(), planTool.Handle)

	tasksTool := tools.NewTasksTool(states, renderer)
	s.AddTool(tasksTool.Definition(), tasksTool.Handle)

	implementTool := tools.NewImplementTool(states)
	s.AddTool(implementTool.Definition(), implementTool.Handle)

	completeTaskTool := tools.NewCompleteTaskTool(states)
	s.AddTool(completeTaskTool.Definition(), completeTaskTool.Handle)

	reviewTool := tools.NewReviewTool(states)
	s.AddTool(reviewTool.Definition(), reviewTool.Handle)

	// --- Register auxiliary tools ---

	statusTool := tools.NewStatusTool(states)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	detectStackTool := tools.NewDetectStackTool()
	s.AddTool(detectStackTool.Definition(), detectStackTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(states)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)
	s.AddResource(resourceHandler.TasksResource(), resourceHandler.HandleTasks)

	return s, nil
}

// serverInstructions returns the system instructions that tell the AI
// how to drive the pipeline effectively.
func serverInstructions() string {
	return `You have access to flowspec, a spec-driven feature workflow MCP server.

## WHEN TO ACTIVATE flowspec

Proactively suggest flowspec when the user:
- Asks to add a new feature or major enhancement
- Describes a vague idea and wants to start coding
- Says things like "I want to build...", "let's add...", "create a feature for..."

You do NOT need flowspec for bug fixes, small patches, refactors,
questions, or one-liner changes.

## The pipeline

Every feature moves through six steps, in order:

1. flow_specify — opens the feature: numbered directory under specs/,
   a git branch, a spec.md scaffold, and workflow state
2. flow_clarify — gates progress on the spec having zero
   [NEEDS CLARIFICATION ...] markers. Resolve every marker with the
   user before moving on; never guess answers
3. flow_plan — detects the tech stack and scaffolds plan.md; flesh it
   out with the real approach
4. flow_tasks — scaffolds tasks.md; rewrite the checklist to match the
   plan. Tasks look like "- [ ] T001 [P] [US1] description" — keep the
   T-numbered ids, mark parallel-safe tasks [P]
5. flow_implement — lists what's left; do the work, calling
   flow_complete_task after each finished task
6. flow_review — the final gate; it marks the feature complete only
   when artifacts exist, no clarifications remain, and the checklist
   is done

flow_status shows where any feature is. State lives in
.flowspec-state.json inside the feature directory — resuming a
conversation, run flow_status first and pick up from its suggestion.

## Rules

- Never skip flow_clarify. An unclear spec is how bad code happens.
- Edit spec.md/plan.md/tasks.md directly as markdown; the tools only
  scaffold and track them.
- Task ids are stable: completing T003 flips its checkbox and nothing
  else in the file.`
}
