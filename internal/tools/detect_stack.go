package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nmorales-dev/flowspec/internal/scripts"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/nmorales-dev/flowspec/internal/techstack"
)

// DetectStackTool handles the flow_detect_stack MCP tool.
// It inspects the project's manifest files and optionally runs a
// verification command (build, test, lint) against the detected stack.
type DetectStackTool struct{}

// NewDetectStackTool creates a DetectStackTool.
func NewDetectStackTool() *DetectStackTool {
	return &DetectStackTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *DetectStackTool) Definition() mcp.Tool {
	return mcp.NewTool("flow_detect_stack",
		mcp.WithDescription(
			"Detect the project's technology stack from its manifest files "+
				"(go.mod, package.json, pyproject.toml, Cargo.toml, pom.xml, "+
				"Gemfile, docker-compose). Optionally runs a shell command "+
				"against the project to verify the environment, e.g. a build "+
				"or test invocation.",
		),
		mcp.WithString("verify_command",
			mcp.Description("Optional shell command to run in the project root, e.g. 'npm test'. Output and exit code are reported."),
		),
		mcp.WithString("project_root",
			mcp.Description("Project root directory. Defaults to auto-discovery from cwd."),
		),
	)
}

// Handle processes the flow_detect_stack tool call.
func (t *DetectStackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}
	cfg, err := settings.Load(root)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	detections, err := techstack.Detect(root)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("detecting stack: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("# Stack detection\n\n")
	if len(detections) == 0 {
		sb.WriteString("No known manifest files found.\n")
	}
	for _, d := range detections {
		fmt.Fprintf(&sb, "- %s (from %s)\n", d.Name, d.File)
	}

	if cmd := req.GetString("verify_command", ""); cmd != "" {
		runner := &scripts.Runner{Dir: root, Timeout: cfg.ScriptTimeout}
		result, err := runner.RunShell(ctx, cmd)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("running %q: %v", cmd, err)), nil
		}
		fmt.Fprintf(&sb, "\n## Verification: `%s`\n\nexit code %d in %s\n", cmd, result.ExitCode, result.Duration.Round(time.Millisecond))
		if out := strings.TrimSpace(result.Stdout); out != "" {
			fmt.Fprintf(&sb, "\n```\n%s\n```\n", out)
		}
		if errOut := strings.TrimSpace(result.Stderr); errOut != "" {
			fmt.Fprintf(&sb, "\nstderr:\n```\n%s\n```\n", errOut)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
