// Package scripts runs project-local shell scripts and commands for
// pipeline hooks (environment setup, checks before review).
//
// The runner captures output rather than streaming it: pipeline results
// are reported through tool responses, and stdout belongs to the MCP
// stdio transport.
package scripts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single script invocation.
const DefaultTimeout = 2 * time.Minute

// Result captures the outcome of one command invocation.
type Result struct {
	Command  string        `json:"command"`
	ExitCode int           `json:"exitCode"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Duration time.Duration `json:"duration"`
}

// Runner executes commands in a working directory with a timeout.
type Runner struct {
	// Dir is the working directory for every invocation.
	Dir string
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
	// Env entries are appended to the inherited environment.
	Env []string
}

// NewRunner creates a Runner rooted at dir.
func NewRunner(dir string) *Runner {
	return &Runner{Dir: dir}
}

// Run executes name with args. A non-zero exit is not an error — the
// caller inspects Result.ExitCode. Errors are reserved for failures to
// start the process, context cancellation, and timeouts.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	if name == "" {
		return nil, fmt.Errorf("command name must not be empty")
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Command:  name,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("running %s: %w", name, ctxErr)
		}
		return result, fmt.Errorf("running %s: %w", name, err)
	}
	return result, nil
}

// RunShell executes a shell one-liner via "sh -c".
func (r *Runner) RunShell(ctx context.Context, script string) (*Result, error) {
	if script == "" {
		return nil, fmt.Errorf("script must not be empty")
	}
	return r.Run(ctx, "sh", "-c", script)
}
