// Package tools implements the MCP tool handlers for the flowspec
// pipeline.
//
// Each tool is a struct that receives its dependencies (state.Store,
// templates.Renderer) and exposes a Definition for registration plus a
// Handle compatible with mcp-go's CallToolRequest signature. One file
// per tool.
package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nmorales-dev/flowspec/internal/journal"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/workflow"
)

// Artifact files inside a feature directory.
const (
	SpecFile = "spec.md"
	PlanFile = "plan.md"
)

// findProjectRoot walks up from the current working directory looking
// for a .flowspec.yaml file or a specs/ directory. If neither is found,
// returns cwd — the caller decides what to do. This allows tools to
// work from any subdirectory of the project.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	current := dir
	for {
		if _, err := os.Stat(filepath.Join(current, ".flowspec.yaml")); err == nil {
			return current, nil
		}
		if info, err := os.Stat(filepath.Join(current, "specs")); err == nil && info.IsDir() {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return dir, nil
		}
		current = parent
	}
}

// resolveRoot returns the project root for a tool call: the explicit
// project_root argument when given, discovery otherwise.
func resolveRoot(req mcp.CallToolRequest) (string, error) {
	if root := req.GetString("project_root", ""); root != "" {
		return root, nil
	}
	return findProjectRoot()
}

// featureDirRe matches numbered feature directories like 003-dark-mode.
var featureDirRe = regexp.MustCompile(`^\d{3}-`)

// latestFeatureDir returns the feature directory with the highest
// NNN- prefix under specsDir, or an error when none exists.
func latestFeatureDir(specsDir string) (string, error) {
	entries, err := os.ReadDir(specsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no features yet — run flow_specify first")
		}
		return "", fmt.Errorf("reading specs dir %s: %w", specsDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && featureDirRe.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no features yet — run flow_specify first")
	}
	sort.Strings(names)
	return filepath.Join(specsDir, names[len(names)-1]), nil
}

// resolveFeatureDir returns the feature directory for a tool call. The
// feature_dir argument may be absolute, or a directory name relative to
// the specs dir; when absent, the latest feature is used.
func resolveFeatureDir(root string, cfg *settings.Settings, req mcp.CallToolRequest) (string, error) {
	arg := req.GetString("feature_dir", "")
	if arg == "" {
		return latestFeatureDir(cfg.SpecsPath(root))
	}
	if filepath.IsAbs(arg) {
		return arg, nil
	}
	return filepath.Join(cfg.SpecsPath(root), arg), nil
}

// readArtifact reads a markdown artifact. A missing file is not an
// error — the step just hasn't produced it yet.
func readArtifact(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// writeArtifact writes a markdown artifact, creating parent
// directories as needed.
func writeArtifact(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// newEngine builds a workflow engine for one project, wiring the
// journal recorder when the project enables it. The returned cleanup
// closes the journal database and is always safe to call.
func newEngine(root string, cfg *settings.Settings, states state.Store) (*workflow.Engine, func(), error) {
	cleanup := func() {}

	var observer workflow.Observer
	if path := cfg.JournalFile(root); path != "" {
		js, err := journal.Open(path)
		if err != nil {
			return nil, cleanup, fmt.Errorf("opening journal: %w", err)
		}
		cleanup = func() { _ = js.Close() }
		if rec := journal.NewRecorder(js); rec != nil {
			observer = rec
		}
	}

	return workflow.NewEngine(states, observer), cleanup, nil
}
