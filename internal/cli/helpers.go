package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/nmorales-dev/flowspec/internal/settings"
)

var featureDirRe = regexp.MustCompile(`^\d{3}-`)

// projectRoot walks up from cwd looking for .flowspec.yaml or a specs/
// directory. Falls back to cwd.
func projectRoot() (string, error) {
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

// resolveFeature returns the feature directory for a command: the
// --feature flag value when set (name under specs/ or absolute path),
// the newest numbered feature otherwise.
func resolveFeature(root string, cfg *settings.Settings, flag string) (string, error) {
	if flag != "" {
		if filepath.IsAbs(flag) {
			return flag, nil
		}
		return filepath.Join(cfg.SpecsPath(root), flag), nil
	}

	specsDir := cfg.SpecsPath(root)
	entries, err := os.ReadDir(specsDir)
	if err != nil {
		return "", fmt.Errorf("no features yet in %s", specsDir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && featureDirRe.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no features yet in %s", specsDir)
	}
	sort.Strings(names)
	return filepath.Join(specsDir, names[len(names)-1]), nil
}
