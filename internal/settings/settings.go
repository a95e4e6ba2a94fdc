// Package settings loads flowspec configuration from the project root.
//
// Configuration lives in an optional .flowspec.yaml file; every key can
// also be overridden through FLOWSPEC_* environment variables. A
// missing config file is the normal case and yields defaults.
package settings

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Settings holds all tunables for a project.
type Settings struct {
	// SpecsDir is the directory (relative to the project root) holding
	// one subdirectory per feature.
	SpecsDir string

	// JournalEnabled toggles the SQLite progress journal.
	JournalEnabled bool

	// JournalPath is the journal database location, relative to the
	// project root.
	JournalPath string

	// ScriptTimeout bounds a single setup/check script invocation.
	ScriptTimeout time.Duration
}

func defaults() *Settings {
	return &Settings{
		SpecsDir:       "specs",
		JournalEnabled: true,
		JournalPath:    filepath.Join(".flowspec", "journal.db"),
		ScriptTimeout:  2 * time.Minute,
	}
}

// Load reads .flowspec.yaml from root, applying env overrides. A
// missing file returns defaults; a malformed file is an error.
func Load(root string) (*Settings, error) {
	cfg := defaults()

	v := viper.New()
	v.SetConfigName(".flowspec")
	v.SetConfigType("yaml")
	v.AddConfigPath(root)

	v.SetDefault("specs_dir", cfg.SpecsDir)
	v.SetDefault("journal.enabled", cfg.JournalEnabled)
	v.SetDefault("journal.path", cfg.JournalPath)
	v.SetDefault("scripts.timeout_seconds", int(cfg.ScriptTimeout/time.Second))

	v.SetEnvPrefix("FLOWSPEC")
	v.AutomaticEnv()
	_ = v.BindEnv("specs_dir")
	_ = v.BindEnv("journal.enabled", "FLOWSPEC_JOURNAL_ENABLED")
	_ = v.BindEnv("journal.path", "FLOWSPEC_JOURNAL_PATH")
	_ = v.BindEnv("scripts.timeout_seconds", "FLOWSPEC_SCRIPT_TIMEOUT_SECONDS")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading .flowspec.yaml: %w", err)
		}
	}

	cfg.SpecsDir = v.GetString("specs_dir")
	cfg.JournalEnabled = v.GetBool("journal.enabled")
	cfg.JournalPath = v.GetString("journal.path")
	if secs := v.GetInt("scripts.timeout_seconds"); secs > 0 {
		cfg.ScriptTimeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

// SpecsPath returns the absolute specs directory for a project root.
func (s *Settings) SpecsPath(root string) string {
	return filepath.Join(root, s.SpecsDir)
}

// JournalFile returns the absolute journal database path for a project
// root, or empty when the journal is disabled.
func (s *Settings) JournalFile(root string) string {
	if !s.JournalEnabled {
		return ""
	}
	return filepath.Join(root, s.JournalPath)
}
