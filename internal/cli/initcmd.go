package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// defaultConfig is written by "flowspec init". Every key shows its
// default so the file doubles as documentation.
const defaultConfig = `# flowspec project configuration.
# Every key can be overridden with a FLOWSPEC_* environment variable.

# Directory holding one subdirectory per feature.
specs_dir: specs

journal:
  # Record step/task completions in a local SQLite journal.
  enabled: true
  path: .flowspec/journal.db

scripts:
  # Timeout for "flowspec run" and flow_detect_stack verification.
  timeout_seconds: 120
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a flowspec project in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath := ".flowspec.yaml"
		if _, err := os.Stat(cfgPath); err == nil {
			return fmt.Errorf("%s already exists", cfgPath)
		}
		if err := os.WriteFile(cfgPath, []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", cfgPath, err)
		}
		if err := os.MkdirAll("specs", 0o755); err != nil {
			return fmt.Errorf("creating specs dir: %w", err)
		}

		fmt.Println("Initialized flowspec project:")
		fmt.Printf("  %s\n  %s%c\n", cfgPath, "specs", filepath.Separator)
		fmt.Println("\nNext: point your MCP host at \"flowspec serve\" and start a feature with flow_specify.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
