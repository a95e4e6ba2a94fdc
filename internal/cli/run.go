package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/nmorales-dev/flowspec/internal/scripts"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <command> [args...]",
	Short: "Run a project script under the configured timeout",
	Long: `Run a command in the project root with the scripts.timeout_seconds
bound from .flowspec.yaml. Exits with the command's exit code.

  flowspec run go test ./...
  flowspec run npm test`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		cfg, err := settings.Load(root)
		if err != nil {
			return err
		}

		runner := &scripts.Runner{Dir: root, Timeout: cfg.ScriptTimeout}
		result, err := runner.Run(cmd.Context(), args[0], args[1:]...)
		if err != nil {
			return fmt.Errorf("running %s: %w", strings.Join(args, " "), err)
		}

		fmt.Print(result.Stdout)
		fmt.Fprint(os.Stderr, result.Stderr)
		if result.ExitCode != 0 {
			fmt.Fprintf(os.Stderr, "\nexit code %d after %s\n", result.ExitCode, result.Duration)
			os.Exit(result.ExitCode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
