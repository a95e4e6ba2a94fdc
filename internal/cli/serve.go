package cli

import (
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/nmorales-dev/flowspec/internal/server"
	"github.com/nmorales-dev/flowspec/internal/updater"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Run the flowspec MCP server on stdin/stdout. Configure your MCP host
to launch "flowspec serve" and it gains the flow_* tools, the
flow-start/flow-status prompts, and the flowspec:// resources.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := server.New()
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		// Best-effort version check on stderr; stdout belongs to MCP.
		go notifyUpdates()

		return mcpserver.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// notifyUpdates prints a notice to stderr when a newer release exists.
// Network failures are silently ignored.
func notifyUpdates() {
	result := updater.CheckVersion(appVersion)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  Update available: v%s → v%s\n"+
				"  Run: flowspec update\n"+
				"  Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}
