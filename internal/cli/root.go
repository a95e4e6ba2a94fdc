// Package cli implements the flowspec command line interface.
//
// The primary entry point is "flowspec serve", which runs the MCP
// server over stdio. The remaining commands are thin local conveniences
// over the same internal packages the MCP tools use, so a terminal user
// and an MCP host always see identical behavior.
package cli

import (
	"fmt"

	"github.com/nmorales-dev/flowspec/internal/server"
	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
	server.Version = version
}

var rootCmd = &cobra.Command{
	Use:   "flowspec",
	Short: "flowspec - spec-driven feature workflow",
	Long: `flowspec drives features through a fixed pipeline: specify, clarify,
plan, tasks, implement, review. Each feature lives in a numbered
directory under specs/ with its spec, plan, task checklist, and
workflow state.

Run "flowspec serve" to expose the pipeline as MCP tools over stdio,
or use the local commands (init, status, tasks, run, watch) directly.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flowspec %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
