// Command flowspec is the entry point for the flowspec binary: an MCP
// server ("flowspec serve") plus local pipeline commands.
package main

import (
	"fmt"
	"os"

	"github.com/nmorales-dev/flowspec/internal/cli"
)

// Set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
