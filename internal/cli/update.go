package cli

import (
	"fmt"
	"os"

	"github.com/nmorales-dev/flowspec/internal/updater"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Self-update to the latest release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(os.Stderr, "Checking for updates...")

		result := updater.CheckVersion(appVersion)
		if !result.UpdateAvailable {
			fmt.Fprintf(os.Stderr, "Already at the latest version (v%s)\n", result.CurrentVersion)
			return nil
		}

		fmt.Fprintf(os.Stderr, "New version available: v%s → v%s\nDownloading...\n",
			result.CurrentVersion, result.LatestVersion)

		if err := updater.SelfUpdate(appVersion); err != nil {
			fmt.Fprintf(os.Stderr, "\nYou can download manually from:\n  %s\n", result.ReleaseURL)
			return fmt.Errorf("update failed: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Updated to v%s. Restart flowspec to use the new version.\n", result.LatestVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
