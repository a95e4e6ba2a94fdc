package cli

import (
	"fmt"
	"path/filepath"

	"github.com/nmorales-dev/flowspec/internal/journal"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/tasklist"
	"github.com/nmorales-dev/flowspec/internal/workflow"
	"github.com/spf13/cobra"
)

var statusFeature string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where a feature is in the pipeline",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		cfg, err := settings.Load(root)
		if err != nil {
			return err
		}
		featureDir, err := resolveFeature(root, cfg, statusFeature)
		if err != nil {
			return err
		}

		states := state.NewFileStore()
		st, err := states.Read(featureDir)
		if err != nil {
			return err
		}

		fmt.Printf("Feature: %s\n", filepath.Base(featureDir))
		if st == nil {
			fmt.Println("No workflow state yet — start with flow_specify.")
			return nil
		}
		if st.Metadata.FeatureDescription != "" {
			fmt.Printf("  %s\n", st.Metadata.FeatureDescription)
		}
		fmt.Println()

		for _, step := range workflow.PipelineOrder {
			mark := " "
			if st.StepStatus[step].Completed() {
				mark = "x"
			}
			pointer := ""
			if step == st.CurrentStep {
				pointer = "  <- current"
			}
			fmt.Printf("  [%s] %s%s\n", mark, step, pointer)
		}
		if st.CurrentStep == state.StepComplete {
			fmt.Println("\nFeature is complete.")
		}

		if tasks, err := tasklist.ParseFile(workflow.TasksPath(featureDir)); err == nil && len(tasks) > 0 {
			open := tasklist.Incomplete(tasks)
			fmt.Printf("\nChecklist: %d/%d tasks done\n", len(tasks)-len(open), len(tasks))
		}

		printJournalStats(root, cfg, featureDir)

		engine := workflow.NewEngine(states, nil)
		if next, err := engine.Resume(featureDir); err == nil && next != state.StepComplete {
			fmt.Printf("\nNext step: %s\n", next)
		}
		return nil
	},
}

// printJournalStats shows journal counts when the journal is enabled.
// Journal trouble never fails status.
func printJournalStats(root string, cfg *settings.Settings, featureDir string) {
	path := cfg.JournalFile(root)
	if path == "" {
		return
	}
	js, err := journal.Open(path)
	if err != nil {
		return
	}
	defer func() { _ = js.Close() }()

	stats, err := js.Stats(filepath.Base(featureDir))
	if err != nil || (stats.StepsCompleted == 0 && stats.TasksCompleted == 0) {
		return
	}
	fmt.Printf("\nHistory: %d step(s), %d task(s)", stats.StepsCompleted, stats.TasksCompleted)
	if stats.LastEventAt != "" {
		fmt.Printf(", last activity %s", stats.LastEventAt)
	}
	fmt.Println()
}

func init() {
	statusCmd.Flags().StringVar(&statusFeature, "feature", "", "feature directory (name under specs/); defaults to the latest")
	rootCmd.AddCommand(statusCmd)
}
