package cli

import (
	"fmt"

	"github.com/nmorales-dev/flowspec/internal/journal"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/nmorales-dev/flowspec/internal/state"
	"github.com/nmorales-dev/flowspec/internal/tasklist"
	"github.com/nmorales-dev/flowspec/internal/workflow"
	"github.com/spf13/cobra"
)

var tasksFeature string

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Work with a feature's task checklist",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the checklist, incomplete tasks first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, featureDir, err := tasksContext()
		if err != nil {
			return err
		}

		tasks, err := tasklist.ParseFile(workflow.TasksPath(featureDir))
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("Checklist is empty.")
			return nil
		}

		phase := ""
		for _, task := range tasks {
			if task.Phase != phase {
				phase = task.Phase
				fmt.Printf("\n%s\n", phase)
			}
			mark := " "
			if task.Completed {
				mark = "x"
			}
			tags := ""
			if task.Parallel {
				tags += " [P]"
			}
			if task.Story != "" {
				tags += " [" + task.Story + "]"
			}
			fmt.Printf("  [%s] %s%s %s\n", mark, task.ID, tags, task.Description)
		}

		open := tasklist.Incomplete(tasks)
		fmt.Printf("\n%d/%d done\n", len(tasks)-len(open), len(tasks))
		return nil
	},
}

var tasksCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark one task complete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, cfg, featureDir, err := tasksContext()
		if err != nil {
			return err
		}

		var observer workflow.Observer
		if path := cfg.JournalFile(root); path != "" {
			if js, err := journal.Open(path); err == nil {
				defer func() { _ = js.Close() }()
				if rec := journal.NewRecorder(js); rec != nil {
					observer = rec
				}
			}
		}
		engine := workflow.NewEngine(state.NewFileStore(), observer)

		changed, remaining, err := engine.CompleteTask(featureDir, args[0])
		if err != nil {
			return err
		}
		if changed {
			fmt.Printf("Marked %s complete. %d task(s) remaining.\n", args[0], remaining)
		} else {
			fmt.Printf("%s did not change the checklist (unknown or already complete). %d task(s) remaining.\n", args[0], remaining)
		}
		return nil
	},
}

// tasksContext resolves the project root, settings, and feature dir
// shared by the tasks subcommands.
func tasksContext() (root string, cfg *settings.Settings, featureDir string, err error) {
	root, err = projectRoot()
	if err != nil {
		return "", nil, "", err
	}
	cfg, err = settings.Load(root)
	if err != nil {
		return "", nil, "", err
	}
	featureDir, err = resolveFeature(root, cfg, tasksFeature)
	if err != nil {
		return "", nil, "", err
	}
	return root, cfg, featureDir, nil
}

func init() {
	tasksCmd.PersistentFlags().StringVar(&tasksFeature, "feature", "", "feature directory (name under specs/); defaults to the latest")
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksCompleteCmd)
	rootCmd.AddCommand(tasksCmd)
}
