package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/nmorales-dev/flowspec/internal/settings"
	"github.com/nmorales-dev/flowspec/internal/tasklist"
	"github.com/nmorales-dev/flowspec/internal/workflow"
	"github.com/spf13/cobra"
)

var watchFeature string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch tasks.md and print progress on every change",
	Long: `Watch the feature's tasks.md and print checklist progress each time
the file changes. Handy in a side terminal while an agent works
through the tasks. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		cfg, err := settings.Load(root)
		if err != nil {
			return err
		}
		featureDir, err := resolveFeature(root, cfg, watchFeature)
		if err != nil {
			return err
		}
		tasksPath := workflow.TasksPath(featureDir)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		defer func() { _ = watcher.Close() }()

		// Watch the directory, not the file: editors replace tasks.md
		// by rename, which drops a file-level watch.
		if err := watcher.Add(featureDir); err != nil {
			return fmt.Errorf("watching %s: %w", featureDir, err)
		}

		printProgress(tasksPath)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Name != tasksPath {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					printProgress(tasksPath)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
			case <-sigCh:
				return nil
			}
		}
	},
}

// printProgress parses the checklist and prints a one-line summary.
func printProgress(tasksPath string) {
	tasks, err := tasklist.ParseFile(tasksPath)
	if err != nil {
		fmt.Printf("waiting for %s\n", tasksPath)
		return
	}
	open := tasklist.Incomplete(tasks)
	if len(open) == 0 {
		fmt.Printf("%d/%d tasks done — checklist complete\n", len(tasks), len(tasks))
		return
	}
	fmt.Printf("%d/%d tasks done — next: %s %s\n", len(tasks)-len(open), len(tasks), open[0].ID, open[0].Description)
}

func init() {
	watchCmd.Flags().StringVar(&watchFeature, "feature", "", "feature directory (name under specs/); defaults to the latest")
	rootCmd.AddCommand(watchCmd)
}
