package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/planyist/tasktory/internal/board"
	"github.com/planyist/tasktory/internal/output"
	"github.com/planyist/tasktory/internal/task"
	"github.com/planyist/tasktory/internal/tracker"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight ID[,ID,...]",
	Short: "Toggle the highlight flag of tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runToggle(args, "Toggled highlight on", func(svc *tracker.Service) func(string) (tracker.Result, error) {
			return svc.ToggleHighlight
		})
	},
}

var notifyCmd = &cobra.Command{
	Use:   "notify ID[,ID,...]",
	Short: "Toggle reminders for tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runToggle(args, "Toggled reminders on", func(svc *tracker.Service) func(string) (tracker.Result, error) {
			return svc.ToggleNotification
		})
	},
}

func init() {
	rootCmd.AddCommand(highlightCmd)
	rootCmd.AddCommand(notifyCmd)
}

func runToggle(args []string, verb string, op func(*tracker.Service) func(string) (tracker.Result, error)) error {
	ids, err := board.ParseIDs(args)
	if err != nil {
		return err
	}
	svc, _, err := newService()
	if err != nil {
		return err
	}
	fn := op(svc)

	if len(ids) > 1 {
		return runBatch(verb, ids, fn)
	}

	res, err := fn(ids[0])
	if err != nil {
		return err
	}
	warnUnlogged(res)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}
	output.Messagef(os.Stdout, "%s: %s (%s)", task.ShortID(res.Task.ID), res.Task.Content, res.Action)
	return nil
}
