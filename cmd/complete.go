package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/planyist/tasktory/internal/board"
	"github.com/planyist/tasktory/internal/output"
	"github.com/planyist/tasktory/internal/task"
	"github.com/planyist/tasktory/internal/tracker"
)

var completeCmd = &cobra.Command{
	Use:     "complete ID[,ID,...]",
	Aliases: []string{"done"},
	Short:   "Mark tasks completed",
	Long: `Marks one or more tasks completed and records a COMPLETE entry in
today's activity log. Completed tasks move below the active list.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().String("details", "", "note recorded with the completion")
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	ids, err := board.ParseIDs(args)
	if err != nil {
		return err
	}
	svc, _, err := newService()
	if err != nil {
		return err
	}
	details, _ := cmd.Flags().GetString("details")
	complete := func(id string) (tracker.Result, error) { return svc.Complete(id, details) }

	if len(ids) > 1 {
		return runBatch("Completed", ids, complete)
	}

	res, err := complete(ids[0])
	if err != nil {
		return err
	}
	warnUnlogged(res)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}
	output.Messagef(os.Stdout, "Completed task %s: %s", task.ShortID(res.Task.ID), res.Task.Content)
	output.Messagef(os.Stdout, "  Completed today: %d", svc.CompletedToday())
	return nil
}
