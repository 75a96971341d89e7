package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planyist/tasktory/internal/output"
	"github.com/planyist/tasktory/internal/task"
	"github.com/planyist/tasktory/internal/tracker"
)

var moveCmd = &cobra.Command{
	Use:       "move ID up|down",
	Short:     "Move a task up or down the active list",
	Long:      `Swaps an active task with its active neighbor. Completed tasks cannot be moved.`,
	Args:      cobra.ExactArgs(2), //nolint:mnd // ID and direction
	ValidArgs: []string{string(tracker.Up), string(tracker.Down)},
	RunE:      runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(_ *cobra.Command, args []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}

	dir := tracker.Direction(strings.ToLower(args[1]))
	res, err := svc.Move(args[0], dir)
	if err != nil {
		return err
	}
	warnUnlogged(res)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}
	output.Messagef(os.Stdout, "Moved task %s %s: %s", task.ShortID(res.Task.ID), dir, res.Task.Content)
	return nil
}
