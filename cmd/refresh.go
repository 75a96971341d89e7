package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/planyist/tasktory/internal/output"
	"github.com/planyist/tasktory/internal/task"
	"github.com/planyist/tasktory/internal/tracker"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-derive task statuses and log the ones that changed",
	Long: `Recomputes the status of every active task from the current time and
saves the list. Each change from a previously cached status is recorded as
STATUS_CHANGE in today's activity log.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "List reminders due now",
	Long: `Prints the 1-hour, 15-minute and overdue reminders that apply to tasks
with reminders enabled at the current time.`,
	Args: cobra.NoArgs,
	RunE: runReminders,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(remindersCmd)
}

func runRefresh(_ *cobra.Command, _ []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}

	changes, err := svc.RefreshStatuses()
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		if changes == nil {
			changes = []tracker.StatusChange{}
		}
		return output.JSON(os.Stdout, changes)
	}
	for _, c := range changes {
		output.Messagef(os.Stdout, "%s: %s -> %s  %s", task.ShortID(c.Task.ID), c.From, c.To, c.Task.Content)
		if !c.Logged {
			output.Messagef(os.Stderr, "Warning: task %s: status change could not be logged", task.ShortID(c.Task.ID))
		}
	}
	output.Messagef(os.Stdout, "%d status changes", len(changes))
	return nil
}

func runReminders(_ *cobra.Command, _ []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}
	tasks, err := svc.List()
	if err != nil {
		return err
	}

	due := tracker.NewNotifier().Due(tasks, time.Now())

	if outputFormat() == output.FormatJSON {
		if due == nil {
			due = []tracker.Reminder{}
		}
		return output.JSON(os.Stdout, due)
	}
	if len(due) == 0 {
		output.Messagef(os.Stderr, "No reminders due.")
		return nil
	}
	for _, r := range due {
		output.Messagef(os.Stdout, "%s [%s] %s: %s", task.ShortID(r.TaskID), r.Kind, r.Title, r.Body)
	}
	return nil
}
