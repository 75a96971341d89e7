package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/planyist/tasktory/internal/activity"
	"github.com/planyist/tasktory/internal/board"
	"github.com/planyist/tasktory/internal/clierr"
	"github.com/planyist/tasktory/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion counts from the activity log",
	Long: `Prints how many tasks were completed today. With --history, prints one
count per day for the last --days days, oldest first. Counts come from the
activity log, so tasks deleted after completion still count.`,
	RunE: runStats,
}

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"board"},
	Short:   "Show a per-status overview of the task list",
	RunE:    runSummary,
}

func init() {
	statsCmd.Flags().Bool("history", false, "show per-day history")
	statsCmd.Flags().Int("days", 0, "number of days of history (default from config)")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(summaryCmd)
}

// todayStats is the JSON shape of a plain stats call.
type todayStats struct {
	Date           string `json:"date"`
	CompletedToday int    `json:"completed_today"`
}

func runStats(cmd *cobra.Command, _ []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}

	if history, _ := cmd.Flags().GetBool("history"); !history {
		n := svc.CompletedToday()
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, todayStats{Date: svc.Today().String(), CompletedToday: n})
		}
		output.Messagef(os.Stdout, "Completed today: %d", n)
		return nil
	}

	days := cfg.HistoryDays()
	if cmd.Flags().Changed("days") {
		days, _ = cmd.Flags().GetInt("days")
		if days < 1 {
			return clierr.Newf(clierr.InvalidInput, "--days must be at least 1, got %d", days)
		}
	}
	hist := svc.History(days)

	switch outputFormat() {
	case output.FormatJSON:
		if hist == nil {
			hist = []activity.DayCount{}
		}
		return output.JSON(os.Stdout, hist)
	case output.FormatCompact:
		output.HistoryCompact(os.Stdout, hist)
	default:
		output.HistoryTable(os.Stdout, hist)
	}
	return nil
}

func runSummary(_ *cobra.Command, _ []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}
	tasks, err := svc.List()
	if err != nil {
		return err
	}
	ov := board.Summary(tasks, svc.CompletedToday())

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, ov)
	}
	output.Messagef(os.Stdout, "Tasks: %d (%d active, %d highlighted, %d with reminders)",
		ov.TotalTasks, ov.Active, ov.Highlighted, ov.Reminders)
	for _, s := range ov.Statuses {
		output.Messagef(os.Stdout, "  %-11s %d", s.Status, s.Count)
	}
	output.Messagef(os.Stdout, "Completed today: %d", ov.CompletedToday)
	return nil
}
