package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/planyist/tasktory/internal/activity"
	"github.com/planyist/tasktory/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))

	ts := "  start:" + t.StartDateTime + " target:" + t.TargetDateTime
	if !t.CreatedAt.IsZero() {
		ts += " created:" + t.CreatedAt.Format(task.DateTimeLayout)
	}
	if t.CompletedAt != nil {
		ts += " completed:" + t.CompletedAt.Format(task.DateTimeLayout)
	}
	fmt.Fprintln(w, ts)
}

// HistoryCompact renders completion counts as "date=count" pairs.
func HistoryCompact(w io.Writer, hist []activity.DayCount) {
	parts := make([]string, 0, len(hist))
	for _, dc := range hist {
		parts = append(parts, dc.Date.Short()+"="+strconv.Itoa(dc.Count))
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}

// RecordCompact renders activity records one per line.
func RecordCompact(w io.Writer, records []activity.Record) {
	for _, r := range records {
		fmt.Fprintf(w, "%s %s [%s] %s %s\n",
			r.Timestamp.Format(activity.TimestampLayout), r.Action, r.Status, task.ShortID(r.TaskID), r.Content)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	line := task.ShortID(t.ID) + " [" + string(t.Status) + "] " + t.Content

	if t.Highlighted {
		line = "* " + line
	}
	if t.Tags != "" {
		line += " (" + t.Tags + ")"
	}
	if t.TargetDateTime != "" && !t.Completed {
		line += " due:" + t.TargetDateTime
	}

	return line
}
