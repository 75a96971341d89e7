package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/planyist/tasktory/internal/activity"
	"github.com/planyist/tasktory/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Status colors aligned with the board palette.
	statusStyles = map[string]lipgloss.Style{
		string(task.StatusPending):    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		string(task.StatusInProgress): lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		string(task.StatusUrgent):     lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		string(task.StatusOverdue):    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		string(task.StatusCompleted):  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	// Action colors for activity records.
	actionStyles = map[string]lipgloss.Style{
		string(activity.ActionAdd):          lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
		string(activity.ActionComplete):     lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
		string(activity.ActionDelete):       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		string(activity.ActionStatusChange): lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	}

	tagStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))

	colorEnabled = true
)

// DisableColor strips all styling from output, including rendered markdown.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	actionStyles = map[string]lipgloss.Style{}
	tagStyle = lipgloss.NewStyle()
	highlightStyle = lipgloss.NewStyle()
	barStyle = lipgloss.NewStyle()
	colorEnabled = false
}

// TaskTable renders a list of tasks as a formatted table. Active tasks are
// numbered by their 1-based position.
func TaskTable(w io.Writer, tasks []*task.Task, titleWidth int) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	posW, idW, statusW, titleW, tagsW := 4, 10, 8, 7, 6
	for _, t := range tasks {
		statusW = max(statusW, len(t.Status)+pad)
		titleW = max(titleW, min(lipgloss.Width(t.Content)+pad, titleWidth+pad))
		tagsW = max(tagsW, min(lipgloss.Width(t.Tags)+pad, 30)) //nolint:mnd // max tags column width
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %s",
		posW, "#", idW, "ID", statusW, "STATUS", titleW, "CONTENT", tagsW, "TAGS", "TARGET")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	pos := 0
	for _, t := range tasks {
		num := dimStyle.Render("--")
		if !t.Completed {
			pos++
			num = strconv.Itoa(pos)
		}

		content := truncate(t.Content, titleWidth)
		if t.Highlighted {
			content = highlightStyle.Render(content)
		}
		tags := t.Tags
		if tags == "" {
			tags = dimStyle.Render("--")
		} else {
			tags = tagStyle.Render(truncate(tags, 28)) //nolint:mnd // tags column minus padding
		}

		row := fmt.Sprintf("%s %-*s %s %s %s %s",
			padRight(num, posW),
			idW, task.ShortID(t.ID),
			padRight(styledValue(string(t.Status), statusStyles), statusW),
			padRight(content, titleW),
			padRight(tags, tagsW),
			stringOrDash(t.TargetDateTime))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. The content is
// rendered as markdown.
func TaskDetail(w io.Writer, t *task.Task, now time.Time) {
	titleLine := "Task " + task.ShortID(t.ID)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	printField(w, "ID", t.ID)
	printField(w, "Status", styledValue(string(t.Status), statusStyles))
	if t.Tags != "" {
		printField(w, "Tags", tagStyle.Render(t.Tags))
	} else {
		printField(w, "Tags", dimStyle.Render("--"))
	}
	printField(w, "Start", stringOrDash(t.StartDateTime))
	printField(w, "Target", stringOrDash(t.TargetDateTime))
	if !t.Completed {
		if target, err := task.ParseDateTime(t.TargetDateTime); err == nil {
			if d := target.Sub(now); d >= 0 {
				printField(w, "Time left", FormatDuration(d))
			} else {
				printField(w, "Overdue by", FormatDuration(-d))
			}
		}
	}
	printField(w, "Highlighted", yesNo(t.Highlighted))
	printField(w, "Reminders", onOff(t.NotificationEnabled))
	if !t.CreatedAt.IsZero() {
		printField(w, "Created", t.CreatedAt.Format(task.DateTimeLayout))
	}
	if t.CompletedAt != nil {
		printField(w, "Completed", t.CompletedAt.Format(task.DateTimeLayout))
		if !t.CreatedAt.IsZero() {
			printField(w, "Lead time", FormatDuration(t.CompletedAt.Sub(t.CreatedAt)))
		}
	}

	if t.Content != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, Markdown(t.Content, markdownWidth))
	}
}

// HistoryTable renders completion counts as a bar chart, one day per line.
func HistoryTable(w io.Writer, hist []activity.DayCount) {
	peak := 0
	total := 0
	for _, dc := range hist {
		peak = max(peak, dc.Count)
		total += dc.Count
	}

	const barWidth = 40
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-10s %5s", "DATE", "DONE")))
	for _, dc := range hist {
		bar := ""
		if peak > 0 && dc.Count > 0 {
			bar = barStyle.Render(strings.Repeat("█", max(1, dc.Count*barWidth/peak)))
		}
		count := strconv.Itoa(dc.Count)
		if dc.Count == 0 {
			count = dimStyle.Render("0")
		}
		fmt.Fprintf(w, "%-10s %s %s\n", dc.Date.String(), padLeft(count, 5), bar) //nolint:mnd // count column width
	}
	fmt.Fprintf(w, "\nTotal: %d completed in %d days\n", total, len(hist))
}

// RecordTable renders activity records in file order.
func RecordTable(w io.Writer, records []activity.Record) {
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}

	const timeW, actionW, statusW, idW = 8, 14, 11, 10
	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %s",
		timeW, "TIME", actionW, "ACTION", statusW, "STATUS", idW, "TASK", "CONTENT")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, r := range records {
		row := fmt.Sprintf("%-*s %s %s %-*s %s",
			timeW, r.Timestamp.Format("15:04:05"),
			padRight(styledValue(string(r.Action), actionStyles), actionW),
			padRight(styledValue(r.Status, statusStyles), statusW),
			idW, task.ShortID(r.TaskID),
			r.Content)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// FormatDuration renders a duration as human-readable "Xd Yh" or "Xh Ym".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	}
	minutes := int(d.Minutes()) % 60 //nolint:mnd // 60 minutes per hour
	return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func padLeft(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return strings.Repeat(" ", width-visible) + s
}

// truncate shortens s to at most width runes, ending in "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	const ellipsis = 3
	if width <= ellipsis {
		return string(r[:width])
	}
	return string(r[:width-ellipsis]) + "..."
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
