package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/planyist/tasktory/internal/activity"
	"github.com/planyist/tasktory/internal/task"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("237"))

	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)

	statusStyles = map[task.Status]lipgloss.Style{
		task.StatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		task.StatusUrgent:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		task.StatusOverdue:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		task.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	tagStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2) //nolint:mnd // dialog padding
)

// sparkBlocks are the eight bar heights of the history chart.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewConfirmComplete:
		return b.viewConfirm("Complete task?", counterStyle)
	case viewConfirmDelete:
		return b.viewConfirm("Delete task?", errorStyle)
	case viewHistory:
		return b.viewHistory()
	default:
		return b.viewList()
	}
}

func (b *Board) viewList() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("tasktory"))
	sb.WriteString("  ")
	sb.WriteString(counterStyle.Render(fmt.Sprintf("Completed today: %d", b.completedToday)))
	sb.WriteString("  ")
	sb.WriteString(barStyle.Render(sparkline(b.history)))
	sb.WriteString("\n\n")

	if len(b.visible) == 0 {
		sb.WriteString(dimStyle.Render("  No tasks. Add one with: tasktory add"))
		sb.WriteString("\n")
	}

	end := min(len(b.visible), b.scrollOff+b.listHeight())
	pos := 0
	for i, t := range b.visible {
		if !t.Completed {
			pos++
		}
		if i < b.scrollOff || i >= end {
			continue
		}
		sb.WriteString(b.renderRow(t, pos, i == b.row))
		sb.WriteString("\n")
	}

	sb.WriteString(b.renderStatusBar())
	return sb.String()
}

func (b *Board) renderRow(t *task.Task, pos int, selected bool) string {
	num := "  --"
	if !t.Completed {
		num = fmt.Sprintf("%4d", pos)
	}
	marker := " "
	if t.Highlighted {
		marker = highlightStyle.Render("★")
	}
	bell := " "
	if t.NotificationEnabled && !t.Completed {
		bell = dimStyle.Render("♪")
	}

	status := string(t.Status)
	if st, ok := statusStyles[t.Status]; ok {
		status = st.Render(status)
	}

	content := truncate(t.Content, b.cfg.TitleWidth())
	if t.Highlighted {
		content = highlightStyle.Render(content)
	}

	line := fmt.Sprintf("%s %s%s %s %s %s",
		num, marker, bell,
		padRight(status, 11), //nolint:mnd // widest status plus padding
		padRight(content, b.cfg.TitleWidth()),
		dimStyle.Render(t.TargetDateTime))
	if t.Tags != "" {
		line += " " + tagStyle.Render(t.Tags)
	}

	if selected {
		return selectedStyle.Render(padRight(line, b.width))
	}
	return line
}

func (b *Board) renderStatusBar() string {
	help := make([]string, 0, len(b.keys.shortHelp()))
	for _, k := range b.keys.shortHelp() {
		h := k.Help()
		help = append(help, h.Key+":"+h.Desc)
	}
	status := fmt.Sprintf(" %s | %s", countLabel(len(task.Active(b.tasks)), "active task"), strings.Join(help, " "))
	status = statusBarStyle.Render(truncate(status, b.width))

	switch {
	case b.err != nil:
		return "\n" + errorStyle.Render(truncate("Error: "+b.err.Error(), b.width)) + "\n" + status
	case b.notice != "":
		return "\n" + noticeStyle.Render(truncate(b.notice, b.width)) + "\n" + status
	}
	return "\n" + status
}

func (b *Board) viewConfirm(title string, style lipgloss.Style) string {
	t := b.selectedTask()
	if t == nil {
		return ""
	}
	content := style.Render(title) + "\n\n" +
		"  " + truncate(t.Content, b.cfg.TitleWidth()) + "\n\n" +
		dimStyle.Render("y:yes  n:no")
	return dialogStyle.Render(content)
}

func (b *Board) viewHistory() string {
	var sb strings.Builder
	total := 0
	peak := 0
	for _, dc := range b.history {
		total += dc.Count
		peak = max(peak, dc.Count)
	}

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Completed in the last %d days: %d", len(b.history), total)))
	sb.WriteString("\n\n")

	const barWidth = 40
	for _, dc := range b.history {
		bar := ""
		if peak > 0 && dc.Count > 0 {
			bar = barStyle.Render(strings.Repeat("█", max(1, dc.Count*barWidth/peak)))
		}
		fmt.Fprintf(&sb, "%6s %3d %s\n", dc.Date.Short(), dc.Count, bar)
	}
	sb.WriteString("\n")
	sb.WriteString(statusBarStyle.Render(" s:back q:back"))
	return sb.String()
}

// sparkline renders one block per day, scaled to the busiest day.
func sparkline(hist []activity.DayCount) string {
	peak := 0
	for _, dc := range hist {
		peak = max(peak, dc.Count)
	}
	var sb strings.Builder
	for _, dc := range hist {
		if peak == 0 || dc.Count == 0 {
			sb.WriteRune(sparkBlocks[0])
			continue
		}
		i := dc.Count * (len(sparkBlocks) - 1) / peak
		sb.WriteRune(sparkBlocks[max(i, 1)])
	}
	return sb.String()
}

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := maxLen - 3 //nolint:mnd // room for "..."
	if target > len(runes) {
		target = len(runes)
	}
	// Trim runes from the end until the display width fits.
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}

// countLabel pluralizes noun for n.
func countLabel(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
