package task

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the wall-clock layout for start and target times.
const DateTimeLayout = "2006-01-02 15:04"

// DefaultUrgentWindow is how long before the target a task turns urgent.
const DefaultUrgentWindow = time.Hour

var acceptedLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDateTime parses a local wall-clock timestamp. Both the space and the
// ISO "T" separator are accepted, with or without seconds.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range acceptedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q: expected YYYY-MM-DD HH:MM", s)
}

// NormalizeDateTime parses s and re-renders it in DateTimeLayout.
func NormalizeDateTime(s string) (string, error) {
	t, err := ParseDateTime(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateTimeLayout), nil
}

// Derive computes a task's status at now.
// Order of precedence: completed, overdue, urgent, in progress, pending.
// Unparseable times are treated as absent, which leaves the task pending.
func Derive(t *Task, now time.Time, urgentWindow time.Duration) Status {
	if t.Completed {
		return StatusCompleted
	}
	if urgentWindow <= 0 {
		urgentWindow = DefaultUrgentWindow
	}

	if target, err := ParseDateTime(t.TargetDateTime); err == nil {
		if now.After(target) {
			return StatusOverdue
		}
		if !now.Before(target.Add(-urgentWindow)) {
			return StatusUrgent
		}
	}
	if start, err := ParseDateTime(t.StartDateTime); err == nil && !now.Before(start) {
		return StatusInProgress
	}
	return StatusPending
}
