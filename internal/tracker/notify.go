package tracker

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/planyist/tasktory/internal/task"
)

// ReminderKind identifies one of the reminders a task can trigger.
type ReminderKind string

// Reminder kinds, in the order they normally fire.
const (
	ReminderHour    ReminderKind = "1h"
	ReminderQuarter ReminderKind = "15m"
	ReminderOverdue ReminderKind = "overdue"
)

const reminderBodyRunes = 50

// Reminder is a notification due for a task.
type Reminder struct {
	TaskID string       `json:"task_id"`
	Kind   ReminderKind `json:"kind"`
	Title  string       `json:"title"`
	Body   string       `json:"body"`
}

// Notifier remembers which reminders were already delivered so each
// (task, kind) pair fires at most once per Notifier.
type Notifier struct {
	mu       sync.Mutex
	notified map[string]struct{}
}

// NewNotifier returns a Notifier with an empty delivered set.
func NewNotifier() *Notifier {
	return &Notifier{notified: make(map[string]struct{})}
}

// Due returns the reminders that became due at now and marks them
// delivered. Completed tasks, tasks with notifications off and tasks with
// an unparseable target are skipped.
func (n *Notifier) Due(tasks []*task.Task, now time.Time) []Reminder {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []Reminder
	for _, t := range tasks {
		if t.Completed || !t.NotificationEnabled {
			continue
		}
		target, err := task.ParseDateTime(t.TargetDateTime)
		if err != nil {
			continue
		}

		before := now.Before(target)
		if before && !now.Before(target.Add(-time.Hour)) {
			out = n.fire(out, t, ReminderHour, "1 hour remaining!")
		}
		if before && !now.Before(target.Add(-15*time.Minute)) { //nolint:mnd // 15-minute reminder
			out = n.fire(out, t, ReminderQuarter, "15 minutes remaining!")
		}
		if !before {
			out = n.fire(out, t, ReminderOverdue, "Task is now overdue!")
		}
	}
	return out
}

func (n *Notifier) fire(out []Reminder, t *task.Task, kind ReminderKind, msg string) []Reminder {
	key := t.ID + "-" + string(kind)
	if _, done := n.notified[key]; done {
		return out
	}
	n.notified[key] = struct{}{}
	return append(out, Reminder{
		TaskID: t.ID,
		Kind:   kind,
		Title:  "Tasktory - " + msg,
		Body:   truncate(t.Content, reminderBodyRunes),
	})
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
