package task

import "time"

// MarkCompleted completes t at now. CompletedAt is set once and never
// overwritten.
func MarkCompleted(t *Task, now time.Time) {
	t.Completed = true
	t.Status = StatusCompleted
	if t.CompletedAt == nil {
		at := now
		t.CompletedAt = &at
	}
}

// RefreshStatus recomputes the cached status of an active task.
// It reports whether a previously cached status changed; the first status
// assignment on a task is not a change.
func RefreshStatus(t *Task, now time.Time, urgentWindow time.Duration) (changed bool) {
	if t.Completed {
		return false
	}
	current := Derive(t, now, urgentWindow)
	previous := t.Status
	t.Status = current
	return previous != "" && previous != current
}
