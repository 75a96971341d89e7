// Package task holds the task record, its derived status and the
// whole-list JSON store.
package task

import (
	"time"

	"github.com/google/uuid"
)

// Status is the derived, cached state of a task.
type Status string

// Canonical status tokens. These are written to the activity log verbatim
// and must never be localized.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "inprogress"
	StatusUrgent     Status = "urgent"
	StatusOverdue    Status = "overdue"
	StatusCompleted  Status = "completed"
)

// Statuses lists every canonical status in lifecycle order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusUrgent, StatusOverdue, StatusCompleted}

// Valid reports whether s is a canonical status token.
func (s Status) Valid() bool {
	for _, c := range Statuses {
		if s == c {
			return true
		}
	}
	return false
}

// Task is a single to-do item. JSON field names match the tasks.json layout
// written by earlier releases.
type Task struct {
	ID                  string     `json:"id"`
	Content             string     `json:"content"`
	Tags                string     `json:"tags"`
	StartDateTime       string     `json:"startDateTime"`
	TargetDateTime      string     `json:"targetDateTime"`
	Completed           bool       `json:"completed"`
	Status              Status     `json:"status,omitempty"`
	Highlighted         bool       `json:"highlighted"`
	NotificationEnabled bool       `json:"notificationEnabled"`
	CreatedAt           time.Time  `json:"createdAt"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
}

// Snapshot is the copy of task fields embedded in an activity log record.
// It is a value, not a reference: later edits to the task do not affect it.
type Snapshot struct {
	ID             string `json:"id"`
	Content        string `json:"content"`
	Tags           string `json:"tags"`
	StartDateTime  string `json:"startDateTime"`
	TargetDateTime string `json:"targetDateTime"`
	Completed      bool   `json:"completed"`
	Status         Status `json:"status,omitempty"`
}

// Snapshot copies the fields the activity log records.
func (t *Task) Snapshot() Snapshot {
	return Snapshot{
		ID:             t.ID,
		Content:        t.Content,
		Tags:           t.Tags,
		StartDateTime:  t.StartDateTime,
		TargetDateTime: t.TargetDateTime,
		Completed:      t.Completed,
		Status:         t.Status,
	}
}

// NewID returns a fresh opaque task identifier.
func NewID() string {
	return "task-" + uuid.NewString()
}
