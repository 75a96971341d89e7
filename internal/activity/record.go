package activity

import (
	"strings"
	"time"

	"github.com/planyist/tasktory/internal/task"
)

// TimestampLayout is the local, second-precision layout of the TIMESTAMP column.
const TimestampLayout = "2006-01-02 15:04:05"

// Columns is the header row of a log file, in column order.
var Columns = []string{
	"TIMESTAMP", "ACTION", "STATUS", "TASK_ID",
	"START_TIME", "TARGET_TIME", "TAGS", "CONTENT",
}

// Record is one line of the activity log.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     Action    `json:"action"`
	Status     string    `json:"status"`
	TaskID     string    `json:"task_id"`
	StartTime  string    `json:"start_time"`
	TargetTime string    `json:"target_time"`
	Tags       string    `json:"tags"`
	Content    string    `json:"content"`
}

// maxFieldRunes caps each free-text column so a record always fits in one
// read buffer.
const maxFieldRunes = 1000

// NewRecord builds the record for one mutation. details, when non-empty,
// replaces the task content in the CONTENT column. Free-text columns are
// cut to maxFieldRunes.
func NewRecord(now time.Time, s task.Snapshot, action Action, details string) Record {
	content := s.Content
	if strings.TrimSpace(details) != "" {
		content = details
	}
	return Record{
		Timestamp:  now.Truncate(time.Second),
		Action:     NormalizeAction(string(action)),
		Status:     string(StatusOf(s)),
		TaskID:     s.ID,
		StartTime:  clip(s.StartDateTime),
		TargetTime: clip(s.TargetDateTime),
		Tags:       clip(s.Tags),
		Content:    clip(content),
	}
}

// StatusOf returns the status token to log for s. A cached canonical status
// wins; anything else (empty or non-canonical, e.g. localized text) falls
// back to completed/pending from the boolean.
func StatusOf(s task.Snapshot) task.Status {
	if s.Status.Valid() {
		return s.Status
	}
	if s.Completed {
		return task.StatusCompleted
	}
	return task.StatusPending
}

// IsCompletion reports whether r records a task completion.
func (r Record) IsCompletion() bool {
	return Action(strings.TrimSpace(string(r.Action))) == ActionComplete
}

var fieldSanitizer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// sanitize replaces field separators and line breaks with a single space so
// a record stays on one line with a fixed column count.
func sanitize(s string) string {
	return fieldSanitizer.Replace(s)
}

// clip cuts s to at most maxFieldRunes runes.
func clip(s string) string {
	if len(s) <= maxFieldRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxFieldRunes {
			return s[:i]
		}
		n++
	}
	return s
}
