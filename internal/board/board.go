// Package board provides list-level queries over the task list.
package board

import (
	"strings"

	"github.com/planyist/tasktory/internal/clierr"
	"github.com/planyist/tasktory/internal/task"
)

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter FilterOptions
	Limit  int
}

// List applies filters and the limit, keeping list order.
func List(tasks []*task.Task, opts ListOptions) []*task.Task {
	out := Filter(tasks, opts.Filter)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// StatusSummary holds the count for a single status.
type StatusSummary struct {
	Status task.Status `json:"status"`
	Count  int         `json:"count"`
}

// Overview is the aggregate list overview.
type Overview struct {
	TotalTasks     int             `json:"total_tasks"`
	Active         int             `json:"active"`
	Highlighted    int             `json:"highlighted"`
	Reminders      int             `json:"reminders"`
	CompletedToday int             `json:"completed_today"`
	Statuses       []StatusSummary `json:"statuses"`
}

// Summary counts tasks per status in lifecycle order. completedToday comes
// from the activity log, not the list, since deleted tasks still count.
func Summary(tasks []*task.Task, completedToday int) Overview {
	counts := CountByStatus(tasks)
	ov := Overview{
		TotalTasks:     len(tasks),
		CompletedToday: completedToday,
		Statuses:       make([]StatusSummary, 0, len(task.Statuses)),
	}
	for _, s := range task.Statuses {
		ov.Statuses = append(ov.Statuses, StatusSummary{Status: s, Count: counts[s]})
	}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		ov.Active++
		if t.Highlighted {
			ov.Highlighted++
		}
		if t.NotificationEnabled {
			ov.Reminders++
		}
	}
	return ov
}

// CountByStatus returns the number of tasks in each status.
func CountByStatus(tasks []*task.Task) map[task.Status]int {
	counts := make(map[task.Status]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

// ParseIDs splits comma-separated task references into a deduplicated list.
func ParseIDs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, arg := range args {
		for _, p := range strings.Split(arg, ",") {
			p = strings.TrimSpace(p)
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			ids = append(ids, p)
		}
	}
	if len(ids) == 0 {
		return nil, clierr.New(clierr.InvalidTaskID, "no valid task IDs provided")
	}
	return ids, nil
}
