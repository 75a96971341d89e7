package task

import (
	"strings"

	"github.com/planyist/tasktory/internal/clierr"
)

const idPrefix = "task-"

// Resolve finds a task by full ID or by a unique ID prefix. The "task-"
// prefix may be omitted. Returns the index in tasks and the task.
func Resolve(tasks []*Task, ref string) (int, *Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, nil, clierr.New(clierr.InvalidTaskID, "task ID is required")
	}

	for i, t := range tasks {
		if t.ID == ref {
			return i, t, nil
		}
	}

	want := strings.TrimPrefix(ref, idPrefix)
	match := -1
	var candidates []string
	for i, t := range tasks {
		if strings.HasPrefix(strings.TrimPrefix(t.ID, idPrefix), want) {
			match = i
			candidates = append(candidates, t.ID)
		}
	}

	switch len(candidates) {
	case 0:
		return -1, nil, clierr.Newf(clierr.TaskNotFound, "task not found: %s", ref).
			WithDetails(map[string]any{"id": ref})
	case 1:
		return match, tasks[match], nil
	default:
		return -1, nil, clierr.Newf(clierr.AmbiguousTaskID, "task ID %q matches %d tasks", ref, len(candidates)).
			WithDetails(map[string]any{"id": ref, "candidates": candidates})
	}
}

// Active returns the non-completed tasks in list order.
func Active(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// CompletedTasks returns the completed tasks in list order.
func CompletedTasks(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// ShortID returns the first eight characters of the ID without the
// "task-" prefix, for display.
func ShortID(id string) string {
	const shortLen = 8
	s := strings.TrimPrefix(id, idPrefix)
	if len(s) > shortLen {
		return s[:shortLen]
	}
	return s
}
