package board

import (
	"slices"
	"strings"

	"github.com/planyist/tasktory/internal/clierr"
	"github.com/planyist/tasktory/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Statuses []task.Status
	Tag      string
	Search   string // case-insensitive substring match across content and tags
	// Highlighted: nil=no filter, true=only highlighted, false=only plain.
	Highlighted *bool
	// IncludeCompleted keeps completed tasks; ignored when Statuses is set.
	IncludeCompleted bool
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []*task.Task, opts FilterOptions) []*task.Task {
	var result []*task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t *task.Task, opts FilterOptions) bool {
	if len(opts.Statuses) > 0 {
		if !slices.Contains(opts.Statuses, t.Status) {
			return false
		}
	} else if t.Completed && !opts.IncludeCompleted {
		return false
	}
	if opts.Tag != "" && !hasTag(t.Tags, opts.Tag) {
		return false
	}
	if opts.Highlighted != nil && t.Highlighted != *opts.Highlighted {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

// hasTag reports whether the whitespace-separated tags contain tag. The
// leading "#" is optional on either side.
func hasTag(tags, tag string) bool {
	want := strings.TrimPrefix(strings.ToLower(tag), "#")
	for _, f := range strings.Fields(strings.ToLower(tags)) {
		if strings.TrimPrefix(f, "#") == want {
			return true
		}
	}
	return false
}

func matchesSearch(t *task.Task, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Content), q) ||
		strings.Contains(strings.ToLower(t.Tags), q)
}

// ParseStatuses validates status names given on the command line.
func ParseStatuses(names []string) ([]task.Status, error) {
	out := make([]task.Status, 0, len(names))
	for _, n := range names {
		s := task.Status(strings.ToLower(strings.TrimSpace(n)))
		if !s.Valid() {
			return nil, clierr.Newf(clierr.InvalidInput, "invalid status %q", n).
				WithDetails(map[string]any{"allowed": task.Statuses})
		}
		out = append(out, s)
	}
	return out, nil
}
