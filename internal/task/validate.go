package task

import (
	"strings"

	"github.com/planyist/tasktory/internal/clierr"
)

// ValidateContent checks that a task has a non-blank description.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return clierr.New(clierr.InvalidInput, "task content is required")
	}
	return nil
}

// ValidateDate returns a CLIError for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateTimeRange checks that start is strictly before target.
// Both values are normalized to DateTimeLayout on success.
func ValidateTimeRange(start, target string) (string, string, error) {
	s, err := ParseDateTime(start)
	if err != nil {
		return "", "", ValidateDate("start time", start, err)
	}
	e, err := ParseDateTime(target)
	if err != nil {
		return "", "", ValidateDate("target time", target, err)
	}
	if !s.Before(e) {
		return "", "", clierr.Newf(clierr.InvalidTimeRange,
			"start time %s must be before target time %s", s.Format(DateTimeLayout), e.Format(DateTimeLayout)).
			WithDetails(map[string]any{
				"start":  start,
				"target": target,
			})
	}
	return s.Format(DateTimeLayout), e.Format(DateTimeLayout), nil
}

// ValidatePosition checks a 1-based insert position against the number of
// active tasks. Position n+1 appends.
func ValidatePosition(pos, activeCount int) error {
	if pos < 1 || pos > activeCount+1 {
		return clierr.Newf(clierr.InvalidInput, "position %d out of range (1-%d)", pos, activeCount+1).
			WithDetails(map[string]any{
				"position": pos,
				"max":      activeCount + 1,
			})
	}
	return nil
}

// ValidateBoundaryError returns a CLIError for a move past the list edge.
func ValidateBoundaryError(id, direction string) *clierr.Error {
	return clierr.Newf(clierr.BoundaryError,
		"task %s is already at the %s of the list", ShortID(id), direction).
		WithDetails(map[string]any{
			"id":        id,
			"direction": direction,
		})
}

// ValidateNotCompleted returns a StatusConflict error for completed tasks.
func ValidateNotCompleted(t *Task) error {
	if t.Completed {
		return clierr.Newf(clierr.StatusConflict, "task %s is already completed", ShortID(t.ID)).
			WithDetails(map[string]any{"id": t.ID})
	}
	return nil
}
