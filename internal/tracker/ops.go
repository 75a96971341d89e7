package tracker

import (
	"fmt"
	"slices"

	"github.com/planyist/tasktory/internal/activity"
	"github.com/planyist/tasktory/internal/clierr"
	"github.com/planyist/tasktory/internal/task"
)

// Result is the outcome of a single-task mutation.
type Result struct {
	Task   *task.Task      `json:"task"`
	Action activity.Action `json:"action"`
	Logged bool            `json:"logged"`
}

// Warning returns a message when the activity record could not be written.
func (r Result) Warning() string {
	if r.Logged {
		return ""
	}
	return fmt.Sprintf("task saved, but the %s activity record could not be written", r.Action)
}

// AddInput holds the fields of a new task.
type AddInput struct {
	Content string
	Tags    string
	Start   string
	Target  string
	// Position is the 1-based slot among active tasks; 0 appends.
	Position int
	// Notify overrides the configured notification default when set.
	Notify *bool
}

// EditInput holds the fields to change; nil fields are left unchanged.
type EditInput struct {
	Content  *string
	Tags     *string
	Start    *string
	Target   *string
	Position *int
}

func (in EditInput) empty() bool {
	return in.Content == nil && in.Tags == nil && in.Start == nil && in.Target == nil && in.Position == nil
}

// Direction is a move among the active tasks.
type Direction string

// Move directions.
const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Add validates and inserts a new task, logging ADD.
func (s *Service) Add(in AddInput) (Result, error) {
	if err := task.ValidateContent(in.Content); err != nil {
		return Result{}, err
	}
	start, target, err := task.ValidateTimeRange(in.Start, in.Target)
	if err != nil {
		return Result{}, err
	}

	now := s.now()
	t := &task.Task{
		ID:                  task.NewID(),
		Content:             in.Content,
		Tags:                in.Tags,
		StartDateTime:       start,
		TargetDateTime:      target,
		NotificationEnabled: s.notifyDefault,
		CreatedAt:           now,
	}
	if in.Notify != nil {
		t.NotificationEnabled = *in.Notify
	}
	task.RefreshStatus(t, now, s.urgentWindow)

	logged, err := s.mutate(func(tasks []*task.Task) ([]*task.Task, []entry, error) {
		pos := in.Position
		active := len(task.Active(tasks))
		if pos == 0 {
			pos = active + 1
		}
		if err := task.ValidatePosition(pos, active); err != nil {
			return nil, nil, err
		}
		return place(tasks, t, pos), []entry{{t.Snapshot(), activity.ActionAdd, "New task created"}}, nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Task: t, Action: activity.ActionAdd, Logged: logged[0]}, nil
}

// Edit changes the given fields of a task, logging EDIT.
func (s *Service) Edit(ref string, in EditInput) (Result, error) {
	if in.empty() {
		return Result{}, clierr.New(clierr.NoChanges, "no changes specified")
	}
	if in.Content != nil {
		if err := task.ValidateContent(*in.Content); err != nil {
			return Result{}, err
		}
	}

	var edited *task.Task
	logged, err := s.mutate(func(tasks []*task.Task) ([]*task.Task, []entry, error) {
		_, t, err := task.Resolve(tasks, ref)
		if err != nil {
			return nil, nil, err
		}

		if in.Start != nil || in.Target != nil {
			start, target := t.StartDateTime, t.TargetDateTime
			if in.Start != nil {
				start = *in.Start
			}
			if in.Target != nil {
				target = *in.Target
			}
			start, target, err = task.ValidateTimeRange(start, target)
			if err != nil {
				return nil, nil, err
			}
			t.StartDateTime, t.TargetDateTime = start, target
		}
		if in.Content != nil {
			t.Content = *in.Content
		}
		if in.Tags != nil {
			t.Tags = *in.Tags
		}
		if !t.Completed {
			t.Status = task.Derive(t, s.now(), s.urgentWindow)
		}

		if in.Position != nil {
			if err := task.ValidateNotCompleted(t); err != nil {
				return nil, nil, err
			}
			active := len(task.Active(tasks))
			if err := task.ValidatePosition(*in.Position, active-1); err != nil {
				return nil, nil, err
			}
			tasks = place(tasks, t, *in.Position)
		}

		edited = t
		return tasks, []entry{{t.Snapshot(), activity.ActionEdit, "Task modified"}}, nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Task: edited, Action: activity.ActionEdit, Logged: logged[0]}, nil
}

// Complete marks a task completed, logging COMPLETE. details, when given,
// is recorded as "(completed) <details>" instead of the task content.
func (s *Service) Complete(ref, details string) (Result, error) {
	var done *task.Task
	logged, err := s.mutate(func(tasks []*task.Task) ([]*task.Task, []entry, error) {
		_, t, err := task.Resolve(tasks, ref)
		if err != nil {
			return nil, nil, err
		}
		if err := task.ValidateNotCompleted(t); err != nil {
			return nil, nil, err
		}
		task.MarkCompleted(t, s.now())
		done = t
		return tasks, []entry{{t.Snapshot(), activity.ActionComplete, prefixed("(completed)", details, t.Content)}}, nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Task: done, Action: activity.ActionComplete, Logged: logged[0]}, nil
}

// Delete removes a task, logging DELETE with the task as it was.
func (s *Service) Delete(ref, details string) (Result, error) {
	var removed *task.Task
	logged, err := s.mutate(func(tasks []*task.Task) ([]*task.Task, []entry, error) {
		i, t, err := task.Resolve(tasks, ref)
		if err != nil {
			return nil, nil, err
		}
		removed = t
		tasks = slices.Delete(tasks, i, i+1)
		return tasks, []entry{{t.Snapshot(), activity.ActionDelete, prefixed("(deleted)", details, t.Content)}}, nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Task: removed, Action: activity.ActionDelete, Logged: logged[0]}, nil
}

// Move swaps an active task with its active neighbor, logging MOVE_UP or
// MOVE_DOWN with the 1-based positions.
func (s *Service) Move(ref string, dir Direction) (Result, error) {
	action := activity.ActionMoveUp
	step := -1
	switch dir {
	case Up:
	case Down:
		action, step = activity.ActionMoveDown, 1
	default:
		return Result{}, clierr.Newf(clierr.InvalidInput, "invalid direction %q (expected up or down)", dir)
	}

	var moved *task.Task
	logged, err := s.mutate(func(tasks []*task.Task) ([]*task.Task, []entry, error) {
		_, t, err := task.Resolve(tasks, ref)
		if err != nil {
			return nil, nil, err
		}
		if err := task.ValidateNotCompleted(t); err != nil {
			return nil, nil, err
		}

		active := task.Active(tasks)
		from := slices.Index(active, t)
		to := from + step
		if to < 0 {
			return nil, nil, task.ValidateBoundaryError(t.ID, "top")
		}
		if to >= len(active) {
			return nil, nil, task.ValidateBoundaryError(t.ID, "bottom")
		}

		i, j := slices.Index(tasks, t), slices.Index(tasks, active[to])
		tasks[i], tasks[j] = tasks[j], tasks[i]

		moved = t
		details := fmt.Sprintf("Moved task %s from position %d to %d", dir, from+1, to+1)
		return tasks, []entry{{t.Snapshot(), action, details}}, nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Task: moved, Action: action, Logged: logged[0]}, nil
}

// ToggleHighlight flips the highlight flag, logging HIGHLIGHT or UNHIGHLIGHT.
func (s *Service) ToggleHighlight(ref string) (Result, error) {
	var (
		toggled *task.Task
		action  activity.Action
	)
	logged, err := s.mutate(func(tasks []*task.Task) ([]*task.Task, []entry, error) {
		_, t, err := task.Resolve(tasks, ref)
		if err != nil {
			return nil, nil, err
		}
		t.Highlighted = !t.Highlighted
		var details string
		action, details = activity.ActionUnhighlight, "Task highlight removed"
		if t.Highlighted {
			action, details = activity.ActionHighlight, "Task highlighted for emphasis"
		}
		toggled = t
		return tasks, []entry{{t.Snapshot(), action, details}}, nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Task: toggled, Action: action, Logged: logged[0]}, nil
}

// ToggleNotification flips the reminder flag, logging NOTI_ON or NOTI_OFF.
func (s *Service) ToggleNotification(ref string) (Result, error) {
	var (
		toggled *task.Task
		action  activity.Action
	)
	logged, err := s.mutate(func(tasks []*task.Task) ([]*task.Task, []entry, error) {
		_, t, err := task.Resolve(tasks, ref)
		if err != nil {
			return nil, nil, err
		}
		t.NotificationEnabled = !t.NotificationEnabled
		action = activity.ActionNotiOff
		if t.NotificationEnabled {
			action = activity.ActionNotiOn
		}
		toggled = t
		return tasks, []entry{{t.Snapshot(), action, t.Content}}, nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Task: toggled, Action: action, Logged: logged[0]}, nil
}

// StatusChange is one status transition found by RefreshStatuses.
type StatusChange struct {
	Task   *task.Task  `json:"task"`
	From   task.Status `json:"from"`
	To     task.Status `json:"to"`
	Logged bool        `json:"logged"`
}

// RefreshStatuses re-derives the cached status of every active task and logs
// STATUS_CHANGE for each task whose previously cached status changed. A
// first-time assignment is saved but not logged. The list is saved only if
// some status was assigned.
func (s *Service) RefreshStatuses() ([]StatusChange, error) {
	var changes []StatusChange
	logged, err := s.mutate(func(tasks []*task.Task) ([]*task.Task, []entry, error) {
		now := s.now()
		dirty := false
		var entries []entry
		for _, t := range tasks {
			before := t.Status
			changed := task.RefreshStatus(t, now, s.urgentWindow)
			if t.Status != before {
				dirty = true
			}
			if !changed {
				continue
			}
			changes = append(changes, StatusChange{Task: t, From: before, To: t.Status})
			entries = append(entries, entry{t.Snapshot(), activity.ActionStatusChange, "Status changed to " + string(t.Status)})
		}
		if !dirty {
			return nil, nil, nil
		}
		return tasks, entries, nil
	})
	if err != nil {
		return nil, err
	}
	for i := range changes {
		changes[i].Logged = logged[i]
	}
	return changes, nil
}

// place returns the list with t at the 1-based slot pos among the active
// tasks, followed by all completed tasks. t may or may not already be in
// tasks.
func place(tasks []*task.Task, t *task.Task, pos int) []*task.Task {
	rest := slices.DeleteFunc(slices.Clone(tasks), func(x *task.Task) bool { return x == t })
	active := task.Active(rest)
	active = slices.Insert(active, pos-1, t)
	return append(active, task.CompletedTasks(rest)...)
}

func prefixed(prefix, details, fallback string) string {
	if details == "" {
		return fallback
	}
	return prefix + " " + details
}
