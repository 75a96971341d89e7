// Package tracker applies task mutations. Each mutation saves the whole task
// list first and then appends one activity record; a failed append is
// reported on the result but never fails the mutation.
package tracker

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/planyist/tasktory/internal/activity"
	"github.com/planyist/tasktory/internal/config"
	"github.com/planyist/tasktory/internal/date"
	"github.com/planyist/tasktory/internal/filelock"
	"github.com/planyist/tasktory/internal/paths"
	"github.com/planyist/tasktory/internal/task"
)

const lockFileName = ".lock"

// Service is the boundary between a host UI and the task store plus
// activity log.
type Service struct {
	dirs   paths.Dirs
	store  *task.Store
	log    *activity.Log
	now    func() time.Time
	logger *slog.Logger

	urgentWindow  time.Duration
	notifyDefault bool
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for both the service and its activity log.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger for the service and its activity log.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithConfig applies the urgent window and new-task defaults from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.urgentWindow = cfg.UrgentWindow()
		s.notifyDefault = cfg.Defaults.NotificationEnabled
	}
}

// New creates the data and logs directories under root and returns a
// Service over them.
func New(root string, opts ...Option) (*Service, error) {
	dirs, err := paths.EnsureDataDirs(root)
	if err != nil {
		return nil, err
	}

	s := &Service{
		dirs:          dirs,
		store:         task.NewStore(dirs.Data),
		now:           time.Now,
		logger:        slog.New(slog.DiscardHandler),
		urgentWindow:  task.DefaultUrgentWindow,
		notifyDefault: config.DefaultNotificationEnabled,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = activity.New(dirs.Logs,
		activity.WithClock(s.now),
		activity.WithLogger(s.logger))
	return s, nil
}

// Dirs returns the resolved data and logs directories.
func (s *Service) Dirs() paths.Dirs {
	return s.dirs
}

// Log returns the activity log the service appends to.
func (s *Service) Log() *activity.Log {
	return s.log
}

// LogsDir returns the activity log directory.
func (s *Service) LogsDir() string {
	return s.log.Dir()
}

// UrgentWindow returns the window before the target in which tasks are urgent.
func (s *Service) UrgentWindow() time.Duration {
	return s.urgentWindow
}

// Today returns the local calendar date of the service clock.
func (s *Service) Today() date.Date {
	return date.Of(s.now())
}

// CompletedToday counts today's COMPLETE records.
func (s *Service) CompletedToday() int {
	return s.log.CountCompletions(s.Today())
}

// History returns completion counts for the given number of days ending today.
func (s *Service) History(days int) []activity.DayCount {
	return s.log.History(s.Today(), days)
}

// List loads the task list with statuses derived at the current time.
// Derived statuses are not saved; see RefreshStatuses.
func (s *Service) List() ([]*task.Task, error) {
	tasks, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, t := range tasks {
		task.RefreshStatus(t, now, s.urgentWindow)
	}
	return tasks, nil
}

// Get returns the task matching ref, a full ID or unique prefix.
func (s *Service) Get(ref string) (*task.Task, error) {
	tasks, err := s.List()
	if err != nil {
		return nil, err
	}
	_, t, err := task.Resolve(tasks, ref)
	return t, err
}

// entry is one pending activity record produced by a mutation.
type entry struct {
	snap    task.Snapshot
	action  activity.Action
	details string
}

// mutate runs fn over the loaded list under the data-dir lock and saves the
// list it returns. A nil list skips the save. Activity records are appended
// only after a successful save; the returned flags report each append.
func (s *Service) mutate(fn func([]*task.Task) ([]*task.Task, []entry, error)) ([]bool, error) {
	var entries []entry
	err := filelock.Do(filepath.Join(s.dirs.Data, lockFileName), func() error {
		tasks, err := s.store.Load()
		if err != nil {
			return err
		}
		updated, es, err := fn(tasks)
		if err != nil {
			return err
		}
		entries = es
		if updated == nil {
			return nil
		}
		return s.store.Save(updated)
	})
	if err != nil {
		return nil, err
	}

	logged := make([]bool, len(entries))
	for i, e := range entries {
		logged[i] = s.log.Append(e.snap, e.action, e.details)
		if !logged[i] {
			s.logger.Warn("task saved but activity not logged",
				"task_id", e.snap.ID,
				"action", string(e.action))
		}
	}
	return logged, nil
}
