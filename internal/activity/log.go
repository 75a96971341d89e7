// Package activity writes the append-only, day-partitioned activity log and
// derives completion statistics from it.
package activity

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/planyist/tasktory/internal/date"
	"github.com/planyist/tasktory/internal/filelock"
	"github.com/planyist/tasktory/internal/task"
)

const (
	logFileMode  = 0o600
	logDirMode   = 0o750
	lockFileName = ".lock"
)

// Log is the activity log rooted at one logs directory. Build it once per
// process and share it; appends are serialized internally.
type Log struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger

	mu sync.Mutex
}

// Option configures a Log.
type Option func(*Log)

// WithClock replaces time.Now. Tests use it to pin the date partition.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithLogger sets the logger that receives append failures.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) { l.logger = logger }
}

// New returns a Log writing under dir.
func New(dir string, opts ...Option) *Log {
	l := &Log{
		dir:    dir,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the logs directory.
func (l *Log) Dir() string {
	return l.dir
}

// PathFor returns the canonical log file for d.
func (l *Log) PathFor(d date.Date) string {
	return filepath.Join(l.dir, d.String()+tsvCodec{}.ext())
}

// Append records one mutation of the task in s. details, when non-blank,
// replaces the task content in the CONTENT column. Failures are logged and
// reported as false; they never panic or propagate.
func (l *Log) Append(s task.Snapshot, action Action, details string) bool {
	now := l.now()
	rec := NewRecord(now, s, action, details)
	path := l.PathFor(date.Of(now))

	if err := l.append(path, rec); err != nil {
		l.logger.Error("activity log append failed",
			"path", path,
			"action", string(rec.Action),
			"task_id", rec.TaskID,
			"error", err)
		return false
	}
	l.logger.Debug("activity logged",
		"path", path,
		"action", string(rec.Action),
		"task_id", rec.TaskID)
	return true
}

func (l *Log) append(path string, rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, logDirMode); err != nil {
		return fmt.Errorf("creating logs directory: %w", err)
	}

	// Other processes (a CLI call next to a running board) append to the
	// same day file.
	unlock, err := filelock.Lock(filepath.Join(l.dir, lockFileName))
	if err != nil {
		return fmt.Errorf("acquiring log lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock

	var c tsvCodec
	line := c.encode(rec)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_APPEND, logFileMode) //nolint:gosec // path built from logs dir and date
	switch {
	case err == nil:
		line = append(c.header(), line...)
	case errors.Is(err, fs.ErrExist):
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND, logFileMode) //nolint:gosec // path built from logs dir and date
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		// A file left empty by an interrupted create still needs its header.
		fi, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("inspecting log file: %w", err)
		}
		if fi.Size() == 0 {
			line = append(c.header(), line...)
		}
	default:
		return fmt.Errorf("creating log file: %w", err)
	}

	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing log record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}
