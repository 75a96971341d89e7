package activity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/planyist/tasktory/internal/date"
)

// HistoryDays is the length of the completion history shown on the board.
const HistoryDays = 30

// DayCount is the number of completions on one date.
type DayCount struct {
	Date  date.Date `json:"date"`
	Count int       `json:"count"`
}

// ReadWarning describes a record skipped while reading a log file.
type ReadWarning struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Err  error  `json:"-"`
}

func (w ReadWarning) Error() string {
	return fmt.Sprintf("%s:%d: %v", filepath.Base(w.File), w.Line, w.Err)
}

// CountCompletions returns how many COMPLETE records were logged on d.
// Every format present for the date is read and the counts are summed.
// Missing or unreadable files count as zero; malformed records are skipped.
func (l *Log) CountCompletions(d date.Date) int {
	n := 0
	l.scan(d, func(r Record) {
		if r.IsCompletion() {
			n++
		}
	}, nil)
	return n
}

// CountCompletionsFor is CountCompletions for a YYYY-MM-DD string.
// An invalid date has no file and counts as zero.
func (l *Log) CountCompletionsFor(s string) int {
	d, err := date.Parse(s)
	if err != nil {
		return 0
	}
	return l.CountCompletions(d)
}

// History returns completion counts for the days ending at today, oldest
// first. days < 1 yields an empty slice.
func (l *Log) History(today date.Date, days int) []DayCount {
	if days < 1 {
		return []DayCount{}
	}
	out := make([]DayCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDays(-i)
		out = append(out, DayCount{Date: d, Count: l.CountCompletions(d)})
	}
	return out
}

// ThirtyDayHistory returns the 30 days ending at today, oldest first.
func (l *Log) ThirtyDayHistory(today date.Date) []DayCount {
	return l.History(today, HistoryDays)
}

// Records returns every readable record logged on d, in file order, along
// with a warning for each record that had to be skipped.
func (l *Log) Records(d date.Date) ([]Record, []ReadWarning) {
	var (
		records  []Record
		warnings []ReadWarning
	)
	l.scan(d,
		func(r Record) { records = append(records, r) },
		func(w ReadWarning) { warnings = append(warnings, w) },
	)
	if records == nil {
		records = []Record{}
	}
	return records, warnings
}

// scan decodes the files of every known format for d. Reads take no lock,
// so a concurrent append may or may not be seen.
func (l *Log) scan(d date.Date, emit func(Record), warn func(ReadWarning)) {
	for _, c := range codecs {
		path := filepath.Join(l.dir, d.String()+c.ext())
		f, err := os.Open(path) //nolint:gosec // path built from logs dir and date
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				l.logger.Warn("activity log unreadable", "path", path, "error", err)
			}
			continue
		}

		skip := func(line int, err error) {
			l.logger.Debug("skipping malformed log record", "path", path, "line", line, "error", err)
			if warn != nil {
				warn(ReadWarning{File: path, Line: line, Err: err})
			}
		}
		if err := c.decode(f, emit, skip); err != nil {
			l.logger.Warn("activity log read stopped early", "path", path, "error", err)
			if warn != nil {
				warn(ReadWarning{File: path, Err: err})
			}
		}
		_ = f.Close()
	}
}
