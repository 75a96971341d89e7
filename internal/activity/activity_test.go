package activity

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planyist/tasktory/internal/date"
	"github.com/planyist/tasktory/internal/task"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func localTime(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path) //nolint:gosec // test temp dir
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

func shipReport() task.Snapshot {
	return task.Snapshot{
		ID:             "t1",
		Content:        "Ship report",
		Tags:           "#work",
		StartDateTime:  "2025-01-01 09:00",
		TargetDateTime: "2025-01-01 10:00",
		Completed:      true,
	}
}

func TestAppend_CreatesDayFileWithHeader(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, WithClock(fixedClock(localTime(2025, time.January, 1, 10, 5))))

	require.True(t, l.Append(shipReport(), ActionComplete, ""))

	path := filepath.Join(dir, "2025-01-01.tsv")
	assert.Equal(t, path, l.PathFor(date.New(2025, time.January, 1)))

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(Columns, "\t"), lines[0])

	fields := strings.Split(lines[1], "\t")
	require.Len(t, fields, 8)
	assert.Equal(t, "2025-01-01 10:05:00", fields[0])
	assert.Equal(t, "COMPLETE", fields[1])
	assert.Equal(t, "completed", fields[2])
	assert.Equal(t, "t1", fields[3])
	assert.Equal(t, "#work", fields[6])
	assert.Equal(t, "Ship report", fields[7])

	assert.Equal(t, 1, l.CountCompletionsFor("2025-01-01"))
}

func TestAppend_IsAppendOnlyInCallOrder(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, WithClock(fixedClock(localTime(2025, time.March, 3, 9, 0))))
	s := task.Snapshot{ID: "t1", Content: "Write tests"}

	actions := []Action{ActionAdd, ActionEdit, ActionHighlight, ActionMoveUp, ActionComplete}
	for _, a := range actions {
		require.True(t, l.Append(s, a, ""))
	}

	lines := readLines(t, l.PathFor(date.New(2025, time.March, 3)))
	require.Len(t, lines, len(actions)+1)
	assert.Equal(t, 1, countHeaders(lines))
	for i, a := range actions {
		assert.Equal(t, string(a), strings.Split(lines[i+1], "\t")[1])
	}
}

func countHeaders(lines []string) int {
	n := 0
	for _, line := range lines {
		if strings.HasPrefix(line, Columns[0]+"\t") {
			n++
		}
	}
	return n
}

func TestAppend_PartitionsByLocalDate(t *testing.T) {
	dir := t.TempDir()
	now := localTime(2025, time.January, 1, 23, 59)
	l := New(dir, WithClock(func() time.Time { return now }))

	require.True(t, l.Append(shipReport(), ActionComplete, ""))
	now = localTime(2025, time.January, 2, 0, 1)
	require.True(t, l.Append(shipReport(), ActionAdd, ""))

	first := readLines(t, filepath.Join(dir, "2025-01-01.tsv"))
	second := readLines(t, filepath.Join(dir, "2025-01-02.tsv"))
	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Contains(t, first[1], "\tCOMPLETE\t")
	assert.Contains(t, second[1], "\tADD\t")

	assert.Equal(t, 1, l.CountCompletions(date.New(2025, time.January, 1)))
	assert.Equal(t, 0, l.CountCompletions(date.New(2025, time.January, 2)))
}

func TestAppend_ExistingDirectoryAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	l := New(dir, WithClock(fixedClock(localTime(2025, time.May, 5, 8, 0))))

	for range 3 {
		require.True(t, l.Append(shipReport(), ActionAdd, ""))
	}

	lines := readLines(t, l.PathFor(date.New(2025, time.May, 5)))
	assert.Len(t, lines, 4)
	assert.Equal(t, 1, countHeaders(lines))
}

func TestAppend_EmptyExistingFileGetsHeader(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, WithClock(fixedClock(localTime(2025, time.May, 6, 8, 0))))
	path := l.PathFor(date.New(2025, time.May, 6))
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	require.True(t, l.Append(shipReport(), ActionComplete, ""))
	require.True(t, l.Append(shipReport(), ActionComplete, ""))

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(Columns, "\t"), lines[0])
	assert.Equal(t, 1, countHeaders(lines))
	assert.Equal(t, 2, l.CountCompletions(date.New(2025, time.May, 6)))
}

func TestAppend_UnwritableDirectoryReturnsFalse(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "logs")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o600))

	l := New(blocker)
	assert.False(t, l.Append(shipReport(), ActionAdd, ""))
}

func TestCountCompletions_MixedActions(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, WithClock(fixedClock(localTime(2025, time.February, 10, 12, 0))))

	for _, a := range []Action{ActionAdd, ActionComplete, ActionEdit, ActionComplete, ActionDelete} {
		require.True(t, l.Append(task.Snapshot{ID: "t1", Content: "x"}, a, ""))
	}
	assert.Equal(t, 2, l.CountCompletions(date.New(2025, time.February, 10)))
}

func TestCountCompletions_MissingFileIsZero(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "does-not-exist"))

	assert.Equal(t, 0, l.CountCompletions(date.New(1999, time.December, 31)))
	assert.Equal(t, 0, l.CountCompletionsFor("not-a-date"))
}

func TestCountCompletions_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		strings.Join(Columns, "\t"),
		"2025-01-01 09:00:00\tCOMPLETE\tcompleted\tt1\t\t\t\tok",
		"garbage line",
		"2025-01-01 09:01:00\tCOMPLETE\tcompleted\tt2",
		"yesterday\tCOMPLETE\tcompleted\tt3\t\t\t\tbad timestamp",
		"2025-01-01 09:02:00\t COMPLETE \tcompleted\tt4\t\t\t\ttrimmed\r",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-01-01.tsv"), []byte(content), 0o600))

	l := New(dir)
	d := date.New(2025, time.January, 1)
	assert.Equal(t, 2, l.CountCompletions(d))

	records, warnings := l.Records(d)
	assert.Len(t, records, 2)
	require.Len(t, warnings, 3)
	assert.ErrorIs(t, warnings[0].Err, ErrColumnCount)
	assert.Equal(t, 3, warnings[0].Line)
	assert.ErrorIs(t, warnings[2].Err, ErrTimestamp)
}

func TestCountCompletions_OverlongLineDoesNotHideLaterRecords(t *testing.T) {
	dir := t.TempDir()
	complete := "2025-01-01 09:00:00\tCOMPLETE\tcompleted\tt1\t\t\t\tok"
	huge := "2025-01-01 09:00:30\tADD\tpending\tt2\t\t\t\t" + strings.Repeat("x", 2*maxLineBytes)
	content := strings.Join([]string{
		strings.Join(Columns, "\t"),
		complete,
		huge,
		complete,
		complete,
		complete,
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-01-01.tsv"), []byte(content), 0o600))

	l := New(dir)
	d := date.New(2025, time.January, 1)
	assert.Equal(t, 4, l.CountCompletions(d))

	records, warnings := l.Records(d)
	assert.Len(t, records, 4)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0].Err, ErrColumnCount)
	assert.Equal(t, 3, warnings[0].Line)
}

func TestLegacyFixedWidth_OverlongLineIsSkipped(t *testing.T) {
	dir := t.TempDir()
	content := "2024-05-01 08:00:00 ADD pending " + strings.Repeat("y", maxLineBytes+1) + "\n" +
		"2024-05-01 09:00:00 COMPLETE completed Water plants"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-05-01.log"), []byte(content), 0o600))

	l := New(dir)
	d := date.New(2024, time.May, 1)
	assert.Equal(t, 1, l.CountCompletions(d))

	_, warnings := l.Records(d)
	require.Len(t, warnings, 1)
	assert.Equal(t, 1, warnings[0].Line)
}

func TestAppend_ClipsLongFields(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, WithClock(fixedClock(localTime(2025, time.January, 1, 9, 0))))

	long := task.Snapshot{ID: "t1", Content: strings.Repeat("é", 3*maxLineBytes), Tags: strings.Repeat("#t", 2*maxFieldRunes)}
	require.True(t, l.Append(long, ActionComplete, ""))
	for range 3 {
		require.True(t, l.Append(shipReport(), ActionComplete, ""))
	}

	d := date.New(2025, time.January, 1)
	assert.Equal(t, 4, l.CountCompletions(d))

	records, warnings := l.Records(d)
	assert.Empty(t, warnings)
	require.Len(t, records, 4)
	assert.Equal(t, strings.Repeat("é", maxFieldRunes), records[0].Content)
	assert.Len(t, records[0].Tags, maxFieldRunes)
}

func TestAppend_SanitizesSeparators(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, WithClock(fixedClock(localTime(2025, time.January, 1, 9, 0))))

	s := task.Snapshot{ID: "t1", Content: "line one\tcol\nline two\r\nend", Tags: "#a\t#b"}
	require.True(t, l.Append(s, ActionAdd, ""))

	lines := readLines(t, l.PathFor(date.New(2025, time.January, 1)))
	require.Len(t, lines, 2)
	fields := strings.Split(lines[1], "\t")
	require.Len(t, fields, 8)
	assert.Equal(t, "line one col line two  end", fields[7])
	assert.Equal(t, "#a #b", fields[6])

	records, warnings := l.Records(date.New(2025, time.January, 1))
	assert.Empty(t, warnings)
	require.Len(t, records, 1)
	assert.Equal(t, "line one col line two  end", records[0].Content)
}

func TestAppend_DetailsOverrideContent(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, WithClock(fixedClock(localTime(2025, time.January, 1, 9, 0))))

	require.True(t, l.Append(shipReport(), ActionDelete, "(deleted) no longer needed"))
	require.True(t, l.Append(shipReport(), ActionEdit, "   "))

	records, _ := l.Records(date.New(2025, time.January, 1))
	require.Len(t, records, 2)
	assert.Equal(t, "(deleted) no longer needed", records[0].Content)
	assert.Equal(t, "Ship report", records[1].Content)
}

func TestAppend_NormalizesActionAndStatus(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, WithClock(fixedClock(localTime(2025, time.January, 1, 9, 0))))

	localized := task.Snapshot{ID: "t1", Content: "x", Status: task.Status("진행중")}
	require.True(t, l.Append(localized, Action("move-up"), ""))
	require.True(t, l.Append(task.Snapshot{ID: "t2", Status: task.StatusUrgent}, Action("Notification Off"), ""))
	require.True(t, l.Append(task.Snapshot{ID: "t3"}, Action("ARCHIVE"), ""))

	records, _ := l.Records(date.New(2025, time.January, 1))
	require.Len(t, records, 3)
	assert.Equal(t, ActionMoveUp, records[0].Action)
	assert.Equal(t, "pending", records[0].Status)
	assert.Equal(t, ActionNotiOff, records[1].Action)
	assert.Equal(t, "urgent", records[1].Status)
	assert.Equal(t, Action("ARCHIVE"), records[2].Action)
}

func TestThirtyDayHistory_Shape(t *testing.T) {
	dir := t.TempDir()
	now := localTime(2025, time.January, 15, 12, 0)
	l := New(dir, WithClock(func() time.Time { return now }))

	require.True(t, l.Append(shipReport(), ActionComplete, ""))
	now = localTime(2024, time.December, 20, 12, 0)
	require.True(t, l.Append(shipReport(), ActionComplete, ""))
	require.True(t, l.Append(shipReport(), ActionComplete, ""))

	today := date.New(2025, time.January, 15)
	hist := l.ThirtyDayHistory(today)
	require.Len(t, hist, HistoryDays)

	assert.Equal(t, "2024-12-17", hist[0].Date.String())
	assert.True(t, hist[len(hist)-1].Date.Equal(today))
	for i := 1; i < len(hist); i++ {
		assert.True(t, hist[i-1].Date.Before(hist[i].Date))
	}

	byDate := map[string]int{}
	for _, dc := range hist {
		byDate[dc.Date.String()] = dc.Count
	}
	assert.Equal(t, 1, byDate["2025-01-15"])
	assert.Equal(t, 2, byDate["2024-12-20"])
	assert.Equal(t, 0, byDate["2025-01-01"])
}

func TestHistory_EmptyDirectory(t *testing.T) {
	l := New(t.TempDir())

	hist := l.History(date.New(2025, time.July, 1), 7)
	require.Len(t, hist, 7)
	for _, dc := range hist {
		assert.Zero(t, dc.Count)
	}
	assert.Empty(t, l.History(date.New(2025, time.July, 1), 0))
}

func TestAppend_ConcurrentWriters(t *testing.T) {
	dir := t.TempDir()
	clock := fixedClock(localTime(2025, time.April, 1, 12, 0))
	// Two Log values model two processes sharing the directory.
	a := New(dir, WithClock(clock))
	b := New(dir, WithClock(clock))

	const perWriter = 25
	var wg sync.WaitGroup
	for _, l := range []*Log{a, b, a, b} {
		wg.Add(1)
		go func(l *Log) {
			defer wg.Done()
			for range perWriter {
				l.Append(task.Snapshot{ID: "t", Content: "c"}, ActionComplete, "")
			}
		}(l)
	}
	wg.Wait()

	lines := readLines(t, a.PathFor(date.New(2025, time.April, 1)))
	assert.Len(t, lines, 4*perWriter+1)
	assert.Equal(t, 1, countHeaders(lines))
	assert.Equal(t, 4*perWriter, a.CountCompletions(date.New(2025, time.April, 1)))
}

func TestLegacyJSONArray(t *testing.T) {
	dir := t.TempDir()
	content := `[
  {"timestamp":"2024-06-01T08:00:00.000Z","action":"ADD","taskId":"a","details":"New task created","taskData":{"id":"a","content":"first"}},
  {"timestamp":"2024-06-01T09:00:00.000Z","action":"COMPLETE","taskId":"a","taskData":{"id":"a","content":"first","status":"completed"}},
  {"timestamp":"2024-06-01T10:00:00.000Z","action":"COMPLETE","taskData":{"id":"b","content":"second"}}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-06-01.json"), []byte(content), 0o600))

	l := New(dir)
	d := date.New(2024, time.June, 1)
	assert.Equal(t, 2, l.CountCompletions(d))

	records, warnings := l.Records(d)
	assert.Empty(t, warnings)
	require.Len(t, records, 3)
	assert.Equal(t, "New task created", records[0].Content)
	assert.Equal(t, "first", records[1].Content)
	assert.Equal(t, "b", records[2].TaskID)
}

func TestLegacyJSONArray_TruncatedKeepsPrefix(t *testing.T) {
	dir := t.TempDir()
	content := `[{"action":"COMPLETE","taskId":"a"},{"action":"COMPLETE","taskId":"b"},{"action":"COMP`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-06-02.json"), []byte(content), 0o600))

	l := New(dir)
	d := date.New(2024, time.June, 2)
	assert.Equal(t, 2, l.CountCompletions(d))

	_, warnings := l.Records(d)
	assert.Len(t, warnings, 1)
}

func TestLegacyJSONArray_BadTimestampIsSkipped(t *testing.T) {
	dir := t.TempDir()
	content := `[
  {"timestamp":"yesterday","action":"COMPLETE","taskId":"a"},
  {"timestamp":"2024-06-03T09:00:00Z","action":"COMPLETE","taskId":"b"},
  {"action":"COMPLETE","taskId":"c"}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-06-03.json"), []byte(content), 0o600))

	l := New(dir)
	d := date.New(2024, time.June, 3)
	assert.Equal(t, 2, l.CountCompletions(d))

	records, warnings := l.Records(d)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0].Err, ErrTimestamp)
	assert.Equal(t, 1, warnings[0].Line)
	require.Len(t, records, 2)
	assert.False(t, records[0].Timestamp.IsZero())
	assert.True(t, records[1].Timestamp.IsZero())
}

func TestLegacyFixedWidth(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		"TIMESTAMP           ACTION     STATUS     CONTENT",
		"2024-05-01 08:00:00 [ADD]      | pending  | Water plants",
		"2024-05-01 09:00:00 [COMPLETE] | completed| Water plants",
		"2024-05-01 09:30:00 COMPLETE   completed  Call mom",
		"short",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-05-01.log"), []byte(content), 0o600))

	l := New(dir)
	d := date.New(2024, time.May, 1)
	assert.Equal(t, 2, l.CountCompletions(d))

	records, warnings := l.Records(d)
	require.Len(t, records, 3)
	assert.Len(t, warnings, 1)
	assert.Equal(t, ActionAdd, records[0].Action)
	assert.Equal(t, "pending", records[0].Status)
	assert.Equal(t, "Call mom", records[2].Content)
}

func TestCountCompletions_SumsAcrossFormats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-05-01.json"),
		[]byte(`[{"action":"COMPLETE","taskId":"a"}]`), 0o600))
	l := New(dir, WithClock(fixedClock(localTime(2024, time.May, 1, 12, 0))))
	require.True(t, l.Append(shipReport(), ActionComplete, ""))

	assert.Equal(t, 2, l.CountCompletions(date.New(2024, time.May, 1)))
}

func TestNormalizeAction(t *testing.T) {
	tests := map[string]Action{
		"COMPLETE":         ActionComplete,
		"complete":         ActionComplete,
		" Move-Up ":        ActionMoveUp,
		"move down":        ActionMoveDown,
		"noti_on":          ActionNotiOn,
		"notification-off": ActionNotiOff,
		"STATUS_CHANGE":    ActionStatusChange,
		"Custom":           Action("Custom"),
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeAction(in), in)
	}
	assert.True(t, ActionHighlight.Known())
	assert.False(t, Action("Custom").Known())
}
