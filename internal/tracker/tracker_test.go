package tracker

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planyist/tasktory/internal/activity"
	"github.com/planyist/tasktory/internal/clierr"
	"github.com/planyist/tasktory/internal/task"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newService(t *testing.T) (*Service, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2025, time.January, 1, 8, 0, 0, 0, time.Local)}
	s, err := New(t.TempDir(), WithClock(c.now))
	require.NoError(t, err)
	return s, c
}

func add(t *testing.T, s *Service, content string) *task.Task {
	t.Helper()
	res, err := s.Add(AddInput{
		Content: content,
		Tags:    "#work",
		Start:   "2025-01-01 09:00",
		Target:  "2025-01-01 12:00",
	})
	require.NoError(t, err)
	require.True(t, res.Logged)
	return res.Task
}

func records(t *testing.T, s *Service) []activity.Record {
	t.Helper()
	recs, warnings := s.Log().Records(s.Today())
	require.Empty(t, warnings)
	return recs
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var cerr *clierr.Error
	require.ErrorAs(t, err, &cerr)
	return cerr.Code
}

func TestAdd_SavesAndLogs(t *testing.T) {
	s, _ := newService(t)

	tk := add(t, s, "Ship report")
	assert.Equal(t, task.StatusPending, tk.Status)
	assert.True(t, tk.NotificationEnabled)

	tasks, err := s.List()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, tk.ID, tasks[0].ID)

	recs := records(t, s)
	require.Len(t, recs, 1)
	assert.Equal(t, activity.ActionAdd, recs[0].Action)
	assert.Equal(t, "New task created", recs[0].Content)
	assert.Equal(t, "2025-01-01 09:00", recs[0].StartTime)
}

func TestAdd_Validation(t *testing.T) {
	s, _ := newService(t)

	_, err := s.Add(AddInput{Content: " ", Start: "2025-01-01 09:00", Target: "2025-01-01 10:00"})
	assert.Equal(t, clierr.InvalidInput, codeOf(t, err))

	_, err = s.Add(AddInput{Content: "x", Start: "2025-01-01 10:00", Target: "2025-01-01 09:00"})
	assert.Equal(t, clierr.InvalidTimeRange, codeOf(t, err))

	_, err = s.Add(AddInput{Content: "x", Start: "2025-01-01 09:00", Target: "2025-01-01 10:00", Position: 5})
	assert.Equal(t, clierr.InvalidInput, codeOf(t, err))

	assert.Empty(t, records(t, s))
}

func TestAdd_PositionAmongActive(t *testing.T) {
	s, _ := newService(t)
	a := add(t, s, "a")
	b := add(t, s, "b")
	_, err := s.Complete(a.ID, "")
	require.NoError(t, err)

	res, err := s.Add(AddInput{Content: "c", Start: "2025-01-01 09:00", Target: "2025-01-01 10:00", Position: 1})
	require.NoError(t, err)

	tasks, err := s.List()
	require.NoError(t, err)
	ids := []string{tasks[0].ID, tasks[1].ID, tasks[2].ID}
	assert.Equal(t, []string{res.Task.ID, b.ID, a.ID}, ids)
}

func TestComplete_CountsToday(t *testing.T) {
	s, _ := newService(t)
	a := add(t, s, "a")
	b := add(t, s, "b")

	_, err := s.Complete(a.ID, "")
	require.NoError(t, err)
	res, err := s.Complete(task.ShortID(b.ID), "shipped early")
	require.NoError(t, err)
	assert.True(t, res.Task.Completed)

	assert.Equal(t, 2, s.CompletedToday())

	recs := records(t, s)
	require.Len(t, recs, 4)
	assert.Equal(t, "a", recs[2].Content)
	assert.Equal(t, "(completed) shipped early", recs[3].Content)
	assert.Equal(t, "completed", recs[3].Status)

	_, err = s.Complete(a.ID, "")
	assert.Equal(t, clierr.StatusConflict, codeOf(t, err))
}

func TestDelete_LogsSnapshot(t *testing.T) {
	s, _ := newService(t)
	a := add(t, s, "Throw away")

	res, err := s.Delete(a.ID, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, a.ID, res.Task.ID)

	tasks, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, tasks)

	recs := records(t, s)
	require.Len(t, recs, 2)
	assert.Equal(t, activity.ActionDelete, recs[1].Action)
	assert.Equal(t, "(deleted) duplicate", recs[1].Content)
	assert.Equal(t, a.ID, recs[1].TaskID)

	_, err = s.Delete(a.ID, "")
	assert.Equal(t, clierr.TaskNotFound, codeOf(t, err))
}

func TestMove(t *testing.T) {
	s, _ := newService(t)
	a := add(t, s, "a")
	b := add(t, s, "b")
	c := add(t, s, "c")

	res, err := s.Move(c.ID, Up)
	require.NoError(t, err)
	assert.Equal(t, activity.ActionMoveUp, res.Action)

	tasks, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})

	recs := records(t, s)
	assert.Equal(t, "Moved task up from position 3 to 2", recs[len(recs)-1].Content)

	_, err = s.Move(a.ID, Up)
	assert.Equal(t, clierr.BoundaryError, codeOf(t, err))
	_, err = s.Move(b.ID, Down)
	assert.Equal(t, clierr.BoundaryError, codeOf(t, err))
	_, err = s.Move(a.ID, Direction("sideways"))
	assert.Equal(t, clierr.InvalidInput, codeOf(t, err))

	res, err = s.Move(a.ID, Down)
	require.NoError(t, err)
	recs = records(t, s)
	assert.Equal(t, activity.ActionMoveDown, res.Action)
	assert.Equal(t, "Moved task down from position 1 to 2", recs[len(recs)-1].Content)
}

func TestEdit(t *testing.T) {
	s, _ := newService(t)
	a := add(t, s, "a")

	_, err := s.Edit(a.ID, EditInput{})
	assert.Equal(t, clierr.NoChanges, codeOf(t, err))

	content := "renamed"
	target := "2025-01-01 08:30"
	res, err := s.Edit(a.ID, EditInput{Content: &content, Target: &target})
	assert.Equal(t, clierr.InvalidTimeRange, codeOf(t, err))

	start := "2025-01-01 07:00"
	res, err = s.Edit(a.ID, EditInput{Content: &content, Start: &start, Target: &target})
	require.NoError(t, err)
	assert.Equal(t, "renamed", res.Task.Content)
	assert.Equal(t, task.StatusUrgent, res.Task.Status)

	recs := records(t, s)
	assert.Equal(t, activity.ActionEdit, recs[len(recs)-1].Action)
	assert.Equal(t, "Task modified", recs[len(recs)-1].Content)
}

func TestToggles(t *testing.T) {
	s, _ := newService(t)
	a := add(t, s, "a")

	res, err := s.ToggleHighlight(a.ID)
	require.NoError(t, err)
	assert.True(t, res.Task.Highlighted)
	assert.Equal(t, activity.ActionHighlight, res.Action)

	res, err = s.ToggleHighlight(a.ID)
	require.NoError(t, err)
	assert.Equal(t, activity.ActionUnhighlight, res.Action)

	res, err = s.ToggleNotification(a.ID)
	require.NoError(t, err)
	assert.False(t, res.Task.NotificationEnabled)
	assert.Equal(t, activity.ActionNotiOff, res.Action)

	recs := records(t, s)
	require.Len(t, recs, 4)
	assert.Equal(t, "Task highlighted for emphasis", recs[1].Content)
	assert.Equal(t, "Task highlight removed", recs[2].Content)
	assert.Equal(t, "a", recs[3].Content)
}

func TestRefreshStatuses(t *testing.T) {
	s, c := newService(t)
	add(t, s, "a")

	changes, err := s.RefreshStatuses()
	require.NoError(t, err)
	assert.Empty(t, changes)

	c.t = time.Date(2025, time.January, 1, 11, 30, 0, 0, time.Local)
	changes, err = s.RefreshStatuses()
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, task.StatusPending, changes[0].From)
	assert.Equal(t, task.StatusUrgent, changes[0].To)
	assert.True(t, changes[0].Logged)

	recs := records(t, s)
	last := recs[len(recs)-1]
	assert.Equal(t, activity.ActionStatusChange, last.Action)
	assert.Equal(t, "Status changed to urgent", last.Content)
	assert.Equal(t, "urgent", last.Status)

	// Nothing changed since the last refresh.
	changes, err = s.RefreshStatuses()
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestMutation_SurvivesLogFailure(t *testing.T) {
	s, _ := newService(t)

	logs := s.LogsDir()
	require.NoError(t, os.RemoveAll(logs))
	require.NoError(t, os.WriteFile(logs, []byte("blocked"), 0o600))

	res, err := s.Add(AddInput{Content: "still saved", Start: "2025-01-01 09:00", Target: "2025-01-01 10:00"})
	require.NoError(t, err)
	assert.False(t, res.Logged)
	assert.NotEmpty(t, res.Warning())

	tasks, err := s.List()
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, 0, s.CompletedToday())
}

func TestHistory_Length(t *testing.T) {
	s, _ := newService(t)
	a := add(t, s, "a")
	_, err := s.Complete(a.ID, "")
	require.NoError(t, err)

	hist := s.History(activity.HistoryDays)
	require.Len(t, hist, activity.HistoryDays)
	assert.Equal(t, 1, hist[len(hist)-1].Count)
}
