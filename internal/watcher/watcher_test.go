package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func start(t *testing.T, dir string, delay time.Duration, fired *atomic.Int32) {
	t.Helper()
	w, err := New([]string{dir}, func() { fired.Add(1) }, WithDelay(delay))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx, nil)
	t.Cleanup(func() {
		cancel()
		_ = w.Close()
	})
}

func TestWatcher_CoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	var fired atomic.Int32
	start(t, dir, 200*time.Millisecond, &fired)

	for i := range 5 {
		name := filepath.Join(dir, "2025-01-01.tsv")
		require.NoError(t, os.WriteFile(name, []byte{byte('a' + i)}, 0o600))
	}

	assert.Eventually(t, func() bool { return fired.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestWatcher_IgnoresBookkeeping(t *testing.T) {
	dir := t.TempDir()
	var fired atomic.Int32
	start(t, dir, 20*time.Millisecond, &fired)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lock"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tasks-123.json"), []byte("[]"), 0o600))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestIgnoreBookkeeping(t *testing.T) {
	assert.True(t, IgnoreBookkeeping("/x/logs/.lock"))
	assert.True(t, IgnoreBookkeeping("/x/data/.tasks-99.json"))
	assert.False(t, IgnoreBookkeeping("/x/data/tasks.json"))
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "nope")}, func() {})
	assert.Error(t, err)
}
