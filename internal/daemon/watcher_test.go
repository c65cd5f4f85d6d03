package daemon

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

func startWatcher(t *testing.T, root string) *atomic.Int32 {
	t.Helper()
	var fired atomic.Int32
	w, err := NewContentWatcher(root, 30*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })
	return &fired
}

func TestContentWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	fired := startWatcher(t, root)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "intro.md"), []byte{byte('a' + i)}, 0o600))
	}

	require.Eventually(t, func() bool { return fired.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.EqualValues(t, 1, fired.Load())
}

func TestContentWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	fired := startWatcher(t, root)

	sub := filepath.Join(root, "sdks")
	require.NoError(t, os.Mkdir(sub, 0o750))
	require.Eventually(t, func() bool { return fired.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	before := fired.Load()
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(sub, "python.md"), []byte(time.Now().String()), 0o600)
		return fired.Load() > before
	}, 2*time.Second, 50*time.Millisecond)
}

func TestContentWatcher_IgnoresHiddenFiles(t *testing.T) {
	root := t.TempDir()
	fired := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".swp"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestContentWatcher_MissingRoot(t *testing.T) {
	w, err := NewContentWatcher(filepath.Join(t.TempDir(), "missing"), 0, func() {})
	require.NoError(t, err)
	require.Error(t, w.Start(context.Background()))
}
