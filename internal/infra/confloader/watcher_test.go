package confloader

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	w, err := NewWatcher(WithDebounce(10 * time.Millisecond))
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Watch(path))

	var hits atomic.Int32
	var lastPath atomic.Value
	w.OnChange(func(p string) {
		lastPath.Store(p)
		hits.Add(1)
	})
	w.StartAsync()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("a: 2\n"), 0o600))

	require.Eventually(t, func() bool { return hits.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	abs, _ := filepath.Abs(path)
	assert.Equal(t, abs, lastPath.Load())
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	w.StartAsync()

	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
