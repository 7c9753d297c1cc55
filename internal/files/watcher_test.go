package files

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

func startWatcher(t *testing.T, path string) (*atomic.Int32, chan string) {
	t.Helper()

	w, err := NewWatcher(path, 50*time.Millisecond, nil)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var calls atomic.Int32
	changes := make(chan string, 10)
	go w.Run(ctx, func(p string) {
		calls.Add(1)
		changes <- p
	})
	return &calls, changes
}

func TestWatcherDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	calls, changes := startWatcher(t, path)

	// a burst of writes collapses into one notification
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("version two "+string(rune('a'+i))), 0644))
	}

	select {
	case p := <-changes:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherDetectsReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	_, changes := startWatcher(t, path)

	tmp := filepath.Join(dir, "orders.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("replaced content"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification after rename")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	calls, _ := startWatcher(t, path)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.xlsx"), []byte("x"), 0644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "orders.xlsx"), 0, nil)
	assert.Error(t, err)
}
