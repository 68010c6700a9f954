package watch

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

func startWatcher(t *testing.T, paths ...string) *atomic.Int32 {
	t.Helper()
	w, err := New(paths, []string{".yaml", ".hcl"}, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var calls atomic.Int32
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(context.Context) { calls.Add(1) })
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return &calls
}

func TestWatcher_DirectoryChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	calls := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "p.yaml"), []byte("id: p\n"), 0o644))

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	calls := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	assert.Never(t, func() bool { return calls.Load() > 0 }, 200*time.Millisecond, 20*time.Millisecond)
}

func TestWatcher_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "watched.hcl")
	require.NoError(t, os.WriteFile(target, []byte(""), 0o644))
	calls := startWatcher(t, target)

	// A sibling with a matching extension is not part of the watch set.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sibling.hcl"), []byte(""), 0o644))
	assert.Never(t, func() bool { return calls.Load() > 0 }, 200*time.Millisecond, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(target, []byte("pipeline \"p\" {}\n"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New([]string{dir}, []string{".yaml"}, 150*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls atomic.Int32
	go func() { _ = w.Run(ctx, func(context.Context) { calls.Add(1) }) }()

	path := filepath.Join(dir, "p.yaml")
	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool { return calls.Load() > 1 }, 300*time.Millisecond, 20*time.Millisecond)
}

func TestNew_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := New([]string{filepath.Join(t.TempDir(), "nope")}, []string{".yaml"}, 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcher_Relevant(t *testing.T) {
	t.Parallel()

	w := &Watcher{
		extensions: []string{".yaml"},
		files:      map[string]struct{}{"/a/file.hcl": {}},
		dirs:       map[string]struct{}{"/tree": {}},
	}

	assert.True(t, w.relevant("/a/file.hcl"))
	assert.True(t, w.relevant("/tree/deep/x.yaml"))
	assert.False(t, w.relevant("/tree/x.txt"))
	assert.False(t, w.relevant("/elsewhere/x.yaml"))
}
