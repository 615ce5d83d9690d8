package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_Watch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)

	watcher, err := NewFileWatcher(path, zerolog.Nop())
	require.NoError(t, err)
	defer watcher.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events := watcher.Watch(ctx)

	store := NewKVStore(path, 0)
	require.NoError(t, store.Set(ctx, "notifications-storage", map[string]int{"unreadCount": 0}))

	select {
	case event := <-events:
		assert.Equal(t, filepath.Clean(path), event.Path)
		assert.False(t, event.Timestamp.IsZero())
	case <-ctx.Done():
		t.Fatal("timeout waiting for event")
	}
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	watcher, err := NewFileWatcher(path, zerolog.Nop())
	require.NoError(t, err)
	defer watcher.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := watcher.Watch(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))

	select {
	case <-events:
		t.Fatal("unexpected event for unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFileWatcher_UnsubscribeOnCancel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)

	watcher, err := NewFileWatcher(path, zerolog.Nop())
	require.NoError(t, err)
	defer watcher.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	events := watcher.Watch(ctx)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("channel was not closed")
	}
}

func TestFileWatcher_CloseClosesChannels(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)

	watcher, err := NewFileWatcher(path, zerolog.Nop())
	require.NoError(t, err)

	events := watcher.Watch(context.Background())
	require.NoError(t, watcher.Close())

	_, ok := <-events
	assert.False(t, ok)
}
