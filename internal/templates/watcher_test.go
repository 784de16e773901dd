package templates

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appforms/pkg/testutil"
)

func TestWatcher(t *testing.T) {
	testutil.Given(t, "a watched template directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "ethics.json", ethicsJSON)

		var reloads atomic.Int32
		w, err := NewWatcher([]string{dir}, func(context.Context) error {
			reloads.Add(1)
			return nil
		}, nil, 50*time.Millisecond)
		require.NoError(t, err)
		w.Start(context.Background())
		t.Cleanup(w.Stop)

		testutil.When(t, "a template file is written several times in a burst", func(t *testing.T) {
			for i := 0; i < 5; i++ {
				writeFile(t, dir, "ethics.json", ethicsJSON)
			}

			testutil.Then(t, "the catalog is reloaded once the burst settles", func(t *testing.T) {
				require.Eventually(t, func() bool { return reloads.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
				time.Sleep(150 * time.Millisecond)
				assert.Equal(t, int32(1), reloads.Load())
			})
		})

		testutil.When(t, "a non-template file changes", func(t *testing.T) {
			before := reloads.Load()
			writeFile(t, dir, "notes.txt", "ignored")

			testutil.Then(t, "nothing is reloaded", func(t *testing.T) {
				time.Sleep(150 * time.Millisecond)
				assert.Equal(t, before, reloads.Load())
			})
		})
	})

	t.Run("a watched file path watches its directory", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "ethics.json", ethicsJSON)

		w, err := NewWatcher([]string{path}, func(context.Context) error { return nil }, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultDebounce, w.debounce)
		assert.Contains(t, w.watcher.WatchList(), dir)
		w.Start(context.Background())
		w.Stop()
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "absent")}, nil, nil, 0)
		assert.Error(t, err)
	})

	t.Run("stop without start returns", func(t *testing.T) {
		w, err := NewWatcher([]string{t.TempDir()}, func(context.Context) error { return nil }, nil, 0)
		require.NoError(t, err)

		stopped := make(chan struct{})
		go func() {
			w.Stop()
			w.Stop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("Stop blocked on a watcher that never started")
		}
		w.Start(context.Background())
		assert.False(t, w.started, "a stopped watcher does not start")
	})

	t.Run("stops with its context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		w, err := NewWatcher([]string{t.TempDir()}, func(context.Context) error { return nil }, nil, 0)
		require.NoError(t, err)
		w.Start(ctx)
		cancel()
		select {
		case <-w.done:
		case <-time.After(time.Second):
			t.Fatal("watcher did not stop")
		}
	})
}

func TestRelevantEvents(t *testing.T) {
	assert.True(t, relevant(fsnotify.Event{Name: "a.yaml", Op: fsnotify.Write}))
	assert.True(t, relevant(fsnotify.Event{Name: "a.json", Op: fsnotify.Remove}))
	assert.False(t, relevant(fsnotify.Event{Name: "a.json", Op: fsnotify.Chmod}))
	assert.False(t, relevant(fsnotify.Event{Name: "a.txt", Op: fsnotify.Write}))
}
