package stores

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskdeck/internal/core/task"
)

func newTestJSONStore(t *testing.T) (*JSONStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "board.json")
	store, err := NewJSONStore(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, path
}

func TestJSONStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create persists to disk", func(t *testing.T) {
		store, path := newTestJSONStore(t)

		id, err := store.CreateTask(ctx, task.Payload{Title: "Persisted", Status: task.StatusTodo}, "user-1")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var file boardFile
		require.NoError(t, json.Unmarshal(data, &file))
		require.Len(t, file.Tasks, 1)
		assert.Equal(t, id, file.Tasks[0].ID)
		assert.Equal(t, "Persisted", file.Tasks[0].Title)
	})

	t.Run("missing file reads as empty", func(t *testing.T) {
		store, _ := newTestJSONStore(t)

		file, err := store.load()
		require.NoError(t, err)
		assert.Empty(t, file.Tasks)
		assert.Empty(t, file.Users)
	})

	t.Run("update and delete round trip", func(t *testing.T) {
		store, _ := newTestJSONStore(t)

		id, err := store.CreateTask(ctx, task.Payload{Title: "Doomed", Status: task.StatusTodo}, "user-1")
		require.NoError(t, err)

		newStatus := task.StatusDone
		require.NoError(t, store.UpdateTask(ctx, id, task.Patch{Status: &newStatus}))

		file, err := store.load()
		require.NoError(t, err)
		require.Len(t, file.Tasks, 1)
		assert.Equal(t, task.StatusDone, file.Tasks[0].Status)

		require.NoError(t, store.DeleteTask(ctx, id))

		file, err = store.load()
		require.NoError(t, err)
		assert.Empty(t, file.Tasks)
	})

	t.Run("update not found", func(t *testing.T) {
		store, _ := newTestJSONStore(t)

		title := "nope"
		err := store.UpdateTask(ctx, "missing", task.Patch{Title: &title})
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("subscribe delivers snapshots after mutations", func(t *testing.T) {
		store, _ := newTestJSONStore(t)

		snapshots := make(chan []task.Task, 16)
		unsub := store.SubscribeTasks(func(tasks []task.Task) {
			snapshots <- tasks
		})
		defer unsub()

		initial := <-snapshots
		assert.Empty(t, initial)

		_, err := store.CreateTask(ctx, task.Payload{Title: "Broadcast me", Status: task.StatusTodo}, "user-1")
		require.NoError(t, err)

		next := <-snapshots
		require.Len(t, next, 1)
		assert.Equal(t, "Broadcast me", next[0].Title)
	})

	t.Run("external write triggers rebroadcast", func(t *testing.T) {
		store, path := newTestJSONStore(t)

		snapshots := make(chan []task.Task, 16)
		unsub := store.SubscribeTasks(func(tasks []task.Task) {
			snapshots <- tasks
		})
		defer unsub()

		<-snapshots // initial

		// Simulate another process writing the file.
		external := boardFile{Tasks: []task.Task{{
			ID:        "ext-1",
			Title:     "Written elsewhere",
			Status:    task.StatusTodo,
			CreatedBy: "user-2",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}}}
		data, err := json.MarshalIndent(external, "", "  ")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o644))

		select {
		case tasks := <-snapshots:
			require.Len(t, tasks, 1)
			assert.Equal(t, "Written elsewhere", tasks[0].Title)
		case <-time.After(2 * time.Second):
			t.Fatal("no snapshot after external write")
		}
	})

	t.Run("ensure user idempotent", func(t *testing.T) {
		store, _ := newTestJSONStore(t)

		require.NoError(t, store.EnsureUser(ctx, "u1", "User-u1"))
		require.NoError(t, store.EnsureUser(ctx, "u1", "User-u1"))

		file, err := store.load()
		require.NoError(t, err)
		require.Len(t, file.Users, 1)
		assert.Equal(t, "User-u1", file.Users[0].Name)
	})

	t.Run("no snapshots after close", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "board.json")
		store, err := NewJSONStore(path, zerolog.Nop())
		require.NoError(t, err)

		count := 0
		unsub := store.SubscribeTasks(func([]task.Task) { count++ })
		defer unsub()

		_, err = store.CreateTask(ctx, task.Payload{Title: "Before close", Status: task.StatusTodo}, "user-1")
		require.NoError(t, err)
		require.NoError(t, store.Close())

		before := count
		// A debounce timer that fires during shutdown takes this path.
		store.reload()
		assert.Equal(t, before, count)
	})
}
