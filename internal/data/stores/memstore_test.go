package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskdeck/internal/core/task"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and snapshot", func(t *testing.T) {
		store := NewMemoryStore()

		due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		id, err := store.CreateTask(ctx, task.Payload{
			Title:      "Plan sprint",
			Status:     task.StatusTodo,
			AssignedTo: "user-1",
			DueDate:    &due,
		}, "user-1")
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		tasks := store.taskSnapshot()
		require.Len(t, tasks, 1)
		assert.Equal(t, "Plan sprint", tasks[0].Title)
		require.NotNil(t, tasks[0].DueDate)
		assert.True(t, tasks[0].DueDate.Equal(due))
	})

	t.Run("update not found", func(t *testing.T) {
		store := NewMemoryStore()

		title := "nope"
		err := store.UpdateTask(ctx, "missing", task.Patch{Title: &title})
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("delete not found", func(t *testing.T) {
		store := NewMemoryStore()

		err := store.DeleteTask(ctx, "missing")
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("patch semantics match sqlite store", func(t *testing.T) {
		store := NewMemoryStore()

		due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		id, err := store.CreateTask(ctx, task.Payload{
			Title:   "Dated",
			Status:  task.StatusTodo,
			DueDate: &due,
		}, "user-1")
		require.NoError(t, err)

		newStatus := task.StatusDone
		require.NoError(t, store.UpdateTask(ctx, id, task.Patch{Status: &newStatus, ClearDueDate: true}))

		tasks := store.taskSnapshot()
		require.Len(t, tasks, 1)
		assert.Equal(t, task.StatusDone, tasks[0].Status)
		assert.Equal(t, "Dated", tasks[0].Title)
		assert.Nil(t, tasks[0].DueDate)
	})

	t.Run("subscribe delivers initial snapshot then mutations", func(t *testing.T) {
		store := NewMemoryStore()

		var snapshots [][]task.Task
		unsub := store.SubscribeTasks(func(tasks []task.Task) {
			snapshots = append(snapshots, tasks)
		})
		defer unsub()

		id, err := store.CreateTask(ctx, task.Payload{Title: "One", Status: task.StatusTodo}, "user-1")
		require.NoError(t, err)
		require.NoError(t, store.DeleteTask(ctx, id))

		require.Len(t, snapshots, 3)
		assert.Empty(t, snapshots[0])
		assert.Len(t, snapshots[1], 1)
		assert.Empty(t, snapshots[2])
	})

	t.Run("snapshot ordering is stable", func(t *testing.T) {
		store := NewMemoryStore()

		for _, title := range []string{"a", "b", "c"} {
			_, err := store.CreateTask(ctx, task.Payload{Title: title, Status: task.StatusTodo}, "user-1")
			require.NoError(t, err)
		}

		first := store.taskSnapshot()
		second := store.taskSnapshot()
		require.Len(t, first, 3)
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}
	})

	t.Run("ensure user idempotent", func(t *testing.T) {
		store := NewMemoryStore()

		count := 0
		unsub := store.SubscribeUsers(func([]task.User) { count++ })
		defer unsub()

		require.NoError(t, store.EnsureUser(ctx, "u1", "User-u1"))
		require.NoError(t, store.EnsureUser(ctx, "u1", "User-u1"))

		users := store.userSnapshot()
		require.Len(t, users, 1)
		assert.Equal(t, 2, count) // initial snapshot + creation
	})
}
