package stores

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskdeck/internal/core/task"
	"github.com/colonyops/taskdeck/internal/data/db"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return NewSQLiteStore(database, zerolog.Nop())
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and read back", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		id, err := store.CreateTask(ctx, task.Payload{
			Title:       "Write release notes",
			Description: "Cover the new calendar view",
			Status:      task.StatusTodo,
			AssignedTo:  "user-1",
			DueDate:     &due,
		}, "user-1")
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		tasks, err := store.readTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)

		got := tasks[0]
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Write release notes", got.Title)
		assert.Equal(t, "Cover the new calendar view", got.Description)
		assert.Equal(t, task.StatusTodo, got.Status)
		assert.Equal(t, "user-1", got.AssignedTo)
		require.NotNil(t, got.DueDate)
		assert.True(t, got.DueDate.Equal(due))
		assert.Equal(t, "user-1", got.CreatedBy)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("create without assignee or due date", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		id, err := store.CreateTask(ctx, task.Payload{
			Title:  "Unowned task",
			Status: task.StatusTodo,
		}, "user-1")
		require.NoError(t, err)

		tasks, err := store.readTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, id, tasks[0].ID)
		assert.Empty(t, tasks[0].AssignedTo)
		assert.Nil(t, tasks[0].DueDate)
	})

	t.Run("due date keeps its calendar day west of UTC", func(t *testing.T) {
		prev := time.Local
		time.Local = time.FixedZone("UTC-8", -8*60*60)
		t.Cleanup(func() { time.Local = prev })

		store := newTestSQLiteStore(t)

		due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
		_, err := store.CreateTask(ctx, task.Payload{
			Title:   "Westward",
			Status:  task.StatusTodo,
			DueDate: &due,
		}, "user-1")
		require.NoError(t, err)

		tasks, err := store.readTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		require.NotNil(t, tasks[0].DueDate)
		assert.Equal(t, "2026-09-10", tasks[0].DueDate.Format(task.DueDateLayout))
		assert.Equal(t, time.UTC, tasks[0].DueDate.Location())
		assert.Equal(t, time.UTC, tasks[0].CreatedAt.Location())
	})

	t.Run("update patches only given fields", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		id, err := store.CreateTask(ctx, task.Payload{
			Title:       "Original title",
			Description: "Original description",
			Status:      task.StatusTodo,
		}, "user-1")
		require.NoError(t, err)

		newStatus := task.StatusInProgress
		require.NoError(t, store.UpdateTask(ctx, id, task.Patch{Status: &newStatus}))

		tasks, err := store.readTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, task.StatusInProgress, tasks[0].Status)
		assert.Equal(t, "Original title", tasks[0].Title)
		assert.Equal(t, "Original description", tasks[0].Description)
	})

	t.Run("update clears due date", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		id, err := store.CreateTask(ctx, task.Payload{
			Title:   "Dated task",
			Status:  task.StatusTodo,
			DueDate: &due,
		}, "user-1")
		require.NoError(t, err)

		require.NoError(t, store.UpdateTask(ctx, id, task.Patch{ClearDueDate: true}))

		tasks, err := store.readTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Nil(t, tasks[0].DueDate)
	})

	t.Run("update not found", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		title := "whatever"
		err := store.UpdateTask(ctx, "nonexistent", task.Patch{Title: &title})
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("delete removes the task", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		id, err := store.CreateTask(ctx, task.Payload{Title: "Short lived", Status: task.StatusTodo}, "user-1")
		require.NoError(t, err)

		require.NoError(t, store.DeleteTask(ctx, id))

		tasks, err := store.readTasks(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("delete not found", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		err := store.DeleteTask(ctx, "nonexistent")
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("subscribe delivers initial snapshot", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		_, err := store.CreateTask(ctx, task.Payload{Title: "Existing", Status: task.StatusTodo}, "user-1")
		require.NoError(t, err)

		var snapshots [][]task.Task
		unsub := store.SubscribeTasks(func(tasks []task.Task) {
			snapshots = append(snapshots, tasks)
		})
		defer unsub()

		require.Len(t, snapshots, 1)
		require.Len(t, snapshots[0], 1)
		assert.Equal(t, "Existing", snapshots[0][0].Title)
	})

	t.Run("mutations fan out full snapshots", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		var snapshots [][]task.Task
		unsub := store.SubscribeTasks(func(tasks []task.Task) {
			snapshots = append(snapshots, tasks)
		})
		defer unsub()

		id, err := store.CreateTask(ctx, task.Payload{Title: "First", Status: task.StatusTodo}, "user-1")
		require.NoError(t, err)
		_, err = store.CreateTask(ctx, task.Payload{Title: "Second", Status: task.StatusTodo}, "user-1")
		require.NoError(t, err)
		require.NoError(t, store.DeleteTask(ctx, id))

		// initial empty + create + create + delete
		require.Len(t, snapshots, 4)
		assert.Empty(t, snapshots[0])
		assert.Len(t, snapshots[1], 1)
		assert.Len(t, snapshots[2], 2)
		require.Len(t, snapshots[3], 1)
		assert.Equal(t, "Second", snapshots[3][0].Title)
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		count := 0
		unsub := store.SubscribeTasks(func([]task.Task) { count++ })
		unsub()

		_, err := store.CreateTask(ctx, task.Payload{Title: "After unsub", Status: task.StatusTodo}, "user-1")
		require.NoError(t, err)

		assert.Equal(t, 1, count) // only the initial snapshot
	})

	t.Run("ensure user is idempotent", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		require.NoError(t, store.EnsureUser(ctx, "abc123def", "User-abc123"))
		require.NoError(t, store.EnsureUser(ctx, "abc123def", "User-abc123"))

		users, err := store.readUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "abc123def", users[0].ID)
		assert.Equal(t, "User-abc123", users[0].Name)
	})

	t.Run("ensure user broadcasts only on creation", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		count := 0
		unsub := store.SubscribeUsers(func([]task.User) { count++ })
		defer unsub()

		require.NoError(t, store.EnsureUser(ctx, "u1", "User-u1"))
		require.NoError(t, store.EnsureUser(ctx, "u1", "User-u1"))

		assert.Equal(t, 2, count) // initial snapshot + first creation
	})
}
