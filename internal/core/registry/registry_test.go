package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskdeck/internal/core/task"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestRegistry_ApplyTaskSnapshot_TotalReplacement(t *testing.T) {
	r := New()

	r.ApplyTaskSnapshot([]task.Task{
		{ID: "a", Title: "first", Status: task.StatusTodo},
		{ID: "b", Title: "second", Status: task.StatusTodo},
	})
	require.Equal(t, 2, r.TaskCount())

	// The second snapshot is authoritative: nothing from the first survives.
	r.ApplyTaskSnapshot([]task.Task{
		{ID: "c", Title: "third", Status: task.StatusDone},
	})

	assert.Equal(t, 1, r.TaskCount())
	_, ok := r.Task("a")
	assert.False(t, ok)
	got, ok := r.Task("c")
	require.True(t, ok)
	assert.Equal(t, "third", got.Title)
}

func TestRegistry_ApplyTaskSnapshot_EmptyClearsAll(t *testing.T) {
	r := New()
	r.ApplyTaskSnapshot([]task.Task{{ID: "a"}})

	r.ApplyTaskSnapshot(nil)

	assert.Zero(t, r.TaskCount())
	assert.Empty(t, r.Tasks())
}

func TestRegistry_TasksByStatus(t *testing.T) {
	r := New()
	r.ApplyTaskSnapshot([]task.Task{
		{ID: "a", Status: task.StatusTodo, DueDate: date(2026, 8, 30)},
		{ID: "b", Status: task.StatusDone, DueDate: date(2026, 8, 28)},
		{ID: "c", Status: task.StatusTodo},
	})

	todos := r.TasksByStatus(task.StatusTodo)
	require.Len(t, todos, 2)
	assert.Equal(t, "a", todos[0].ID)
	assert.Equal(t, "c", todos[1].ID, "undated task sorts last")

	done := r.TasksByStatus(task.StatusDone)
	require.Len(t, done, 1)
	assert.Equal(t, "b", done[0].ID)

	assert.Empty(t, r.TasksByStatus(task.StatusInProgress))
}

func TestRegistry_DueDateOrdering(t *testing.T) {
	r := New()
	r.ApplyTaskSnapshot([]task.Task{
		{ID: "late", DueDate: date(2026, 12, 1)},
		{ID: "none"},
		{ID: "soon", DueDate: date(2026, 9, 1)},
		{ID: "mid", DueDate: date(2026, 10, 1)},
	})

	var ids []string
	for _, tk := range r.Tasks() {
		ids = append(ids, tk.ID)
	}

	assert.Equal(t, []string{"soon", "mid", "late", "none"}, ids)
}

func TestRegistry_TasksAssignedTo(t *testing.T) {
	r := New()
	r.ApplyTaskSnapshot([]task.Task{
		{ID: "a", AssignedTo: "me"},
		{ID: "b", AssignedTo: "them"},
		{ID: "c"},
	})

	mine := r.TasksAssignedTo("me")
	require.Len(t, mine, 1)
	assert.Equal(t, "a", mine[0].ID)

	others := r.TasksNotAssignedTo("me")
	assert.Len(t, others, 2)
}

func TestRegistry_TasksOnDate(t *testing.T) {
	r := New()
	r.ApplyTaskSnapshot([]task.Task{
		{ID: "a", DueDate: date(2026, 8, 29)},
		{ID: "b", DueDate: date(2026, 8, 30)},
		{ID: "c"},
	})

	onDay := r.TasksOnDate(time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC))
	require.Len(t, onDay, 1)
	assert.Equal(t, "a", onDay[0].ID)

	assert.Empty(t, r.TasksOnDate(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)))
}

func TestRegistry_Users(t *testing.T) {
	r := New()
	r.ApplyUserSnapshot([]task.User{
		{ID: "2", Name: "User-zed"},
		{ID: "1", Name: "User-abc"},
	})

	users := r.Users()
	require.Len(t, users, 2)
	assert.Equal(t, "User-abc", users[0].Name)

	u, ok := r.User("2")
	require.True(t, ok)
	assert.Equal(t, "User-zed", u.Name)

	// User snapshots replace wholesale too.
	r.ApplyUserSnapshot(nil)
	assert.Empty(t, r.Users())
}
