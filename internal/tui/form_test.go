package tui

import (
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskdeck/internal/core/task"
)

var formUsers = []task.User{
	{ID: "user-a", Name: "User-usera1"},
	{ID: "user-b", Name: "User-userb1"},
}

func TestTaskForm_New(t *testing.T) {
	f := newTaskForm(NewStyles(TokyoNight), formUsers, "user-b", nil)

	t.Run("defaults to the session user", func(t *testing.T) {
		d := f.draft()
		assert.Equal(t, "user-b", d.AssignedTo)
		assert.Equal(t, "todo", d.Status)
		assert.Empty(t, d.Title)
	})

	t.Run("cycling assignee wraps through unassigned", func(t *testing.T) {
		f := newTaskForm(NewStyles(TokyoNight), formUsers, "", nil)
		assert.Equal(t, "Unassigned", f.assigneeLabel())

		f.cycleAssignee(1)
		assert.Equal(t, "User-usera1", f.assigneeLabel())

		f.cycleAssignee(-1)
		assert.Equal(t, "Unassigned", f.assigneeLabel())

		f.cycleAssignee(-1)
		assert.Equal(t, "User-userb1", f.assigneeLabel())
	})

	t.Run("cycling status wraps", func(t *testing.T) {
		f := newTaskForm(NewStyles(TokyoNight), nil, "", nil)
		n := len(task.Statuses())

		for i := 0; i < n; i++ {
			f.cycleStatus(1)
		}
		assert.Equal(t, "todo", f.draft().Status)
	})
}

func TestTaskForm_Edit(t *testing.T) {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	existing := &task.Task{
		ID:          "t1",
		Title:       "Existing title",
		Description: "Existing description",
		Status:      task.StatusInProgress,
		AssignedTo:  "user-b",
		DueDate:     &due,
	}

	f := newTaskForm(NewStyles(TokyoNight), formUsers, "user-a", existing)

	assert.Equal(t, "t1", f.editID)

	d := f.draft()
	assert.Equal(t, "Existing title", d.Title)
	assert.Equal(t, "Existing description", d.Description)
	assert.Equal(t, "in_progress", d.Status)
	assert.Equal(t, "user-b", d.AssignedTo)
	assert.Equal(t, "2026-09-15", d.DueDate)
}

func TestTaskForm_SetErrors(t *testing.T) {
	f := newTaskForm(NewStyles(TokyoNight), nil, "", nil)

	_, err := task.ValidateDraft(task.Draft{Title: "", DueDate: "not a date"})
	require.Error(t, err)

	f.setErrors(err)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	assert.NotEmpty(t, f.fieldErrs["title"])
	assert.NotEmpty(t, f.fieldErrs["due_date"])
}
