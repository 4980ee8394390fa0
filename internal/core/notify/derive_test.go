package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskdeck/internal/core/task"
)

var now = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func taskDueIn(id string, d time.Duration) task.Task {
	due := now.Add(d)
	return task.Task{
		ID:         id,
		Title:      "Task " + id,
		Status:     task.StatusTodo,
		AssignedTo: "me",
		DueDate:    &due,
	}
}

func TestDeriver_DueSoon(t *testing.T) {
	d := NewDeriver()

	got := d.Derive([]task.Task{taskDueIn("t1", 2*time.Hour)}, "me", now, nil)

	require.Len(t, got, 2) // due-soon + welcome
	assert.Equal(t, "t1-due-soon", got[0].ID)
	assert.Equal(t, LevelWarning, got[0].Level)
	assert.Contains(t, got[0].Message, `"Task t1"`)
}

func TestDeriver_Overdue(t *testing.T) {
	d := NewDeriver()

	got := d.Derive([]task.Task{taskDueIn("t1", -time.Hour)}, "me", now, nil)

	require.Len(t, got, 2)
	assert.Equal(t, "t1-overdue", got[0].ID)
	assert.Equal(t, LevelError, got[0].Level)
}

func TestDeriver_DueSoonAndOverdueAreExclusive(t *testing.T) {
	// As the clock passes the deadline the warning is replaced by the
	// error; the two never coexist for one task.
	d := NewDeriver()
	tasks := []task.Task{taskDueIn("t1", 2*time.Hour)}

	first := d.Derive(tasks, "me", now, nil)
	later := d.Derive(tasks, "me", now.Add(3*time.Hour), first)

	var soon, over int
	for _, n := range later {
		switch n.ID {
		case "t1-due-soon":
			soon++
		case "t1-overdue":
			over++
		}
	}
	assert.Zero(t, soon, "stale due-soon warning survived past the deadline")
	assert.Equal(t, 1, over)
}

func TestDeriver_SkipsDoneUnassignedAndUndated(t *testing.T) {
	d := NewDeriver()

	done := taskDueIn("done", time.Hour)
	done.Status = task.StatusDone
	theirs := taskDueIn("theirs", time.Hour)
	theirs.AssignedTo = "someone-else"
	undated := task.Task{ID: "undated", Status: task.StatusTodo, AssignedTo: "me"}
	farOut := taskDueIn("far", 48*time.Hour)

	got := d.Derive([]task.Task{done, theirs, undated, farOut}, "me", now, nil)

	require.Len(t, got, 1)
	assert.Equal(t, WelcomeID, got[0].ID)
}

func TestDeriver_WelcomeFiresOncePerSession(t *testing.T) {
	d := NewDeriver()
	tasks := []task.Task{{ID: "a", Status: task.StatusTodo}}

	first := d.Derive(tasks, "me", now, nil)
	require.Len(t, first, 1)
	assert.Equal(t, WelcomeID, first[0].ID)

	// Even with a drained previous set the welcome does not re-arm.
	second := d.Derive(tasks, "me", now.Add(time.Minute), nil)
	assert.Empty(t, second)
}

func TestDeriver_NoWelcomeWithoutTasks(t *testing.T) {
	d := NewDeriver()

	assert.Empty(t, d.Derive(nil, "me", now, nil))

	// The session's first sighting of tasks still gets the welcome.
	got := d.Derive([]task.Task{{ID: "a"}}, "me", now, nil)
	require.Len(t, got, 1)
	assert.Equal(t, WelcomeID, got[0].ID)
}

func TestDeriver_Deterministic(t *testing.T) {
	tasks := []task.Task{taskDueIn("t1", 2*time.Hour), taskDueIn("t2", -time.Hour)}
	prev := []Notification{{ID: "old", Level: LevelInfo, Timestamp: now.Add(-time.Hour)}}

	a := NewDeriver().Derive(tasks, "me", now, prev)
	b := NewDeriver().Derive(tasks, "me", now, prev)

	assert.Equal(t, a, b)
}

func TestMerge_DedupeAndCap(t *testing.T) {
	var prev []Notification
	for i := range 4 {
		prev = append(prev, Notification{
			ID:        fmt.Sprintf("p%d", i),
			Timestamp: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	fresh := []Notification{
		{ID: "p0", Level: LevelError, Timestamp: now}, // replaces, not appends
		{ID: "new1", Timestamp: now},
		{ID: "new2", Timestamp: now},
	}

	got := Merge(prev, fresh)

	assert.Len(t, got, MaxActive)

	seen := make(map[string]int)
	for _, n := range got {
		seen[n.ID]++
	}
	assert.Equal(t, 1, seen["p0"], "colliding id must replace the earlier entry")

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Timestamp.After(got[i-1].Timestamp), "not ordered newest first")
	}
}

func TestMerge_NeverExceedsCap(t *testing.T) {
	var fresh []Notification
	for i := range 20 {
		fresh = append(fresh, Notification{
			ID:        fmt.Sprintf("n%d", i),
			Timestamp: now.Add(time.Duration(i) * time.Second),
		})
	}

	got := Merge(nil, fresh)
	assert.Len(t, got, MaxActive)
}
