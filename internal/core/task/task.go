// Package task defines the task and user domain model and the store
// contract that real-time backends implement.
package task

import (
	"fmt"
	"time"
)

// Status represents the board column a task lives in.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists all valid statuses in board order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// IsValid reports whether s is one of the three known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns the human-readable column heading for s.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// ParseStatus converts a user-supplied string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status %q: must be one of todo, in_progress, done", s)
	}
	return status, nil
}

// Task represents a single board item.
//
// AssignedTo is empty when the task is unassigned. DueDate is nil when the
// task has no deadline; when set it carries day granularity only.
// CreatedAt, UpdatedAt, and CreatedBy are assigned by the store and never
// written by callers directly.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DueOn reports whether the task's due date falls on the same calendar day
// as date, in date's location.
func (t Task) DueOn(date time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// User represents a principal that can be assigned tasks.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName derives the auto-generated display name for a principal id,
// used when a user is first sighted.
func DisplayName(id string) string {
	short := id
	if len(short) > 6 {
		short = short[:6]
	}
	return "User-" + short
}
