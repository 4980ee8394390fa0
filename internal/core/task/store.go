package task

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the target task no longer exists.
	ErrNotFound = errors.New("task not found")
	// ErrUnavailable is returned when the backing store cannot be reached.
	// The failure is transient; the caller may resubmit.
	ErrUnavailable = errors.New("store unavailable")
	// ErrPermissionDenied is returned when the store rejects a mutation.
	// Fatal for the action, surfaced verbatim.
	ErrPermissionDenied = errors.New("permission denied")
)

// Payload is a validated, normalized task mutation produced by ValidateDraft.
// It never carries CreatedBy or CreatedAt; those are stamped by the store on
// create and immutable afterwards.
type Payload struct {
	Title       string
	Description string
	Status      Status
	AssignedTo  string
	DueDate     *time.Time
}

// Patch is a partial task update. Nil fields are left unchanged.
// ClearDueDate removes an existing due date; it wins over DueDate.
type Patch struct {
	Title        *string
	Description  *string
	Status       *Status
	AssignedTo   *string
	DueDate      *time.Time
	ClearDueDate bool
}

// FromPayload converts a full validated payload into a patch covering every
// mutable field. Used by the editor's update path.
func FromPayload(p Payload) Patch {
	patch := Patch{
		Title:       &p.Title,
		Description: &p.Description,
		Status:      &p.Status,
		AssignedTo:  &p.AssignedTo,
	}
	if p.DueDate != nil {
		patch.DueDate = p.DueDate
	} else {
		patch.ClearDueDate = true
	}
	return patch
}

// UnsubscribeFunc cancels a snapshot subscription. Callers must invoke it
// during teardown so stale callbacks stop firing; in-flight mutations are
// still allowed to complete.
type UnsubscribeFunc func()

// Store is the real-time task store boundary. Implementations deliver
// whole-collection snapshots, not deltas: the callback receives the full
// current contents every time the underlying data changes, starting with
// one immediate snapshot on subscribe.
//
// Mutations may fail with ErrUnavailable or ErrPermissionDenied; UpdateTask
// and DeleteTask additionally return ErrNotFound when the id vanished between
// read and write. Surfacing failures to the user is the caller's job.
type Store interface {
	SubscribeTasks(fn func([]Task)) UnsubscribeFunc
	SubscribeUsers(fn func([]User)) UnsubscribeFunc

	// CreateTask persists a new task and returns its store-assigned id.
	CreateTask(ctx context.Context, p Payload, createdBy string) (string, error)
	// UpdateTask applies a partial update and bumps the updated timestamp.
	UpdateTask(ctx context.Context, id string, patch Patch) error
	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id string) error

	// EnsureUser creates the user record if absent. Idempotent: concurrent
	// first-sightings of the same principal are a benign race, last write
	// wins with no error.
	EnsureUser(ctx context.Context, id, name string) error

	Close() error
}
