// Package registry holds the client-side authoritative cache of store
// contents, kept consistent with the store's snapshot stream.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/colonyops/taskdeck/internal/core/task"
)

// Registry caches the last delivered task and user snapshots and exposes
// derived queries over them. Snapshot application is a total replacement:
// out-of-order intermediate snapshots self-correct because the newest
// delivered snapshot always wins wholesale.
//
// A read-write lock serializes snapshot application against readers, so
// queries never observe a torn snapshot.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]task.Task
	users map[string]task.User
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		tasks: make(map[string]task.Task),
		users: make(map[string]task.User),
	}
}

// ApplyTaskSnapshot replaces the entire task mapping with the snapshot
// contents. Nothing from earlier snapshots survives.
func (r *Registry) ApplyTaskSnapshot(tasks []task.Task) {
	next := make(map[string]task.Task, len(tasks))
	for _, t := range tasks {
		next[t.ID] = t
	}

	r.mu.Lock()
	r.tasks = next
	r.mu.Unlock()
}

// ApplyUserSnapshot replaces the entire user mapping with the snapshot contents.
func (r *Registry) ApplyUserSnapshot(users []task.User) {
	next := make(map[string]task.User, len(users))
	for _, u := range users {
		next[u.ID] = u
	}

	r.mu.Lock()
	r.users = next
	r.mu.Unlock()
}

// Task returns a single task by id.
func (r *Registry) Task(id string) (task.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	return t, ok
}

// Tasks returns all cached tasks ordered by due date.
func (r *Registry) Tasks() []task.Task {
	r.mu.RLock()
	out := make([]task.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	r.mu.RUnlock()

	sortByDueDate(out)
	return out
}

// TasksByStatus returns tasks in the given status, ordered by due date.
func (r *Registry) TasksByStatus(status task.Status) []task.Task {
	return r.filter(func(t task.Task) bool { return t.Status == status })
}

// TasksAssignedTo returns tasks assigned to the given user, ordered by due date.
func (r *Registry) TasksAssignedTo(userID string) []task.Task {
	return r.filter(func(t task.Task) bool { return t.AssignedTo == userID })
}

// TasksNotAssignedTo returns tasks assigned to anyone else or unassigned,
// ordered by due date.
func (r *Registry) TasksNotAssignedTo(userID string) []task.Task {
	return r.filter(func(t task.Task) bool { return t.AssignedTo != userID })
}

// TasksOnDate returns tasks due on the given calendar day, ordered by due date.
func (r *Registry) TasksOnDate(date time.Time) []task.Task {
	return r.filter(func(t task.Task) bool { return t.DueOn(date) })
}

// User returns a single user by id.
func (r *Registry) User(id string) (task.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok
}

// Users returns all cached users ordered by name.
func (r *Registry) Users() []task.User {
	r.mu.RLock()
	out := make([]task.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TaskCount returns the number of cached tasks.
func (r *Registry) TaskCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

func (r *Registry) filter(keep func(task.Task) bool) []task.Task {
	r.mu.RLock()
	var out []task.Task
	for _, t := range r.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()

	sortByDueDate(out)
	return out
}

// sortByDueDate orders tasks ascending by due date with undated tasks last.
// Ties break on creation time, then id, so query results are deterministic.
func sortByDueDate(tasks []task.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			// fall through to tie-break
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
