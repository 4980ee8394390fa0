package stores

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/colonyops/taskdeck/internal/core/task"
	"github.com/colonyops/taskdeck/pkg/randid"
)

// MemoryStore implements task.Store entirely in memory. It backs the
// "memory" backend and doubles as the store used by service tests.
type MemoryStore struct {
	mu    sync.Mutex
	tasks map[string]task.Task
	users map[string]task.User

	taskHub *hub[task.Task]
	userHub *hub[task.User]
}

var _ task.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory task store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:   make(map[string]task.Task),
		users:   make(map[string]task.User),
		taskHub: newHub[task.Task](),
		userHub: newHub[task.User](),
	}
}

// SubscribeTasks registers fn and immediately delivers the current task
// collection.
func (s *MemoryStore) SubscribeTasks(fn func([]task.Task)) task.UnsubscribeFunc {
	unsub, _ := s.taskHub.subscribeAndDeliver(fn, func() ([]task.Task, error) {
		return s.taskSnapshot(), nil
	})
	return unsub
}

// SubscribeUsers registers fn and immediately delivers the current user
// collection.
func (s *MemoryStore) SubscribeUsers(fn func([]task.User)) task.UnsubscribeFunc {
	unsub, _ := s.userHub.subscribeAndDeliver(fn, func() ([]task.User, error) {
		return s.userSnapshot(), nil
	})
	return unsub
}

// CreateTask stores a new task and returns its generated id.
func (s *MemoryStore) CreateTask(_ context.Context, p task.Payload, createdBy string) (string, error) {
	now := time.Now()
	t := task.Task{
		ID:          randid.Generate(8),
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		AssignedTo:  p.AssignedTo,
		DueDate:     p.DueDate,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()

	s.taskHub.publish(s.taskSnapshot())
	return t.ID, nil
}

// UpdateTask applies a partial update. Returns task.ErrNotFound when the id
// no longer exists.
func (s *MemoryStore) UpdateTask(_ context.Context, id string, patch task.Patch) error {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("update task: %w", task.ErrNotFound)
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.AssignedTo != nil {
		t.AssignedTo = *patch.AssignedTo
	}
	switch {
	case patch.ClearDueDate:
		t.DueDate = nil
	case patch.DueDate != nil:
		due := *patch.DueDate
		t.DueDate = &due
	}
	t.UpdatedAt = time.Now()

	s.tasks[id] = t
	s.mu.Unlock()

	s.taskHub.publish(s.taskSnapshot())
	return nil
}

// DeleteTask removes a task. Returns task.ErrNotFound when the id no longer
// exists.
func (s *MemoryStore) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.tasks[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("delete task: %w", task.ErrNotFound)
	}
	delete(s.tasks, id)
	s.mu.Unlock()

	s.taskHub.publish(s.taskSnapshot())
	return nil
}

// EnsureUser creates the user record if absent.
func (s *MemoryStore) EnsureUser(_ context.Context, id, name string) error {
	s.mu.Lock()
	if _, ok := s.users[id]; ok {
		s.mu.Unlock()
		return nil
	}
	s.users[id] = task.User{ID: id, Name: name, CreatedAt: time.Now()}
	s.mu.Unlock()

	s.userHub.publish(s.userSnapshot())
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) taskSnapshot() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *MemoryStore) userSnapshot() []task.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]task.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
