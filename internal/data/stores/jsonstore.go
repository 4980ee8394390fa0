package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/taskdeck/internal/core/task"
	"github.com/colonyops/taskdeck/pkg/randid"
)

const jsonDebounceDelay = 50 * time.Millisecond

// boardFile is the root JSON structure stored on disk.
type boardFile struct {
	Tasks []task.Task `json:"tasks"`
	Users []task.User `json:"users"`
}

// JSONStore implements task.Store on a single JSON file. An fsnotify watcher
// picks up external writes to the file, so two processes pointed at the same
// path see each other's changes. Broadcasting the same snapshot twice is
// harmless since subscribers replace wholesale.
type JSONStore struct {
	path string
	log  zerolog.Logger

	mu       sync.Mutex
	debounce *time.Timer
	stopped  bool

	tasks *hub[task.Task]
	users *hub[task.User]

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

var _ task.Store = (*JSONStore)(nil)

// NewJSONStore creates a JSON-file-backed task store at path and starts
// watching it for external changes.
func NewJSONStore(path string, log zerolog.Logger) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory, not the file. Atomic rename writes replace the
	// inode, which breaks a direct file watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch data dir: %w", err)
	}

	s := &JSONStore{
		path:    path,
		log:     log.With().Str("component", "json-store").Logger(),
		tasks:   newHub[task.Task](),
		users:   newHub[task.User](),
		watcher: watcher,
		done:    make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()

	return s, nil
}

// SubscribeTasks registers fn and immediately delivers the current task
// collection.
func (s *JSONStore) SubscribeTasks(fn func([]task.Task)) task.UnsubscribeFunc {
	unsub, err := s.tasks.subscribeAndDeliver(fn, func() ([]task.Task, error) {
		file, err := s.load()
		return file.Tasks, err
	})
	if err != nil {
		s.log.Error().Err(err).Msg("initial task snapshot failed")
	}
	return unsub
}

// SubscribeUsers registers fn and immediately delivers the current user
// collection.
func (s *JSONStore) SubscribeUsers(fn func([]task.User)) task.UnsubscribeFunc {
	unsub, err := s.users.subscribeAndDeliver(fn, func() ([]task.User, error) {
		file, err := s.load()
		return file.Users, err
	})
	if err != nil {
		s.log.Error().Err(err).Msg("initial user snapshot failed")
	}
	return unsub
}

// CreateTask persists a new task and returns its generated id.
func (s *JSONStore) CreateTask(_ context.Context, p task.Payload, createdBy string) (string, error) {
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

	err := s.mutate(func(file *boardFile) error {
		file.Tasks = append(file.Tasks, t)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}

	return t.ID, nil
}

// UpdateTask applies a partial update. Returns task.ErrNotFound when the id
// no longer exists.
func (s *JSONStore) UpdateTask(_ context.Context, id string, patch task.Patch) error {
	return s.mutate(func(file *boardFile) error {
		for i := range file.Tasks {
			if file.Tasks[i].ID != id {
				continue
			}

			t := &file.Tasks[i]
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
			return nil
		}
		return fmt.Errorf("update task: %w", task.ErrNotFound)
	})
}

// DeleteTask removes a task. Returns task.ErrNotFound when the id no longer
// exists.
func (s *JSONStore) DeleteTask(_ context.Context, id string) error {
	return s.mutate(func(file *boardFile) error {
		for i := range file.Tasks {
			if file.Tasks[i].ID == id {
				file.Tasks = append(file.Tasks[:i], file.Tasks[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("delete task: %w", task.ErrNotFound)
	})
}

// EnsureUser creates the user record if absent.
func (s *JSONStore) EnsureUser(_ context.Context, id, name string) error {
	return s.mutate(func(file *boardFile) error {
		for _, u := range file.Users {
			if u.ID == id {
				return nil
			}
		}
		file.Users = append(file.Users, task.User{ID: id, Name: name, CreatedAt: time.Now()})
		return nil
	})
}

// Close stops the file watcher. Once Close returns no further snapshots
// are published; a debounce timer that already fired either completes its
// reload before the stopped flag is set or sees it and bails.
func (s *JSONStore) Close() error {
	s.mu.Lock()
	s.stopped = true
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.mu.Unlock()

	close(s.done)
	err := s.watcher.Close()
	s.wg.Wait()
	return err
}

// mutate loads the file, applies fn, saves atomically, and fans out fresh
// snapshots. The lock covers the whole read-modify-write so concurrent
// mutations in this process never lose updates.
func (s *JSONStore) mutate(fn func(*boardFile) error) error {
	s.mu.Lock()

	file, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if err := fn(&file); err != nil {
		s.mu.Unlock()
		return err
	}

	if err := s.save(file); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.tasks.publish(file.Tasks)
	s.users.publish(file.Users)
	return nil
}

func (s *JSONStore) load() (boardFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return boardFile{}, nil
		}
		return boardFile{}, fmt.Errorf("read board file: %w", err)
	}

	if len(data) == 0 {
		return boardFile{}, nil
	}

	var file boardFile
	if err := json.Unmarshal(data, &file); err != nil {
		return boardFile{}, fmt.Errorf("parse board file: %w", err)
	}

	return file, nil
}

// save writes the board file to disk atomically via temp file and rename.
func (s *JSONStore) save(file boardFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode board file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write board file: %w", err)
	}

	return os.Rename(tmp, s.path)
}

// run processes filesystem events, reloading and rebroadcasting after
// external writes settle.
func (s *JSONStore) run() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleEvent(event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func (s *JSONStore) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if filepath.Base(event.Name) != filepath.Base(s.path) {
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(jsonDebounceDelay, s.reload)
	s.mu.Unlock()
}

// reload publishes while holding the store lock so Close, which takes the
// same lock to set stopped, cannot return mid-delivery.
func (s *JSONStore) reload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	file, err := s.load()
	if err != nil {
		s.log.Error().Err(err).Msg("reload after external change failed")
		return
	}

	s.tasks.publish(file.Tasks)
	s.users.publish(file.Users)
}
