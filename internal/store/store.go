// Package store owns the durable task set and exposes every operation
// that reads or mutates it.
//
// Concurrency follows a single-writer, multiple-reader discipline: all
// mutating operations serialize behind one write lock, while reads serve
// deep copies of the last committed snapshot. A mutation is applied to a
// cloned snapshot first, committed to the backend, and only then swapped
// in; a failed commit therefore leaves both the durable and the
// in-memory set exactly as they were.
package store

import (
	"log/slog"
	"sort"
	"sync"

	reeferr "github.com/mworkman/reef/internal/errors"
	"github.com/mworkman/reef/internal/events"
	"github.com/mworkman/reef/internal/storage"
	"github.com/mworkman/reef/internal/task"
)

// Store is the task set facade.
type Store struct {
	mu        sync.RWMutex
	backend   storage.Backend
	publisher events.Publisher
	logger    *slog.Logger

	// tasks is the committed snapshot in creation order. Never handed
	// out directly; readers get clones.
	tasks []*task.Task
}

// Option configures a Store.
type Option func(*Store)

// WithPublisher sets the event publisher. Defaults to a no-op publisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *Store) {
		s.publisher = p
	}
}

// Open loads the snapshot from the backend and returns a ready store.
func Open(backend storage.Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend:   backend,
		publisher: events.NopPublisher{},
		logger:    slog.Default().With("component", "store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	tasks, err := backend.Load()
	if err != nil {
		return nil, reeferr.ErrSnapshotIO("load", err)
	}
	s.tasks = tasks
	return s, nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Reload replaces the in-memory snapshot wholesale from the backend.
// Used when an external writer touched the snapshot file.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.backend.Load()
	if err != nil {
		return reeferr.ErrSnapshotIO("load", err)
	}
	s.tasks = tasks
	s.publisher.Publish(events.Event{Type: events.TypeSnapshotReloaded})
	s.logger.Info("snapshot reloaded", "tasks", len(tasks))
	return nil
}

// GetByID returns a copy of the task with the given ID.
func (s *Store) GetByID(id string) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.find(id)
	if t == nil {
		return nil, reeferr.ErrTaskNotFound(id)
	}
	return t.Clone(), nil
}

// GetAll returns a copy of the whole task set in creation order.
func (s *Store) GetAll() []*task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// find returns the live task with the given ID, or nil. Callers hold the
// lock.
func (s *Store) find(id string) *task.Task {
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// byID builds an ID lookup over a set. Callers hold the lock.
func byID(tasks []*task.Task) map[string]*task.Task {
	m := make(map[string]*task.Task, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t
	}
	return m
}

// mutate clones the current snapshot, applies fn to the clone, commits
// the result, and swaps it in. fn returns the task to hand back to the
// caller (already part of the cloned set) or an error to abort without
// touching anything. Callers hold the write lock.
func (s *Store) mutate(fn func(tasks []*task.Task, index map[string]*task.Task) (*task.Task, error)) (*task.Task, error) {
	next := cloneAll(s.tasks)
	out, err := fn(next, byID(next))
	if err != nil {
		return nil, err
	}
	if err := s.backend.Commit(next); err != nil {
		return nil, reeferr.ErrSnapshotIO("commit", err)
	}
	s.tasks = next
	if out == nil {
		return nil, nil
	}
	return out.Clone(), nil
}

func cloneAll(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// sortByCreation orders tasks by creation time, oldest first, with ID as
// a stable tiebreaker.
func sortByCreation(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}
