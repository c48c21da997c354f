package storage

import (
	"fmt"

	"github.com/mworkman/reef/internal/task"
)

// MemoryBackend is an in-memory Backend for tests. It keeps deep copies
// and can be told to fail commits or backups to exercise atomicity paths.
type MemoryBackend struct {
	Tasks   []*task.Task
	Backups [][]*task.Task

	FailCommit bool
	FailBackup bool

	// FailFromCommit, when positive, fails the Nth commit and every one
	// after it. The first commit is 1.
	FailFromCommit int

	CommitCount int
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load returns a deep copy of the stored set.
func (b *MemoryBackend) Load() ([]*task.Task, error) {
	return cloneAll(b.Tasks), nil
}

// Commit stores a deep copy of the given set.
func (b *MemoryBackend) Commit(tasks []*task.Task) error {
	if b.FailCommit {
		return fmt.Errorf("injected commit failure")
	}
	if b.FailFromCommit > 0 && b.CommitCount+1 >= b.FailFromCommit {
		return fmt.Errorf("injected commit failure")
	}
	b.Tasks = cloneAll(tasks)
	b.CommitCount++
	return nil
}

// WriteBackup records a deep copy of the given set.
func (b *MemoryBackend) WriteBackup(tasks []*task.Task) (string, error) {
	if b.FailBackup {
		return "", fmt.Errorf("injected backup failure")
	}
	b.Backups = append(b.Backups, cloneAll(tasks))
	return fmt.Sprintf("memory://backup/%d", len(b.Backups)), nil
}

// Close is a no-op.
func (b *MemoryBackend) Close() error {
	return nil
}

func cloneAll(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
