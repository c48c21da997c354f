// Package storage persists the durable task set for reef.
//
// The JSON snapshot file is always the source of truth. In hybrid mode a
// SQLite index mirrors a few searchable columns to serve substring
// queries; the index is derived data and is rebuilt from the snapshot on
// every commit.
package storage

import (
	"fmt"

	"github.com/mworkman/reef/internal/task"
)

// Mode selects the storage backend flavor.
type Mode string

const (
	// ModeFiles stores the snapshot as a JSON file; search scans in memory.
	ModeFiles Mode = "files"
	// ModeHybrid stores the snapshot as a JSON file and keeps a SQLite
	// index for search.
	ModeHybrid Mode = "hybrid"
)

// Backend defines the persistence contract for the durable task set.
// A commit replaces the whole snapshot atomically or fails leaving the
// previous snapshot intact.
type Backend interface {
	// Load reads the current snapshot. A missing snapshot is an empty
	// set, not an error.
	Load() ([]*task.Task, error)

	// Commit atomically replaces the snapshot with the given set.
	Commit(tasks []*task.Task) error

	// WriteBackup writes a point-in-time copy of the given set and
	// returns its path.
	WriteBackup(tasks []*task.Task) (string, error)

	// Close releases backend resources.
	Close() error
}

// Searcher is implemented by backends that can answer substring queries
// themselves. IDs come back ordered by task creation time.
type Searcher interface {
	SearchIDs(query string) ([]string, error)
}

// Options configures backend construction.
type Options struct {
	// Mode picks files or hybrid storage. Empty means hybrid.
	Mode Mode
	// BackupRetention caps how many backup files are kept; zero or
	// negative keeps all of them.
	BackupRetention int
}

// NewBackend creates a storage backend rooted at the given data
// directory.
func NewBackend(dataDir string, opts Options) (Backend, error) {
	switch opts.Mode {
	case ModeFiles:
		return NewFileBackend(dataDir, opts.BackupRetention), nil
	case ModeHybrid, "":
		return NewHybridBackend(dataDir, opts.BackupRetention)
	default:
		return nil, fmt.Errorf("unknown storage mode: %s", opts.Mode)
	}
}
