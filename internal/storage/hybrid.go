package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mworkman/reef/internal/task"
)

// IndexFileName is the SQLite index file inside the data dir.
const IndexFileName = "index.db"

// HybridBackend layers a SQLite search index over the file backend. The
// snapshot file stays the source of truth; the index never gates a
// commit.
type HybridBackend struct {
	*FileBackend
	index  *Index
	stale  bool
	logger *slog.Logger
}

// NewHybridBackend creates a hybrid backend rooted at dataDir.
func NewHybridBackend(dataDir string, retention int) (*HybridBackend, error) {
	ix, err := OpenIndex(filepath.Join(dataDir, IndexFileName))
	if err != nil {
		return nil, err
	}
	return &HybridBackend{
		FileBackend: NewFileBackend(dataDir, retention),
		index:       ix,
		logger:      slog.Default().With("component", "storage.hybrid"),
	}, nil
}

// Load reads the snapshot and refreshes the index from it, so a fresh
// process starts with a consistent index.
func (b *HybridBackend) Load() ([]*task.Task, error) {
	tasks, err := b.FileBackend.Load()
	if err != nil {
		return nil, err
	}
	b.refresh(tasks)
	return tasks, nil
}

// Commit replaces the snapshot, then rebuilds the index. An index rebuild
// failure does not fail the commit; the index is marked stale and search
// falls back to scanning until the next successful rebuild.
func (b *HybridBackend) Commit(tasks []*task.Task) error {
	if err := b.FileBackend.Commit(tasks); err != nil {
		return err
	}
	b.refresh(tasks)
	return nil
}

// SearchIDs serves substring queries from the index. A stale index
// reports an error so the caller can fall back to a snapshot scan.
func (b *HybridBackend) SearchIDs(query string) ([]string, error) {
	if b.stale {
		return nil, fmt.Errorf("search index is stale")
	}
	return b.index.SearchIDs(query)
}

// Close releases the index handle.
func (b *HybridBackend) Close() error {
	return b.index.Close()
}

func (b *HybridBackend) refresh(tasks []*task.Task) {
	if err := b.index.Rebuild(tasks); err != nil {
		b.stale = true
		b.logger.Warn("index rebuild failed, search falls back to scanning", "error", err)
		return
	}
	b.stale = false
}
