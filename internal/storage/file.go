package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mworkman/reef/internal/lock"
	"github.com/mworkman/reef/internal/task"
	"github.com/mworkman/reef/internal/util"
)

const (
	// SnapshotFileName is the durable task set file inside the data dir.
	SnapshotFileName = "tasks.json"
	// BackupsDirName is the subdirectory holding point-in-time backups.
	BackupsDirName = "backups"

	backupTimeLayout = "2006-01-02T15-04-05.000"
)

// FileBackend persists the task set as a single JSON snapshot with
// write-new-then-rename replacement.
type FileBackend struct {
	dataDir   string
	retention int
	locker    *lock.WriteLocker
	logger    *slog.Logger
}

// NewFileBackend creates a file backend rooted at dataDir.
func NewFileBackend(dataDir string, retention int) *FileBackend {
	return &FileBackend{
		dataDir:   dataDir,
		retention: retention,
		locker:    lock.New(dataDir, ""),
		logger:    slog.Default().With("component", "storage"),
	}
}

// SnapshotPath returns the full path of the snapshot file.
func (b *FileBackend) SnapshotPath() string {
	return filepath.Join(b.dataDir, SnapshotFileName)
}

// Load reads the snapshot. A missing file is an empty set.
func (b *FileBackend) Load() ([]*task.Task, error) {
	data, err := os.ReadFile(b.SnapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var tasks []*task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return tasks, nil
}

// Commit atomically replaces the snapshot. The previous snapshot survives
// a crash mid-write because the temp file is renamed over it only once
// fully synced. A data-dir write lock keeps a second reef process from
// interleaving its own commit.
func (b *FileBackend) Commit(tasks []*task.Task) error {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	if err := b.locker.Acquire(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	defer func() {
		if err := b.locker.Release(); err != nil {
			b.logger.Warn("release write lock failed", "error", err)
		}
	}()

	if err := util.AtomicWriteJSON(b.SnapshotPath(), tasks, 0644); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	b.logger.Debug("snapshot committed", "tasks", len(tasks))
	return nil
}

// WriteBackup writes a timestamped copy of the given set under the
// backups directory and prunes old backups past the retention cap.
func (b *FileBackend) WriteBackup(tasks []*task.Task) (string, error) {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	name := fmt.Sprintf("tasks_backup_%s.json", time.Now().Format(backupTimeLayout))
	path := filepath.Join(b.dataDir, BackupsDirName, name)
	if err := util.AtomicWriteJSON(path, tasks, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	b.logger.Info("backup written", "path", path, "tasks", len(tasks))

	if err := b.pruneBackups(); err != nil {
		// Pruning failure doesn't invalidate the backup that was written.
		b.logger.Warn("backup pruning failed", "error", err)
	}
	return path, nil
}

// Close is a no-op for the file backend.
func (b *FileBackend) Close() error {
	return nil
}

// pruneBackups removes the oldest backups beyond the retention cap.
// Backup names embed their timestamp, so lexical order is age order.
func (b *FileBackend) pruneBackups() error {
	if b.retention <= 0 {
		return nil
	}
	dir := filepath.Join(b.dataDir, BackupsDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) <= b.retention {
		return nil
	}
	sort.Strings(names)
	for _, name := range names[:len(names)-b.retention] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
