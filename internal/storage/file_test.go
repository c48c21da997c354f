package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mworkman/reef/internal/task"
)

func sampleTasks(names ...string) []*task.Task {
	tasks := make([]*task.Task, len(names))
	for i, n := range names {
		tasks[i] = task.New(n, "a sufficiently long description")
	}
	return tasks
}

func TestFileBackendLoadMissingSnapshot(t *testing.T) {
	b := NewFileBackend(t.TempDir(), 0)

	tasks, err := b.Load()
	require.NoError(t, err)
	assert.Nil(t, tasks, "missing snapshot is an empty set")
}

func TestFileBackendCommitAndLoad(t *testing.T) {
	b := NewFileBackend(t.TempDir(), 0)
	in := sampleTasks("one", "two")
	in[0].Notes = "remember this"

	require.NoError(t, b.Commit(in))

	out, err := b.Load()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0].ID, out[0].ID)
	assert.Equal(t, "remember this", out[0].Notes)
	assert.Equal(t, task.StatusPending, out[0].Status)
	assert.WithinDuration(t, in[0].CreatedAt, out[0].CreatedAt, time.Millisecond)
}

func TestFileBackendCommitReplacesWholesale(t *testing.T) {
	b := NewFileBackend(t.TempDir(), 0)

	require.NoError(t, b.Commit(sampleTasks("old")))
	require.NoError(t, b.Commit(sampleTasks("new")))

	out, err := b.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "new", out[0].Name)
}

func TestFileBackendCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBackend(dir, 0)
	require.NoError(t, os.WriteFile(b.SnapshotPath(), []byte("{not json"), 0644))

	_, err := b.Load()
	require.Error(t, err)
}

func TestFileBackendWriteBackup(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBackend(dir, 0)

	path, err := b.WriteBackup(sampleTasks("kept"))
	require.NoError(t, err)
	assert.Contains(t, path, BackupsDirName)
	assert.Contains(t, filepath.Base(path), "tasks_backup_")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept")
}

func TestFileBackendBackupRetention(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBackend(dir, 2)

	for i := 0; i < 4; i++ {
		_, err := b.WriteBackup(sampleTasks("t"))
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond) // distinct timestamps
	}

	entries, err := os.ReadDir(filepath.Join(dir, BackupsDirName))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "only the newest backups survive pruning")
}

func TestFileBackendEmptyCommitWritesEmptyArray(t *testing.T) {
	b := NewFileBackend(t.TempDir(), 0)
	require.NoError(t, b.Commit(nil))

	data, err := os.ReadFile(b.SnapshotPath())
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}
