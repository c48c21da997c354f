package store

import (
	reeferr "github.com/mworkman/reef/internal/errors"
	"github.com/mworkman/reef/internal/events"
	"github.com/mworkman/reef/internal/reconcile"
	"github.com/mworkman/reef/internal/task"
)

// BatchResult is the outcome of a batch reconciliation.
type BatchResult struct {
	// Written lists the tasks the batch created or updated, in draft
	// order.
	Written []*task.Task
	// Cleared is true when the batch ran in clearAllTasks mode and the
	// clear step committed. It stays true even if the subsequent create
	// step failed, because the clear is durable on its own.
	Cleared bool
	// BackupPath is the snapshot backup written before a clear.
	BackupPath string
}

// ReconcileBatch applies one planning batch to the store.
//
// Modes append, overwrite and selective compute a full replacement set
// from the current snapshot and commit it in a single atomic step:
// either the whole batch lands or nothing changes.
//
// clearAllTasks is two-phase: drafts are validated, a backup is
// written, the cleared (empty) set is committed, and only then are the
// drafts created against the empty set. A failure in the create step
// returns the error together with a BatchResult whose Cleared and
// BackupPath fields record what did happen.
func (s *Store) ReconcileBatch(mode reconcile.Mode, drafts []reconcile.Draft, globalAnalysis string) (*BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == reconcile.ModeClearAll {
		return s.clearThenCreate(drafts, globalAnalysis)
	}

	plan, err := reconcile.Build(mode, cloneAll(s.tasks), drafts, globalAnalysis)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Commit(plan.Tasks); err != nil {
		return nil, reeferr.ErrSnapshotIO("commit", err)
	}
	s.tasks = plan.Tasks

	s.publisher.Publish(events.Event{Type: events.TypeBatchReconciled, TaskID: events.GlobalID})
	s.logger.Info("batch reconciled",
		"mode", string(mode),
		"written", len(plan.Written),
		"total", len(s.tasks))
	return &BatchResult{Written: cloneAll(plan.Written)}, nil
}

func (s *Store) clearThenCreate(drafts []reconcile.Draft, globalAnalysis string) (*BatchResult, error) {
	// The whole batch is validated before the destructive step.
	if err := reconcile.ValidateDrafts(drafts); err != nil {
		return nil, err
	}

	backupPath, err := s.backend.WriteBackup(s.tasks)
	if err != nil {
		return nil, reeferr.ErrSnapshotIO("backup", err)
	}
	if err := s.backend.Commit(nil); err != nil {
		return nil, reeferr.ErrSnapshotIO("commit", err)
	}
	s.tasks = nil
	s.publisher.Publish(events.Event{Type: events.TypeTasksCleared, TaskID: events.GlobalID})
	s.logger.Info("tasks cleared", "backup", backupPath)

	result := &BatchResult{Cleared: true, BackupPath: backupPath}
	if len(drafts) == 0 {
		return result, nil
	}

	plan, err := reconcile.Build(reconcile.ModeAppend, nil, drafts, globalAnalysis)
	if err != nil {
		return result, err
	}
	if err := s.backend.Commit(plan.Tasks); err != nil {
		return result, reeferr.ErrSnapshotIO("commit", err)
	}
	s.tasks = plan.Tasks
	result.Written = cloneAll(plan.Written)

	s.publisher.Publish(events.Event{Type: events.TypeBatchReconciled, TaskID: events.GlobalID})
	s.logger.Info("batch reconciled",
		"mode", string(reconcile.ModeClearAll),
		"written", len(plan.Written))
	return result, nil
}

// Delete removes a task permanently. Completed tasks are part of the
// historical record and cannot be deleted.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return reeferr.ErrTaskNotFound(id)
	}
	if t.Status == task.StatusCompleted {
		return reeferr.ErrTaskCompleted(id)
	}

	next := make([]*task.Task, 0, len(s.tasks)-1)
	for _, existing := range s.tasks {
		if existing.ID == id {
			continue
		}
		next = append(next, existing.Clone())
	}
	if err := s.backend.Commit(next); err != nil {
		return reeferr.ErrSnapshotIO("commit", err)
	}
	s.tasks = next

	s.publisher.Publish(events.Event{Type: events.TypeTaskDeleted, TaskID: id})
	s.logger.Info("task deleted", "id", id, "name", t.Name)
	return nil
}
