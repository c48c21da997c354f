package store

import (
	"fmt"

	reeferr "github.com/mworkman/reef/internal/errors"
	"github.com/mworkman/reef/internal/events"
	"github.com/mworkman/reef/internal/gate"
	"github.com/mworkman/reef/internal/resolve"
	"github.com/mworkman/reef/internal/task"
)

// VerifyPassScore is the minimum verification score that completes a
// task.
const VerifyPassScore = 80

// Execution reports whether a task may start.
type Execution struct {
	// Status is the task's own lifecycle state. When it is in_progress
	// or completed, that condition is the answer and BlockedBy is not
	// computed.
	Status     task.Status    `json:"status"`
	Executable bool           `json:"executable"`
	BlockedBy  []gate.Blocker `json:"blockedBy,omitempty"`
}

// CanExecute runs the execution gate for a task. A task that is already
// in_progress or completed reports that condition distinctly instead of
// recomputing dependency status.
func (s *Store) CanExecute(id string) (*Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.find(id)
	if t == nil {
		return nil, reeferr.ErrTaskNotFound(id)
	}
	if t.Status != task.StatusPending {
		return &Execution{Status: t.Status, Executable: false}, nil
	}
	check := gate.Evaluate(t, byID(s.tasks))
	return &Execution{Status: t.Status, Executable: check.Executable, BlockedBy: check.BlockedBy}, nil
}

// Start transitions a pending task to in_progress, gated on its
// dependencies. Starting an already in-progress task is an idempotent
// no-op; starting a completed task fails with AlreadyCompleted.
func (s *Store) Start(id string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.find(id)
	if current == nil {
		return nil, reeferr.ErrTaskNotFound(id)
	}
	switch current.Status {
	case task.StatusCompleted:
		return nil, reeferr.ErrAlreadyCompleted(id)
	case task.StatusInProgress:
		return current.Clone(), nil
	}

	out, err := s.mutate(func(tasks []*task.Task, index map[string]*task.Task) (*task.Task, error) {
		t := index[id]
		check := gate.Evaluate(t, index)
		if !check.Executable {
			return nil, reeferr.ErrNotExecutable(id, check.BlockerIDs())
		}
		t.MarkInProgress()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(events.Event{Type: events.TypeTaskUpdated, TaskID: id})
	return out, nil
}

// Verify judges an in-progress task with a score in [0,100]. A score of
// VerifyPassScore or better completes the task and stores the summary; a
// lower score leaves the task untouched, and the text serves as
// corrective feedback for the caller. Both uses share the same minimum
// length.
func (s *Store) Verify(id string, score int, summaryOrFeedback string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if score < 0 || score > 100 {
		return nil, reeferr.ErrValidation("score", fmt.Sprintf("score %d outside [0,100]", score))
	}
	current := s.find(id)
	if current == nil {
		return nil, reeferr.ErrTaskNotFound(id)
	}
	switch current.Status {
	case task.StatusCompleted:
		return nil, reeferr.ErrAlreadyCompleted(id)
	case task.StatusPending:
		return nil, reeferr.ErrNotInProgress(id, string(current.Status))
	}
	if err := task.ValidateSummary(summaryOrFeedback); err != nil {
		return nil, err
	}

	if score < VerifyPassScore {
		// Failed verification changes nothing durable.
		return current.Clone(), nil
	}

	out, err := s.mutate(func(tasks []*task.Task, index map[string]*task.Task) (*task.Task, error) {
		t := index[id]
		t.MarkCompleted(summaryOrFeedback)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(events.Event{Type: events.TypeTaskUpdated, TaskID: id})
	return out, nil
}

// ContentUpdate carries a targeted content change. Only fields that are
// set are replaced; every supplied field replaces its target wholesale.
type ContentUpdate struct {
	Name                 *string
	Description          *string
	Notes                *string
	ImplementationGuide  *string
	VerificationCriteria *string
	// Dependencies are raw tokens (IDs or names), resolved against the
	// current task set.
	Dependencies *[]string
	RelatedFiles *[]task.RelatedFile
}

// UpdateContent applies a targeted update to a task. Completed tasks are
// immutable.
func (s *Store) UpdateContent(id string, upd ContentUpdate) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.find(id)
	if current == nil {
		return nil, reeferr.ErrTaskNotFound(id)
	}
	if current.Status == task.StatusCompleted {
		return nil, reeferr.ErrTaskCompleted(id)
	}

	if upd.Name != nil {
		if err := task.ValidateName(*upd.Name); err != nil {
			return nil, err
		}
	}
	if upd.Description != nil {
		if err := task.ValidateDescription(*upd.Description); err != nil {
			return nil, err
		}
	}
	if upd.RelatedFiles != nil {
		if err := task.ValidateRelatedFiles(*upd.RelatedFiles); err != nil {
			return nil, err
		}
	}

	out, err := s.mutate(func(tasks []*task.Task, index map[string]*task.Task) (*task.Task, error) {
		t := index[id]
		if upd.Name != nil {
			t.Name = *upd.Name
		}
		if upd.Description != nil {
			t.Description = *upd.Description
		}
		if upd.Notes != nil {
			t.Notes = *upd.Notes
		}
		if upd.ImplementationGuide != nil {
			t.ImplementationGuide = *upd.ImplementationGuide
		}
		if upd.VerificationCriteria != nil {
			t.VerificationCriteria = *upd.VerificationCriteria
		}
		if upd.RelatedFiles != nil {
			t.RelatedFiles = append([]task.RelatedFile(nil), (*upd.RelatedFiles)...)
		}
		if upd.Dependencies != nil {
			ix := resolve.NewIndex(tasks, nil)
			ids, err := ix.Resolve(*upd.Dependencies)
			if err != nil {
				return nil, err
			}
			t.SetDependencies(ids)
			if err := resolve.ValidateAcyclic(tasks); err != nil {
				return nil, err
			}
		}
		t.Touch()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(events.Event{Type: events.TypeTaskUpdated, TaskID: id})
	return out, nil
}
