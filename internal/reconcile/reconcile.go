// Package reconcile implements batch reconciliation of the durable task
// set. Given an update mode and a batch of candidate tasks it computes the
// complete new set, without touching storage; persistence and locking are
// the store's concern.
package reconcile

import (
	reeferr "github.com/mworkman/reef/internal/errors"
	"github.com/mworkman/reef/internal/resolve"
	"github.com/mworkman/reef/internal/task"
)

// Mode selects the merge policy for a batch.
type Mode string

const (
	// ModeAppend leaves existing tasks untouched and creates every
	// incoming task as new.
	ModeAppend Mode = "append"
	// ModeOverwrite retains completed tasks verbatim, discards all other
	// existing tasks, and creates every incoming task as new.
	ModeOverwrite Mode = "overwrite"
	// ModeSelective updates existing tasks matched by name in place and
	// creates unmatched incoming tasks as new.
	ModeSelective Mode = "selective"
	// ModeClearAll backs up and empties the durable set, then creates the
	// incoming tasks against the now-empty set.
	ModeClearAll Mode = "clearAllTasks"
)

// ValidModes returns all valid update modes.
func ValidModes() []Mode {
	return []Mode{ModeAppend, ModeOverwrite, ModeSelective, ModeClearAll}
}

// ParseMode validates a raw mode string.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	switch m {
	case ModeAppend, ModeOverwrite, ModeSelective, ModeClearAll:
		return m, nil
	default:
		return "", reeferr.ErrValidation("updateMode", "must be one of append, overwrite, selective, clearAllTasks")
	}
}

// Draft is one candidate task in an incoming batch. Dependencies are raw
// reference tokens, each either a task ID or an exact task name.
type Draft struct {
	Name                 string             `json:"name" yaml:"name"`
	Description          string             `json:"description" yaml:"description"`
	Notes                string             `json:"notes,omitempty" yaml:"notes,omitempty"`
	ImplementationGuide  string             `json:"implementationGuide,omitempty" yaml:"implementationGuide,omitempty"`
	VerificationCriteria string             `json:"verificationCriteria,omitempty" yaml:"verificationCriteria,omitempty"`
	Dependencies         []string           `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	RelatedFiles         []task.RelatedFile `json:"relatedFiles,omitempty" yaml:"relatedFiles,omitempty"`
}

// Plan is the computed outcome of a batch, ready to be committed.
type Plan struct {
	// Tasks is the complete new durable set: survivors in their original
	// order, then newly created tasks in draft order.
	Tasks []*task.Task
	// Written lists the tasks this batch created or updated, in draft
	// order. This is what the caller gets back.
	Written []*task.Task
}

// ValidateDrafts enforces the batch pre-condition: pairwise distinct
// names plus per-draft field validation. Any violation fails the whole
// batch before anything is applied.
func ValidateDrafts(drafts []Draft) error {
	seen := make(map[string]bool, len(drafts))
	for _, d := range drafts {
		if err := task.ValidateName(d.Name); err != nil {
			return err
		}
		if seen[d.Name] {
			return reeferr.ErrDuplicateName(d.Name)
		}
		seen[d.Name] = true
		if err := task.ValidateDescription(d.Description); err != nil {
			return err
		}
		if err := task.ValidateRelatedFiles(d.RelatedFiles); err != nil {
			return err
		}
	}
	return nil
}

// Build computes the reconciliation plan for one batch.
//
// current is treated as owned: tasks that survive may appear in the plan
// by reference and matched tasks are mutated. Callers hand in a deep copy
// of their snapshot. ModeClearAll is not handled here; the store clears
// (with backup) first and then builds an append plan against the empty
// set, because the clear commits independently of the creation step.
//
// globalAnalysis, when non-empty, is attached to every task written by
// the batch that does not already carry an analysis result.
func Build(mode Mode, current []*task.Task, drafts []Draft, globalAnalysis string) (*Plan, error) {
	if err := ValidateDrafts(drafts); err != nil {
		return nil, err
	}

	var survivors []*task.Task
	switch mode {
	case ModeAppend, ModeSelective:
		survivors = current
	case ModeOverwrite:
		for _, t := range current {
			if t.Status == task.StatusCompleted {
				survivors = append(survivors, t)
			}
		}
	case ModeClearAll:
		return nil, reeferr.ErrValidation("updateMode", "clearAllTasks must be applied through the store's clear-then-create flow")
	default:
		return nil, reeferr.ErrValidation("updateMode", "unknown update mode")
	}

	// Selective matching considers only non-completed survivors: a name
	// is unique among tasks not yet completed, so a draft sharing a name
	// with a completed task is a new task, not an update.
	updatable := make(map[string]*task.Task)
	if mode == ModeSelective {
		for _, t := range survivors {
			if t.Status != task.StatusCompleted {
				updatable[t.Name] = t
			}
		}
	}

	written := make([]*task.Task, 0, len(drafts))
	var created []*task.Task
	tokens := make(map[string][]string, len(drafts))

	for _, d := range drafts {
		if existing, ok := updatable[d.Name]; ok {
			applyContent(existing, d)
			written = append(written, existing)
			tokens[existing.ID] = d.Dependencies
			continue
		}
		t := task.New(d.Name, d.Description)
		t.Notes = d.Notes
		t.ImplementationGuide = d.ImplementationGuide
		t.VerificationCriteria = d.VerificationCriteria
		t.RelatedFiles = append([]task.RelatedFile(nil), d.RelatedFiles...)
		written = append(written, t)
		created = append(created, t)
		tokens[t.ID] = d.Dependencies
	}

	// Resolution sees the union of survivors and the incoming batch, so a
	// draft may depend on a retained task or on a sibling being created.
	ix := resolve.NewIndex(survivors, written)
	for _, t := range written {
		ids, err := ix.Resolve(tokens[t.ID])
		if err != nil {
			return nil, err
		}
		t.SetDependencies(ids)
	}

	if globalAnalysis != "" {
		for _, t := range written {
			if t.AnalysisResult == "" {
				t.AnalysisResult = globalAnalysis
			}
		}
	}

	all := make([]*task.Task, 0, len(survivors)+len(created))
	all = append(all, survivors...)
	all = append(all, created...)

	if err := resolve.ValidateAcyclic(all); err != nil {
		return nil, err
	}

	return &Plan{Tasks: all, Written: written}, nil
}

// applyContent replaces a matched task's content fields from the draft.
// Identity, status, creation and completion timestamps are untouched;
// UpdatedAt advances because the task was mutated.
func applyContent(t *task.Task, d Draft) {
	t.Description = d.Description
	t.Notes = d.Notes
	t.ImplementationGuide = d.ImplementationGuide
	t.VerificationCriteria = d.VerificationCriteria
	t.RelatedFiles = append([]task.RelatedFile(nil), d.RelatedFiles...)
	t.Touch()
}
