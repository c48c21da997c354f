// Package task defines the task entity model for reef.
package task

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	// StatusBlocked is a reporting state derived from the execution gate.
	// The engine never stores it; a task's persisted status is always one
	// of pending, in_progress, or completed.
	StatusBlocked Status = "blocked"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusBlocked}
}

// IsValidStatus returns true if the status is a valid status value.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBlocked:
		return true
	default:
		return false
	}
}

// Dependency is a reference to a prerequisite task by ID.
type Dependency struct {
	TaskID string `json:"taskId" yaml:"taskId"`
}

// Task represents a unit of work tracked by reef.
type Task struct {
	// ID is the unique identifier, assigned at creation and immutable.
	ID string `json:"id" yaml:"id"`

	// Name is a short unique label for the task.
	Name string `json:"name" yaml:"name"`

	// Description is the full task description.
	Description string `json:"description" yaml:"description"`

	// Notes holds supplementary notes.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// ImplementationGuide describes how the task should be implemented.
	ImplementationGuide string `json:"implementationGuide,omitempty" yaml:"implementationGuide,omitempty"`

	// VerificationCriteria describes how completion should be judged.
	VerificationCriteria string `json:"verificationCriteria,omitempty" yaml:"verificationCriteria,omitempty"`

	// AnalysisResult carries the planning analysis shared by a batch.
	AnalysisResult string `json:"analysisResult,omitempty" yaml:"analysisResult,omitempty"`

	// Summary is the completion summary, set when the task completes.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Status is the current lifecycle state.
	Status Status `json:"status" yaml:"status"`

	// Dependencies lists prerequisite tasks by ID, unique, in order.
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies"`

	// RelatedFiles lists files relevant to the task. Only metadata is
	// tracked; reef never reads the files themselves.
	RelatedFiles []RelatedFile `json:"relatedFiles,omitempty" yaml:"relatedFiles,omitempty"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`

	// UpdatedAt advances on every mutation.
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`

	// CompletedAt is set exactly once, when the task completes.
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
}

// New creates a pending task with a fresh ID. CreatedAt equals UpdatedAt
// until the first mutation.
func New(name, description string) *Task {
	now := time.Now()
	return &Task{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  description,
		Status:       StatusPending,
		Dependencies: []Dependency{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Clone returns a deep copy of the task. Snapshots handed out by the store
// are clones, so callers can never mutate the durable set in place.
func (t *Task) Clone() *Task {
	c := *t
	c.Dependencies = append([]Dependency(nil), t.Dependencies...)
	c.RelatedFiles = append([]RelatedFile(nil), t.RelatedFiles...)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

// Touch advances UpdatedAt.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now()
}

// IsDone returns true if the task's work is finished. A blocker is
// satisfied only when it is done.
func (t *Task) IsDone() bool {
	return t.Status == StatusCompleted
}

// DependencyIDs returns the dependency task IDs in order.
func (t *Task) DependencyIDs() []string {
	ids := make([]string, len(t.Dependencies))
	for i, d := range t.Dependencies {
		ids[i] = d.TaskID
	}
	return ids
}

// SetDependencies replaces the dependency list with the given IDs,
// dropping duplicates while preserving first-seen order.
func (t *Task) SetDependencies(ids []string) {
	seen := make(map[string]bool, len(ids))
	deps := make([]Dependency, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		deps = append(deps, Dependency{TaskID: id})
	}
	t.Dependencies = deps
}

// MarkInProgress moves the task into in_progress. Guards live in the
// store; this only applies the side effects.
func (t *Task) MarkInProgress() {
	t.Status = StatusInProgress
	t.Touch()
}

// MarkCompleted moves the task into completed, attaching the summary and
// stamping CompletedAt.
func (t *Task) MarkCompleted(summary string) {
	now := time.Now()
	t.Status = StatusCompleted
	t.Summary = summary
	t.CompletedAt = &now
	t.UpdatedAt = now
}
