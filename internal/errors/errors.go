// Package errors provides structured error types for reef.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
)

// Code represents a unique error code.
type Code string

// Error codes for reef.
const (
	// Initialization errors
	CodeNotInitialized     Code = "REEF_NOT_INITIALIZED"
	CodeAlreadyInitialized Code = "REEF_ALREADY_INITIALIZED"

	// Task errors
	CodeTaskNotFound  Code = "TASK_NOT_FOUND"
	CodeTaskCompleted Code = "TASK_COMPLETED"

	// Validation errors
	CodeValidation    Code = "VALIDATION_FAILED"
	CodeDuplicateName Code = "DUPLICATE_NAME"

	// Dependency errors
	CodeDependencyNotFound Code = "DEPENDENCY_NOT_FOUND"
	CodeCyclicDependency   Code = "CYCLIC_DEPENDENCY"

	// State machine errors
	CodeNotExecutable    Code = "NOT_EXECUTABLE"
	CodeAlreadyCompleted Code = "ALREADY_COMPLETED"
	CodeNotInProgress    Code = "NOT_IN_PROGRESS"

	// Storage errors
	CodeSnapshotIO Code = "SNAPSHOT_IO"
)

// Category groups error codes for exit-code mapping.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryNotFound
	CategoryBadRequest
	CategoryConflict
	CategoryInternal
)

// codeCategories maps error codes to their categories.
var codeCategories = map[Code]Category{
	CodeNotInitialized:     CategoryBadRequest,
	CodeAlreadyInitialized: CategoryConflict,
	CodeTaskNotFound:       CategoryNotFound,
	CodeTaskCompleted:      CategoryConflict,
	CodeValidation:         CategoryBadRequest,
	CodeDuplicateName:      CategoryBadRequest,
	CodeDependencyNotFound: CategoryBadRequest,
	CodeCyclicDependency:   CategoryBadRequest,
	CodeNotExecutable:      CategoryConflict,
	CodeAlreadyCompleted:   CategoryConflict,
	CodeNotInProgress:      CategoryConflict,
	CodeSnapshotIO:         CategoryInternal,
}

// ExitCode returns the process exit code for a category.
func (c Category) ExitCode() int {
	switch c {
	case CategoryNotFound:
		return 2
	case CategoryBadRequest:
		return 3
	case CategoryConflict:
		return 4
	default:
		return 1
	}
}

// ReefError is the structured error type for reef.
type ReefError struct {
	Code  Code   `json:"code"`
	What  string `json:"what"`
	Why   string `json:"why,omitempty"`
	Fix   string `json:"fix,omitempty"`
	Cause error  `json:"-"`
}

// Error implements the error interface.
func (e *ReefError) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ReefError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly message for CLI output.
func (e *ReefError) UserMessage() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\n\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\n\nFix: ")
		b.WriteString(e.Fix)
	}
	return b.String()
}

// Category returns the error category for exit-code mapping.
func (e *ReefError) Category() Category {
	if cat, ok := codeCategories[e.Code]; ok {
		return cat
	}
	return CategoryUnknown
}

// ExitCode returns the appropriate process exit code for this error.
func (e *ReefError) ExitCode() int {
	return e.Category().ExitCode()
}

// MarshalJSON implements json.Marshaler.
func (e *ReefError) MarshalJSON() ([]byte, error) {
	type alias ReefError
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{
		alias: (*alias)(e),
	}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// Is reports whether target is a ReefError with the same code.
func (e *ReefError) Is(target error) bool {
	t, ok := target.(*ReefError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *ReefError) WithCause(err error) *ReefError {
	return &ReefError{
		Code:  e.Code,
		What:  e.What,
		Why:   e.Why,
		Fix:   e.Fix,
		Cause: err,
	}
}

// --- Error constructors ---

// ErrNotInitialized returns an error for an uninitialized reef directory.
func ErrNotInitialized() *ReefError {
	return &ReefError{
		Code: CodeNotInitialized,
		What: "reef is not initialized in this directory",
		Why:  "No .reef/ directory found in the current path",
		Fix:  "Run 'reef init' to initialize reef in this directory",
	}
}

// ErrAlreadyInitialized returns an error when reef is already initialized.
func ErrAlreadyInitialized(path string) *ReefError {
	return &ReefError{
		Code: CodeAlreadyInitialized,
		What: "reef is already initialized",
		Why:  fmt.Sprintf("Found existing .reef/ directory at %s", path),
		Fix:  "Use 'reef init --force' to reinitialize, or remove .reef/ manually",
	}
}

// ErrTaskNotFound returns an error when a task doesn't exist.
func ErrTaskNotFound(id string) *ReefError {
	return &ReefError{
		Code: CodeTaskNotFound,
		What: fmt.Sprintf("task %s not found", id),
		Why:  "No task with this ID exists in the current task set",
		Fix:  "Run 'reef list' to see available tasks",
	}
}

// ErrTaskCompleted returns an error when a completed task is targeted for
// deletion or content update.
func ErrTaskCompleted(id string) *ReefError {
	return &ReefError{
		Code: CodeTaskCompleted,
		What: fmt.Sprintf("task %s is completed", id),
		Why:  "Completed tasks are retained as an audit record and cannot be modified or deleted",
		Fix:  "Create a new task instead of reworking a completed one",
	}
}

// ErrValidation returns an error for malformed task input.
func ErrValidation(field, reason string) *ReefError {
	return &ReefError{
		Code: CodeValidation,
		What: fmt.Sprintf("invalid %s", field),
		Why:  reason,
	}
}

// ErrDuplicateName returns an error when a batch contains the same task
// name twice.
func ErrDuplicateName(name string) *ReefError {
	return &ReefError{
		Code: CodeDuplicateName,
		What: fmt.Sprintf("duplicate task name %q in batch", name),
		Why:  "Task names must be pairwise distinct within a single batch",
		Fix:  "Rename or merge the conflicting tasks and resubmit the whole batch",
	}
}

// ErrDependencyNotFound returns an error for an unresolvable dependency
// token. The token is preserved so the caller can correct it and retry.
func ErrDependencyNotFound(token string) *ReefError {
	return &ReefError{
		Code: CodeDependencyNotFound,
		What: fmt.Sprintf("dependency %q not found", token),
		Why:  "The token matches neither a task ID nor a task name in the batch or the existing task set",
		Fix:  "Check the spelling, or create the prerequisite task in the same batch",
	}
}

// ErrCyclicDependency returns an error when dependency resolution would
// produce a cycle.
func ErrCyclicDependency(path []string) *ReefError {
	return &ReefError{
		Code: CodeCyclicDependency,
		What: "dependency cycle detected",
		Why:  fmt.Sprintf("Cycle: %s", strings.Join(path, " -> ")),
		Fix:  "Break the cycle by removing one of the dependencies",
	}
}

// ErrNotExecutable returns an error when a task's dependencies are not all
// completed.
func ErrNotExecutable(id string, blockedBy []string) *ReefError {
	return &ReefError{
		Code: CodeNotExecutable,
		What: fmt.Sprintf("task %s is not executable", id),
		Why:  fmt.Sprintf("Blocked by incomplete dependencies: %s", strings.Join(blockedBy, ", ")),
		Fix:  "Complete the blocking tasks first, then start this one",
	}
}

// ErrAlreadyCompleted returns an error for any transition attempted from a
// completed task.
func ErrAlreadyCompleted(id string) *ReefError {
	return &ReefError{
		Code: CodeAlreadyCompleted,
		What: fmt.Sprintf("task %s is already completed", id),
		Why:  "Completed is a terminal state",
		Fix:  "Delete and recreate the task to run it again",
	}
}

// ErrNotInProgress returns an error when verification targets a task that
// was never started.
func ErrNotInProgress(id, status string) *ReefError {
	return &ReefError{
		Code: CodeNotInProgress,
		What: fmt.Sprintf("task %s is not in progress", id),
		Why:  fmt.Sprintf("Current status is %q; only in-progress tasks can be verified", status),
		Fix:  fmt.Sprintf("Run 'reef start %s' first", id),
	}
}

// ErrSnapshotIO returns an error for snapshot persist/backup failures.
func ErrSnapshotIO(op string, cause error) *ReefError {
	return &ReefError{
		Code:  CodeSnapshotIO,
		What:  fmt.Sprintf("snapshot %s failed", op),
		Why:   "The durable task set was left unchanged",
		Cause: cause,
	}
}

// AsReefError attempts to convert an error to a ReefError.
// Returns nil if the error is not a ReefError.
func AsReefError(err error) *ReefError {
	var reefErr *ReefError
	if As(err, &reefErr) {
		return reefErr
	}
	return nil
}

// As is a convenience wrapper for errors.As.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Wrap wraps a generic error into a ReefError with unknown code.
func Wrap(err error, what string) *ReefError {
	return &ReefError{
		Code:  Code("UNKNOWN"),
		What:  what,
		Cause: err,
	}
}
