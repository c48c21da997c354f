package errors

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestReefErrorFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      *ReefError
		wantErr  string
		wantUser string
	}{
		{
			name:     "what only",
			err:      &ReefError{What: "something broke"},
			wantErr:  "something broke",
			wantUser: "Error: something broke",
		},
		{
			name:     "what and why",
			err:      &ReefError{What: "something broke", Why: "bad input"},
			wantErr:  "something broke: bad input",
			wantUser: "Error: something broke\n\nWhy: bad input",
		},
		{
			name: "full error",
			err: &ReefError{
				What: "something broke",
				Why:  "bad input",
				Fix:  "try again",
			},
			wantErr:  "something broke: bad input",
			wantUser: "Error: something broke\n\nWhy: bad input\n\nFix: try again",
		},
		{
			name: "with cause",
			err: &ReefError{
				What:  "something broke",
				Cause: errors.New("underlying error"),
			},
			wantErr:  "something broke: underlying error",
			wantUser: "Error: something broke",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantErr {
				t.Errorf("Error() = %q, want %q", got, tt.wantErr)
			}
			if got := tt.err.UserMessage(); got != tt.wantUser {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestReefErrorJSON(t *testing.T) {
	err := &ReefError{
		Code:  CodeTaskNotFound,
		What:  "task 42 not found",
		Why:   "No task with this ID exists",
		Fix:   "Run 'reef list' to see tasks",
		Cause: errors.New("file not found"),
	}

	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("MarshalJSON failed: %v", marshalErr)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if result["code"] != string(CodeTaskNotFound) {
		t.Errorf("code = %v, want %v", result["code"], CodeTaskNotFound)
	}
	if result["what"] != "task 42 not found" {
		t.Errorf("what = %v, want %v", result["what"], "task 42 not found")
	}
	if result["cause"] != "file not found" {
		t.Errorf("cause = %v, want %v", result["cause"], "file not found")
	}
}

func TestErrorIsByCode(t *testing.T) {
	err := ErrAlreadyCompleted("abc")
	if !errors.Is(err, &ReefError{Code: CodeAlreadyCompleted}) {
		t.Error("expected Is to match on code")
	}
	if errors.Is(err, &ReefError{Code: CodeTaskNotFound}) {
		t.Error("expected Is to reject a different code")
	}
}

func TestAsReefError(t *testing.T) {
	inner := ErrDependencyNotFound("missing-task")
	wrapped := Wrap(inner, "reconcile batch")

	got := AsReefError(wrapped)
	if got == nil {
		t.Fatal("expected wrapped ReefError to unwrap")
	}
	// Wrap itself is a ReefError, so the outermost error wins.
	if got.Code != Code("UNKNOWN") {
		t.Errorf("Code = %v, want UNKNOWN", got.Code)
	}
	if AsReefError(errors.New("plain")) != nil {
		t.Error("expected plain errors to return nil")
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		err  *ReefError
		code int
	}{
		{ErrTaskNotFound("x"), 2},
		{ErrValidation("name", "empty"), 3},
		{ErrDuplicateName("a"), 3},
		{ErrCyclicDependency([]string{"a", "b", "a"}), 3},
		{ErrNotExecutable("x", []string{"y"}), 4},
		{ErrAlreadyCompleted("x"), 4},
		{ErrNotInProgress("x", "pending"), 4},
		{ErrSnapshotIO("commit", errors.New("disk full")), 1},
	}

	for _, tt := range tests {
		if got := tt.err.ExitCode(); got != tt.code {
			t.Errorf("%s: ExitCode() = %d, want %d", tt.err.Code, got, tt.code)
		}
	}
}

func TestConstructorsCarryDetail(t *testing.T) {
	if e := ErrDependencyNotFound("build-api"); e.What == "" || e.Fix == "" {
		t.Error("ErrDependencyNotFound should fill What and Fix")
	}
	if e := ErrCyclicDependency([]string{"a", "b", "a"}); e.Why != "Cycle: a -> b -> a" {
		t.Errorf("unexpected cycle rendering: %q", e.Why)
	}
	if e := ErrNotInProgress("id1", "pending"); e.Why == "" {
		t.Error("ErrNotInProgress should report the current status")
	}
}
