package gate

import (
	"testing"

	"github.com/mworkman/reef/internal/task"
)

func taskMap(tasks ...*task.Task) map[string]*task.Task {
	m := make(map[string]*task.Task, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t
	}
	return m
}

func TestEvaluateNoDependencies(t *testing.T) {
	tk := task.New("standalone", "a valid description")

	check := Evaluate(tk, taskMap(tk))
	if !check.Executable {
		t.Error("task with zero dependencies must be executable")
	}
	if len(check.BlockedBy) != 0 {
		t.Errorf("expected no blockers, got %v", check.BlockedBy)
	}
}

func TestEvaluateAllDependenciesCompleted(t *testing.T) {
	dep := task.New("dep", "a valid description")
	dep.MarkInProgress()
	dep.MarkCompleted("done and verified with a long enough summary")

	tk := task.New("dependent", "a valid description")
	tk.SetDependencies([]string{dep.ID})

	check := Evaluate(tk, taskMap(dep, tk))
	if !check.Executable {
		t.Errorf("expected executable, blocked by %v", check.BlockedBy)
	}
}

func TestEvaluateReportsAllBlockers(t *testing.T) {
	done := task.New("done", "a valid description")
	done.MarkInProgress()
	done.MarkCompleted("finished with a sufficiently long summary")
	pending := task.New("pending", "a valid description")
	running := task.New("running", "a valid description")
	running.MarkInProgress()

	tk := task.New("dependent", "a valid description")
	tk.SetDependencies([]string{pending.ID, done.ID, running.ID})

	check := Evaluate(tk, taskMap(done, pending, running, tk))
	if check.Executable {
		t.Fatal("expected blocked")
	}
	if len(check.BlockedBy) != 2 {
		t.Fatalf("expected 2 blockers, got %d", len(check.BlockedBy))
	}
	// Dependency-list order, not discovery order.
	if check.BlockedBy[0].ID != pending.ID || check.BlockedBy[1].ID != running.ID {
		t.Errorf("blockers out of order: %v", check.BlockedBy)
	}
	if check.BlockedBy[0].Name != "pending" {
		t.Errorf("blocker name = %q, want %q", check.BlockedBy[0].Name, "pending")
	}
	if check.BlockedBy[1].Status != task.StatusInProgress {
		t.Errorf("blocker status = %s, want %s", check.BlockedBy[1].Status, task.StatusInProgress)
	}
}

func TestEvaluateMissingDependencyBlocks(t *testing.T) {
	tk := task.New("dependent", "a valid description")
	tk.SetDependencies([]string{"no-such-task"})

	check := Evaluate(tk, taskMap(tk))
	if check.Executable {
		t.Fatal("missing dependency must block execution")
	}
	if check.BlockedBy[0].Name != "(task not found)" {
		t.Errorf("expected placeholder name, got %q", check.BlockedBy[0].Name)
	}
}

func TestBlockerIDs(t *testing.T) {
	a := task.New("a", "a valid description")
	b := task.New("b", "a valid description")
	tk := task.New("dependent", "a valid description")
	tk.SetDependencies([]string{a.ID, b.ID})

	check := Evaluate(tk, taskMap(a, b, tk))
	ids := check.BlockerIDs()
	if len(ids) != 2 || ids[0] != a.ID || ids[1] != b.ID {
		t.Errorf("BlockerIDs() = %v, want [%s %s]", ids, a.ID, b.ID)
	}
}
