package resolve

import (
	"errors"
	"testing"

	reeferr "github.com/mworkman/reef/internal/errors"
	"github.com/mworkman/reef/internal/task"
)

func named(name string) *task.Task {
	return task.New(name, "a valid description")
}

func TestResolveByID(t *testing.T) {
	existing := named("existing")
	ix := NewIndex([]*task.Task{existing}, nil)

	ids, err := ix.Resolve([]string{existing.ID})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != existing.ID {
		t.Errorf("ids = %v, want [%s]", ids, existing.ID)
	}
}

func TestResolveByName(t *testing.T) {
	existing := named("build api")
	ix := NewIndex([]*task.Task{existing}, nil)

	ids, err := ix.Resolve([]string{"build api"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ids[0] != existing.ID {
		t.Errorf("resolved %s, want %s", ids[0], existing.ID)
	}
}

func TestResolveBatchShadowsStoreOnName(t *testing.T) {
	old := named("shared name")
	incoming := named("shared name")
	ix := NewIndex([]*task.Task{old}, []*task.Task{incoming})

	ids, err := ix.Resolve([]string{"shared name"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ids[0] != incoming.ID {
		t.Errorf("expected batch task %s to win, got %s", incoming.ID, ids[0])
	}
}

func TestResolveIDBeatsName(t *testing.T) {
	a := named("a")
	// A task whose name equals another task's ID is pathological but legal;
	// exact ID match must win.
	b := named(a.ID)
	ix := NewIndex([]*task.Task{a, b}, nil)

	ids, err := ix.Resolve([]string{a.ID})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ids[0] != a.ID {
		t.Errorf("expected ID match %s, got %s", a.ID, ids[0])
	}
}

func TestResolveSiblingInBatch(t *testing.T) {
	first := named("first")
	second := named("second")
	ix := NewIndex(nil, []*task.Task{first, second})

	ids, err := ix.Resolve([]string{"first"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ids[0] != first.ID {
		t.Errorf("resolved %s, want sibling %s", ids[0], first.ID)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	ix := NewIndex([]*task.Task{named("known")}, nil)

	_, err := ix.Resolve([]string{"known", "missing"})
	if err == nil {
		t.Fatal("expected DependencyNotFound")
	}
	if !errors.Is(err, &reeferr.ReefError{Code: reeferr.CodeDependencyNotFound}) {
		t.Errorf("expected DEPENDENCY_NOT_FOUND, got %v", err)
	}
	re := reeferr.AsReefError(err)
	if re == nil || re.What != `dependency "missing" not found` {
		t.Errorf("error should name the offending token, got %v", err)
	}
}

func TestResolveOrderPreserved(t *testing.T) {
	a, b, c := named("a"), named("b"), named("c")
	ix := NewIndex([]*task.Task{a, b, c}, nil)

	ids, err := ix.Resolve([]string{"c", "a", "b"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{c.ID, a.ID, b.ID}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestValidateAcyclicAcceptsDAG(t *testing.T) {
	a, b, c := named("a"), named("b"), named("c")
	b.SetDependencies([]string{a.ID})
	c.SetDependencies([]string{a.ID, b.ID})

	if err := ValidateAcyclic([]*task.Task{a, b, c}); err != nil {
		t.Errorf("expected DAG to pass, got %v", err)
	}
}

func TestValidateAcyclicRejectsCycle(t *testing.T) {
	a, b, c := named("a"), named("b"), named("c")
	a.SetDependencies([]string{c.ID})
	b.SetDependencies([]string{a.ID})
	c.SetDependencies([]string{b.ID})

	err := ValidateAcyclic([]*task.Task{a, b, c})
	if err == nil {
		t.Fatal("expected cycle to be rejected")
	}
	if !errors.Is(err, &reeferr.ReefError{Code: reeferr.CodeCyclicDependency}) {
		t.Errorf("expected CYCLIC_DEPENDENCY, got %v", err)
	}
}

func TestValidateAcyclicRejectsSelfDependency(t *testing.T) {
	a := named("self")
	a.SetDependencies([]string{a.ID})

	if err := ValidateAcyclic([]*task.Task{a}); err == nil {
		t.Fatal("expected self-dependency to be rejected")
	}
}

func TestValidateAcyclicIgnoresDanglingEdges(t *testing.T) {
	a := named("a")
	a.SetDependencies([]string{"not-in-set"})

	if err := ValidateAcyclic([]*task.Task{a}); err != nil {
		t.Errorf("dangling dependency should not be treated as a cycle: %v", err)
	}
}
