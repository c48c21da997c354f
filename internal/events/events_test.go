package events

import (
	"testing"
	"time"
)

func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublishToTaskSubscriber(t *testing.T) {
	p := NewMemoryPublisher()
	defer p.Close()

	ch := p.Subscribe("task-1")
	p.Publish(Event{Type: TypeTaskUpdated, TaskID: "task-1"})

	e := recv(t, ch)
	if e.Type != TypeTaskUpdated {
		t.Errorf("Type = %s, want %s", e.Type, TypeTaskUpdated)
	}
	if e.Time.IsZero() {
		t.Error("expected Time to be stamped")
	}
}

func TestGlobalSubscriberSeesEverything(t *testing.T) {
	p := NewMemoryPublisher()
	defer p.Close()

	global := p.Subscribe(GlobalID)
	p.Publish(Event{Type: TypeTaskCreated, TaskID: "task-1"})
	p.Publish(Event{Type: TypeTasksCleared})

	if e := recv(t, global); e.Type != TypeTaskCreated {
		t.Errorf("first event = %s, want %s", e.Type, TypeTaskCreated)
	}
	if e := recv(t, global); e.Type != TypeTasksCleared {
		t.Errorf("second event = %s, want %s", e.Type, TypeTasksCleared)
	}
}

func TestOtherTaskSubscriberHearsNothing(t *testing.T) {
	p := NewMemoryPublisher()
	defer p.Close()

	ch := p.Subscribe("task-2")
	p.Publish(Event{Type: TypeTaskUpdated, TaskID: "task-1"})

	select {
	case e := <-ch:
		t.Errorf("unexpected event: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	p := NewMemoryPublisher()
	defer p.Close()

	ch := p.Subscribe("task-1")
	p.Unsubscribe("task-1", ch)

	if _, open := <-ch; open {
		t.Error("expected channel to be closed")
	}
}

func TestCloseTerminatesSubscriptions(t *testing.T) {
	p := NewMemoryPublisher()
	ch := p.Subscribe(GlobalID)
	p.Close()

	if _, open := <-ch; open {
		t.Error("expected channel to be closed")
	}
	// Publishing after close must not panic.
	p.Publish(Event{Type: TypeTaskUpdated, TaskID: "x"})
}

func TestPublishNeverBlocksOnFullBuffer(t *testing.T) {
	p := NewMemoryPublisher()
	defer p.Close()

	_ = p.Subscribe("task-1")
	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			p.Publish(Event{Type: TypeTaskUpdated, TaskID: "task-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber buffer")
	}
}
