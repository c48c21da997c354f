// Package events provides in-process change notification for the task
// set. The store publishes after every committed mutation; consumers such
// as 'reef watch' subscribe to learn that something meaningful changed
// without polling the snapshot.
package events

import (
	"sync"
	"time"
)

// Type identifies what happened.
type Type string

const (
	TypeTaskCreated      Type = "task_created"
	TypeTaskUpdated      Type = "task_updated"
	TypeTaskDeleted      Type = "task_deleted"
	TypeBatchReconciled  Type = "batch_reconciled"
	TypeTasksCleared     Type = "tasks_cleared"
	TypeSnapshotReloaded Type = "snapshot_reloaded"
)

// Event is one change notification. TaskID is empty for set-wide events.
type Event struct {
	Type   Type      `json:"type"`
	TaskID string    `json:"taskId,omitempty"`
	Time   time.Time `json:"time"`
}

// GlobalID is the special subscription key that receives every event.
const GlobalID = "*"

// Publisher is the event fan-out interface.
type Publisher interface {
	// Publish sends an event to matching subscribers. Never blocks.
	Publish(event Event)
	// Subscribe returns a channel receiving events for the given task ID,
	// or for all events when id is GlobalID.
	Subscribe(id string) <-chan Event
	// Unsubscribe removes and closes a subscription channel.
	Unsubscribe(id string, ch <-chan Event)
	// Close shuts down the publisher and all subscriptions.
	Close()
}

// MemoryPublisher is the in-memory Publisher implementation.
type MemoryPublisher struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
	bufferSize  int
	closed      bool
}

// NewMemoryPublisher creates a publisher with a per-subscriber buffer.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{
		subscribers: make(map[string][]chan Event),
		bufferSize:  64,
	}
}

// Publish sends the event to task-specific and global subscribers.
// Subscribers with full buffers are skipped rather than blocking the
// store's write path.
func (p *MemoryPublisher) Publish(event Event) {
	if event.Time.IsZero() {
		event.Time = time.Now()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}

	for _, ch := range p.subscribers[event.TaskID] {
		select {
		case ch <- event:
		default:
		}
	}
	if event.TaskID != GlobalID {
		for _, ch := range p.subscribers[GlobalID] {
			select {
			case ch <- event:
			default:
			}
		}
	}
}

// Subscribe returns a channel receiving events for the given ID.
func (p *MemoryPublisher) Subscribe(id string) <-chan Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, p.bufferSize)
	p.subscribers[id] = append(p.subscribers[id], ch)
	return ch
}

// Unsubscribe removes and closes the given subscription.
func (p *MemoryPublisher) Unsubscribe(id string, ch <-chan Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	subs := p.subscribers[id]
	for i, sub := range subs {
		if sub == ch {
			p.subscribers[id] = append(subs[:i], subs[i+1:]...)
			close(sub)
			break
		}
	}
}

// Close shuts down all subscriptions.
func (p *MemoryPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	for _, subs := range p.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	p.subscribers = make(map[string][]chan Event)
}

// NopPublisher discards all events. It stands in when no consumer exists.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(Event) {}

// Subscribe returns a closed channel.
func (NopPublisher) Subscribe(string) <-chan Event {
	ch := make(chan Event)
	close(ch)
	return ch
}

// Unsubscribe is a no-op.
func (NopPublisher) Unsubscribe(string, <-chan Event) {}

// Close is a no-op.
func (NopPublisher) Close() {}
