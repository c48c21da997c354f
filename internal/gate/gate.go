// Package gate decides whether a task may start executing.
//
// A task is executable only when every one of its dependencies is
// completed. The gate reports all blockers, not just the first, so a
// caller can surface the full picture in one round trip.
package gate

import (
	"github.com/mworkman/reef/internal/task"
)

// Blocker describes one incomplete dependency.
type Blocker struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Status task.Status `json:"status"`
}

// Check is the result of an execution-gate evaluation.
type Check struct {
	Executable bool      `json:"executable"`
	BlockedBy  []Blocker `json:"blockedBy,omitempty"`
}

// Evaluate checks t's dependencies against the given task map. Blockers
// appear in dependency-list order. A dependency ID that resolves to no
// task counts as a blocker rather than being skipped; a dangling edge
// must never make a task runnable.
//
// Evaluate only inspects dependencies. Whether t itself is in a state
// that permits starting is the state machine's call, which the caller is
// expected to consult first.
func Evaluate(t *task.Task, all map[string]*task.Task) Check {
	var blockers []Blocker
	for _, dep := range t.Dependencies {
		blocker, exists := all[dep.TaskID]
		if !exists {
			blockers = append(blockers, Blocker{
				ID:   dep.TaskID,
				Name: "(task not found)",
			})
			continue
		}
		if !blocker.IsDone() {
			blockers = append(blockers, Blocker{
				ID:     blocker.ID,
				Name:   blocker.Name,
				Status: blocker.Status,
			})
		}
	}
	return Check{
		Executable: len(blockers) == 0,
		BlockedBy:  blockers,
	}
}

// BlockerIDs returns just the IDs of the blockers, in order.
func (c Check) BlockerIDs() []string {
	ids := make([]string, len(c.BlockedBy))
	for i, b := range c.BlockedBy {
		ids[i] = b.ID
	}
	return ids
}
