// Package resolve maps raw dependency references onto task IDs.
//
// A reference token is either an existing task ID or an exact task name.
// Resolution runs against one consistent snapshot: the union of the tasks
// surviving a batch operation and the tasks the batch is creating, so an
// incoming task may depend on a retained task or on a sibling from the
// same batch.
package resolve

import (
	reeferr "github.com/mworkman/reef/internal/errors"
	"github.com/mworkman/reef/internal/task"
)

// Index is a resolution view over existing tasks and an incoming batch.
type Index struct {
	byID        map[string]*task.Task
	batchByName map[string]string
	storeByName map[string]string
}

// NewIndex builds an index from the surviving existing tasks and the
// incoming batch. On name collisions within a set the first task wins;
// batch names shadow store names, since a batch is allowed to redefine a
// name.
func NewIndex(existing, incoming []*task.Task) *Index {
	ix := &Index{
		byID:        make(map[string]*task.Task, len(existing)+len(incoming)),
		batchByName: make(map[string]string, len(incoming)),
		storeByName: make(map[string]string, len(existing)),
	}
	for _, t := range existing {
		ix.byID[t.ID] = t
		if _, ok := ix.storeByName[t.Name]; !ok {
			ix.storeByName[t.Name] = t.ID
		}
	}
	for _, t := range incoming {
		ix.byID[t.ID] = t
		if _, ok := ix.batchByName[t.Name]; !ok {
			ix.batchByName[t.Name] = t.ID
		}
	}
	return ix
}

// Resolve maps tokens to task IDs, trying exact ID match first, then exact
// name match with the batch preferred over the store. Unresolvable tokens
// fail with DependencyNotFound naming the token. No fuzzy matching.
func (ix *Index) Resolve(tokens []string) ([]string, error) {
	ids := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		id, ok := ix.resolveOne(tok)
		if !ok {
			return nil, reeferr.ErrDependencyNotFound(tok)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (ix *Index) resolveOne(token string) (string, bool) {
	if _, ok := ix.byID[token]; ok {
		return token, true
	}
	if id, ok := ix.batchByName[token]; ok {
		return id, true
	}
	if id, ok := ix.storeByName[token]; ok {
		return id, true
	}
	return "", false
}

// ValidateAcyclic rejects a task set whose dependency graph contains a
// cycle. Without this check the execution gate could deadlock on mutually
// blocked tasks. Dependencies pointing outside the set carry no edge.
func ValidateAcyclic(tasks []*task.Task) error {
	edges := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		edges[t.ID] = t.DependencyIDs()
	}

	const (
		unvisited = 0
		inPath    = 1
		done      = 2
	)
	state := make(map[string]int, len(edges))
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		if state[id] == inPath {
			cycle = append(cycle, id)
			return true
		}
		if state[id] == done {
			return false
		}
		state[id] = inPath
		for _, dep := range edges[id] {
			if _, known := edges[dep]; !known {
				continue
			}
			if dfs(dep) {
				cycle = append(cycle, id)
				return true
			}
		}
		state[id] = done
		return false
	}

	for _, t := range tasks {
		if state[t.ID] == unvisited && dfs(t.ID) {
			// Reverse so the path reads in dependency order.
			for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
				cycle[i], cycle[j] = cycle[j], cycle[i]
			}
			return reeferr.ErrCyclicDependency(namedCycle(cycle, tasks))
		}
	}
	return nil
}

// namedCycle renders cycle node IDs as names where available, which reads
// better in error output than raw UUIDs.
func namedCycle(ids []string, tasks []*task.Task) []string {
	names := make(map[string]string, len(tasks))
	for _, t := range tasks {
		names[t.ID] = t.Name
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		if n, ok := names[id]; ok && n != "" {
			out[i] = n
		} else {
			out[i] = id
		}
	}
	return out
}
