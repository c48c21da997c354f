package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mworkman/reef/internal/task"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := OpenIndex(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestIndexSearchByNameAndDescription(t *testing.T) {
	ix := openTestIndex(t)

	a := task.New("login endpoint", "implement the handler")
	b := task.New("logout flow", "clear the login session")
	c := task.New("docs", "write the user guide")
	require.NoError(t, ix.Rebuild([]*task.Task{a, b, c}))

	ids, err := ix.SearchIDs("login")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids, "matches name of a and description of b")

	ids, err = ix.SearchIDs("guide")
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, ids)

	ids, err = ix.SearchIDs("nothing matches this")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndexSearchOrderedByCreation(t *testing.T) {
	ix := openTestIndex(t)

	first := task.New("aaa", "shared keyword")
	time.Sleep(2 * time.Millisecond)
	second := task.New("zzz", "shared keyword")
	// Rebuild in reverse insertion order; creation time must still win.
	require.NoError(t, ix.Rebuild([]*task.Task{second, first}))

	ids, err := ix.SearchIDs("shared")
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, first.ID, ids[0])
}

func TestIndexRebuildReplaces(t *testing.T) {
	ix := openTestIndex(t)

	old := task.New("old task", "a description here")
	require.NoError(t, ix.Rebuild([]*task.Task{old}))
	fresh := task.New("fresh task", "a description here")
	require.NoError(t, ix.Rebuild([]*task.Task{fresh}))

	ids, err := ix.SearchIDs("old")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndexSearchEscapesLikeMetacharacters(t *testing.T) {
	ix := openTestIndex(t)

	literal := task.New("task with 100% coverage", "a description here")
	other := task.New("task with 1000 tests", "a description here")
	require.NoError(t, ix.Rebuild([]*task.Task{literal, other}))

	ids, err := ix.SearchIDs("100%")
	require.NoError(t, err)
	assert.Equal(t, []string{literal.ID}, ids, "% must match literally, not as a wildcard")

	under := task.New("snake_case name", "a description here")
	require.NoError(t, ix.Rebuild([]*task.Task{under, other}))
	ids, err = ix.SearchIDs("snake_case")
	require.NoError(t, err)
	assert.Equal(t, []string{under.ID}, ids)
}

func TestIndexEmptyQueryMatchesAll(t *testing.T) {
	ix := openTestIndex(t)

	tasks := []*task.Task{
		task.New("one", "a description here"),
		task.New("two", "a description here"),
	}
	require.NoError(t, ix.Rebuild(tasks))

	ids, err := ix.SearchIDs("")
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}
