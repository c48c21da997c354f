package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mworkman/reef/internal/reconcile"
	"github.com/mworkman/reef/internal/task"
)

func TestSearchByIDExactOnly(t *testing.T) {
	s, _ := newTestStore(t)
	written := mustAppend(t, s, draft("findable"))
	id := written[0].ID

	page, err := s.Search(id, true, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, id, page.Tasks[0].ID)

	// A prefix is not an ID match.
	page, err = s.Search(id[:8], true, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Tasks)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestSearchSubstringCaseInsensitive(t *testing.T) {
	s, _ := newTestStore(t)
	mustAppend(t, s,
		draft("Parse HTTP headers"),
		draft("emit metrics"),
		reconcile.Draft{Name: "cleanup", Description: "Remove the legacy HTTP client wrapper"},
	)

	page, err := s.Search("http", false, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	// Creation order is stable.
	assert.Equal(t, "Parse HTTP headers", page.Tasks[0].Name)
	assert.Equal(t, "cleanup", page.Tasks[1].Name)
}

func TestQueryStatusFilter(t *testing.T) {
	s, _ := newTestStore(t)
	written := mustAppend(t, s, draft("a"), draft("b"))
	completeTask(t, s, written[0].ID)

	page, err := s.Query(Filter{Status: task.StatusPending}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "b", page.Tasks[0].Name)

	_, err = s.Query(Filter{Status: "cancelled"}, 1, 10)
	require.Error(t, err)
}

func TestQueryFileGlob(t *testing.T) {
	s, _ := newTestStore(t)
	d := draft("touches go files")
	d.RelatedFiles = []task.RelatedFile{{Path: "internal/store/query.go", Type: task.FileToModify}}
	other := draft("touches docs")
	other.RelatedFiles = []task.RelatedFile{{Path: "docs/guide.md", Type: task.FileReference}}
	mustAppend(t, s, d, other)

	page, err := s.Query(Filter{FileGlob: "internal/**/*.go"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "touches go files", page.Tasks[0].Name)

	_, err = s.Query(Filter{FileGlob: "internal/[bad"}, 1, 10)
	require.Error(t, err)
}

func TestPaginateClampsAndCounts(t *testing.T) {
	s, _ := newTestStore(t)
	drafts := make([]reconcile.Draft, 25)
	for i := range drafts {
		drafts[i] = draft(string(rune('a'+i)) + " task")
	}
	mustAppend(t, s, drafts...)

	page, err := s.Query(Filter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Tasks, DefaultPageSize)

	page, err = s.Query(Filter{}, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page.Tasks, 5)

	page, err = s.Query(Filter{}, 9, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Tasks)
	assert.Equal(t, 25, page.Total)

	page, err = s.Query(Filter{}, 1, 10_000)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.PageSize)
}
