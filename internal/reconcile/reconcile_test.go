package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reeferr "github.com/mworkman/reef/internal/errors"
	"github.com/mworkman/reef/internal/task"
)

func draft(name string) Draft {
	return Draft{Name: name, Description: "a sufficiently long description"}
}

func completedTask(name string) *task.Task {
	t := task.New(name, "a sufficiently long description")
	t.MarkInProgress()
	t.MarkCompleted("finished with a long enough completion summary")
	return t
}

func TestParseMode(t *testing.T) {
	for _, m := range ValidModes() {
		got, err := ParseMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("replace")
	require.Error(t, err)
	assert.ErrorIs(t, err, &reeferr.ReefError{Code: reeferr.CodeValidation})
}

func TestValidateDraftsDuplicateNames(t *testing.T) {
	err := ValidateDrafts([]Draft{draft("same"), draft("same")})
	require.Error(t, err)
	assert.ErrorIs(t, err, &reeferr.ReefError{Code: reeferr.CodeDuplicateName})
}

func TestValidateDraftsFieldChecks(t *testing.T) {
	require.Error(t, ValidateDrafts([]Draft{{Name: "", Description: "long enough text"}}))
	require.Error(t, ValidateDrafts([]Draft{{Name: "ok", Description: "short"}}))

	start := 5
	bad := Draft{Name: "ok", Description: "long enough text",
		RelatedFiles: []task.RelatedFile{{Path: "a.go", Type: task.FileOther, LineStart: &start}}}
	require.Error(t, ValidateDrafts([]Draft{bad}))
}

func TestBuildAppendKeepsExisting(t *testing.T) {
	existing := task.New("existing", "a sufficiently long description")

	plan, err := Build(ModeAppend, []*task.Task{existing}, []Draft{draft("new one")}, "")
	require.NoError(t, err)

	require.Len(t, plan.Tasks, 2)
	assert.Same(t, existing, plan.Tasks[0])
	require.Len(t, plan.Written, 1)
	created := plan.Written[0]
	assert.Equal(t, "new one", created.Name)
	assert.Equal(t, task.StatusPending, created.Status)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))
}

func TestBuildOverwriteRetainsOnlyCompleted(t *testing.T) {
	done := completedTask("done")
	pending := task.New("pending", "a sufficiently long description")
	started := task.New("started", "a sufficiently long description")
	started.MarkInProgress()

	plan, err := Build(ModeOverwrite, []*task.Task{done, pending, started}, []Draft{draft("fresh")}, "")
	require.NoError(t, err)

	require.Len(t, plan.Tasks, 2)
	assert.Same(t, done, plan.Tasks[0])
	assert.Equal(t, "fresh", plan.Tasks[1].Name)
}

func TestBuildOverwriteReusedNameGetsNewID(t *testing.T) {
	pending := task.New("to redo", "a sufficiently long description")

	plan, err := Build(ModeOverwrite, []*task.Task{pending}, []Draft{draft("to redo")}, "")
	require.NoError(t, err)

	require.Len(t, plan.Tasks, 1)
	assert.NotEqual(t, pending.ID, plan.Tasks[0].ID)
}

func TestBuildSelectiveUpdatesMatchedInPlace(t *testing.T) {
	matched := task.New("matched", "the original description")
	matched.MarkInProgress()
	origUpdated := matched.UpdatedAt
	untouched := task.New("untouched", "a sufficiently long description")

	d := draft("matched")
	d.Notes = "new notes"
	plan, err := Build(ModeSelective, []*task.Task{matched, untouched}, []Draft{d}, "")
	require.NoError(t, err)

	require.Len(t, plan.Tasks, 2)
	assert.Same(t, matched, plan.Tasks[0], "matched task keeps its position")
	assert.Equal(t, "a sufficiently long description", matched.Description)
	assert.Equal(t, "new notes", matched.Notes)
	assert.Equal(t, task.StatusInProgress, matched.Status, "status preserved")
	assert.True(t, matched.UpdatedAt.After(origUpdated) || matched.UpdatedAt.Equal(origUpdated))

	require.Len(t, plan.Written, 1)
	assert.Same(t, matched, plan.Written[0])
}

func TestBuildSelectiveUnmatchedCreated(t *testing.T) {
	existing := task.New("existing", "a sufficiently long description")

	plan, err := Build(ModeSelective, []*task.Task{existing}, []Draft{draft("brand new")}, "")
	require.NoError(t, err)

	require.Len(t, plan.Tasks, 2)
	assert.Equal(t, "brand new", plan.Tasks[1].Name)
}

func TestBuildSelectiveSkipsCompletedOnNameMatch(t *testing.T) {
	done := completedTask("shared")

	plan, err := Build(ModeSelective, []*task.Task{done}, []Draft{draft("shared")}, "")
	require.NoError(t, err)

	require.Len(t, plan.Tasks, 2)
	assert.Same(t, done, plan.Tasks[0])
	assert.NotEqual(t, done.ID, plan.Tasks[1].ID, "completed task is never updated; a new task is created")
	assert.Equal(t, task.StatusCompleted, done.Status)
}

func TestBuildResolvesSiblingDependencies(t *testing.T) {
	a := draft("A")
	b := draft("B")
	b.Dependencies = []string{"A"}

	plan, err := Build(ModeAppend, nil, []Draft{a, b}, "")
	require.NoError(t, err)

	require.Len(t, plan.Written, 2)
	taskA, taskB := plan.Written[0], plan.Written[1]
	require.Len(t, taskB.Dependencies, 1)
	assert.Equal(t, taskA.ID, taskB.Dependencies[0].TaskID)
}

func TestBuildResolvesRetainedDependencies(t *testing.T) {
	existing := task.New("retained", "a sufficiently long description")
	d := draft("dependent")
	d.Dependencies = []string{"retained"}

	plan, err := Build(ModeAppend, []*task.Task{existing}, []Draft{d}, "")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, plan.Written[0].Dependencies[0].TaskID)
}

func TestBuildUnresolvableDependencyFailsBatch(t *testing.T) {
	d := draft("dependent")
	d.Dependencies = []string{"ghost"}

	_, err := Build(ModeAppend, nil, []Draft{d}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, &reeferr.ReefError{Code: reeferr.CodeDependencyNotFound})
}

func TestBuildRejectsCycle(t *testing.T) {
	a := draft("A")
	a.Dependencies = []string{"B"}
	b := draft("B")
	b.Dependencies = []string{"A"}

	_, err := Build(ModeAppend, nil, []Draft{a, b}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, &reeferr.ReefError{Code: reeferr.CodeCyclicDependency})
}

func TestBuildGlobalAnalysisFirstWriterWins(t *testing.T) {
	carrying := task.New("carrying", "a sufficiently long description")
	carrying.AnalysisResult = "original analysis"

	d := draft("carrying")
	plan, err := Build(ModeSelective, []*task.Task{carrying}, []Draft{d, draft("blank")}, "batch analysis")
	require.NoError(t, err)

	assert.Equal(t, "original analysis", carrying.AnalysisResult, "existing analysis is never overwritten")
	require.Len(t, plan.Written, 2)
	assert.Equal(t, "batch analysis", plan.Written[1].AnalysisResult)
}

func TestBuildEmptyAnalysisLeavesTasksAlone(t *testing.T) {
	plan, err := Build(ModeAppend, nil, []Draft{draft("solo")}, "")
	require.NoError(t, err)
	assert.Empty(t, plan.Written[0].AnalysisResult)
}

func TestBuildClearAllRejected(t *testing.T) {
	_, err := Build(ModeClearAll, nil, []Draft{draft("x")}, "")
	require.Error(t, err)
}

func TestBuildDraftCarriesAllContentFields(t *testing.T) {
	one, two := 1, 2
	d := Draft{
		Name:                 "full",
		Description:          "a sufficiently long description",
		Notes:                "some notes",
		ImplementationGuide:  "how to build it",
		VerificationCriteria: "how to check it",
		RelatedFiles: []task.RelatedFile{
			{Path: "main.go", Type: task.FileToModify, LineStart: &one, LineEnd: &two},
		},
	}

	plan, err := Build(ModeAppend, nil, []Draft{d}, "")
	require.NoError(t, err)

	got := plan.Written[0]
	assert.Equal(t, "some notes", got.Notes)
	assert.Equal(t, "how to build it", got.ImplementationGuide)
	assert.Equal(t, "how to check it", got.VerificationCriteria)
	require.Len(t, got.RelatedFiles, 1)
	assert.Equal(t, task.FileToModify, got.RelatedFiles[0].Type)
}
