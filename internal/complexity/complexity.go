// Package complexity derives a non-authoritative complexity classification
// for a task from simple textual and structural metrics. Assessments are
// computed on demand and never persisted as task state.
package complexity

import (
	"fmt"
	"unicode/utf8"

	"github.com/mworkman/reef/internal/task"
)

// Level classifies the size and risk of a task.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelVeryHigh Level = "very_high"
)

// Per-metric thresholds. A value strictly greater than a threshold reaches
// that tier; the highest tier reached by any single metric decides the
// overall level.
const (
	DescriptionMedium   = 500
	DescriptionHigh     = 1000
	DescriptionVeryHigh = 2000

	DependenciesMedium   = 2
	DependenciesHigh     = 5
	DependenciesVeryHigh = 10

	NotesMedium   = 200
	NotesHigh     = 500
	NotesVeryHigh = 1000
)

// Metrics holds the raw inputs of an assessment.
type Metrics struct {
	DescriptionLength int  `json:"descriptionLength"`
	DependenciesCount int  `json:"dependenciesCount"`
	NotesLength       int  `json:"notesLength"`
	HasNotes          bool `json:"hasNotes"`
}

// Assessment is the transient complexity report for one task.
type Assessment struct {
	TaskID          string   `json:"taskId"`
	TaskName        string   `json:"taskName"`
	Level           Level    `json:"level"`
	Metrics         Metrics  `json:"metrics"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// rank orders levels for max computation.
func rank(l Level) int {
	switch l {
	case LevelMedium:
		return 1
	case LevelHigh:
		return 2
	case LevelVeryHigh:
		return 3
	default:
		return 0
	}
}

// maxLevel returns the higher of two levels.
func maxLevel(a, b Level) Level {
	if rank(b) > rank(a) {
		return b
	}
	return a
}

// tier maps a metric value onto a level given its three thresholds.
func tier(value, medium, high, veryHigh int) Level {
	switch {
	case value > veryHigh:
		return LevelVeryHigh
	case value > high:
		return LevelHigh
	case value > medium:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Assess computes the complexity assessment for a task. Absent fields
// count as zero; there are no error conditions.
func Assess(t *task.Task) *Assessment {
	m := Metrics{
		DescriptionLength: utf8.RuneCountInString(t.Description),
		DependenciesCount: len(t.Dependencies),
		NotesLength:       utf8.RuneCountInString(t.Notes),
		HasNotes:          t.Notes != "",
	}

	descLevel := tier(m.DescriptionLength, DescriptionMedium, DescriptionHigh, DescriptionVeryHigh)
	depsLevel := tier(m.DependenciesCount, DependenciesMedium, DependenciesHigh, DependenciesVeryHigh)
	notesLevel := tier(m.NotesLength, NotesMedium, NotesHigh, NotesVeryHigh)

	overall := maxLevel(descLevel, maxLevel(depsLevel, notesLevel))

	a := &Assessment{
		TaskID:   t.ID,
		TaskName: t.Name,
		Level:    overall,
		Metrics:  m,
	}
	a.Recommendations = recommendations(descLevel, depsLevel, notesLevel, overall, m)
	return a
}

// recommendations produces guidance keyed to which thresholds were crossed.
func recommendations(desc, deps, notes, overall Level, m Metrics) []string {
	var recs []string

	if rank(desc) >= rank(LevelVeryHigh) {
		recs = append(recs, fmt.Sprintf(
			"The description is %d characters long; consider splitting this task into smaller, independently verifiable tasks.",
			m.DescriptionLength))
	} else if rank(desc) >= rank(LevelHigh) {
		recs = append(recs, "The description is long; break the work into explicit steps in the implementation guide.")
	}

	if rank(deps) >= rank(LevelVeryHigh) {
		recs = append(recs, fmt.Sprintf(
			"This task has %d dependencies; consider introducing intermediate milestone tasks.",
			m.DependenciesCount))
	} else if rank(deps) >= rank(LevelHigh) {
		recs = append(recs, "Many prerequisites; re-check the dependency list before starting.")
	} else if rank(deps) >= rank(LevelMedium) {
		recs = append(recs, "Confirm that every listed dependency is truly required.")
	}

	if rank(notes) >= rank(LevelHigh) {
		recs = append(recs, "The notes are extensive; fold the important parts into the description or verification criteria so they are not missed.")
	}

	if overall == LevelVeryHigh {
		recs = append(recs, "Overall complexity is very high; split before executing.")
	} else if overall == LevelHigh {
		recs = append(recs, "Plan checkpoints and verify incrementally rather than in one pass.")
	}

	return recs
}
