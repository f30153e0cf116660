package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thurbeen/thurbox/internal/types"
)

func TestBuildQuickFindEntriesSkipsDeletedProjects(t *testing.T) {
	deletedAt := mustTime(0)
	live := types.Project{ID: "a", Name: "Live"}
	gone := types.Project{ID: "b", Name: "Gone", DeletedAt: &deletedAt}
	m := NewModel([]types.Project{live, gone}, nil)

	entries := buildQuickFindEntries(m)
	assert.Len(t, entries, 1)
	assert.Equal(t, "Live", entries[0].Label)
}

func TestQuickFindMatchesRanksFuzzyHit(t *testing.T) {
	proj := types.Project{ID: "a", Name: "backend-service"}
	sess := types.Session{ID: "s1", ProjectID: proj.ID, Name: "refactor"}
	m := NewModel([]types.Project{proj}, map[types.SessionId]types.Session{sess.ID: sess})

	qf := &QuickFindState{Entries: buildQuickFindEntries(m), Query: "bksvc"}
	matches := quickFindMatches(qf)
	assert.NotEmpty(t, matches)
	assert.Equal(t, "backend-service", matches[0].Label)
}

func TestApplyQuickFindSelectionMovesFocusToSession(t *testing.T) {
	proj := types.Project{ID: "a", Name: "proj"}
	sess := types.Session{ID: "s1", ProjectID: proj.ID, Name: "sess"}
	m := NewModel([]types.Project{proj}, map[types.SessionId]types.Session{sess.ID: sess})
	m.QuickFind = &QuickFindState{Entries: buildQuickFindEntries(m)}

	entries := buildQuickFindEntries(m)
	var target QuickFindEntry
	for _, e := range entries {
		if e.SessionIdx >= 0 {
			target = e
		}
	}

	m = applyQuickFindSelection(m, target)
	assert.Equal(t, types.FocusSessionList, m.Focus)
	assert.Nil(t, m.QuickFind)
}
