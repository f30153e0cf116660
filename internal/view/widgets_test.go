package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thurbeen/thurbox/internal/app"
	"github.com/thurbeen/thurbox/internal/types"
)

func TestProjectRowsSkipsDeletedAndMarksSelected(t *testing.T) {
	deletedAt := time.Now()
	projects := []types.Project{
		{ID: "a", Name: "Alpha"},
		{ID: "b", Name: "Beta", DeletedAt: &deletedAt},
	}
	m := app.NewModel(projects, nil)
	m.Selection.ProjectIdx = 0

	rows := ProjectRows(m)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Alpha", rows[0].Label)
	assert.True(t, rows[0].Selected)
}

func TestSessionRowsIncludesBadgeAndSyncGlyph(t *testing.T) {
	pid := types.ProjectId("p1")
	now := time.Now()
	sess := types.Session{
		ID: "s1", ProjectID: pid, Name: "sess1",
		Status: types.SessionStatusIdle, LastActivityAt: now.Add(-90 * time.Second),
		Worktree: &types.Worktree{Sync: types.SyncStatus{State: types.SyncStateBehind}},
	}
	m := app.NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{sess.ID: sess})
	m.Selection.ProjectIdx = 0

	rows := SessionRows(m, now)
	assert.Len(t, rows, 1)
	assert.Equal(t, "sess1", rows[0].Label)
	assert.Equal(t, "idle", rows[0].BadgeStyle)
	assert.Equal(t, "↓", rows[0].SyncGlyph)
}

func TestStatusBarContentEmptyWhenNoMessage(t *testing.T) {
	m := app.NewModel(nil, nil)
	view := StatusBarContent(m)
	assert.Equal(t, StatusBarView{}, view)
}

func TestBorderStateForTerminalFocusKeepsListsActive(t *testing.T) {
	m := app.NewModel(nil, nil)
	m.Focus = types.FocusTerminal
	assert.Equal(t, BorderFocused, BorderStateFor(m, types.FocusTerminal))
	assert.Equal(t, BorderActive, BorderStateFor(m, types.FocusProjectList))
	assert.Equal(t, BorderActive, BorderStateFor(m, types.FocusSessionList))
}

func TestBorderStateForProjectListFocus(t *testing.T) {
	m := app.NewModel(nil, nil)
	m.Focus = types.FocusProjectList
	assert.Equal(t, BorderFocused, BorderStateFor(m, types.FocusProjectList))
	assert.Equal(t, BorderInactive, BorderStateFor(m, types.FocusSessionList))
}

func TestInfoPanelResolvesRoleName(t *testing.T) {
	pid := types.ProjectId("p1")
	rid := types.RoleId("r1")
	proj := types.Project{ID: pid, Roles: []types.Role{{ID: rid, Name: "reviewer"}}}
	sess := types.Session{ID: "s1", ProjectID: pid, Name: "sess1", RoleID: &rid}
	m := app.NewModel([]types.Project{proj}, map[types.SessionId]types.Session{sess.ID: sess})
	m.Selection.ProjectIdx = 0

	content, ok := InfoPanel(m)
	assert.True(t, ok)
	assert.Equal(t, "reviewer", content.RoleName)
}
