package app

import (
	"testing"

	"github.com/micro-editor/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/thurbeen/thurbox/internal/sync"
	"github.com/thurbeen/thurbox/internal/types"
)

func TestUpdateResizeFansOutToLiveSessionsOnly(t *testing.T) {
	pid := types.ProjectId("p1")
	live := types.SessionId("live")
	dead := types.SessionId("dead")
	backendID := types.BackendId("%1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		live: {ID: live, ProjectID: pid, BackendID: &backendID},
		dead: {ID: dead, ProjectID: pid}, // never spawned, no BackendID yet
	})

	m2, effects := Update(m, ResizeEvent{Cols: 100, Rows: 40})
	assert.Equal(t, 100, m2.ViewportCols)
	assert.Equal(t, 40, m2.ViewportRows)

	var resized []types.SessionId
	for _, e := range effects {
		if r, ok := e.(Resize); ok {
			resized = append(resized, r.SessionID)
		}
	}
	assert.ElementsMatch(t, []types.SessionId{live}, resized)
}

func TestUpdatePasteOnlyForwardsWhenTerminalFocused(t *testing.T) {
	pid := types.ProjectId("p1")
	sid := types.SessionId("s1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid},
	})
	m.Focus = types.FocusProjectList

	_, effects := Update(m, PasteEvent{Text: "hello"})
	assert.Nil(t, effects)

	m.Focus = types.FocusTerminal
	_, effects = Update(m, PasteEvent{Text: "hello"})
	assert.Len(t, effects, 1)
	w, ok := effects[0].(Write)
	assert.True(t, ok)
	assert.Equal(t, sid, w.SessionID)
}

func TestUpdateBackendDeadMarksSessionError(t *testing.T) {
	pid := types.ProjectId("p1")
	sid := types.SessionId("s1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid, Status: types.SessionStatusRunning},
	})
	code := 1
	m2, _ := Update(m, BackendDeadEvent{SessionID: sid, ExitCode: &code})
	assert.Equal(t, types.SessionStatusError, m2.Sessions[sid].Status)
	assert.Equal(t, "child_exited_non_zero", m2.Sessions[sid].ErrorKind)
}

func TestUpdateSyncMergesChangeSet(t *testing.T) {
	pid := types.ProjectId("p1")
	m := NewModel([]types.Project{{ID: pid, Name: "old"}}, nil)

	change := sync.ChangeSet{
		Projects: []types.Project{{ID: pid, Name: "renamed"}},
		Sessions: []types.Session{{ID: "s1", ProjectID: pid}},
	}
	m2, _ := Update(m, SyncEvent{Change: change})
	assert.Equal(t, "renamed", m2.Projects[0].Name)
	assert.Contains(t, m2.Sessions, types.SessionId("s1"))
}

func TestUpdateStatusTimeoutClearsStatusBar(t *testing.T) {
	m := NewModel(nil, nil)
	m.StatusBar = StatusBar{Message: "saved", Severity: SeverityInfo}
	m2, _ := Update(m, StatusTimeoutEvent{})
	assert.Equal(t, StatusBar{}, m2.StatusBar)
}

func TestUpdateWorktreeStatusUpdatesSessionSync(t *testing.T) {
	pid := types.ProjectId("p1")
	sid := types.SessionId("s1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {
			ID:        sid,
			ProjectID: pid,
			Worktree: &types.Worktree{
				SessionID: sid,
				Sync:      types.SyncStatus{State: types.SyncStateSyncing},
			},
		},
	})

	status := types.SyncStatus{State: types.SyncStateBehind, Behind: 2}
	m2, effects := Update(m, WorktreeStatusEvent{SessionID: sid, Status: status})

	assert.Nil(t, effects)
	assert.Equal(t, status, m2.Sessions[sid].Worktree.Sync)
}

func TestUpdateWorktreeStatusIgnoresSessionWithoutWorktree(t *testing.T) {
	pid := types.ProjectId("p1")
	sid := types.SessionId("s1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid},
	})

	m2, effects := Update(m, WorktreeStatusEvent{SessionID: sid, Status: types.SyncStatus{State: types.SyncStateUpToDate}})

	assert.Nil(t, effects)
	assert.Nil(t, m2.Sessions[sid].Worktree)
}

func TestUpdateMouseWheelScrolls(t *testing.T) {
	pid := types.ProjectId("p1")
	sid := types.SessionId("s1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid},
	})
	ev := tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone, "")
	_, effects := Update(m, MouseEvent{Event: ev})
	assert.Len(t, effects, 1)
	sc, ok := effects[0].(Scroll)
	assert.True(t, ok)
	assert.Equal(t, -3, sc.Delta)
}
