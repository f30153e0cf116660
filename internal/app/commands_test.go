package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thurbeen/thurbox/internal/types"
)

func TestQuitCommandDetachesLiveSessionsAndQuits(t *testing.T) {
	pid := types.ProjectId("p1")
	running := types.SessionId("running")
	errored := types.SessionId("errored")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		running: {ID: running, ProjectID: pid, Status: types.SessionStatusRunning},
		errored: {ID: errored, ProjectID: pid, Status: types.SessionStatusError},
	})

	_, effects := quitCommand(m)

	var detached []types.SessionId
	sawQuit := false
	for _, e := range effects {
		switch v := e.(type) {
		case Detach:
			detached = append(detached, v.SessionID)
		case Quit:
			sawQuit = true
		}
	}
	assert.ElementsMatch(t, []types.SessionId{running}, detached, "an errored session has nothing live to detach")
	assert.True(t, sawQuit)
}

func TestCloseCommandRemovesWorktreeWhenPresent(t *testing.T) {
	pid := types.ProjectId("p1")
	sid := types.SessionId("s1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid, Worktree: &types.Worktree{SessionID: sid, Path: "/tmp/wt"}},
	})

	_, effects := closeCommand(m)
	assert.Len(t, effects, 2)
	_, isKill := effects[0].(Kill)
	assert.True(t, isKill)
	remove, isRemove := effects[1].(WorktreeRemove)
	assert.True(t, isRemove)
	assert.Equal(t, "/tmp/wt", remove.Path)
}

func TestCloseCommandWithoutWorktreeOnlyKills(t *testing.T) {
	pid := types.ProjectId("p1")
	sid := types.SessionId("s1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid},
	})
	_, effects := closeCommand(m)
	assert.Len(t, effects, 1)
}

func TestDeleteCommandPushesTombstoneForSession(t *testing.T) {
	pid := types.ProjectId("p1")
	sid := types.SessionId("s1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid},
	})
	m.Focus = types.FocusSessionList

	m2, effects := deleteCommand(m)
	assert.Len(t, m2.UndoStack, 1)
	assert.Equal(t, TombstoneSession, m2.UndoStack[0].Kind)
	sw, ok := effects[0].(StoreWrite)
	assert.True(t, ok)
	assert.Equal(t, OpSoftDeleteSession, sw.Op)
}

func TestUndoCommandPopsMostRecentTombstone(t *testing.T) {
	m := NewModel(nil, nil)
	m.UndoStack = []Tombstone{
		{Kind: TombstoneProject, ProjectID: "p1"},
		{Kind: TombstoneSession, SessionID: "s1"},
	}
	m2, effects := undoCommand(m)
	assert.Len(t, m2.UndoStack, 1)
	sw, ok := effects[0].(StoreWrite)
	assert.True(t, ok)
	assert.Equal(t, OpRestoreSession, sw.Op)
}

func TestUndoCommandNoopWhenEmpty(t *testing.T) {
	m := NewModel(nil, nil)
	m2, effects := undoCommand(m)
	assert.Nil(t, effects)
	assert.Empty(t, m2.UndoStack)
}

func TestSyncCommandNoopWithoutWorktree(t *testing.T) {
	pid := types.ProjectId("p1")
	sid := types.SessionId("s1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid},
	})
	_, effects := syncCommand(m)
	assert.Nil(t, effects)
}

func TestSyncCommandEmitsWorktreeSync(t *testing.T) {
	pid := types.ProjectId("p1")
	sid := types.SessionId("s1")
	wt := &types.Worktree{SessionID: sid, Branch: "feat-x"}
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid, Worktree: wt},
	})
	_, effects := syncCommand(m)
	assert.Len(t, effects, 1)
	ws, ok := effects[0].(WorktreeSync)
	assert.True(t, ok)
	assert.Equal(t, "origin/feat-x", ws.RemoteRef)
}

func TestRestartCommandPreservesClaudeSessionID(t *testing.T) {
	pid := types.ProjectId("p1")
	sid := types.SessionId("s1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid, ClaudeSessionID: "U"},
	})
	_, effects := restartCommand(m)
	assert.Len(t, effects, 1)
	restart, ok := effects[0].(Restart)
	assert.True(t, ok)
	assert.Contains(t, restart.Spec.Args, "--resume")
	assert.Contains(t, restart.Spec.Args, "U")
}
