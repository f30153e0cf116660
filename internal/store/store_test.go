package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thurbeen/thurbox/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	assert.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetProject(t *testing.T) {
	s := newTestStore(t)
	p := types.Project{ID: types.NewProjectId(), Name: "demo", Repos: []string{"/tmp/r"}}
	assert.NoError(t, s.CreateProject(&p))

	got, err := s.GetProject(p.ID)
	assert.NoError(t, err)
	assert.Equal(t, "demo", got.Name)
	assert.Equal(t, []string{"/tmp/r"}, got.Repos)
}

func TestCreateProjectRejectsDuplicateNameCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	p1 := types.Project{ID: types.NewProjectId(), Name: "Demo"}
	assert.NoError(t, s.CreateProject(&p1))

	p2 := types.Project{ID: types.NewProjectId(), Name: "demo"}
	err := s.CreateProject(&p2)
	assert.Error(t, err)
}

func TestCreateProjectRejectsEmptyName(t *testing.T) {
	s := newTestStore(t)
	p := types.Project{ID: types.NewProjectId(), Name: "   "}
	assert.Error(t, s.CreateProject(&p))
}

func TestSoftDeleteProjectCascadesToSessions(t *testing.T) {
	s := newTestStore(t)
	p := types.Project{ID: types.NewProjectId(), Name: "demo"}
	assert.NoError(t, s.CreateProject(&p))

	sess := types.Session{
		ID: types.NewSessionId(), ProjectID: p.ID, Name: "Session 1",
		ClaudeSessionID: "claude-1", Cwd: "/tmp/r", Status: types.SessionStatusRunning,
	}
	assert.NoError(t, s.CreateSession(&sess))

	assert.NoError(t, s.SoftDeleteProject(p.ID))

	got, err := s.GetSession(sess.ID)
	assert.NoError(t, err)
	assert.NotNil(t, got.DeletedAt)
}

func TestSoftDeleteProjectRejectsAdmin(t *testing.T) {
	s := newTestStore(t)
	p := types.Project{ID: types.NewProjectId(), Name: "admin", IsAdmin: true}
	assert.NoError(t, s.CreateProject(&p))
	assert.Error(t, s.SoftDeleteProject(p.ID))
}

func TestSetRolesAtomicReplace(t *testing.T) {
	s := newTestStore(t)
	p := types.Project{ID: types.NewProjectId(), Name: "demo"}
	assert.NoError(t, s.CreateProject(&p))

	r1 := types.Role{ID: types.NewRoleId(), ProjectID: p.ID, Name: "r1"}
	r2 := types.Role{ID: types.NewRoleId(), ProjectID: p.ID, Name: "r2"}
	assert.NoError(t, s.SetRoles(p.ID, []types.Role{r1, r2}))

	roles, err := s.ListRoles(p.ID)
	assert.NoError(t, err)
	assert.Len(t, roles, 2)

	dup := types.Role{ID: types.NewRoleId(), ProjectID: p.ID, Name: "r1"}
	err = s.SetRoles(p.ID, []types.Role{r1, dup})
	assert.Error(t, err)

	roles, err = s.ListRoles(p.ID)
	assert.NoError(t, err)
	assert.Len(t, roles, 2, "failed validation must leave the prior role set untouched")
}

func TestCreateSessionRejectsDuplicateClaudeSessionID(t *testing.T) {
	s := newTestStore(t)
	p := types.Project{ID: types.NewProjectId(), Name: "demo"}
	assert.NoError(t, s.CreateProject(&p))

	s1 := types.Session{ID: types.NewSessionId(), ProjectID: p.ID, Name: "a", ClaudeSessionID: "dup", Cwd: "/tmp", Status: types.SessionStatusRunning}
	assert.NoError(t, s.CreateSession(&s1))

	s2 := types.Session{ID: types.NewSessionId(), ProjectID: p.ID, Name: "b", ClaudeSessionID: "dup", Cwd: "/tmp", Status: types.SessionStatusRunning}
	assert.Error(t, s.CreateSession(&s2))
}

func TestWorktreeUpsertAndGet(t *testing.T) {
	s := newTestStore(t)
	p := types.Project{ID: types.NewProjectId(), Name: "demo"}
	assert.NoError(t, s.CreateProject(&p))
	sess := types.Session{ID: types.NewSessionId(), ProjectID: p.ID, Name: "a", ClaudeSessionID: "c1", Cwd: "/tmp", Status: types.SessionStatusRunning}
	assert.NoError(t, s.CreateSession(&sess))

	wt := &types.Worktree{SessionID: sess.ID, RepoPath: "/tmp/r", Path: "/tmp/r/.git/thurbox-worktrees/feat-x", Branch: "feat/x"}
	assert.NoError(t, s.UpsertWorktree(wt))

	got, err := s.GetWorktree(sess.ID)
	assert.NoError(t, err)
	assert.Equal(t, "feat/x", got.Branch)

	assert.NoError(t, s.DeleteWorktree(sess.ID))
	got, err = s.GetWorktree(sess.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestNextSessionCounterIncrements(t *testing.T) {
	s := newTestStore(t)
	a, err := s.NextSessionCounter()
	assert.NoError(t, err)
	b, err := s.NextSessionCounter()
	assert.NoError(t, err)
	assert.Equal(t, a+1, b)
}

func TestMergeSessionCounterTakesMax(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.NextSessionCounter()
	assert.NoError(t, s.MergeSessionCounter(100))
	next, err := s.NextSessionCounter()
	assert.NoError(t, err)
	assert.Equal(t, 101, next)
}
