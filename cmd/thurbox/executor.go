package main

import (
	"context"
	"time"

	"github.com/thurbeen/thurbox/internal/app"
	"github.com/thurbeen/thurbox/internal/backend"
	"github.com/thurbeen/thurbox/internal/config"
	"github.com/thurbeen/thurbox/internal/runtime"
	"github.com/thurbeen/thurbox/internal/types"
	"github.com/thurbeen/thurbox/internal/worktree"
)

// execute carries out one Effect Update emitted, mutating r.model where an
// effect's result needs to be visible immediately (the cases Update itself
// cannot know the outcome of ahead of time: a freshly spawned backend id, a
// worktree path, a dead child's exit code). Everything else is a direct call
// against runtime.Manager or internal/store, grounded on the teacher's
// BufPane action dispatch (one method per action, each owning its own
// side effects) generalized from buffer edits to child-process effects.
func (r *runner) execute(eff app.Effect) {
	ctx := context.Background()

	switch e := eff.(type) {
	case app.Spawn:
		r.doSpawn(ctx, e.Spec)
	case app.Kill:
		if err := r.mgr.Kill(ctx, e.SessionID); err != nil {
			config.Logger.Printf("kill %s: %v", e.SessionID, err)
		}
		r.fetcher.Untrack(e.SessionID)
	case app.Write:
		if err := r.mgr.Write(ctx, e.SessionID, e.Data); err != nil {
			config.Logger.Printf("write %s: %v", e.SessionID, err)
		}
	case app.Resize:
		if err := r.mgr.Resize(ctx, e.SessionID, e.Cols, e.Rows); err != nil {
			config.Logger.Printf("resize %s: %v", e.SessionID, err)
		}
	case app.Detach:
		if err := r.mgr.Detach(ctx, e.SessionID); err != nil {
			config.Logger.Printf("detach %s: %v", e.SessionID, err)
		}
	case app.Restart:
		r.doRestart(ctx, e.Spec)
	case app.StoreWrite:
		r.doStoreWrite(e)
	case app.WorktreeCreate:
		r.doWorktreeCreate(ctx, e)
	case app.WorktreeRemove:
		if err := worktree.Remove(ctx, e.Path); err != nil {
			config.Logger.Printf("remove worktree %s: %v", e.Path, err)
		}
	case app.WorktreeSync:
		if err := r.fetcher.Sync(ctx, e.SessionID, e.Worktree, e.RemoteRef); err != nil {
			config.Logger.Printf("sync worktree %s: %v", e.SessionID, err)
		}
	case app.Scroll:
		r.doScroll(e)
	case app.Quit:
		r.doQuit(ctx)
	}
}

func (r *runner) doSpawn(ctx context.Context, spec backend.SpawnSpec) {
	h, err := r.mgr.Spawn(ctx, spec)
	if err != nil {
		sess := r.model.Sessions[spec.SessionID]
		sess.Status = types.SessionStatusError
		sess.ErrorKind = "spawn_failed"
		sess.ErrorDetail = err.Error()
		r.model.Sessions[spec.SessionID] = sess
		config.Logger.Printf("spawn %s: %v", spec.SessionID, err)
		return
	}

	sess := r.model.Sessions[spec.SessionID]
	sess.BackendID = &h.BackendID
	sess.Status = types.SessionStatusRunning
	r.model.Sessions[spec.SessionID] = sess

	if err := r.st.UpdateSession(&sess); err != nil {
		config.Logger.Printf("persist session %s after spawn: %v", spec.SessionID, err)
	}
	r.poller.NotifySelfWrite()
}

func (r *runner) doRestart(ctx context.Context, spec backend.SpawnSpec) {
	h, err := r.mgr.Restart(ctx, spec)
	sess := r.model.Sessions[spec.SessionID]
	if err != nil {
		sess.Status = types.SessionStatusError
		sess.ErrorKind = "restart_failed"
		sess.ErrorDetail = err.Error()
		r.model.Sessions[spec.SessionID] = sess
		config.Logger.Printf("restart %s: %v", spec.SessionID, err)
		return
	}
	sess.BackendID = &h.BackendID
	sess.Status = types.SessionStatusRunning
	sess.ErrorKind = ""
	sess.ErrorDetail = ""
	r.model.Sessions[spec.SessionID] = sess

	if err := r.st.UpdateSession(&sess); err != nil {
		config.Logger.Printf("persist session %s after restart: %v", spec.SessionID, err)
	}
	r.poller.NotifySelfWrite()
}

// doWorktreeCreate runs the checkout, then fills in the in-memory session's
// Cwd and issues the deferred Spawn that internal/app couldn't build itself
// without knowing the resulting path (see modal_update.go's comment on this
// same seam).
func (r *runner) doWorktreeCreate(ctx context.Context, e app.WorktreeCreate) {
	path, err := worktree.Create(ctx, e.RepoPath, e.BaseBranch, e.NewBranch)
	sess, ok := r.model.Sessions[e.SessionID]
	if !ok {
		return
	}
	if err != nil {
		sess.Status = types.SessionStatusError
		sess.ErrorKind = "worktree_create_failed"
		sess.ErrorDetail = err.Error()
		r.model.Sessions[e.SessionID] = sess
		config.Logger.Printf("create worktree for %s: %v", e.SessionID, err)
		return
	}

	wt := &types.Worktree{
		SessionID: e.SessionID,
		RepoPath:  e.RepoPath,
		Path:      path,
		Branch:    e.NewBranch,
		Sync:      types.SyncStatus{State: types.SyncStateUpToDate, CheckedAt: time.Now()},
	}
	if err := r.st.UpsertWorktree(wt); err != nil {
		config.Logger.Printf("persist worktree for %s: %v", e.SessionID, err)
	}

	sess.Cwd = path
	sess.Worktree = wt
	r.model.Sessions[e.SessionID] = sess
	r.fetcher.Track(e.SessionID, wt, "origin/"+e.NewBranch)

	proj, ok := findProjectByID(r.model, sess.ProjectID)
	if !ok {
		return
	}
	r.execute(app.Spawn{Spec: app.BuildSpawnSpec(sess, proj, r.model.ViewportCols, r.model.ViewportRows)})
}

func (r *runner) doScroll(e app.Scroll) {
	h, ok := r.mgr.Handle(e.SessionID)
	if !ok {
		return
	}
	h.Screen.SetScrollOffset(h.Screen.ScrollOffset() - e.Delta)
}

// doQuit detaches every still-live session (quitCommand's Detach effects
// will already have fired by the time this runs, but a session that never
// got one — e.g. it went dead mid-shutdown — is swept here too) and stops
// the run loop without killing anything, per §4.8's Ctrl+Q contract.
func (r *runner) doQuit(ctx context.Context) {
	for id := range r.model.Sessions {
		if h, ok := r.mgr.Handle(id); ok && h.Status() != runtime.StatusDead {
			_ = r.mgr.Detach(ctx, id)
		}
	}
	r.poller.Stop()
	r.fetcher.Stop()
	r.exitCode = 0
	r.quit = true
}

func (r *runner) doStoreWrite(e app.StoreWrite) {
	var err error
	switch e.Op {
	case app.OpCreateProject:
		p := e.Payload.(app.CreateProjectPayload).Project
		err = r.st.CreateProject(&p)
		if err == nil {
			r.model.Projects = append(r.model.Projects, p)
		}
	case app.OpUpdateProject:
		p := e.Payload.(app.UpdateProjectPayload).Project
		err = r.st.UpdateProject(&p)
		if err == nil {
			replaceProject(&r.model, p)
		}
	case app.OpSoftDeleteProject:
		id := e.Payload.(app.SoftDeleteProjectPayload).ProjectID
		err = r.st.SoftDeleteProject(id)
	case app.OpRestoreProject:
		id := e.Payload.(app.RestoreProjectPayload).ProjectID
		err = r.st.RestoreProject(id)
	case app.OpSetRoles:
		p := e.Payload.(app.SetRolesPayload)
		err = r.st.SetRoles(p.ProjectID, p.Roles)
	case app.OpSetMcpServers:
		p := e.Payload.(app.SetMcpServersPayload)
		err = r.st.SetMcpServers(p.ProjectID, p.Servers)
	case app.OpCreateSession:
		s := e.Payload.(app.CreateSessionPayload).Session
		err = r.st.CreateSession(&s)
		if err == nil {
			r.model.Sessions[s.ID] = s
		}
	case app.OpUpdateSession:
		s := e.Payload.(app.UpdateSessionPayload).Session
		err = r.st.UpdateSession(&s)
	case app.OpSoftDeleteSession:
		id := e.Payload.(app.SoftDeleteSessionPayload).SessionID
		err = r.st.SoftDeleteSession(id)
	case app.OpRestoreSession:
		id := e.Payload.(app.RestoreSessionPayload).SessionID
		err = r.st.RestoreSession(id)
	}
	if err != nil {
		config.Logger.Printf("store write %s: %v", e.Op, err)
		return
	}
	r.poller.NotifySelfWrite()
}

func replaceProject(m *app.Model, p types.Project) {
	for i, existing := range m.Projects {
		if existing.ID == p.ID {
			m.Projects[i] = p
			return
		}
	}
	m.Projects = append(m.Projects, p)
}

func findProjectByID(m app.Model, id types.ProjectId) (types.Project, bool) {
	for _, p := range m.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return types.Project{}, false
}
