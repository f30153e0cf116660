package app

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/micro-editor/tcell/v2"

	"github.com/thurbeen/thurbox/internal/types"
)

// advanceModal drives whichever modal is open: the multi-step session
// creation flow or the project-edit role/MCP editor. Escape always closes
// or steps back; a dirty project-edit modal prompts via a nested Confirm
// instead of closing outright.
func advanceModal(m Model, ev *tcell.EventKey) (Model, []Effect) {
	switch m.Modal.Kind {
	case ModalSessionCreate:
		return advanceSessionCreate(m, ev)
	case ModalProjectEdit:
		return advanceProjectEdit(m, ev)
	case ModalConfirm:
		return advanceConfirm(m, ev)
	case ModalHelp:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyF1 {
			m.Modal = nil
		}
		return m, nil
	}
	return m, nil
}

func advanceConfirm(m Model, ev *tcell.EventKey) (Model, []Effect) {
	confirm := m.Modal
	switch ev.Key() {
	case tcell.KeyEnter:
		m.Modal = nil
		if confirm.OnConfirm != nil {
			return confirm.OnConfirm(m)
		}
		return m, nil
	case tcell.KeyEscape:
		m.Modal = nil
		return m, nil
	}
	return m, nil
}

// advanceSessionCreate implements §4.8's step machine:
// [ProjectName]→[ModeChoice{Normal,Worktree}]→(if Worktree)
// [BaseBranchPick]→[NewBranchName]→spawn.
func advanceSessionCreate(m Model, ev *tcell.EventKey) (Model, []Effect) {
	modal := m.Modal
	if ev.Key() == tcell.KeyEscape {
		m.Modal = nil
		return m, nil
	}

	switch modal.Step {
	case StepProjectName:
		switch ev.Key() {
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(modal.Input) > 0 {
				modal.Input = modal.Input[:len(modal.Input)-1]
			}
			return m, nil
		case tcell.KeyRune:
			modal.Input += string(ev.Rune())
			return m, nil
		case tcell.KeyEnter:
			if modal.Input == "" {
				return m, nil
			}
			project := types.Project{ID: types.NewProjectId(), Name: modal.Input}
			modal.TargetProject = project.ID
			modal.Step = StepModeChoice
			modal.Breadcrumb = []string{"New Session", "Mode"}
			m.Modal = modal
			return m, []Effect{StoreWrite{Op: OpCreateProject, Payload: CreateProjectPayload{Project: project}}}
		}
		return m, nil

	case StepModeChoice:
		switch ev.Key() {
		case tcell.KeyLeft, tcell.KeyRight, tcell.KeyTab:
			if modal.Mode == SessionModeWorktree {
				modal.Mode = SessionModeNormal
			} else {
				modal.Mode = SessionModeWorktree
			}
			m.Modal = modal
			return m, nil
		case tcell.KeyEnter:
			if modal.Mode == SessionModeWorktree {
				modal.Step = StepBaseBranchPick
				modal.Breadcrumb = append(modal.Breadcrumb, "Base Branch")
				m.Modal = modal
				return m, nil
			}
			return spawnSession(m, modal, "")
		}
		return m, nil

	case StepBaseBranchPick:
		switch ev.Key() {
		case tcell.KeyUp:
			if modal.BaseBranchIdx > 0 {
				modal.BaseBranchIdx--
			}
			m.Modal = modal
			return m, nil
		case tcell.KeyDown:
			if modal.BaseBranchIdx < len(modal.BaseBranches)-1 {
				modal.BaseBranchIdx++
			}
			m.Modal = modal
			return m, nil
		case tcell.KeyEnter:
			modal.Step = StepNewBranchName
			modal.Breadcrumb = append(modal.Breadcrumb, "New Branch")
			m.Modal = modal
			return m, nil
		}
		return m, nil

	case StepNewBranchName:
		switch ev.Key() {
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(modal.NewBranchInput) > 0 {
				modal.NewBranchInput = modal.NewBranchInput[:len(modal.NewBranchInput)-1]
			}
			m.Modal = modal
			return m, nil
		case tcell.KeyRune:
			modal.NewBranchInput += string(ev.Rune())
			m.Modal = modal
			return m, nil
		case tcell.KeyEnter:
			if modal.NewBranchInput == "" {
				return m, nil
			}
			baseBranch := ""
			if modal.BaseBranchIdx >= 0 && modal.BaseBranchIdx < len(modal.BaseBranches) {
				baseBranch = modal.BaseBranches[modal.BaseBranchIdx]
			}
			return spawnSession(m, modal, baseBranch)
		}
		return m, nil
	}
	return m, nil
}

// spawnSession is the terminal step of session creation shared by the
// Normal and Worktree paths: it mints the session record, persists it,
// closes the modal, and — for Worktree — defers the actual Spawn effect
// until WorktreeCreate has run, since the child's cwd is the worktree path
// the executor hasn't created yet.
func spawnSession(m Model, modal *Modal, baseBranch string) (Model, []Effect) {
	proj, ok := findProject(m, modal.TargetProject)
	if !ok {
		m.Modal = nil
		return m, nil
	}

	sessionID := types.NewSessionId()
	name := proj.Name + "-" + strconv.Itoa(len(m.sessionsForProject(proj.ID))+1)

	session := types.Session{
		ID:              sessionID,
		ProjectID:       proj.ID,
		Name:            name,
		ClaudeSessionID: uuid.New().String(),
		BackendType:     types.BackendTypeLocalTmux,
		Status:          types.SessionStatusStarting,
		CreatedAt:       timeNow(),
		LastActivityAt:  timeNow(),
	}

	effects := []Effect{StoreWrite{Op: OpCreateSession, Payload: CreateSessionPayload{Session: session}}}

	if modal.Mode == SessionModeWorktree && baseBranch != "" {
		repoPath := ""
		if len(proj.Repos) > 0 {
			repoPath = proj.Repos[0]
		}
		effects = append(effects, WorktreeCreate{
			SessionID:  sessionID,
			RepoPath:   repoPath,
			BaseBranch: baseBranch,
			NewBranch:  modal.NewBranchInput,
		})
		// The executor fills in session.Cwd from WorktreeCreate's result
		// before issuing Spawn; internal/app cannot know the worktree path
		// ahead of that effect actually running.
	} else {
		session.Cwd = firstRepo(proj)
		spec := buildSpawnSpec(defaultChildCommand, session, proj, m.ViewportCols, m.ViewportRows)
		effects = append(effects, Spawn{Spec: spec})
	}

	m.Modal = nil
	return m, effects
}

func findProject(m Model, id types.ProjectId) (types.Project, bool) {
	for _, p := range m.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return types.Project{}, false
}

func firstRepo(p types.Project) string {
	if len(p.Repos) > 0 {
		return p.Repos[0]
	}
	return ""
}

// timeNow is a seam so tests can observe a fixed clock; production passes
// through to time.Now.
var timeNow = time.Now

// advanceProjectEdit handles the nested role/MCP editor. Escape with no
// pending changes closes immediately; a dirty copy opens a Confirm modal
// asking whether to discard, matching the teacher's unsaved-buffer prompt
// on quit.
func advanceProjectEdit(m Model, ev *tcell.EventKey) (Model, []Effect) {
	modal := m.Modal

	if ev.Key() == tcell.KeyEscape {
		if modal.dirty() {
			m.Modal = &Modal{
				Kind:           ModalConfirm,
				ConfirmMessage: "Discard unsaved changes to " + modal.Editing.Name + "?",
				ConfirmWarning: "Roles and MCP servers edited in this session will be lost.",
				OnConfirm: func(mm Model) (Model, []Effect) {
					mm.Modal = nil
					return mm, nil
				},
			}
			return m, nil
		}
		m.Modal = nil
		return m, nil
	}

	switch ev.Key() {
	case tcell.KeyCtrlS, tcell.KeyEnter:
		project := modal.Editing
		m.Modal = nil
		return m, []Effect{
			StoreWrite{Op: OpUpdateProject, Payload: UpdateProjectPayload{Project: project}},
			StoreWrite{Op: OpSetRoles, Payload: SetRolesPayload{ProjectID: project.ID, Roles: project.Roles}},
			StoreWrite{Op: OpSetMcpServers, Payload: SetMcpServersPayload{ProjectID: project.ID, Servers: project.McpServers}},
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(modal.Editing.Name) > 0 {
			modal.Editing.Name = modal.Editing.Name[:len(modal.Editing.Name)-1]
		}
		m.Modal = modal
		return m, nil
	case tcell.KeyRune:
		modal.Editing.Name += string(ev.Rune())
		m.Modal = modal
		return m, nil
	}
	return m, nil
}
