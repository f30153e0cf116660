package app

import (
	"github.com/thurbeen/thurbox/internal/types"
)

// ModalKind names which nested modal flow is active.
type ModalKind string

const (
	ModalSessionCreate ModalKind = "session_create"
	ModalProjectEdit   ModalKind = "project_edit"
	ModalConfirm       ModalKind = "confirm"
	ModalHelp          ModalKind = "help"
)

// SessionCreateStep is one node in the §4.8 modal state machine:
// [ProjectList→Name]→[SessionList→ModeChoice{Normal,Worktree}]→
// (if Worktree)[BaseBranchPick]→[NewBranchName]→spawn.
type SessionCreateStep string

const (
	StepProjectName    SessionCreateStep = "project_name"
	StepModeChoice     SessionCreateStep = "mode_choice"
	StepBaseBranchPick SessionCreateStep = "base_branch_pick"
	StepNewBranchName  SessionCreateStep = "new_branch_name"
)

// SessionMode is the choice offered at StepModeChoice.
type SessionMode string

const (
	SessionModeNormal   SessionMode = "normal"
	SessionModeWorktree SessionMode = "worktree"
)

// Modal is the one nested-dialog slot the model carries; only one is ever
// active, matching the teacher's "check Modal, then InputModal, then
// ConfirmModal, ..." priority chain collapsed into a single tagged field.
type Modal struct {
	Kind ModalKind

	// Breadcrumb is rendered at the top of a multi-step modal (§4.8).
	Breadcrumb []string

	// Session creation fields.
	Step           SessionCreateStep
	TargetProject  types.ProjectId
	Input          string
	Mode           SessionMode
	BaseBranches   []string
	BaseBranchIdx  int
	NewBranchInput string

	// Project edit fields: a working copy edited in place, compared
	// against Snapshot on Escape to decide whether to prompt for unsaved
	// changes.
	Editing  types.Project
	Snapshot types.Project

	// Confirm fields.
	ConfirmMessage string
	ConfirmWarning string
	OnConfirm      func(m Model) (Model, []Effect)
}

// NewSessionCreateModal starts the session-creation flow at the step
// appropriate for the focus it was opened from: ProjectList opens at
// naming a new project, SessionList opens at choosing Normal vs Worktree
// for the already-selected project.
func NewSessionCreateModal(focus types.Focus, targetProject types.ProjectId) *Modal {
	if focus == types.FocusProjectList {
		return &Modal{
			Kind:       ModalSessionCreate,
			Step:       StepProjectName,
			Breadcrumb: []string{"New Project"},
		}
	}
	return &Modal{
		Kind:          ModalSessionCreate,
		Step:          StepModeChoice,
		TargetProject: targetProject,
		Breadcrumb:    []string{"New Session", "Mode"},
	}
}

// NewProjectEditModal opens the nested role/MCP editor over a copy of
// project, preserving the original as Snapshot for the unsaved-changes
// comparison on Escape.
func NewProjectEditModal(project types.Project) *Modal {
	return &Modal{
		Kind:       ModalProjectEdit,
		Editing:    project,
		Snapshot:   project,
		Breadcrumb: []string{"Edit Project", project.Name},
	}
}

// dirty reports whether the project-edit modal's working copy diverges
// from its snapshot, gating the unsaved-changes prompt on Escape.
func (mo *Modal) dirty() bool {
	if mo.Kind != ModalProjectEdit {
		return false
	}
	a, b := mo.Editing, mo.Snapshot
	if a.Name != b.Name || len(a.Repos) != len(b.Repos) || len(a.Roles) != len(b.Roles) || len(a.McpServers) != len(b.McpServers) {
		return true
	}
	for i := range a.Repos {
		if a.Repos[i] != b.Repos[i] {
			return true
		}
	}
	return false
}
