package view

import (
	"time"

	"github.com/thurbeen/thurbox/internal/app"
	"github.com/thurbeen/thurbox/internal/types"
)

// ProjectRow is one rendered line of the project list.
type ProjectRow struct {
	Label    string
	Selected bool
	Pinned   bool
}

// SessionRow is one rendered line of the session list: name, activity
// badge, and a worktree sync glyph when the session owns a worktree.
type SessionRow struct {
	Label      string
	Badge      string
	BadgeStyle string // a StatusStyle role: "ok"/"warn"/"error"/"idle"/"waiting"
	Selected   bool
	SyncGlyph  string
}

// ProjectRows projects a Model's non-deleted projects into display rows,
// in their stored order (pinned/manual ordering is a store concern —
// internal/view only reflects whatever order Model.Projects already has).
func ProjectRows(m app.Model) []ProjectRow {
	var rows []ProjectRow
	for i, p := range m.Projects {
		if p.DeletedAt != nil {
			continue
		}
		rows = append(rows, ProjectRow{
			Label:    p.Name,
			Selected: i == m.Selection.ProjectIdx,
			Pinned:   p.PinnedIndex != nil,
		})
	}
	return rows
}

// SessionRows projects the active project's sessions into display rows,
// using now for the activity badge's elapsed-time computation.
func SessionRows(m app.Model, now time.Time) []SessionRow {
	proj, ok := m.ActiveProject()
	if !ok {
		return nil
	}
	selectedIdx := m.Selection.SessionIdx(proj.ID)

	var rows []SessionRow
	for i, s := range sessionsForProject(m, proj.ID) {
		rows = append(rows, SessionRow{
			Label:      s.Name,
			Badge:      app.ActivityBadge(s.Status, s.LastActivityAt, now),
			BadgeStyle: badgeStyleRole(s.Status),
			Selected:   i == selectedIdx,
			SyncGlyph:  syncGlyph(s.Worktree),
		})
	}
	return rows
}

// sessionsForProject re-derives the session list for projectID the same way
// app.Model does internally, since that helper is unexported — view needs
// its own stable, deleted-filtered ordering to stay in lockstep with what
// Model.ActiveSession actually indexes into.
func sessionsForProject(m app.Model, projectID types.ProjectId) []types.Session {
	var out []types.Session
	for _, s := range m.Sessions {
		if s.ProjectID == projectID && s.DeletedAt == nil {
			out = append(out, s)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.Before(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func badgeStyleRole(status types.SessionStatus) string {
	switch status {
	case types.SessionStatusRunning, types.SessionStatusStarting:
		return "waiting"
	case types.SessionStatusIdle:
		return "idle"
	case types.SessionStatusError:
		return "error"
	default:
		return "ok"
	}
}

func syncGlyph(wt *types.Worktree) string {
	if wt == nil {
		return ""
	}
	switch wt.Sync.State {
	case types.SyncStateBehind:
		return "↓"
	case types.SyncStateAhead:
		return "↑"
	case types.SyncStateDiverged:
		return "↕"
	case types.SyncStateSyncing:
		return "⟳"
	case types.SyncStateError:
		return "!"
	default:
		return "✓"
	}
}

// StatusBarView is the one-line transient message plus its theme role,
// empty when Model.StatusBar has no live message.
type StatusBarView struct {
	Message string
	Role    string
}

func StatusBarContent(m app.Model) StatusBarView {
	if m.StatusBar.Message == "" {
		return StatusBarView{}
	}
	return StatusBarView{Message: m.StatusBar.Message, Role: string(m.StatusBar.Severity)}
}

// InfoPanelContent is the Wide-breakpoint right panel's content: the active
// session's worktree sync state and role, when one is selected.
type InfoPanelContent struct {
	SessionName     string
	RoleName        string
	WorktreeSummary string
	SyncDetail      string
}

func InfoPanel(m app.Model) (InfoPanelContent, bool) {
	sess, ok := m.ActiveSession()
	if !ok {
		return InfoPanelContent{}, false
	}
	proj, _ := m.ActiveProject()

	roleName := "default"
	if sess.RoleID != nil {
		for _, r := range proj.Roles {
			if r.ID == *sess.RoleID {
				roleName = r.Name
				break
			}
		}
	}

	content := InfoPanelContent{SessionName: sess.Name, RoleName: roleName}
	if sess.Worktree != nil {
		content.WorktreeSummary = sess.Worktree.Branch
		content.SyncDetail = string(sess.Worktree.Sync.State)
	}
	return content, true
}

// BorderStateFor resolves a pane's tri-state border given the model's focus
// and which pane kind is being drawn, implementing §4.9's Focused/Active/
// Inactive rule: the pane matching Model.Focus is Focused; ProjectList and
// SessionList count as each other's Active sibling while Terminal has
// focus, since Ctrl+H/L returns to whichever one was last selected.
func BorderStateFor(m app.Model, pane types.Focus) BorderState {
	if m.Focus == pane {
		return BorderFocused
	}
	if m.Focus == types.FocusTerminal && (pane == types.FocusProjectList || pane == types.FocusSessionList) {
		return BorderActive
	}
	return BorderInactive
}
