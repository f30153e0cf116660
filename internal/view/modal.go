package view

import (
	"strings"

	"github.com/thurbeen/thurbox/internal/app"
)

// ModalView is the title/body/footer text for whichever modal is open,
// projected once per frame from app.Modal — the rendering counterpart of
// modal_update.go's state machine.
type ModalView struct {
	Title  string
	Body   []string
	Footer string
}

// Modal projects m.Modal into a ModalView, false if no modal is open.
func Modal(m app.Model) (ModalView, bool) {
	if m.Modal == nil {
		return ModalView{}, false
	}
	modal := m.Modal
	title := strings.Join(modal.Breadcrumb, " › ")

	switch modal.Kind {
	case app.ModalSessionCreate:
		return sessionCreateView(title, modal), true
	case app.ModalProjectEdit:
		return projectEditView(title, modal), true
	case app.ModalConfirm:
		return ModalView{
			Title:  title,
			Body:   []string{modal.ConfirmMessage, modal.ConfirmWarning},
			Footer: "Enter to confirm · Esc to cancel",
		}, true
	case app.ModalHelp:
		return HelpOverlay(), true
	}
	return ModalView{}, false
}

func sessionCreateView(title string, modal *app.Modal) ModalView {
	switch modal.Step {
	case app.StepProjectName:
		return ModalView{Title: title, Body: []string{"Project name:", modal.Input}, Footer: "Enter to continue · Esc to cancel"}
	case app.StepModeChoice:
		body := "[ Normal ]  [ Worktree ]"
		if modal.Mode == app.SessionModeWorktree {
			body = "  Normal    [ Worktree ]"
		}
		return ModalView{Title: title, Body: []string{body}, Footer: "Left/Right to choose · Enter to continue"}
	case app.StepBaseBranchPick:
		var lines []string
		for i, b := range modal.BaseBranches {
			marker := "  "
			if i == modal.BaseBranchIdx {
				marker = "> "
			}
			lines = append(lines, marker+b)
		}
		return ModalView{Title: title, Body: lines, Footer: "Up/Down to choose · Enter to continue"}
	case app.StepNewBranchName:
		return ModalView{Title: title, Body: []string{"New branch name:", modal.NewBranchInput}, Footer: "Enter to create session"}
	}
	return ModalView{Title: title}
}

func projectEditView(title string, modal *app.Modal) ModalView {
	lines := []string{"Name: " + modal.Editing.Name}
	for _, r := range modal.Editing.Roles {
		lines = append(lines, "  role: "+r.Name)
	}
	for _, s := range modal.Editing.McpServers {
		lines = append(lines, "  mcp: "+s.Name)
	}
	return ModalView{Title: title, Body: lines, Footer: "Ctrl+S to save · Esc to cancel"}
}

// HelpOverlay is the static F1 help screen listing §4.8's global command
// table, the discoverable counterpart every binding named there needs.
func HelpOverlay() ModalView {
	return ModalView{
		Title: "Help",
		Body: []string{
			"Ctrl+Q   quit (detach all)",
			"Ctrl+N   new project or session",
			"Ctrl+C   close active session",
			"Ctrl+H/J/K/L   focus and navigate",
			"Ctrl+D   delete session or project",
			"Ctrl+E   edit active project",
			"Ctrl+R   restart active session",
			"Ctrl+S   sync active worktree",
			"Ctrl+Z   undo last delete",
			"Ctrl+P   quick find",
			"F1   toggle this help",
			"F2   toggle info panel",
		},
		Footer: "Esc or F1 to close",
	}
}
