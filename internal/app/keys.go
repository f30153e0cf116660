package app

import (
	"github.com/micro-editor/tcell/v2"

	"github.com/thurbeen/thurbox/internal/input"
	"github.com/thurbeen/thurbox/internal/types"
)

// handleKey is the top-level key dispatcher: modal, then quick-find, then
// quick-command mode, then terminal forwarding, then global commands —
// the same priority-chain shape as the teacher's LayoutManager.HandleEvent
// (modal dialogs first, terminal passthrough next, global shortcuts last).
func handleKey(m Model, ev *tcell.EventKey) (Model, []Effect) {
	if m.Modal != nil {
		return advanceModal(m, ev)
	}
	if m.QuickFind != nil {
		return handleQuickFindKey(m, ev)
	}
	if m.QuickCommandMode {
		return handleQuickCommandKey(m, ev)
	}
	if ev.Key() == tcell.KeyCtrlBackslash {
		m.QuickCommandMode = true
		return m, nil
	}
	if ev.Key() == tcell.KeyF1 {
		m.HelpVisible = !m.HelpVisible
		return m, nil
	}
	if ev.Key() == tcell.KeyF2 {
		m.InfoPanelVisible = !m.InfoPanelVisible
		return m, nil
	}

	if m.Focus == types.FocusTerminal && !hasControlModifier(ev) && !isScrollKey(ev) {
		sess, ok := m.ActiveSession()
		if !ok {
			return m, nil
		}
		return m, []Effect{Write{SessionID: sess.ID, Data: input.KeyToBytes(ev)}}
	}

	if m.Focus == types.FocusTerminal && isScrollKey(ev) {
		return handleScrollKey(m, ev)
	}

	if hasControlModifier(ev) {
		return handleGlobalCommand(m, ev)
	}

	return handleNavigationKey(m, ev)
}

func hasControlModifier(ev *tcell.EventKey) bool {
	return ev.Modifiers()&tcell.ModCtrl != 0
}

// isScrollKey reports whether ev is one of Shift+Arrow / Shift+PgUp /
// Shift+PgDn, the scrollback-driving keys named in §4.8.
func isScrollKey(ev *tcell.EventKey) bool {
	if ev.Modifiers()&tcell.ModShift == 0 {
		return false
	}
	switch ev.Key() {
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyPgUp, tcell.KeyPgDn:
		return true
	}
	return false
}

func handleScrollKey(m Model, ev *tcell.EventKey) (Model, []Effect) {
	sess, ok := m.ActiveSession()
	if !ok {
		return m, nil
	}
	var delta int
	switch ev.Key() {
	case tcell.KeyUp:
		delta = -1
	case tcell.KeyDown:
		delta = 1
	case tcell.KeyPgUp:
		delta = -m.ViewportRows
	case tcell.KeyPgDn:
		delta = m.ViewportRows
	}
	return m, []Effect{Scroll{SessionID: sess.ID, Delta: delta}}
}

// handleGlobalCommand implements §4.8's Ctrl+<letter> table. Every branch
// here is available regardless of focus, matching spec.md's framing of
// these as global commands rather than terminal-focus-only bindings.
func handleGlobalCommand(m Model, ev *tcell.EventKey) (Model, []Effect) {
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return quitCommand(m)
	case tcell.KeyCtrlN:
		return newCommand(m)
	case tcell.KeyCtrlC:
		return closeCommand(m)
	case tcell.KeyCtrlH:
		return focusCommand(m, -1, 0)
	case tcell.KeyCtrlL:
		return focusCommand(m, 1, 0)
	case tcell.KeyCtrlK:
		return focusCommand(m, 0, -1)
	case tcell.KeyCtrlJ:
		return focusCommand(m, 0, 1)
	case tcell.KeyCtrlD:
		return deleteCommand(m)
	case tcell.KeyCtrlE:
		return editCommand(m)
	case tcell.KeyCtrlR:
		return restartCommand(m)
	case tcell.KeyCtrlS:
		return syncCommand(m)
	case tcell.KeyCtrlZ:
		return undoCommand(m)
	case tcell.KeyCtrlP:
		return openQuickFindCommand(m)
	}
	return m, nil
}

// handleNavigationKey covers plain (non-control) arrow/enter navigation
// within the project/session lists when focus isn't Terminal.
func handleNavigationKey(m Model, ev *tcell.EventKey) (Model, []Effect) {
	switch m.Focus {
	case types.FocusProjectList:
		switch ev.Key() {
		case tcell.KeyUp:
			if m.Selection.ProjectIdx > 0 {
				m.Selection.ProjectIdx--
			}
		case tcell.KeyDown:
			if m.Selection.ProjectIdx < len(m.Projects)-1 {
				m.Selection.ProjectIdx++
			}
		case tcell.KeyEnter, tcell.KeyRight:
			m.Focus = types.FocusSessionList
		}
	case types.FocusSessionList:
		proj, ok := m.ActiveProject()
		if !ok {
			return m, nil
		}
		sessions := m.sessionsForProject(proj.ID)
		idx := m.Selection.SessionIdx(proj.ID)
		switch ev.Key() {
		case tcell.KeyUp:
			if idx > 0 {
				m.Selection = m.Selection.WithSessionIdx(proj.ID, idx-1)
			}
		case tcell.KeyDown:
			if idx < len(sessions)-1 {
				m.Selection = m.Selection.WithSessionIdx(proj.ID, idx+1)
			}
		case tcell.KeyEnter, tcell.KeyRight:
			if len(sessions) > 0 {
				m.Focus = types.FocusTerminal
			}
		case tcell.KeyLeft:
			m.Focus = types.FocusProjectList
		}
	}
	return m, nil
}

// focusCommand implements Ctrl+H/J/K/L vim-style focus movement: H/L step
// between ProjectList/SessionList/Terminal, J/K move the selection within
// whichever list has focus.
func focusCommand(m Model, dx, dy int) (Model, []Effect) {
	if dx != 0 {
		order := []types.Focus{types.FocusProjectList, types.FocusSessionList, types.FocusTerminal}
		idx := 0
		for i, f := range order {
			if f == m.Focus {
				idx = i
			}
		}
		idx += dx
		if idx < 0 {
			idx = 0
		}
		if idx >= len(order) {
			idx = len(order) - 1
		}
		m.Focus = order[idx]
		return m, nil
	}

	switch m.Focus {
	case types.FocusProjectList:
		if dy < 0 && m.Selection.ProjectIdx > 0 {
			m.Selection.ProjectIdx--
		} else if dy > 0 && m.Selection.ProjectIdx < len(m.Projects)-1 {
			m.Selection.ProjectIdx++
		}
	case types.FocusSessionList:
		proj, ok := m.ActiveProject()
		if !ok {
			return m, nil
		}
		sessions := m.sessionsForProject(proj.ID)
		idx := m.Selection.SessionIdx(proj.ID)
		if dy < 0 && idx > 0 {
			m.Selection = m.Selection.WithSessionIdx(proj.ID, idx-1)
		} else if dy > 0 && idx < len(sessions)-1 {
			m.Selection = m.Selection.WithSessionIdx(proj.ID, idx+1)
		}
	}
	return m, nil
}

func openQuickFindCommand(m Model) (Model, []Effect) {
	m.QuickFind = &QuickFindState{Entries: buildQuickFindEntries(m)}
	return m, nil
}

func handleQuickFindKey(m Model, ev *tcell.EventKey) (Model, []Effect) {
	switch ev.Key() {
	case tcell.KeyEscape:
		m.QuickFind = nil
		return m, nil
	case tcell.KeyEnter:
		matches := quickFindMatches(m.QuickFind)
		if len(matches) == 0 {
			return m, nil
		}
		return applyQuickFindSelection(m, matches[0]), nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(m.QuickFind.Query) > 0 {
			m.QuickFind.Query = m.QuickFind.Query[:len(m.QuickFind.Query)-1]
		}
		return m, nil
	case tcell.KeyRune:
		m.QuickFind.Query += string(ev.Rune())
		return m, nil
	}
	return m, nil
}

// handleQuickCommandKey processes the one-shot key following Ctrl+\,
// grounded on the teacher's terminal.Panel QuickCommandMode: 'q' quits,
// 'w' closes the active session, anything else cancels silently.
func handleQuickCommandKey(m Model, ev *tcell.EventKey) (Model, []Effect) {
	m.QuickCommandMode = false
	if ev.Key() != tcell.KeyRune {
		return m, nil
	}
	switch ev.Rune() {
	case 'q', 'Q':
		return quitCommand(m)
	case 'w', 'W':
		return closeCommand(m)
	}
	return m, nil
}
