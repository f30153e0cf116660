package app

import (
	"testing"

	"github.com/micro-editor/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/thurbeen/thurbox/internal/types"
)

func key(k tcell.Key, r rune, mod tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, r, mod, "")
}

func TestHandleKeyForwardsToTerminalWithoutControlModifier(t *testing.T) {
	pid := types.ProjectId("p1")
	sid := types.SessionId("s1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid},
	})
	m.Focus = types.FocusTerminal

	m2, effects := handleKey(m, key(tcell.KeyRune, 'a', tcell.ModNone))
	assert.Equal(t, m.Focus, m2.Focus)
	assert.Len(t, effects, 1)
	w, ok := effects[0].(Write)
	assert.True(t, ok)
	assert.Equal(t, sid, w.SessionID)
}

func TestHandleKeyCtrlQIsGlobalEvenInTerminalFocus(t *testing.T) {
	sid := types.SessionId("s1")
	pid := types.ProjectId("p1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid, Status: types.SessionStatusRunning},
	})
	m.Focus = types.FocusTerminal

	_, effects := handleKey(m, key(tcell.KeyCtrlQ, 0, tcell.ModCtrl))
	found := false
	for _, e := range effects {
		if _, ok := e.(Quit); ok {
			found = true
		}
	}
	assert.True(t, found, "Ctrl+Q must emit a Quit effect regardless of focus")
}

func TestShiftArrowScrollsInsteadOfForwarding(t *testing.T) {
	sid := types.SessionId("s1")
	pid := types.ProjectId("p1")
	m := NewModel([]types.Project{{ID: pid}}, map[types.SessionId]types.Session{
		sid: {ID: sid, ProjectID: pid},
	})
	m.Focus = types.FocusTerminal
	m.ViewportRows = 20

	_, effects := handleKey(m, key(tcell.KeyUp, 0, tcell.ModShift))
	assert.Len(t, effects, 1)
	sc, ok := effects[0].(Scroll)
	assert.True(t, ok)
	assert.Equal(t, -1, sc.Delta)
}

func TestF1TogglesHelp(t *testing.T) {
	m := NewModel(nil, nil)
	m2, _ := handleKey(m, key(tcell.KeyF1, 0, tcell.ModNone))
	assert.True(t, m2.HelpVisible)
	m3, _ := handleKey(m2, key(tcell.KeyF1, 0, tcell.ModNone))
	assert.False(t, m3.HelpVisible)
}

func TestFocusCommandCyclesHorizontally(t *testing.T) {
	m := NewModel(nil, nil)
	m.Focus = types.FocusProjectList
	m2, _ := focusCommand(m, 1, 0)
	assert.Equal(t, types.FocusSessionList, m2.Focus)
	m3, _ := focusCommand(m2, 1, 0)
	assert.Equal(t, types.FocusTerminal, m3.Focus)
	m4, _ := focusCommand(m3, 1, 0)
	assert.Equal(t, types.FocusTerminal, m4.Focus, "must clamp at the last focus instead of wrapping")
}

func TestNavigationKeyMovesProjectSelection(t *testing.T) {
	m := NewModel([]types.Project{{ID: "a"}, {ID: "b"}}, nil)
	m.Focus = types.FocusProjectList
	m2, _ := handleNavigationKey(m, key(tcell.KeyDown, 0, tcell.ModNone))
	assert.Equal(t, 1, m2.Selection.ProjectIdx)
}
