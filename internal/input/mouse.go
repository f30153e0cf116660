package input

import (
	"github.com/micro-editor/tcell/v2"
)

// MouseAction is the result of translating a mouse event against a pane's
// content area: either a selection update or a scroll request, mutually
// exclusive per event.
type MouseAction struct {
	SelectionBegin  *Loc
	SelectionExtend *Loc
	SelectionDone   bool
	ScrollLines     int // positive scrolls up (into history), negative toward live
}

// HandleMouse translates a raw mouse event, already clamped to a pane's
// content-relative (x, y), into a MouseAction. Grounded on the teacher's
// handleMouse: wheel events scroll by 3 lines, button1 press-then-drag
// begins/extends a selection, and release finalizes it.
func HandleMouse(ev *tcell.EventMouse, x, y int, pressed bool) (MouseAction, bool) {
	switch {
	case ev.Buttons() == tcell.WheelUp:
		return MouseAction{ScrollLines: 3}, true
	case ev.Buttons() == tcell.WheelDown:
		return MouseAction{ScrollLines: -3}, true
	case ev.Buttons() == tcell.Button1:
		loc := Loc{X: x, Y: y}
		if !pressed {
			return MouseAction{SelectionBegin: &loc}, true
		}
		return MouseAction{SelectionExtend: &loc}, true
	case ev.Buttons() == tcell.ButtonNone:
		if pressed {
			loc := Loc{X: x, Y: y}
			return MouseAction{SelectionExtend: &loc, SelectionDone: true}, false
		}
		return MouseAction{}, false
	}
	return MouseAction{}, ev.Buttons() != tcell.ButtonNone
}

// ClampToContent clamps a raw mouse position to a pane's content
// rectangle, returning content-relative coordinates.
func ClampToContent(mouseX, mouseY, contentX, contentY, contentW, contentH int) (x, y int) {
	x = mouseX - contentX
	y = mouseY - contentY
	if x < 0 {
		x = 0
	}
	if contentW > 0 && x >= contentW {
		x = contentW - 1
	}
	if y < 0 {
		y = 0
	}
	if contentH > 0 && y >= contentH {
		y = contentH - 1
	}
	return x, y
}
