package view

import (
	"github.com/micro-editor/tcell/v2"

	"github.com/thurbeen/thurbox/internal/config"
)

// BorderState is a pane border's tri-state focus encoding (§4.9): Focused is
// the pane receiving keys, Active marks the list panes while the terminal
// has focus (both lists at once; see BorderStateFor), Inactive is
// everything else.
type BorderState int

const (
	BorderInactive BorderState = iota
	BorderActive
	BorderFocused
)

// BorderStyle resolves a BorderState to its theme style, grounded on the
// teacher's terminal.GetBorderStyle (one semantic role, one style) but
// widened to the three states §4.9 distinguishes rather than the teacher's
// binary focused/unfocused.
func BorderStyle(state BorderState) tcell.Style {
	switch state {
	case BorderFocused:
		return config.GetStyle("border.focused")
	case BorderActive:
		return config.GetStyle("border.active-unfocused")
	default:
		return config.GetStyle("border")
	}
}

// BorderGlyphs names the box-drawing characters for a BorderState: Focused
// panes draw a thick/double-weight border, the others a plain one (§4.9
// "Focused (thick, accent color), Active (plain, accent), Inactive (plain,
// muted)").
type BorderGlyphs struct {
	Horizontal, Vertical                       rune
	TopLeft, TopRight, BottomLeft, BottomRight rune
}

func GlyphsFor(state BorderState) BorderGlyphs {
	if state == BorderFocused {
		return BorderGlyphs{
			Horizontal: '━', Vertical: '┃',
			TopLeft: '┏', TopRight: '┓', BottomLeft: '┗', BottomRight: '┛',
		}
	}
	return BorderGlyphs{
		Horizontal: '─', Vertical: '│',
		TopLeft: '┌', TopRight: '┐', BottomLeft: '└', BottomRight: '┘',
	}
}

// StatusStyle maps a Severity-shaped string ("info"/"warn"/"error") to its
// theme role, falling back to text.primary for anything else (e.g. status
// badges that aren't status-bar severities at all, like "ok"/"waiting"/
// "idle" which already have their own theme roles in config.DefaultTheme).
func StatusStyle(role string) tcell.Style {
	switch role {
	case "warn":
		return config.GetStyle("status.warn")
	case "error":
		return config.GetStyle("status.error")
	case "ok":
		return config.GetStyle("status.ok")
	case "idle":
		return config.GetStyle("status.idle")
	case "waiting":
		return config.GetStyle("status.waiting")
	default:
		return config.GetStyle("text.primary")
	}
}
