package main

import (
	"time"

	"github.com/micro-editor/tcell/v2"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/thurbeen/thurbox/internal/config"
	"github.com/thurbeen/thurbox/internal/types"
	"github.com/thurbeen/thurbox/internal/view"
	"github.com/thurbeen/thurbox/internal/vt"
)

// render projects r.model through internal/view into a Frame and blits it
// onto the real screen, the one place in the whole program that calls
// SetContent — grounded on the teacher's DoEvent (Fill, HideCursor, render
// each panel, Show) in cmd/thicc/micro.go, widened from one editor layout
// to project list / session list / terminal / info panel / status bar.
func (r *runner) render() {
	r.screen.Fill(' ', config.DefStyle)
	r.screen.HideCursor()

	cols, rows := r.screen.Size()
	frame := view.Layout(cols, rows, r.model.InfoPanelVisible)
	now := time.Now()

	r.drawProjectList(frame.ProjectList)
	r.drawSessionList(frame.SessionList, now)
	r.drawTerminal(frame.Terminal)
	r.drawInfoPanel(frame.InfoPanel)
	r.drawStatusBar(frame.StatusBar)

	if mv, ok := view.Modal(r.model); ok {
		r.drawModal(cols, rows, mv)
	}

	r.screen.Show()
}

func (r *runner) drawProjectList(rect view.Rect) {
	if rect.Width == 0 || rect.Height == 0 {
		return
	}
	state := view.BorderStateFor(r.model, types.FocusProjectList)
	r.drawBorder(rect, state, "Projects")

	rows := view.ProjectRows(r.model)
	for i, row := range rows {
		y := rect.Y + 1 + i
		if y >= rect.Y+rect.Height-1 {
			break
		}
		style := config.GetStyle("text.primary")
		if row.Selected {
			style = config.GetStyle("selection")
		}
		label := row.Label
		if row.Pinned {
			label = "★ " + label
		}
		r.drawText(rect.X+1, y, rect.Width-2, label, style)
	}
}

func (r *runner) drawSessionList(rect view.Rect, now time.Time) {
	if rect.Width == 0 || rect.Height == 0 {
		return
	}
	state := view.BorderStateFor(r.model, types.FocusSessionList)
	r.drawBorder(rect, state, "Sessions")

	rows := view.SessionRows(r.model, now)
	for i, row := range rows {
		y := rect.Y + 1 + i
		if y >= rect.Y+rect.Height-1 {
			break
		}
		style := config.GetStyle("text.primary")
		if row.Selected {
			style = config.GetStyle("selection")
		}
		label := row.Label
		if row.SyncGlyph != "" {
			label = label + " " + row.SyncGlyph
		}
		r.drawText(rect.X+1, y, rect.Width-2, label, style)

		badgeStyle := view.StatusStyle(row.BadgeStyle)
		badgeX := rect.X + rect.Width - 1 - runewidth.StringWidth(row.Badge)
		if badgeX > rect.X+1 {
			r.drawText(badgeX, y, rect.Width-2, row.Badge, badgeStyle)
		}
	}
}

func (r *runner) drawTerminal(rect view.Rect) {
	if rect.Width == 0 || rect.Height == 0 {
		return
	}
	state := view.BorderStateFor(r.model, types.FocusTerminal)
	sess, ok := r.model.ActiveSession()
	title := "Terminal"
	if ok {
		title = sess.Name
	}
	r.drawBorder(rect, state, title)

	innerW := rect.Width - 2
	innerH := rect.Height - 2
	if innerW <= 0 || innerH <= 0 || !ok {
		return
	}
	handle, live := r.mgr.Handle(sess.ID)
	if !live {
		r.drawText(rect.X+1, rect.Y+1, innerW, "(no active backend)", config.GetStyle("text.muted"))
		return
	}

	focused := r.model.Focus == types.FocusTerminal
	rv := vt.Render(handle.Screen, innerW, innerH, focused)
	for y, line := range rv.Cells {
		for x, cell := range line {
			r.screen.SetContent(rect.X+1+x, rect.Y+1+y, cell.Ch, nil, cell.Style)
		}
	}
	if rv.CursorVisible {
		r.screen.ShowCursor(rect.X+1+rv.CursorX, rect.Y+1+rv.CursorY)
	}
}

func (r *runner) drawInfoPanel(rect view.Rect) {
	if rect.Width == 0 || rect.Height == 0 {
		return
	}
	r.drawBorder(rect, view.BorderInactive, "Info")

	content, ok := view.InfoPanel(r.model)
	if !ok {
		return
	}
	lines := []string{
		"Session: " + content.SessionName,
		"Role: " + content.RoleName,
	}
	if content.WorktreeSummary != "" {
		lines = append(lines, "Branch: "+content.WorktreeSummary, "Sync: "+content.SyncDetail)
	}
	for i, line := range lines {
		y := rect.Y + 1 + i
		if y >= rect.Y+rect.Height-1 {
			break
		}
		r.drawText(rect.X+1, y, rect.Width-2, line, config.GetStyle("text.primary"))
	}
}

func (r *runner) drawStatusBar(rect view.Rect) {
	if rect.Width == 0 || rect.Height == 0 {
		return
	}
	sb := view.StatusBarContent(r.model)
	if sb.Message == "" {
		return
	}
	r.drawText(rect.X, rect.Y, rect.Width, sb.Message, view.StatusStyle(sb.Role))
}

// drawModal centers a fixed-proportion box over the whole viewport, the
// teacher's own RenderOverlay's centered-dialog sizing generalized from a
// single message box to Thurbox's multi-step session-create wizard.
func (r *runner) drawModal(cols, rows int, mv view.ModalView) {
	width := cols * 2 / 3
	if width < 20 {
		width = cols
	}
	height := len(mv.Body) + 4
	if height > rows-2 {
		height = rows - 2
	}
	x := (cols - width) / 2
	y := (rows - height) / 2

	rect := view.Rect{X: x, Y: y, Width: width, Height: height}
	r.fillRect(rect, config.DefStyle)
	r.drawBorder(rect, view.BorderFocused, mv.Title)

	for i, line := range mv.Body {
		ly := rect.Y + 1 + i
		if ly >= rect.Y+rect.Height-2 {
			break
		}
		r.drawText(rect.X+2, ly, rect.Width-4, line, config.GetStyle("text.primary"))
	}
	if mv.Footer != "" {
		r.drawText(rect.X+2, rect.Y+rect.Height-2, rect.Width-4, mv.Footer, config.GetStyle("text.muted"))
	}
}

func (r *runner) fillRect(rect view.Rect, style tcell.Style) {
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		for x := rect.X; x < rect.X+rect.Width; x++ {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (r *runner) drawBorder(rect view.Rect, state view.BorderState, title string) {
	if rect.Width < 2 || rect.Height < 2 {
		return
	}
	glyphs := view.GlyphsFor(state)
	style := view.BorderStyle(state)

	r.screen.SetContent(rect.X, rect.Y, glyphs.TopLeft, nil, style)
	r.screen.SetContent(rect.X+rect.Width-1, rect.Y, glyphs.TopRight, nil, style)
	r.screen.SetContent(rect.X, rect.Y+rect.Height-1, glyphs.BottomLeft, nil, style)
	r.screen.SetContent(rect.X+rect.Width-1, rect.Y+rect.Height-1, glyphs.BottomRight, nil, style)

	for x := rect.X + 1; x < rect.X+rect.Width-1; x++ {
		r.screen.SetContent(x, rect.Y, glyphs.Horizontal, nil, style)
		r.screen.SetContent(x, rect.Y+rect.Height-1, glyphs.Horizontal, nil, style)
	}
	for y := rect.Y + 1; y < rect.Y+rect.Height-1; y++ {
		r.screen.SetContent(rect.X, y, glyphs.Vertical, nil, style)
		r.screen.SetContent(rect.X+rect.Width-1, y, glyphs.Vertical, nil, style)
	}

	if title != "" && rect.Width > 4 {
		r.drawText(rect.X+2, rect.Y, rect.Width-4, " "+title+" ", style)
	}
}

// drawText writes text truncated to maxWidth columns, respecting
// double-width runes the way the teacher's internal/display line rendering
// does via go-runewidth, so a wide character never gets overwritten by the
// following cell.
func (r *runner) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	col := 0
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			w = 1
		}
		if col+w > maxWidth {
			break
		}
		r.screen.SetContent(x+col, y, ch, nil, style)
		col += w
	}
}
