package vt

import (
	"github.com/hinshun/vt10x"
	"github.com/micro-editor/tcell/v2"
	"github.com/thurbeen/thurbox/internal/config"
)

// Cell is one rendered terminal cell: a rune plus the tcell style to draw
// it with. RenderedView is what internal/view blits onto the screen — it
// never touches a Screen or vt10x.Glyph directly.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

// RenderedView is a rectangular grid of Cells sized to the viewport that
// was requested, plus the cursor position within it (if visible) and a
// flag for whether the view is currently scrolled into history.
type RenderedView struct {
	Cells         [][]Cell
	CursorX       int
	CursorY       int
	CursorVisible bool
	Scrolled      bool
}

// Render is Thurbox's pure projection from a Screen plus a requested
// viewport size to the cells internal/view draws, mirroring the teacher's
// Panel.Render/renderLiveView/renderScrolledView split but without any
// tcell.Screen dependency: it returns a grid instead of drawing directly,
// so it can be unit tested without a real terminal.
func Render(s *Screen, width, height int, focus bool) RenderedView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
		for x := range cells[y] {
			cells[y][x] = Cell{Ch: ' ', Style: config.DefStyle}
		}
	}

	useAlt := s.vt.Mode()&vt10x.ModeAltScreen != 0
	cols, rows := s.vt.Size()

	if !s.hasOutput {
		return RenderedView{Cells: cells, CursorVisible: false}
	}

	if s.scrollOffset > 0 && !useAlt {
		return renderScrolled(s, width, height, cols, rows, cells)
	}

	for y := 0; y < height && y < rows; y++ {
		for x := 0; x < width && x < cols; x++ {
			var g vt10x.Glyph
			if useAlt {
				g = altCell(s.vt, x, y)
			} else {
				g = s.vt.Cell(x, y)
			}
			cells[y][x] = glyphToCell(g)
		}
	}

	cx, cy, visible := cursorLocked(s)
	return RenderedView{
		Cells:         cells,
		CursorX:       cx,
		CursorY:       cy,
		CursorVisible: focus && visible && cx >= 0 && cx < width && cy >= 0 && cy < height,
	}
}

func cursorLocked(s *Screen) (int, int, bool) {
	c := s.vt.Cursor()
	return c.X, c.Y, s.vt.CursorVisible()
}

// renderScrolled composes the viewport from the scrollback ring followed
// by the live screen's top rows, the way the teacher's renderScrolledView
// stitches history above the live buffer when scrolled up.
func renderScrolled(s *Screen, width, height, cols, rows int, cells [][]Cell) RenderedView {
	sbCount := s.scrollback.Count()
	offset := s.scrollOffset
	if offset > sbCount {
		offset = sbCount
	}

	// The window of scrollback lines visible is [sbCount-offset, sbCount-offset+height),
	// falling through to live rows once it runs past the end of scrollback.
	start := sbCount - offset
	for y := 0; y < height; y++ {
		idx := start + y
		if idx < 0 {
			continue
		}
		if idx < sbCount {
			line, ok := s.scrollback.Get(idx)
			if !ok {
				continue
			}
			for x := 0; x < width && x < len(line.Cells); x++ {
				cells[y][x] = glyphToCell(line.Cells[x])
			}
			continue
		}
		liveY := idx - sbCount
		if liveY >= rows {
			continue
		}
		for x := 0; x < width && x < cols; x++ {
			cells[y][x] = glyphToCell(s.vt.Cell(x, liveY))
		}
	}

	return RenderedView{Cells: cells, Scrolled: true}
}

func glyphToCell(g vt10x.Glyph) Cell {
	ch := g.Char
	if ch == 0 {
		ch = ' '
	}
	return Cell{Ch: ch, Style: glyphToStyle(g)}
}

const (
	modeBold      = 1 << 0
	modeUnderline = 1 << 1
	modeReverse   = 1 << 2
	modeBlink     = 1 << 3
	modeDim       = 1 << 4
)

// glyphToStyle converts a vt10x.Glyph's colors and attributes to a tcell
// style, downsampling true-color output to the 256-color cube when
// config.InTmux (Thurbox itself is running inside a tmux pane).
func glyphToStyle(g vt10x.Glyph) tcell.Style {
	style := config.DefStyle

	if g.FG != vt10x.DefaultFG {
		style = style.Foreground(colorFromVT(g.FG))
	}
	if g.BG != vt10x.DefaultBG {
		style = style.Background(colorFromVT(g.BG))
	}

	if g.Mode&modeBold != 0 {
		style = style.Bold(true)
	}
	if g.Mode&modeUnderline != 0 {
		style = style.Underline(true)
	}
	if g.Mode&modeReverse != 0 {
		style = style.Reverse(true)
	}
	if g.Mode&modeBlink != 0 {
		style = style.Blink(true)
	}
	if g.Mode&modeDim != 0 {
		style = style.Dim(true)
	}

	return style
}

// colorFromVT decodes vt10x's packed color representation: values 0-255
// are palette indices, values above 255 are 24-bit RGB packed as
// r<<16|g<<8|b.
func colorFromVT(c vt10x.Color) tcell.Color {
	if c <= 255 {
		return tcell.PaletteColor(int(c))
	}
	r := int((c >> 16) & 0xFF)
	g := int((c >> 8) & 0xFF)
	b := int(c & 0xFF)
	if config.InTmux {
		return config.GetColor256(rgbTo256Index(r, g, b))
	}
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func rgbTo256Index(r, g, b int) int {
	ri := (r * 5) / 255
	gi := (g * 5) / 255
	bi := (b * 5) / 255
	return 16 + 36*ri + 6*gi + bi
}
