// Package vt wraps a VT10x terminal emulator into the screen model Thurbox
// feeds backend output into and renders panes from: a cell grid, a cursor,
// a capped scrollback ring, and a pure renderer that turns a screen plus a
// viewport into the cells internal/view draws.
package vt

import (
	"reflect"
	"sync"

	"github.com/hinshun/vt10x"
)

// ScrollbackCapacity is the maximum number of scrolled-off rows retained
// per pane.
const ScrollbackCapacity = 1000

// Screen wraps a vt10x.Terminal with a scrollback ring and a pinned/unpinned
// offset, matching the scroll semantics of the teacher's terminal.Panel but
// scoped down to the pure state (no pty, no tcell) so it can be driven by
// internal/runtime and read by internal/view independently.
type Screen struct {
	mu sync.RWMutex

	vt         vt10x.Terminal
	cols, rows int

	scrollback   *Scrollback
	scrollOffset int // 0 == pinned to the live view
	prevScreen   [][]vt10x.Glyph
	title        string
	hasOutput    bool
}

// NewScreen creates a screen of the given size, writing parsed input back
// out through a no-op writer: Thurbox feeds bytes into the screen purely to
// update its model, the write side back to the child goes through
// internal/runtime's own channel, not through vt10x's writer callback.
func NewScreen(cols, rows int) *Screen {
	vt := vt10x.New(vt10x.WithSize(cols, rows))
	return &Screen{
		vt:         vt,
		cols:       cols,
		rows:       rows,
		scrollback: NewScrollback(ScrollbackCapacity),
	}
}

// Feed parses bytes produced by the child and applies them to the VT
// screen model. Scrolled-off rows are pushed into the scrollback ring
// before being overwritten, the way the teacher's readLoop diffs
// previousScreen against the post-write screen to detect a scroll.
func (s *Screen) Feed(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(data) > 0 {
		s.hasOutput = true
	}

	if s.vt.Mode()&vt10x.ModeAltScreen == 0 {
		s.captureScreen()
	}

	s.vt.Write(data)

	pushed := 0
	if s.vt.Mode()&vt10x.ModeAltScreen == 0 {
		pushed = s.detectScroll()
	}

	if t, ok := titleOf(s.vt); ok {
		s.title = t
	}

	// A scrolled-up viewport stays pinned that many rows into scrollback
	// as new rows are pushed in ahead of it (§4.1); only a viewport already
	// at the live view (offset 0) stays there naturally.
	if s.scrollOffset > 0 && pushed > 0 {
		s.scrollOffset += pushed
		if max := s.scrollback.Count(); s.scrollOffset > max {
			s.scrollOffset = max
		}
	}
}

// captureScreen snapshots every row before a Write, the way the teacher's
// captureScreenBefore does, so detectScroll has something to diff against.
func (s *Screen) captureScreen() {
	cols, rows := s.vt.Size()
	snap := make([][]vt10x.Glyph, rows)
	for y := 0; y < rows; y++ {
		row := make([]vt10x.Glyph, cols)
		for x := 0; x < cols; x++ {
			row[x] = s.vt.Cell(x, y)
		}
		snap[y] = row
	}
	s.prevScreen = snap
}

// detectScroll looks for the row that used to be at the top reappearing
// further down the new screen; everything above that reappearance in the
// old screen scrolled off the top and is pushed into scrollback, oldest
// first, matching the teacher's captureScrolledLines/rowsMatch pair. It
// returns how many rows were pushed, so Feed can keep a scrolled-up
// viewport pinned to the same rows instead of losing its place.
func (s *Screen) detectScroll() int {
	if len(s.prevScreen) == 0 {
		return 0
	}
	oldTop := s.prevScreen[0]
	cols, rows := s.vt.Size()
	for y := 1; y < rows; y++ {
		row := make([]vt10x.Glyph, cols)
		for x := 0; x < cols; x++ {
			row[x] = s.vt.Cell(x, y)
		}
		if !glyphRowsEqual(oldTop, row) {
			continue
		}
		pushed := 0
		for i := 0; i < y && i < len(s.prevScreen); i++ {
			s.scrollback.Push(Line{Cells: s.prevScreen[i]})
			pushed++
		}
		return pushed
	}
	return 0
}

func glyphRowsEqual(a, b []vt10x.Glyph) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Resize changes the VT screen's dimensions. The scrollback ring is left
// untouched: rows already pushed keep their original width.
func (s *Screen) Resize(cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cols, s.rows = cols, rows
	s.vt.Resize(cols, rows)
}

// Size returns the screen's current column and row count.
func (s *Screen) Size() (cols, rows int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cols, s.rows
}

// Cursor returns the cursor's column, row, and visibility.
func (s *Screen) Cursor() (x, y int, visible bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.vt.Cursor()
	return c.X, c.Y, s.vt.CursorVisible()
}

// IsAlternateScreen reports whether the child has switched to the
// alternate screen buffer (a fullscreen app like vim or less), in which
// case scrollback is suppressed the way a real terminal suppresses it.
func (s *Screen) IsAlternateScreen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vt.Mode()&vt10x.ModeAltScreen != 0
}

// Title is the window title the child last set via an OSC escape.
func (s *Screen) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// HasOutput reports whether the screen has received any bytes since
// creation, used by internal/view to show a loading spinner for a pane
// whose child hasn't produced output yet.
func (s *Screen) HasOutput() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasOutput
}

// Cell returns the glyph at (x, y) in the live (non-scrollback) view,
// reading from the alternate screen buffer when one is active.
func (s *Screen) Cell(x, y int) vt10x.Glyph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vt.Mode()&vt10x.ModeAltScreen != 0 {
		return altCell(s.vt, x, y)
	}
	return s.vt.Cell(x, y)
}

// ScrollOffset returns how many scrollback rows up the viewport is
// currently pinned, 0 meaning pinned to the live view.
func (s *Screen) ScrollOffset() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scrollOffset
}

// SetScrollOffset pins the viewport to a given depth into scrollback,
// clamped to [0, Scrollback().Count()]. Alternate-screen apps ignore
// scrolling entirely, matching a real terminal's fullscreen-mode behavior.
func (s *Screen) SetScrollOffset(offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	if max := s.scrollback.Count(); offset > max {
		offset = max
	}
	s.scrollOffset = offset
}

// Scrollback returns the screen's scrollback ring buffer.
func (s *Screen) Scrollback() *Scrollback {
	return s.scrollback
}

// altCell reaches into vt10x's unexported alternate-screen buffer via
// reflection: the public Terminal interface only exposes Cell() for the
// primary buffer, so this is the only way to read alt-screen contents
// without forking the dependency.
func altCell(term vt10x.Terminal, x, y int) vt10x.Glyph {
	v := reflect.ValueOf(term)
	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	altLines := v.FieldByName("altLines")
	if !altLines.IsValid() || y >= altLines.Len() {
		return vt10x.Glyph{}
	}
	line := altLines.Index(y)
	if x >= line.Len() {
		return vt10x.Glyph{}
	}
	cell := line.Index(x)
	var glyph vt10x.Glyph
	if f := cell.FieldByName("Char"); f.IsValid() {
		glyph.Char = rune(f.Int())
	}
	if f := cell.FieldByName("Mode"); f.IsValid() {
		glyph.Mode = int16(f.Int())
	}
	if f := cell.FieldByName("FG"); f.IsValid() {
		glyph.FG = vt10x.Color(f.Uint())
	}
	if f := cell.FieldByName("BG"); f.IsValid() {
		glyph.BG = vt10x.Color(f.Uint())
	}
	return glyph
}

// titleOf reads vt10x's window title via its exported Title() method when
// the concrete implementation provides one; not every vt10x version does.
func titleOf(term vt10x.Terminal) (string, bool) {
	type titler interface{ Title() string }
	if t, ok := term.(titler); ok {
		return t.Title(), true
	}
	return "", false
}
