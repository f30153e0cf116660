package input

import (
	"strings"

	"github.com/thurbeen/thurbox/internal/vt"
)

// Loc is a column/row position within a rendered pane, in the same
// coordinate space as vt.RenderedView.Cells.
type Loc struct {
	X, Y int
}

// Selection tracks a mouse-drag text selection over a pane's rendered
// cells, grounded on the teacher's Panel.Selection/HasSelection/
// GetSelection/isSelected quartet in internal/terminal/panel.go, reduced
// to operate on a rendered cell grid rather than the pty-backed Panel
// directly so it can be driven by internal/app without a live backend.
type Selection struct {
	start, end Loc
	active     bool
}

// Begin starts or resets a selection at loc.
func (s *Selection) Begin(loc Loc) {
	s.start = loc
	s.end = loc
	s.active = true
}

// Extend moves the selection's live end to loc, as the mouse drags.
func (s *Selection) Extend(loc Loc) {
	if !s.active {
		s.Begin(loc)
		return
	}
	s.end = loc
}

// Clear discards the current selection.
func (s *Selection) Clear() {
	s.active = false
}

// Active reports whether a selection is in progress or was finalized
// without being cleared yet.
func (s *Selection) Active() bool { return s.active }

// ordered returns the selection's two points in top-to-bottom,
// left-to-right order.
func (s *Selection) ordered() (Loc, Loc) {
	a, b := s.start, s.end
	if a.Y > b.Y || (a.Y == b.Y && a.X > b.X) {
		a, b = b, a
	}
	return a, b
}

// IsSelected reports whether (x, y) falls within the current selection.
func (s *Selection) IsSelected(x, y int) bool {
	if !s.active {
		return false
	}
	a, b := s.ordered()
	if y < a.Y || y > b.Y {
		return false
	}
	if a.Y == b.Y {
		return x >= a.X && x <= b.X
	}
	if y == a.Y {
		return x >= a.X
	}
	if y == b.Y {
		return x <= b.X
	}
	return true
}

// Text extracts the selected text from a rendered cell grid, trimming
// trailing spaces on each line the way vt.Line.String does.
func (s *Selection) Text(cells [][]vt.Cell) string {
	if !s.active || len(cells) == 0 {
		return ""
	}
	a, b := s.ordered()
	var out strings.Builder
	for y := a.Y; y <= b.Y && y < len(cells); y++ {
		row := cells[y]
		startX, endX := 0, len(row)-1
		if y == a.Y {
			startX = a.X
		}
		if y == b.Y {
			endX = b.X
		}
		if endX >= len(row) {
			endX = len(row) - 1
		}
		var line strings.Builder
		for x := startX; x <= endX && x >= 0; x++ {
			line.WriteRune(row[x].Ch)
		}
		out.WriteString(strings.TrimRight(line.String(), " "))
		if y != b.Y {
			out.WriteByte('\n')
		}
	}
	return out.String()
}
