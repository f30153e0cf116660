// Package view projects an internal/app.Model plus a viewport size into a
// frame description: region rectangles, border styles, and widget content.
// Nothing here touches a tcell.Screen — that keeps the projection testable
// the same way internal/app.Update is, and leaves the actual SetContent
// calls to cmd/thurbox, the one place a real Screen exists.
package view

// Breakpoint names which responsive layout a viewport width falls into
// (§4.9): narrow terminals drop the side panel entirely, wide ones add an
// info panel.
type Breakpoint int

const (
	BreakpointNarrow   Breakpoint = iota // <80 cols: terminal only
	BreakpointStandard                   // [80,120): left panel + terminal
	BreakpointWide                       // >=120: left panel + terminal + info panel
)

const (
	narrowWidthLimit   = 80
	wideWidthThreshold = 120

	// leftPanelWidth is the fixed column count of the project/session list
	// panel at Standard and Wide breakpoints; the terminal pane and info
	// panel absorb whatever width remains.
	leftPanelWidth = 32
	// infoPanelWidth is the fixed column count of the right-hand info panel
	// at the Wide breakpoint.
	infoPanelWidth = 34

	// projectListHeightPercent / sessionListHeightPercent split the left
	// panel vertically (§4.9: "projects 40% / sessions 60%").
	projectListHeightPercent = 40
)

// ClassifyBreakpoint returns the Breakpoint for a total viewport width.
func ClassifyBreakpoint(cols int) Breakpoint {
	switch {
	case cols < narrowWidthLimit:
		return BreakpointNarrow
	case cols < wideWidthThreshold:
		return BreakpointStandard
	default:
		return BreakpointWide
	}
}

// Rect is an axis-aligned region of the viewport, top-left origin.
type Rect struct {
	X, Y, Width, Height int
}

// Frame is the full set of regions computed for one viewport size, at a
// given breakpoint and info-panel visibility. Any region with zero Width or
// Height is not drawn.
type Frame struct {
	Breakpoint  Breakpoint
	ProjectList Rect
	SessionList Rect
	Terminal    Rect
	InfoPanel   Rect
	StatusBar   Rect
}

// Layout computes a Frame for a cols x rows viewport. infoPanelVisible only
// takes effect at BreakpointWide — §4.9 hides the info panel entirely below
//120 columns regardless of the F2 toggle.
func Layout(cols, rows int, infoPanelVisible bool) Frame {
	bp := ClassifyBreakpoint(cols)

	statusBarHeight := 1
	contentHeight := rows - statusBarHeight
	if contentHeight < 0 {
		contentHeight = 0
	}
	statusBar := Rect{X: 0, Y: rows - statusBarHeight, Width: cols, Height: statusBarHeight}

	if bp == BreakpointNarrow {
		return Frame{
			Breakpoint: bp,
			Terminal:   Rect{X: 0, Y: 0, Width: cols, Height: contentHeight},
			StatusBar:  statusBar,
		}
	}

	leftWidth := leftPanelWidth
	if leftWidth > cols {
		leftWidth = cols
	}
	projectHeight := contentHeight * projectListHeightPercent / 100
	sessionHeight := contentHeight - projectHeight

	frame := Frame{
		Breakpoint:  bp,
		ProjectList: Rect{X: 0, Y: 0, Width: leftWidth, Height: projectHeight},
		SessionList: Rect{X: 0, Y: projectHeight, Width: leftWidth, Height: sessionHeight},
		StatusBar:   statusBar,
	}

	terminalX := leftWidth
	terminalWidth := cols - leftWidth

	if bp == BreakpointWide && infoPanelVisible {
		infoWidth := infoPanelWidth
		if infoWidth > terminalWidth {
			infoWidth = terminalWidth
		}
		terminalWidth -= infoWidth
		frame.InfoPanel = Rect{X: terminalX + terminalWidth, Y: 0, Width: infoWidth, Height: contentHeight}
	}

	frame.Terminal = Rect{X: terminalX, Y: 0, Width: terminalWidth, Height: contentHeight}
	return frame
}
