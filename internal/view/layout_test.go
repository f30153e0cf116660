package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBreakpoint(t *testing.T) {
	assert.Equal(t, BreakpointNarrow, ClassifyBreakpoint(79))
	assert.Equal(t, BreakpointStandard, ClassifyBreakpoint(80))
	assert.Equal(t, BreakpointStandard, ClassifyBreakpoint(119))
	assert.Equal(t, BreakpointWide, ClassifyBreakpoint(120))
}

func TestLayoutNarrowIsTerminalOnly(t *testing.T) {
	f := Layout(70, 24, false)
	assert.Equal(t, BreakpointNarrow, f.Breakpoint)
	assert.Equal(t, 70, f.Terminal.Width)
	assert.Zero(t, f.ProjectList.Width)
	assert.Zero(t, f.InfoPanel.Width)
}

func TestLayoutStandardHasLeftPanelNoInfoPanel(t *testing.T) {
	f := Layout(100, 24, true)
	assert.Equal(t, BreakpointStandard, f.Breakpoint)
	assert.NotZero(t, f.ProjectList.Width)
	assert.NotZero(t, f.SessionList.Width)
	assert.Zero(t, f.InfoPanel.Width, "info panel must stay hidden below 120 cols regardless of the toggle")
	assert.Equal(t, f.ProjectList.Width+f.Terminal.Width, 100)
}

func TestLayoutWideAddsInfoPanelOnlyWhenVisible(t *testing.T) {
	hidden := Layout(140, 24, false)
	assert.Zero(t, hidden.InfoPanel.Width)

	shown := Layout(140, 24, true)
	assert.NotZero(t, shown.InfoPanel.Width)
	assert.Equal(t, shown.ProjectList.Width+shown.Terminal.Width+shown.InfoPanel.Width, 140)
}

func TestLayoutProjectSessionSplitIsFortySixty(t *testing.T) {
	f := Layout(100, 100, false)
	contentHeight := f.ProjectList.Height + f.SessionList.Height
	assert.InDelta(t, float64(contentHeight)*0.4, float64(f.ProjectList.Height), 1.0)
}

func TestLayoutStatusBarAlwaysOneLineAtBottom(t *testing.T) {
	f := Layout(100, 24, false)
	assert.Equal(t, 1, f.StatusBar.Height)
	assert.Equal(t, 23, f.StatusBar.Y)
}
