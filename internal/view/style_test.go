package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlyphsForFocusedIsThick(t *testing.T) {
	focused := GlyphsFor(BorderFocused)
	plain := GlyphsFor(BorderActive)
	assert.NotEqual(t, focused.Horizontal, plain.Horizontal)
}

func TestBorderStyleDoesNotPanicForEveryState(t *testing.T) {
	assert.NotPanics(t, func() {
		BorderStyle(BorderFocused)
		BorderStyle(BorderActive)
		BorderStyle(BorderInactive)
	})
}
