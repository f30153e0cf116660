package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thurbeen/thurbox/internal/app"
	"github.com/thurbeen/thurbox/internal/types"
)

func TestModalNoneWhenModalNil(t *testing.T) {
	m := app.NewModel(nil, nil)
	_, ok := Modal(m)
	assert.False(t, ok)
}

func TestModalSessionCreateProjectNameStep(t *testing.T) {
	m := app.NewModel(nil, nil)
	m.Modal = app.NewSessionCreateModal(types.FocusProjectList, "")
	view, ok := Modal(m)
	assert.True(t, ok)
	assert.Contains(t, view.Body, "Project name:")
}

func TestHelpOverlayListsGlobalCommands(t *testing.T) {
	view := HelpOverlay()
	assert.Contains(t, view.Body, "Ctrl+Q   quit (detach all)")
	assert.Equal(t, "Help", view.Title)
}
