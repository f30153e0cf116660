package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownAIToolsIncludesClaude(t *testing.T) {
	names := make([]string, 0)
	for _, t := range KnownAITools() {
		names = append(names, t.Name)
	}
	assert.Contains(t, names, "Claude Code")
}

func TestFormatToolLabelMarksAvailable(t *testing.T) {
	tool := AITool{Name: "X", Available: true}
	assert.Equal(t, "✓ X", tool.FormatToolLabel())
}

func TestFormatToolLabelMarksUnavailable(t *testing.T) {
	tool := AITool{Name: "X", Available: false}
	assert.Equal(t, "  X", tool.FormatToolLabel())
}

func TestMatchesInstalledNameCaseInsensitive(t *testing.T) {
	tools := []AITool{{Name: "Claude Code", Command: "claude"}}
	tool, ok := matchesInstalledName("claude", tools)
	assert.True(t, ok)
	assert.Equal(t, "Claude Code", tool.Name)
}
