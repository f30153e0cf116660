package config

import (
	"os"
	"testing"

	"github.com/micro-editor/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestParseColorHex(t *testing.T) {
	c, ok := ParseColor("#deadbe")
	assert.True(t, ok)
	assert.Equal(t, tcell.NewRGBColor(0xde, 0xad, 0xbe), c)
}

func TestParseColor256(t *testing.T) {
	c, ok := ParseColor("128")
	assert.True(t, ok)
	assert.Equal(t, tcell.Color128, c)
}

func TestParseColorDefault(t *testing.T) {
	c, ok := ParseColor("default")
	assert.True(t, ok)
	assert.Equal(t, tcell.ColorDefault, c)
}

func TestParseColorUnknownName(t *testing.T) {
	_, ok := ParseColor("chartreuse")
	assert.False(t, ok)
}

func TestGetStyleFallsBackAlongPath(t *testing.T) {
	old := Theme
	defer func() { Theme = old }()

	Theme = map[string]tcell.Style{
		"status": tcell.StyleDefault.Foreground(tcell.ColorRed),
	}

	st := GetStyle("status.waiting.detail")
	fg, _, _ := st.Decompose()
	assert.Equal(t, tcell.ColorRed, fg)
}

func TestGetStyleUnknownRoleReturnsDefStyle(t *testing.T) {
	old := Theme
	defer func() { Theme = old }()
	Theme = map[string]tcell.Style{}

	assert.Equal(t, DefStyle, GetStyle("nonexistent"))
}

func TestInitThemeMissingFileKeepsDefaults(t *testing.T) {
	err := InitTheme("/nonexistent/path/to/theme.yaml")
	assert.NoError(t, err)
	assert.NotEmpty(t, Theme)
	assert.Contains(t, Theme, "border.focused")
}

func TestInitThemeOverridesRole(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "theme-*.yaml")
	assert.NoError(t, err)
	_, err = f.WriteString("status.ok:\n  fg: \"#00ff00\"\n  bold: true\n")
	assert.NoError(t, err)
	assert.NoError(t, f.Close())

	err = InitTheme(f.Name())
	assert.NoError(t, err)

	_, _, attr := GetStyle("status.ok").Decompose()
	assert.NotEqual(t, 0, attr&tcell.AttrBold)
}

func TestHexTo256ColorApproximatesBlack(t *testing.T) {
	assert.Equal(t, tcell.PaletteColor(16), hexTo256Color("#000000"))
}
