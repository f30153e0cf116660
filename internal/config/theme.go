package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/micro-editor/tcell/v2"
	"gopkg.in/yaml.v2"
)

// InTmux is true when Thurbox itself is running inside a tmux pane (as
// opposed to hosting child sessions in tmux panes it owns). tmux's own
// terminal advertises only a 256-color palette in many configurations, so
// when InTmux is set every hex color is downsampled before use.
var InTmux = os.Getenv("TMUX") != ""

// DefStyle is the fallback style used when a semantic role has no entry.
var DefStyle tcell.Style = tcell.StyleDefault

// DefaultBackground is Thurbox's default panel background.
const DefaultBackground = "#0b0614"

// Background is the resolved panel background color, tmux-safe when InTmux.
var Background = resolveColor(DefaultBackground)

// Theme maps a semantic role (e.g. "border.focused", "status.warn") to the
// tcell style used to render it. Roles are dot-paths; GetStyle falls back
// from the most specific to the least specific segment, the way the
// teacher's syntax-highlighting groups fall back from e.g.
// "constant.string.char" to "constant".
var Theme map[string]tcell.Style

// GetStyle returns the style for a semantic role, falling back along the
// role's dot-path, and finally to DefStyle.
func GetStyle(role string) tcell.Style {
	st := DefStyle
	if role == "" {
		return st
	}
	groups := strings.Split(role, ".")
	if len(groups) > 1 {
		cur := ""
		for i, g := range groups {
			if i != 0 {
				cur += "."
			}
			cur += g
			if style, ok := Theme[cur]; ok {
				st = style
			}
		}
		return st
	}
	if style, ok := Theme[role]; ok {
		return style
	}
	return st
}

// ApplyNoColor strips every semantic role down to DefStyle, honoring
// NO_COLOR (https://no-color.org) the way spec.md's external-interfaces
// section requires: panels, borders, and status badges still render, just
// without the theme's color table behind them.
func ApplyNoColor() {
	Theme = map[string]tcell.Style{}
}

// themeEntry is the on-disk shape of one role in the YAML theme file.
type themeEntry struct {
	Fg        string `yaml:"fg"`
	Bg        string `yaml:"bg"`
	Bold      bool   `yaml:"bold"`
	Italic    bool   `yaml:"italic"`
	Underline bool   `yaml:"underline"`
	Reverse   bool   `yaml:"reverse"`
}

// InitTheme loads the theme file at path, if present, over the built-in
// defaults. A missing file is not an error: DefaultTheme alone is a
// complete, renderable theme.
func InitTheme(path string) error {
	Theme = DefaultTheme()
	DefStyle = tcell.StyleDefault.Background(Background)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading theme file: %w", err)
	}

	var raw map[string]themeEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing theme file %s: %w", path, err)
	}
	for role, e := range raw {
		Theme[role] = entryToStyle(e)
	}
	return nil
}

func entryToStyle(e themeEntry) tcell.Style {
	st := DefStyle
	if e.Fg != "" {
		if c, ok := ParseColor(e.Fg); ok {
			st = st.Foreground(c)
		}
	}
	if e.Bg != "" {
		if c, ok := ParseColor(e.Bg); ok {
			st = st.Background(c)
		} else {
			st = st.Background(Background)
		}
	} else {
		st = st.Background(Background)
	}
	st = st.Bold(e.Bold).Italic(e.Italic).Underline(e.Underline).Reverse(e.Reverse)
	return st
}

// DefaultTheme is the built-in semantic palette, used when no theme file is
// present and as the base every loaded theme file is layered on top of.
func DefaultTheme() map[string]tcell.Style {
	t := make(map[string]tcell.Style)
	base := tcell.StyleDefault.Background(Background)

	fg := func(hex string) tcell.Style {
		c, _ := ParseColor(hex)
		return base.Foreground(c)
	}

	t["border"] = fg("#4a4458")
	t["border.focused"] = fg("#9d7cd8").Bold(true)
	t["border.active-unfocused"] = fg("#6e6a86")
	t["text.primary"] = fg("#e0def4")
	t["text.muted"] = fg("#6e6a86")
	t["status.ok"] = fg("#95c561")
	t["status.warn"] = fg("#f6c177")
	t["status.error"] = fg("#eb6f92")
	t["status.idle"] = fg("#6e6a86")
	t["status.waiting"] = fg("#9ccfd8")
	t["selection"] = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(resolveColor("#2d4f67"))
	t["diff-add"] = fg("#98c379")
	t["diff-del"] = fg("#e06c75")
	t["modal.title"] = fg("#9d7cd8").Bold(true)
	t["modal.field.active"] = fg("#e0def4").Reverse(true)

	return t
}

// ParseColor parses a hex ("#rrggbb"), 256-palette index, or bare color
// name into a tcell.Color, downsampling to the 256-color cube when InTmux.
func ParseColor(s string) (tcell.Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "default" {
		return tcell.ColorDefault, true
	}
	if num, err := strconv.Atoi(s); err == nil {
		return GetColor256(num), true
	}
	if len(s) == 7 && s[0] == '#' {
		return resolveColor(s), true
	}
	switch s {
	case "black":
		return tcell.ColorBlack, true
	case "red":
		return tcell.ColorMaroon, true
	case "green":
		return tcell.ColorGreen, true
	case "yellow":
		return tcell.ColorOlive, true
	case "blue":
		return tcell.ColorNavy, true
	case "magenta":
		return tcell.ColorPurple, true
	case "cyan":
		return tcell.ColorTeal, true
	case "white":
		return tcell.ColorSilver, true
	}
	return tcell.ColorDefault, false
}

// resolveColor converts a hex color to a tmux-safe 256-palette color when
// InTmux, otherwise to a true color.
func resolveColor(hex string) tcell.Color {
	if InTmux {
		return hexTo256Color(hex)
	}
	return tcell.GetColor(hex)
}

// hexTo256Color approximates a hex color within the 216-color cube
// (palette indices 16-231), for terminals that only advertise 256 colors.
func hexTo256Color(hex string) tcell.Color {
	var r, g, b int
	fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)

	ri := (r * 5) / 255
	gi := (g * 5) / 255
	bi := (b * 5) / 255

	return tcell.PaletteColor(16 + 36*ri + 6*gi + bi)
}

// GetColor256 returns the tcell color for a palette index in [0,255];
// index 0 maps to tcell.ColorDefault.
func GetColor256(color int) tcell.Color {
	if color == 0 {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(color)
}
