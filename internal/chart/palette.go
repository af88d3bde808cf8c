package chart

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Palette holds chart colors as hex strings so the same values can style
// both raster output and terminal output.
type Palette struct {
	Name       string
	Background string
	Text       string
	Primary    string
	Fastest    string
	Slowest    string
	Grid       string
}

var palettes = map[string]Palette{
	ThemeDark: {
		Name:       ThemeDark,
		Background: "#121212",
		Text:       "#e1e1e1",
		Primary:    "#5d7fff",
		Fastest:    "#1db954",
		Slowest:    "#e55039",
		Grid:       "#333333",
	},
	ThemeLight: {
		Name:       ThemeLight,
		Background: "#ffffff",
		Text:       "#333333",
		Primary:    "#4361ee",
		Fastest:    "#2ecc71",
		Slowest:    "#e74c3c",
		Grid:       "#dddddd",
	},
}

// PaletteFor returns the palette for a theme name, falling back to dark.
func PaletteFor(theme string) Palette {
	if p, ok := palettes[strings.ToLower(strings.TrimSpace(theme))]; ok {
		return p
	}
	return palettes[ThemeDark]
}

// ValidTheme reports whether theme names a known palette.
func ValidTheme(theme string) bool {
	_, ok := palettes[strings.ToLower(strings.TrimSpace(theme))]
	return ok
}

// NextTheme cycles between dark and light.
func NextTheme(theme string) string {
	if PaletteFor(theme).Name == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// BarColor returns the hex color for a bar class.
func (p Palette) BarColor(class BarClass) string {
	switch class {
	case ClassFastest:
		return p.Fastest
	case ClassSlowest:
		return p.Slowest
	default:
		return p.Primary
	}
}

func parseColor(hex string) drawing.Color {
	return drawing.ColorFromHex(hex)
}

// adjustColor shifts every channel by delta, clamped to [0, 255].
func adjustColor(c drawing.Color, delta int) drawing.Color {
	return drawing.Color{
		R: clampChannel(int(c.R) + delta),
		G: clampChannel(int(c.G) + delta),
		B: clampChannel(int(c.B) + delta),
		A: c.A,
	}
}

func mixColor(from, to drawing.Color, t float64) drawing.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	lerp := func(a, b uint8) uint8 {
		return clampChannel(int(float64(a) + (float64(b)-float64(a))*t + 0.5))
	}
	return drawing.Color{
		R: lerp(from.R, to.R),
		G: lerp(from.G, to.G),
		B: lerp(from.B, to.B),
		A: lerp(from.A, to.A),
	}
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
