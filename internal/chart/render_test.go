package chart

import (
	"image"
	"image/color"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func barCenter(b Bar) (int, int) {
	return int(b.Rect.X + b.Rect.W/2), int(b.Rect.Y + b.Rect.H/2)
}

func TestRenderColorsBarsByClass(t *testing.T) {
	layout, ok := Compute(lapsFromSplits(1000, 2000, 1500), 800, 400)
	require.True(t, ok)

	img := RenderImage(layout, PaletteFor(ThemeDark))

	assert.Equal(t, color.RGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xff}, rgbaAt(img, 1, 1))

	fx, fy := barCenter(layout.Bars[0])
	fast := rgbaAt(img, fx, fy)
	assert.Greater(t, fast.G, fast.R)
	assert.Greater(t, fast.G, fast.B)

	sx, sy := barCenter(layout.Bars[1])
	slow := rgbaAt(img, sx, sy)
	assert.Greater(t, slow.R, slow.G)
	assert.Greater(t, slow.R, slow.B)

	nx, ny := barCenter(layout.Bars[2])
	normal := rgbaAt(img, nx, ny)
	assert.Greater(t, normal.B, normal.R)
	assert.Greater(t, normal.B, normal.G)
}

func TestRenderGradientIsLighterAtTop(t *testing.T) {
	layout, ok := Compute(lapsFromSplits(1000, 2000, 1500), 800, 400)
	require.True(t, ok)
	img := RenderImage(layout, PaletteFor(ThemeDark))

	bar := layout.Bars[2].Rect
	x := int(bar.X + bar.W/2)
	top := rgbaAt(img, x, int(bar.Y)+3)
	bottom := rgbaAt(img, x, int(bar.Y+bar.H)-3)
	assert.Greater(t, int(top.R)+int(top.G)+int(top.B), int(bottom.R)+int(bottom.G)+int(bottom.B))
}

func TestRenderEmptyDrawsMessage(t *testing.T) {
	layout, ok := Compute(nil, 400, 200)
	require.False(t, ok)
	img := RenderImage(layout, PaletteFor(ThemeLight))

	bg := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	marked := 0
	for y := 90; y < 110; y++ {
		for x := 0; x < 400; x++ {
			if rgbaAt(img, x, y) != bg {
				marked++
			}
		}
	}
	assert.Positive(t, marked)
}

func TestRenderHonorsSurfaceOrigin(t *testing.T) {
	layout, ok := Compute(lapsFromSplits(1000, 2000), 800, 400)
	require.True(t, ok)

	surface := image.NewRGBA(image.Rect(10, 10, 810, 410))
	Render(surface, layout, PaletteFor(ThemeDark))
	assert.Equal(t, color.RGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xff}, surface.RGBAAt(11, 11))

	direct := RenderImage(layout, PaletteFor(ThemeDark))
	fx, fy := barCenter(layout.Bars[0])
	assert.Equal(t, direct.RGBAAt(fx, fy), surface.RGBAAt(fx+10, fy+10))
}

func TestRenderTextPlain(t *testing.T) {
	layout, ok := ComputeText(lapsFromSplits(1000, 2000, 1500), 60, 15)
	require.True(t, ok)

	out := RenderText(layout, PaletteFor(ThemeDark), false)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 15)

	assert.Contains(t, lines[0], Title)
	assert.Contains(t, out, "█")
	assert.Contains(t, lines[13], "└")
	assert.Contains(t, lines[14], "#1")
	assert.Contains(t, lines[14], "#3")
	assert.NotContains(t, out, "\x1b")
}

func TestRenderTextEmpty(t *testing.T) {
	layout, _ := ComputeText(nil, 60, 15)
	out := RenderText(layout, PaletteFor(ThemeDark), false)
	assert.Contains(t, out, Title)
	assert.Contains(t, out, EmptyMessage)
}

func TestRenderTextZeroSize(t *testing.T) {
	layout, _ := ComputeText(lapsFromSplits(1000), 0, 0)
	assert.Equal(t, "", RenderText(layout, PaletteFor(ThemeDark), false))
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, ThemeDark, PaletteFor("").Name)
	assert.Equal(t, ThemeLight, PaletteFor(" Light ").Name)
	assert.Equal(t, ThemeDark, PaletteFor("neon").Name)
	assert.True(t, ValidTheme("dark"))
	assert.False(t, ValidTheme("neon"))
	assert.Equal(t, ThemeLight, NextTheme(ThemeDark))
	assert.Equal(t, ThemeDark, NextTheme(ThemeLight))
}

func TestAdjustColorClamps(t *testing.T) {
	c := parseColor("#f0f0f0")
	up := adjustColor(c, 30)
	assert.Equal(t, uint8(255), up.R)
	down := adjustColor(parseColor("#101010"), -30)
	assert.Equal(t, uint8(0), down.G)
	assert.Equal(t, uint8(255), down.A)
}

func TestWriteTextToBuffer(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf strings.Builder
	require.NoError(t, WriteText(&buf, lapsFromSplits(1000, 2000), 40, 12, PaletteFor(ThemeDark), false))
	assert.Contains(t, buf.String(), Title)
	assert.NotContains(t, buf.String(), "\x1b")
	assert.False(t, ShouldUseColor(&buf, false))
}

func TestShouldUseColorHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ShouldUseColor(os.Stdout, true))
}

func TestRenderValueLabelOnEveryBar(t *testing.T) {
	layout, ok := Compute(uniformLaps(37, 1000), 800, 400)
	require.True(t, ok)
	require.False(t, layout.Bars[1].ShowLabel)
	require.Equal(t, "0:01", layout.Bars[1].Value)

	palette := PaletteFor(ThemeDark)
	img := RenderImage(layout, palette)

	unlabeled := layout
	unlabeled.Bars = append([]Bar(nil), layout.Bars...)
	unlabeled.Bars[1].Value = ""
	assert.NotEqual(t, img.Pix, RenderImage(unlabeled, palette).Pix,
		"value label drawn above a bar whose lap label is thinned out")
}
