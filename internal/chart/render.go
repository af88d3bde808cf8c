package chart

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// EmptyMessage is drawn in place of bars when there are no laps.
const EmptyMessage = "No lap data available"

const (
	shadowOffset = 2
	glowRadius   = 10
	labelOffset  = 5
)

// Render paints layout onto surface. Drawing happens on an off-screen image
// which is copied to surface in a single step, so a reader of surface never
// sees a partially drawn chart.
func Render(surface draw.Image, layout Layout, palette Palette) {
	b := surface.Bounds()
	off := image.NewRGBA(b)
	paint(off, layout, palette)
	draw.Draw(surface, b, off, b.Min, draw.Src)
}

// RenderImage returns a new image holding the rendered layout.
func RenderImage(layout Layout, palette Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, layout.Width, layout.Height))
	paint(img, layout, palette)
	return img
}

func paint(dst *image.RGBA, layout Layout, palette Palette) {
	origin := dst.Bounds().Min
	bg := parseColor(palette.Background)
	text := parseColor(palette.Text)
	grid := parseColor(palette.Grid)

	fill(dst, dst.Bounds(), bg, draw.Src)

	p := painter{dst: dst, origin: origin}
	p.textCentered(layout.Title, float64(layout.Width)/2, layout.Plot.Y/2+4, text)

	if layout.Empty() {
		p.textCentered(EmptyMessage, float64(layout.Width)/2, float64(layout.Height)/2, text)
		return
	}

	plot := layout.Plot
	for _, tick := range layout.YTicks {
		p.hline(plot.X, plot.X+plot.W, tick.Y, grid.WithAlpha(77))
		p.textRight(tick.Label, plot.X-labelOffset, tick.Y+4, text)
	}
	for _, line := range layout.VerticalLines {
		p.vline(line.X, plot.Y, plot.Y+plot.H, grid.WithAlpha(51))
	}

	p.vline(plot.X, plot.Y, plot.Y+plot.H, text.WithAlpha(153))
	p.hline(plot.X, plot.X+plot.W, plot.Y+plot.H, text.WithAlpha(153))

	shadow := drawing.ColorBlack.WithAlpha(51)
	for _, bar := range layout.Bars {
		base := parseColor(palette.BarColor(bar.Class))
		r := bar.Rect

		if bar.Class != ClassNormal {
			p.glow(r, base)
		}
		p.rect(Rect{X: r.X + shadowOffset, Y: r.Y + shadowOffset, W: r.W, H: r.H}, shadow)
		p.gradient(r, adjustColor(base, 30), adjustColor(base, -10))
		p.outline(r, adjustColor(base, -30))

		p.textCentered(bar.Value, r.X+r.W/2, r.Y-labelOffset, text)
		if bar.ShowLabel {
			p.textCentered(bar.Label, r.X+r.W/2, float64(layout.Height)-layout.Padding/2, text)
		}
	}
}

type painter struct {
	dst    *image.RGBA
	origin image.Point
}

func (p painter) pixels(r Rect) image.Rectangle {
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	x1 := int(math.Round(r.X + r.W))
	y1 := int(math.Round(r.Y + r.H))
	return image.Rect(x0, y0, x1, y1).Add(p.origin)
}

func (p painter) rect(r Rect, c color.Color) {
	fill(p.dst, p.pixels(r), c, draw.Over)
}

func (p painter) hline(x0, x1, y float64, c color.Color) {
	p.rect(Rect{X: x0, Y: y, W: x1 - x0, H: 1}, c)
}

func (p painter) vline(x, y0, y1 float64, c color.Color) {
	p.rect(Rect{X: x, Y: y0, W: 1, H: y1 - y0}, c)
}

// gradient fills r row by row from top to bottom.
func (p painter) gradient(r Rect, top, bottom drawing.Color) {
	px := p.pixels(r)
	rows := px.Dy()
	for i := 0; i < rows; i++ {
		t := 0.0
		if rows > 1 {
			t = float64(i) / float64(rows-1)
		}
		row := image.Rect(px.Min.X, px.Min.Y+i, px.Max.X, px.Min.Y+i+1)
		fill(p.dst, row, mixColor(top, bottom, t), draw.Over)
	}
}

func (p painter) outline(r Rect, c color.Color) {
	px := p.pixels(r)
	if px.Empty() {
		return
	}
	fill(p.dst, image.Rect(px.Min.X, px.Min.Y, px.Max.X, px.Min.Y+1), c, draw.Over)
	fill(p.dst, image.Rect(px.Min.X, px.Max.Y-1, px.Max.X, px.Max.Y), c, draw.Over)
	fill(p.dst, image.Rect(px.Min.X, px.Min.Y+1, px.Min.X+1, px.Max.Y-1), c, draw.Over)
	fill(p.dst, image.Rect(px.Max.X-1, px.Min.Y+1, px.Max.X, px.Max.Y-1), c, draw.Over)
}

// glow draws concentric translucent halos that fade outward.
func (p painter) glow(r Rect, c drawing.Color) {
	for k := glowRadius; k > 0; k -= 2 {
		alpha := uint8(4 * (glowRadius - k + 2))
		halo := Rect{X: r.X - float64(k), Y: r.Y - float64(k), W: r.W + 2*float64(k), H: r.H + 2*float64(k)}
		p.rect(halo, c.WithAlpha(alpha))
	}
}

func (p painter) text(s string, x, y float64, c color.Color) {
	d := &font.Drawer{
		Dst:  p.dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(p.origin.X+int(math.Round(x)), p.origin.Y+int(math.Round(y))),
	}
	d.DrawString(s)
}

func (p painter) textCentered(s string, cx, y float64, c color.Color) {
	w := font.MeasureString(basicfont.Face7x13, s).Round()
	p.text(s, cx-float64(w)/2, y, c)
}

func (p painter) textRight(s string, right, y float64, c color.Color) {
	w := font.MeasureString(basicfont.Face7x13, s).Round()
	p.text(s, right-float64(w), y, c)
}

func fill(dst draw.Image, r image.Rectangle, c color.Color, op draw.Op) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, op)
}
