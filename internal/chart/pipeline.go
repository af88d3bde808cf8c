package chart

import (
	"image"
	"sync"

	"github.com/verte-zerg/lapwatch/internal/model"
)

// Pipeline owns the visible chart surfaces and decides when they are
// redrawn. While suspended, refresh requests are remembered but not drawn,
// so a presented chart stays frozen until Resume.
type Pipeline struct {
	mu sync.Mutex

	palette Palette
	visible *image.RGBA
	layout  Layout
	drawn   bool

	textWidth  int
	textHeight int
	textColor  bool
	text       string

	suspended bool
	pending   bool
	records   []model.LapRecord
}

// NewPipeline creates a pipeline with a raster surface of width x height.
func NewPipeline(width, height int, palette Palette) *Pipeline {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Pipeline{
		palette: palette,
		visible: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// SetTextSize enables the terminal rendition at width x height cells.
func (p *Pipeline) SetTextSize(width, height int, useColor bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.textWidth = width
	p.textHeight = height
	p.textColor = useColor
	p.pending = true
}

// Suspend freezes the visible chart.
func (p *Pipeline) Suspend() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suspended = true
}

// Resume lifts a suspension and reports whether a refresh was requested
// while suspended. The caller is expected to Refresh when it was.
func (p *Pipeline) Resume() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suspended = false
	return p.pending
}

// SetPalette changes colors for subsequent draws.
func (p *Pipeline) SetPalette(palette Palette) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.palette = palette
	p.pending = true
}

// Palette returns the palette used for drawing.
func (p *Pipeline) Palette() Palette {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.palette
}

// Refresh lays out and draws records. It returns false without drawing when
// the pipeline is suspended; the latest records are kept and the next
// permitted refresh reflects them.
func (p *Pipeline) Refresh(records []model.LapRecord) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records[:0], records...)
	if p.suspended {
		p.pending = true
		return false
	}
	b := p.visible.Bounds()
	layout, _ := Compute(p.records, b.Dx(), b.Dy())
	Render(p.visible, layout, p.palette)
	p.layout = layout
	p.drawn = true

	if p.textWidth > 0 && p.textHeight > 0 {
		textLayout, _ := ComputeText(p.records, p.textWidth, p.textHeight)
		p.text = RenderText(textLayout, p.palette, p.textColor)
	} else {
		p.text = ""
	}
	p.pending = false
	return true
}

// Flush redraws from the last records handed to Refresh if the chart is
// stale and not suspended.
func (p *Pipeline) Flush() bool {
	p.mu.Lock()
	stale := p.pending && !p.suspended
	records := append([]model.LapRecord(nil), p.records...)
	p.mu.Unlock()
	if !stale {
		return false
	}
	return p.Refresh(records)
}

// Layout returns the layout of the last draw, and false if nothing has
// been drawn yet.
func (p *Pipeline) Layout() (Layout, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.layout, p.drawn
}

// Image returns a copy of the visible raster surface. While suspended it is
// the frozen chart.
func (p *Pipeline) Image() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := image.NewRGBA(p.visible.Bounds())
	copy(out.Pix, p.visible.Pix)
	return out
}

// Text returns the terminal rendition from the last draw.
func (p *Pipeline) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text
}
