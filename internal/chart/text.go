package chart

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/lapwatch/internal/model"
)

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

type cell struct {
	r     rune
	color string
}

type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) set(x, y int, r rune, color string) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, color: color}
}

func (c *canvas) get(x, y int) rune {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return 0
	}
	return c.cells[y][x].r
}

func (c *canvas) write(x, y int, s string, color string) {
	for _, r := range s {
		c.set(x, y, r, color)
		x += runewidth.RuneWidth(r)
	}
}

func (c *canvas) writeCentered(cx, y int, s string, color string) int {
	x := cx - runewidth.StringWidth(s)/2
	c.write(x, y, s, color)
	return x
}

func (c *canvas) String(useColor bool) string {
	lines := make([]string, 0, c.h)
	for _, row := range c.cells {
		var b strings.Builder
		run := strings.Builder{}
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if useColor && runColor != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.color != runColor {
				flush()
				runColor = cl.color
			}
			run.WriteRune(cl.r)
		}
		flush()
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}

// ComputeText lays out laps on a grid of width x height character cells.
func ComputeText(records []model.LapRecord, width, height int) (Layout, bool) {
	return ComputeWithOptions(records, width, height, TerminalOptions())
}

// RenderText draws a layout computed with TerminalOptions as lines of text.
// The bottom two rows hold the axis and lap labels. When useColor is false
// the output carries no escape sequences.
func RenderText(layout Layout, palette Palette, useColor bool) string {
	if layout.Width <= 0 || layout.Height <= 0 {
		return ""
	}
	cv := newCanvas(layout.Width, layout.Height)
	cv.writeCentered(layout.Width/2, 0, layout.Title, palette.Text)

	if layout.Empty() {
		cv.writeCentered(layout.Width/2, layout.Height/2, EmptyMessage, palette.Text)
		return cv.String(useColor)
	}

	plot := layout.Plot
	left := int(math.Round(plot.X))
	right := int(math.Round(plot.X + plot.W))
	base := int(math.Round(plot.Y + plot.H))

	for _, tick := range layout.YTicks {
		y := int(math.Round(tick.Y))
		if y >= base {
			continue
		}
		for x := left; x < right; x++ {
			cv.set(x, y, '┈', palette.Grid)
		}
		cv.set(left-1, y, '┤', palette.Text)
		cv.write(left-1-runewidth.StringWidth(tick.Label), y, tick.Label, palette.Text)
	}
	for _, line := range layout.VerticalLines {
		x := int(math.Floor(line.X))
		for y := int(math.Round(plot.Y)); y < base; y++ {
			if cv.get(x, y) == ' ' {
				cv.set(x, y, '┊', palette.Grid)
			}
		}
	}

	for x := left; x < right; x++ {
		cv.set(x, base, '─', palette.Text)
	}
	cv.set(left-1, base, '└', palette.Text)
	zero := layout.YTicks[0].Label
	cv.write(left-1-runewidth.StringWidth(zero), base, zero, palette.Text)

	labelRow := base + 1
	lastLabelEnd := math.MinInt
	for _, bar := range layout.Bars {
		color := palette.BarColor(bar.Class)
		x0 := int(math.Round(bar.Rect.X))
		x1 := int(math.Round(bar.Rect.X + bar.Rect.W))
		if x1 <= x0 {
			x1 = x0 + 1
		}
		top := bar.Rect.Y
		for y := int(math.Round(plot.Y)); y < base; y++ {
			cover := math.Min(float64(y+1), float64(base)) - math.Max(float64(y), top)
			if cover <= 0 {
				continue
			}
			idx := int(math.Round(cover * 8))
			if idx > 8 {
				idx = 8
			}
			if idx == 0 {
				continue
			}
			for x := x0; x < x1; x++ {
				cv.set(x, y, eighths[idx], color)
			}
		}

		if bar.ShowLabel {
			w := runewidth.StringWidth(bar.Label)
			start := (x0+x1)/2 - w/2
			if start > lastLabelEnd {
				cv.write(start, labelRow, bar.Label, palette.Text)
				lastLabelEnd = start + w
			}
		}
	}
	return cv.String(useColor)
}
