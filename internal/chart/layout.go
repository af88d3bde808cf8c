// Package chart computes and paints the lap-time bar chart.
package chart

import (
	"math"
	"strconv"

	"github.com/verte-zerg/lapwatch/internal/laps"
	"github.com/verte-zerg/lapwatch/internal/model"
	"github.com/verte-zerg/lapwatch/internal/stats"
)

// Title is drawn above every chart.
const Title = "Lap Time Comparison"

// BarClass selects the color treatment of a bar.
type BarClass int

const (
	ClassNormal BarClass = iota
	ClassFastest
	ClassSlowest
)

func (c BarClass) String() string {
	switch c {
	case ClassFastest:
		return "fastest"
	case ClassSlowest:
		return "slowest"
	default:
		return "normal"
	}
}

// Options tunes geometry. Units are whatever the target surface uses:
// pixels for raster output, cells for terminal output.
type Options struct {
	MaxBarWidth float64
	MinBarWidth float64
	MinGap      float64
	MaxGap      float64

	// Horizontal padding is max(MinPadding, width*PaddingRatio).
	MinPadding   float64
	PaddingRatio float64
	// TopPadding and BottomPadding, when positive, replace the horizontal
	// padding above and below the plot area.
	TopPadding    float64
	BottomPadding float64

	Headroom         float64
	BarFill          float64
	GridDivisions    int
	MaxVerticalLines int
	MaxLabels        int
}

// DefaultOptions returns the raster geometry.
func DefaultOptions() Options {
	return Options{
		MaxBarWidth:      50,
		MinBarWidth:      15,
		MinGap:           4,
		MaxGap:           20,
		MinPadding:       40,
		PaddingRatio:     0.05,
		Headroom:         1.1,
		BarFill:          0.95,
		GridDivisions:    5,
		MaxVerticalLines: 10,
		MaxLabels:        10,
	}
}

// TerminalOptions returns geometry for a character grid.
func TerminalOptions() Options {
	return Options{
		MaxBarWidth:      5,
		MinBarWidth:      1,
		MinGap:           1,
		MaxGap:           2,
		MinPadding:       7,
		TopPadding:       1,
		BottomPadding:    2,
		Headroom:         1.1,
		BarFill:          0.95,
		GridDivisions:    5,
		MaxVerticalLines: 10,
		MaxLabels:        10,
	}
}

// Rect is an axis-aligned rectangle with its origin at the top-left.
type Rect struct {
	X, Y, W, H float64
}

// Bar is the geometry of one lap's bar.
type Bar struct {
	Lap       model.LapRecord
	Rect      Rect
	Class     BarClass
	Value     string
	Label     string
	ShowLabel bool
}

// Tick is a horizontal gridline with its y-axis label.
type Tick struct {
	Value float64
	Y     float64
	Label string
}

// GridLine is a vertical gridline through the center of a lap's bar.
type GridLine struct {
	LapIndex int
	X        float64
}

// Layout is the computed geometry of a chart. It holds no drawing state.
type Layout struct {
	Width   int
	Height  int
	Padding float64
	Plot    Rect

	BarWidth float64
	BarGap   float64
	YMax     float64

	Bars          []Bar
	YTicks        []Tick
	VerticalLines []GridLine
	Title         string
}

// Empty reports whether the layout has no bars to draw.
func (l Layout) Empty() bool {
	return len(l.Bars) == 0
}

// Compute lays out laps on a width x height raster surface. It reports false
// and returns an empty layout (title and dimensions only) when there are no laps.
func Compute(records []model.LapRecord, width, height int) (Layout, bool) {
	return ComputeWithOptions(records, width, height, DefaultOptions())
}

// ComputeWithOptions is Compute with explicit geometry options.
func ComputeWithOptions(records []model.LapRecord, width, height int, opts Options) (Layout, bool) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	padding := math.Max(opts.MinPadding, float64(width)*opts.PaddingRatio)
	top, bottom := padding, padding
	if opts.TopPadding > 0 {
		top = opts.TopPadding
	}
	if opts.BottomPadding > 0 {
		bottom = opts.BottomPadding
	}
	plot := Rect{
		X: padding,
		Y: top,
		W: math.Max(0, float64(width)-2*padding),
		H: math.Max(0, float64(height)-top-bottom),
	}
	layout := Layout{
		Width:   width,
		Height:  height,
		Padding: padding,
		Plot:    plot,
		Title:   Title,
	}

	st, ok := laps.ComputeStats(records)
	if !ok {
		return layout, false
	}
	n := len(records)

	barWidth, barGap := barSizing(n, plot.W, opts)
	layout.BarWidth = barWidth
	layout.BarGap = barGap

	yMax := float64(st.Slowest.SplitMs) * opts.Headroom
	if yMax <= 0 {
		// All laps are zero-length; any positive scale keeps heights at zero.
		yMax = 1
	}
	layout.YMax = yMax

	labelStep := n / maxInt(1, opts.MaxLabels)
	if labelStep < 1 {
		labelStep = 1
	}

	layout.Bars = make([]Bar, 0, n)
	for i, r := range records {
		h := float64(r.SplitMs) / yMax * plot.H * opts.BarFill
		layout.Bars = append(layout.Bars, Bar{
			Lap: r,
			Rect: Rect{
				X: plot.X + float64(i)*(barWidth+barGap),
				Y: plot.Y + plot.H - h,
				W: barWidth,
				H: h,
			},
			Class:     classify(r, st),
			Value:     stats.FormatShort(float64(r.SplitMs)),
			Label:     "#" + strconv.Itoa(r.Number),
			ShowLabel: i == 0 || i == n-1 || i%labelStep == 0,
		})
	}

	divisions := maxInt(1, opts.GridDivisions)
	layout.YTicks = make([]Tick, 0, divisions+1)
	for i := 0; i <= divisions; i++ {
		value := yMax * float64(i) / float64(divisions)
		layout.YTicks = append(layout.YTicks, Tick{
			Value: value,
			Y:     plot.Y + plot.H - float64(i)*plot.H/float64(divisions),
			Label: stats.FormatShort(value),
		})
	}

	layout.VerticalLines = verticalLines(n, barWidth, barGap, plot.X, opts.MaxVerticalLines)
	return layout, true
}

// barSizing trades gap size first, then bar width, as the lap count grows.
func barSizing(n int, chartWidth float64, opts Options) (float64, float64) {
	capacity := int(math.Floor(chartWidth / (opts.MaxBarWidth + opts.MinGap)))
	if n <= capacity {
		gap := math.Min(opts.MaxGap, (chartWidth-float64(n)*opts.MaxBarWidth)/float64(n+1))
		return opts.MaxBarWidth, math.Max(0, gap)
	}
	width := math.Max(opts.MinBarWidth, (chartWidth-float64(n)*opts.MinGap)/float64(n))
	return width, opts.MinGap
}

// classify gives fastest precedence over slowest so a single lap, or a
// ledger where every split is equal, is drawn as fastest.
func classify(r model.LapRecord, st model.LapStats) BarClass {
	switch r.SplitMs {
	case st.Fastest.SplitMs:
		return ClassFastest
	case st.Slowest.SplitMs:
		return ClassSlowest
	default:
		return ClassNormal
	}
}

func verticalLines(n int, barWidth, barGap, originX float64, maxLines int) []GridLine {
	count := n
	if maxLines > 0 && count > maxLines {
		count = maxLines
	}
	if count <= 0 {
		return nil
	}
	lines := make([]GridLine, 0, count)
	for i := 0; i < count; i++ {
		idx := 0
		if count > 1 {
			idx = i * (n - 1) / (count - 1)
		}
		lines = append(lines, GridLine{
			LapIndex: idx,
			X:        originX + float64(idx)*(barWidth+barGap) + barWidth/2,
		})
	}
	return lines
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
