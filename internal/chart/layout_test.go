package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/lapwatch/internal/model"
)

func lapsFromSplits(splits ...int64) []model.LapRecord {
	out := make([]model.LapRecord, 0, len(splits))
	var total int64
	for i, s := range splits {
		total += s
		out = append(out, model.LapRecord{Number: i + 1, SplitMs: s, CumulativeMs: total})
	}
	return out
}

func uniformLaps(n int, split int64) []model.LapRecord {
	splits := make([]int64, n)
	for i := range splits {
		splits[i] = split + int64(i)
	}
	return lapsFromSplits(splits...)
}

func TestComputeEmpty(t *testing.T) {
	layout, ok := Compute(nil, 800, 400)
	assert.False(t, ok)
	assert.True(t, layout.Empty())
	assert.Equal(t, Title, layout.Title)
	assert.Equal(t, 800, layout.Width)
	assert.Empty(t, layout.YTicks)
	assert.Empty(t, layout.VerticalLines)
}

func TestComputeShrinksBarsWhenCrowded(t *testing.T) {
	layout, ok := Compute(uniformLaps(20, 1000), 800, 400)
	require.True(t, ok)

	assert.Equal(t, 40.0, layout.Padding)
	assert.Equal(t, 720.0, layout.Plot.W)
	assert.Equal(t, 32.0, layout.BarWidth)
	assert.Equal(t, 4.0, layout.BarGap)

	used := float64(len(layout.Bars))*layout.BarWidth + float64(len(layout.Bars)-1)*layout.BarGap
	assert.LessOrEqual(t, used, layout.Plot.W+layout.BarGap)
}

func TestComputeWideBarsCapGap(t *testing.T) {
	layout, ok := Compute(uniformLaps(5, 1000), 800, 400)
	require.True(t, ok)
	assert.Equal(t, 50.0, layout.BarWidth)
	assert.Equal(t, 20.0, layout.BarGap)
}

func TestComputeMinimumBarWidth(t *testing.T) {
	layout, ok := Compute(uniformLaps(200, 1000), 800, 400)
	require.True(t, ok)
	assert.Equal(t, 15.0, layout.BarWidth)
	assert.Equal(t, 4.0, layout.BarGap)
}

func TestComputeScalesToSlowest(t *testing.T) {
	layout, ok := Compute(lapsFromSplits(1000, 2000), 800, 400)
	require.True(t, ok)

	assert.InDelta(t, 2200.0, layout.YMax, 1e-9)
	assert.Equal(t, 320.0, layout.Plot.H)

	slow := layout.Bars[1].Rect
	assert.InDelta(t, 2000.0/2200.0*320*0.95, slow.H, 1e-9)
	assert.InDelta(t, layout.Plot.Y+layout.Plot.H, slow.Y+slow.H, 1e-9)

	fast := layout.Bars[0].Rect
	assert.InDelta(t, 1000.0/2200.0*320*0.95, fast.H, 1e-9)
}

func TestComputeClassPrecedence(t *testing.T) {
	layout, ok := Compute(lapsFromSplits(500, 200, 200, 800), 800, 400)
	require.True(t, ok)

	got := make([]BarClass, 0, len(layout.Bars))
	for _, b := range layout.Bars {
		got = append(got, b.Class)
	}
	assert.Equal(t, []BarClass{ClassNormal, ClassFastest, ClassFastest, ClassSlowest}, got)
}

func TestComputeSingleLapIsFastest(t *testing.T) {
	layout, ok := Compute(lapsFromSplits(1234), 800, 400)
	require.True(t, ok)
	require.Len(t, layout.Bars, 1)
	assert.Equal(t, ClassFastest, layout.Bars[0].Class)
	assert.True(t, layout.Bars[0].ShowLabel)
	assert.Equal(t, "#1", layout.Bars[0].Label)
	assert.Equal(t, "0:01", layout.Bars[0].Value)
}

func TestComputeEqualSplitsAreFastest(t *testing.T) {
	layout, ok := Compute(lapsFromSplits(700, 700, 700), 800, 400)
	require.True(t, ok)
	for _, b := range layout.Bars {
		assert.Equal(t, ClassFastest, b.Class)
	}
}

func TestComputeLabelThinning(t *testing.T) {
	layout, ok := Compute(uniformLaps(37, 1000), 800, 400)
	require.True(t, ok)

	var shown []int
	for i, b := range layout.Bars {
		if b.ShowLabel {
			shown = append(shown, i)
		}
	}
	assert.Equal(t, []int{0, 3, 6, 9, 12, 15, 18, 21, 24, 27, 30, 33, 36}, shown)
}

func TestComputeLabelThinningKeepsLast(t *testing.T) {
	layout, ok := Compute(uniformLaps(25, 1000), 800, 400)
	require.True(t, ok)
	assert.True(t, layout.Bars[0].ShowLabel)
	assert.True(t, layout.Bars[24].ShowLabel)
	assert.False(t, layout.Bars[23].ShowLabel)
	assert.True(t, layout.Bars[22].ShowLabel)
}

func TestComputeFewLapsShowEveryLabel(t *testing.T) {
	layout, ok := Compute(uniformLaps(9, 1000), 800, 400)
	require.True(t, ok)
	for _, b := range layout.Bars {
		assert.True(t, b.ShowLabel)
	}
}

func TestComputeGridlines(t *testing.T) {
	layout, ok := Compute(uniformLaps(37, 1000), 800, 400)
	require.True(t, ok)

	require.Len(t, layout.YTicks, 6)
	assert.Equal(t, 0.0, layout.YTicks[0].Value)
	assert.Equal(t, layout.Plot.Y+layout.Plot.H, layout.YTicks[0].Y)
	assert.InDelta(t, layout.YMax, layout.YTicks[5].Value, 1e-9)
	assert.Equal(t, layout.Plot.Y, layout.YTicks[5].Y)

	require.Len(t, layout.VerticalLines, 10)
	idx := make([]int, 0, 10)
	for _, l := range layout.VerticalLines {
		idx = append(idx, l.LapIndex)
	}
	assert.Equal(t, []int{0, 4, 8, 12, 16, 20, 24, 28, 32, 36}, idx)

	first := layout.Bars[0].Rect
	assert.Equal(t, first.X+first.W/2, layout.VerticalLines[0].X)
}

func TestComputeVerticalLinesForFewLaps(t *testing.T) {
	layout, ok := Compute(uniformLaps(3, 1000), 800, 400)
	require.True(t, ok)
	require.Len(t, layout.VerticalLines, 3)
	for i, l := range layout.VerticalLines {
		assert.Equal(t, i, l.LapIndex)
	}
}

func TestComputeZeroLengthLaps(t *testing.T) {
	layout, ok := Compute(lapsFromSplits(0, 0, 0), 800, 400)
	require.True(t, ok)
	assert.Equal(t, 1.0, layout.YMax)
	for _, b := range layout.Bars {
		assert.False(t, math.IsNaN(b.Rect.H))
		assert.Equal(t, 0.0, b.Rect.H)
	}
	for _, tick := range layout.YTicks {
		assert.False(t, math.IsNaN(tick.Value))
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	records := lapsFromSplits(1200, 900, 1500, 1100)
	a, _ := Compute(records, 640, 360)
	b, _ := Compute(records, 640, 360)
	assert.Equal(t, a, b)
}

func TestComputeTinySurface(t *testing.T) {
	layout, ok := Compute(lapsFromSplits(1000, 2000), 50, 50)
	require.True(t, ok)
	assert.Equal(t, 0.0, layout.Plot.W)
	assert.Equal(t, 0.0, layout.Plot.H)
	for _, b := range layout.Bars {
		assert.GreaterOrEqual(t, b.Rect.H, 0.0)
	}
}
