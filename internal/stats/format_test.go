package stats

import (
	"testing"

	"github.com/verte-zerg/lapwatch/internal/model"
)

func TestFormatTime(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "00:00:00.000"},
		{7, "00:00:00.007"},
		{61001, "00:01:01.001"},
		{3600000 + 23*60000 + 45*1000 + 678, "01:23:45.678"},
		{100 * 3600000, "100:00:00.000"},
		{-50, "00:00:00.000"},
	}
	for _, tc := range cases {
		if got := FormatTime(tc.ms); got != tc.want {
			t.Fatalf("FormatTime(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}

func TestFormatShort(t *testing.T) {
	cases := []struct {
		ms   float64
		want string
	}{
		{0, "0:00"},
		{59999, "0:59"},
		{61000, "1:01"},
		{3600000 + 5000, "0:05"},
		{-1, "0:00"},
	}
	for _, tc := range cases {
		if got := FormatShort(tc.ms); got != tc.want {
			t.Fatalf("FormatShort(%v) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(1500); got != "+00:00:01.500" {
		t.Fatalf("unexpected slower delta: %q", got)
	}
	if got := FormatDelta(-250); got != "00:00:00.250" {
		t.Fatalf("unexpected faster delta: %q", got)
	}
	if got := FormatDelta(0); got != "00:00:00.000" {
		t.Fatalf("unexpected zero delta: %q", got)
	}
}

func TestFormatStatsEmpty(t *testing.T) {
	if got := FormatAverage(model.LapStats{}, false); got != EmptyValue {
		t.Fatalf("expected empty average, got %q", got)
	}
	if got := FormatFastest(model.LapStats{}, false); got != EmptyValue {
		t.Fatalf("expected empty fastest, got %q", got)
	}
}

func TestFormatFastest(t *testing.T) {
	st := model.LapStats{Fastest: model.LapRecord{Number: 3, SplitMs: 1234}, AverageMs: 1500.4}
	if got := FormatFastest(st, true); got != "Lap 3: 00:00:01.234" {
		t.Fatalf("unexpected fastest: %q", got)
	}
	if got := FormatAverage(st, true); got != "00:00:01.500" {
		t.Fatalf("unexpected average: %q", got)
	}
}

func TestFilter(t *testing.T) {
	records := []model.LapRecord{
		{Number: 1, SplitMs: 61000, CumulativeMs: 61000},
		{Number: 2, SplitMs: 500, CumulativeMs: 61500},
		{Number: 12, SplitMs: 700, CumulativeMs: 62200},
	}
	if got := Filter(records, ""); len(got) != 3 {
		t.Fatalf("expected all laps for empty term, got %d", len(got))
	}
	got := Filter(records, "2")
	if len(got) != 2 || got[0].Number != 2 || got[1].Number != 12 {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	got = Filter(records, "01:01")
	if len(got) != 1 || got[0].Number != 1 {
		t.Fatalf("expected match on formatted split, got %+v", got)
	}
}
