package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/lapwatch/internal/model"
)

func sampleLaps() []model.LapRecord {
	return []model.LapRecord{
		{Number: 1, SplitMs: 500, CumulativeMs: 500},
		{Number: 2, SplitMs: 200, CumulativeMs: 700},
		{Number: 3, SplitMs: 200, CumulativeMs: 900},
		{Number: 4, SplitMs: 800, CumulativeMs: 1700},
	}
}

func TestBuildLapRowsMarkersAndDeltas(t *testing.T) {
	rows := BuildLapRows(sampleLaps())
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Delta != "" {
		t.Fatalf("first lap should have no delta, got %q", rows[0].Delta)
	}
	if rows[1].Delta != "00:00:00.300" {
		t.Fatalf("unexpected faster delta: %q", rows[1].Delta)
	}
	if rows[3].Delta != "+00:00:00.600" {
		t.Fatalf("unexpected slower delta: %q", rows[3].Delta)
	}
	wantMarkers := []string{"", MarkFastest, MarkFastest, MarkSlowest}
	for i, want := range wantMarkers {
		if rows[i].Marker != want {
			t.Fatalf("row %d marker = %q, want %q", i, rows[i].Marker, want)
		}
	}
}

func TestBuildLapRowsSingleLapIsFastest(t *testing.T) {
	rows := BuildLapRows([]model.LapRecord{{Number: 1, SplitMs: 900, CumulativeMs: 900}})
	if rows[0].Marker != MarkFastest {
		t.Fatalf("single lap should be marked fastest, got %q", rows[0].Marker)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sampleLaps()); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Laps: 4", "Average: 00:00:00.425", "Fastest: Lap 2: 00:00:00.200", "Slowest: Lap 4: 00:00:00.800", "Total: 00:00:01.700"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	if err := RenderLapTable(&buf, nil); err != nil {
		t.Fatalf("RenderLapTable failed: %v", err)
	}
	if strings.Count(buf.String(), "No laps recorded yet.") != 2 {
		t.Fatalf("expected empty messages, got %q", buf.String())
	}
}

func TestRenderLapTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderLapTable(&buf, sampleLaps()); err != nil {
		t.Fatalf("RenderLapTable failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "Lap Time") || !strings.Contains(lines[0], "Total Time") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.HasSuffix(lines[4], MarkSlowest) {
		t.Fatalf("expected slowest marker on last row: %q", lines[4])
	}
}
