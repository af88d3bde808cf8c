package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Lap", "Split", "Note"}
	rows := [][]string{
		{"#1", "00:00:01.000", "fastest"},
		{"#10", "00:01:00.000"},
	}
	rightAlign := map[int]bool{0: true, 1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Lap         Split  Note" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != " #1  00:00:01.000  fastest" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "#10  00:01:00.000" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil lines, got %v", lines)
	}
}
