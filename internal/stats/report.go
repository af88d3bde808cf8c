package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/lapwatch/internal/laps"
	"github.com/verte-zerg/lapwatch/internal/model"
)

// Lap markers used in tables and lists.
const (
	MarkFastest = "fastest"
	MarkSlowest = "slowest"
)

// LapRow is a display-ready lap with its delta from the previous lap.
type LapRow struct {
	Lap    model.LapRecord
	Split  string
	Total  string
	Delta  string
	Marker string
}

// BuildLapRows formats laps for display in recording order. Marker follows the
// chart's color precedence: a split equal to the fastest wins over slowest.
func BuildLapRows(records []model.LapRecord) []LapRow {
	st, ok := laps.ComputeStats(records)
	rows := make([]LapRow, 0, len(records))
	for i, r := range records {
		row := LapRow{
			Lap:   r,
			Split: FormatTime(r.SplitMs),
			Total: FormatTime(r.CumulativeMs),
		}
		if d, ok := laps.Delta(records, i); ok {
			row.Delta = FormatDelta(d)
		}
		if ok {
			switch r.SplitMs {
			case st.Fastest.SplitMs:
				row.Marker = MarkFastest
			case st.Slowest.SplitMs:
				row.Marker = MarkSlowest
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderSummary prints lap count, average, fastest and slowest laps.
func RenderSummary(w io.Writer, records []model.LapRecord) error {
	st, ok := laps.ComputeStats(records)
	if !ok {
		_, err := fmt.Fprintln(w, "No laps recorded yet.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Laps: %d", st.Count),
		fmt.Sprintf("Total: %s", FormatTime(records[len(records)-1].CumulativeMs)),
		fmt.Sprintf("Average: %s", FormatAverage(st, ok)),
		fmt.Sprintf("Fastest: %s", FormatFastest(st, ok)),
		fmt.Sprintf("Slowest: Lap %d: %s", st.Slowest.Number, FormatTime(st.Slowest.SplitMs)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderLapTable prints one row per lap with split, total and delta columns.
func RenderLapTable(w io.Writer, records []model.LapRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No laps recorded yet.")
		return err
	}
	headers := []string{"Lap", "Lap Time", "Total Time", "Delta", ""}
	rows := BuildLapRows(records)
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			fmt.Sprintf("#%d", r.Lap.Number),
			r.Split,
			r.Total,
			r.Delta,
			r.Marker,
		})
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
