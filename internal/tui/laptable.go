package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/lapwatch/internal/model"
	"github.com/verte-zerg/lapwatch/internal/stats"
)

func lapColumns() []table.Column {
	return []table.Column{
		{Title: "Lap", Width: 5},
		{Title: "Lap Time", Width: 13},
		{Title: "Total Time", Width: 13},
		{Title: "Delta", Width: 14},
		{Title: "", Width: 8},
	}
}

// lapTableRows lists laps newest first. Deltas and markers are computed over
// all laps; term only hides rows.
func lapTableRows(records []model.LapRecord, term string) []table.Row {
	keep := map[int]struct{}{}
	for _, r := range stats.Filter(records, term) {
		keep[r.Number] = struct{}{}
	}
	rows := stats.BuildLapRows(records)
	out := make([]table.Row, 0, len(keep))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if _, ok := keep[row.Lap.Number]; !ok {
			continue
		}
		out = append(out, table.Row{
			fmt.Sprintf("#%d", row.Lap.Number),
			row.Split,
			row.Total,
			row.Delta,
			row.Marker,
		})
	}
	return out
}

func newLapTable() table.Model {
	t := table.New(
		table.WithColumns(lapColumns()),
		table.WithHeight(5),
		table.WithFocused(true),
	)
	t.SetStyles(lapTableStyles())
	return t
}

func lapTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
