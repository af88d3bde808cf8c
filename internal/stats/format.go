// Package stats contains lap statistics formatting and reporting.
package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/lapwatch/internal/model"
)

// EmptyValue is shown in place of a statistic when no laps exist.
const EmptyValue = "--:--:--"

// FormatTime renders milliseconds as HH:MM:SS.mmm. Negative input renders as zero.
func FormatTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// FormatShort renders milliseconds as M:SS for chart labels. Hours wrap.
func FormatShort(ms float64) string {
	if ms < 0 || math.IsNaN(ms) {
		ms = 0
	}
	v := int64(ms)
	minutes := (v % 3600000) / 60000
	seconds := (v % 60000) / 1000
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatDelta renders a lap-to-lap difference with a leading '+' when slower.
func FormatDelta(ms int64) string {
	if ms > 0 {
		return "+" + FormatTime(ms)
	}
	return FormatTime(-ms)
}

// FormatAverage renders an average split, or EmptyValue when no laps exist.
func FormatAverage(st model.LapStats, ok bool) string {
	if !ok {
		return EmptyValue
	}
	return FormatTime(int64(math.Round(st.AverageMs)))
}

// FormatFastest renders "Lap N: HH:MM:SS.mmm", or EmptyValue when no laps exist.
func FormatFastest(st model.LapStats, ok bool) string {
	if !ok {
		return EmptyValue
	}
	return fmt.Sprintf("Lap %d: %s", st.Fastest.Number, FormatTime(st.Fastest.SplitMs))
}

// Filter keeps laps whose number or formatted split contains term.
// An empty term keeps everything.
func Filter(records []model.LapRecord, term string) []model.LapRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]model.LapRecord(nil), records...)
	}
	out := make([]model.LapRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strconv.Itoa(r.Number), term) || strings.Contains(FormatTime(r.SplitMs), term) {
			out = append(out, r)
		}
	}
	return out
}
