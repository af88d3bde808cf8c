// Package laps holds the ordered, append-only lap ledger and its statistics.
package laps

import (
	"github.com/pkg/errors"

	"github.com/verte-zerg/lapwatch/internal/model"
)

// ErrCorruptLedger is returned when restored records violate ledger invariants.
var ErrCorruptLedger = errors.New("corrupt lap ledger")

// Ledger is an ordered sequence of laps in sequence-number order.
//
// Cumulative times never decrease and splits are never negative. An elapsed
// reading lower than the last cumulative time (clock adjustment, repeated
// calls within one tick) is clamped: the lap gets the previous cumulative time
// and a zero split, and the clamp counter is incremented.
type Ledger struct {
	laps   []model.LapRecord
	clamps int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Restore rebuilds a ledger from previously recorded laps after validating
// sequence numbers, split/cumulative consistency and ordering.
func Restore(records []model.LapRecord) (*Ledger, error) {
	var prevCumulative int64
	for i, r := range records {
		if r.Number != i+1 {
			return nil, errors.Wrapf(ErrCorruptLedger, "lap %d has sequence number %d", i+1, r.Number)
		}
		if r.SplitMs < 0 || r.CumulativeMs < 0 {
			return nil, errors.Wrapf(ErrCorruptLedger, "lap %d has negative duration", r.Number)
		}
		if r.CumulativeMs < prevCumulative {
			return nil, errors.Wrapf(ErrCorruptLedger, "lap %d cumulative time decreases", r.Number)
		}
		if r.SplitMs != r.CumulativeMs-prevCumulative {
			return nil, errors.Wrapf(ErrCorruptLedger, "lap %d split does not match cumulative delta", r.Number)
		}
		prevCumulative = r.CumulativeMs
	}
	l := New()
	l.laps = append([]model.LapRecord(nil), records...)
	return l, nil
}

// Record appends a lap at the given elapsed time. It reports false when no lap
// is applicable: the timer is not running and no time has elapsed.
func (l *Ledger) Record(elapsedMs int64, running bool) (model.LapRecord, bool) {
	if !running && elapsedMs <= 0 {
		return model.LapRecord{}, false
	}
	var last int64
	if n := len(l.laps); n > 0 {
		last = l.laps[n-1].CumulativeMs
	}
	cumulative := elapsedMs
	if cumulative < last {
		cumulative = last
		l.clamps++
	}
	rec := model.LapRecord{
		Number:       len(l.laps) + 1,
		SplitMs:      cumulative - last,
		CumulativeMs: cumulative,
	}
	l.laps = append(l.laps, rec)
	return rec, true
}

// Clear empties the ledger. Confirmation is the caller's concern.
func (l *Ledger) Clear() {
	l.laps = nil
}

// All returns a copy of the laps in recording order.
func (l *Ledger) All() []model.LapRecord {
	return append([]model.LapRecord(nil), l.laps...)
}

// Len returns the number of recorded laps.
func (l *Ledger) Len() int {
	return len(l.laps)
}

// Last returns the most recent lap.
func (l *Ledger) Last() (model.LapRecord, bool) {
	if len(l.laps) == 0 {
		return model.LapRecord{}, false
	}
	return l.laps[len(l.laps)-1], true
}

// Stats computes aggregate statistics. It reports false for an empty ledger.
func (l *Ledger) Stats() (model.LapStats, bool) {
	return ComputeStats(l.laps)
}

// ClampCount returns how many recorded laps had their elapsed reading clamped.
func (l *Ledger) ClampCount() int {
	return l.clamps
}

// ComputeStats derives average, fastest and slowest laps. Ties resolve to the
// earliest lap. It reports false when records is empty.
func ComputeStats(records []model.LapRecord) (model.LapStats, bool) {
	if len(records) == 0 {
		return model.LapStats{}, false
	}
	st := model.LapStats{
		Count:   len(records),
		Fastest: records[0],
		Slowest: records[0],
	}
	var sum int64
	for _, r := range records {
		sum += r.SplitMs
		if r.SplitMs < st.Fastest.SplitMs {
			st.Fastest = r
		}
		if r.SplitMs > st.Slowest.SplitMs {
			st.Slowest = r
		}
	}
	st.TotalMs = sum
	st.AverageMs = float64(sum) / float64(len(records))
	return st, true
}

// Delta returns the split difference between lap i and the lap before it.
// It reports false for the first lap or an out-of-range index.
func Delta(records []model.LapRecord, i int) (int64, bool) {
	if i <= 0 || i >= len(records) {
		return 0, false
	}
	return records[i].SplitMs - records[i-1].SplitMs, true
}
