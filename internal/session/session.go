// Package session coordinates the stopwatch, the lap ledger, the chart
// pipeline and persistence behind the operations the UI and CLI invoke.
package session

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/verte-zerg/lapwatch/internal/chart"
	"github.com/verte-zerg/lapwatch/internal/laps"
	"github.com/verte-zerg/lapwatch/internal/logging"
	"github.com/verte-zerg/lapwatch/internal/model"
	"github.com/verte-zerg/lapwatch/internal/stopwatch"
)

// Persister stores the ledger and UI settings. *store.Store satisfies it.
type Persister interface {
	SaveLaps(ctx context.Context, records []model.LapRecord) error
	ClearLaps(ctx context.Context) error
	SaveTheme(ctx context.Context, theme string) error
}

// Options configures a Controller. Zero values select the real clock, no
// persistence, a discarding logger and a default-sized chart.
type Options struct {
	Clock    clockwork.Clock
	Laps     []model.LapRecord
	Theme    string
	Pipeline *chart.Pipeline
	Persist  Persister
	Logger   log.FieldLogger
}

// Controller owns one stopwatch run and its laps. It is not safe for
// concurrent use; the UI drives it from a single goroutine.
type Controller struct {
	timer   *stopwatch.Timer
	ledger  *laps.Ledger
	chart   *chart.Pipeline
	persist Persister
	log     log.FieldLogger
	theme   string
}

// New builds a controller. Restored laps are validated and rejected with an
// error wrapping laps.ErrCorruptLedger when inconsistent.
func New(opts Options) (*Controller, error) {
	ledger, err := laps.Restore(opts.Laps)
	if err != nil {
		return nil, err
	}
	theme := chart.PaletteFor(opts.Theme).Name
	pipeline := opts.Pipeline
	if pipeline == nil {
		pipeline = chart.NewPipeline(800, 400, chart.PaletteFor(theme))
	} else {
		pipeline.SetPalette(chart.PaletteFor(theme))
	}
	c := &Controller{
		timer:   stopwatch.New(opts.Clock),
		ledger:  ledger,
		chart:   pipeline,
		persist: opts.Persist,
		log:     logging.Module(opts.Logger, "session"),
		theme:   theme,
	}
	if ledger.Len() > 0 {
		c.log.WithField("laps", ledger.Len()).Info("restored laps")
	}
	c.refreshChart()
	return c, nil
}

// Start begins or resumes timing. With laps already on record the timer
// resumes no earlier than the last lap's cumulative time. It reports false
// when already running.
func (c *Controller) Start() bool {
	if last, ok := c.ledger.Last(); ok {
		c.timer.EnsureAtLeast(last.CumulativeMs)
	}
	if !c.timer.Start() {
		return false
	}
	c.log.WithField("elapsedMs", c.timer.Elapsed()).Debug("started")
	return true
}

// Pause stops timing, keeping elapsed time. It reports false when not running.
func (c *Controller) Pause() bool {
	if !c.timer.Pause() {
		return false
	}
	c.log.WithField("elapsedMs", c.timer.Elapsed()).Debug("paused")
	return true
}

// Toggle starts a stopped timer or pauses a running one and reports whether
// the timer is running afterwards.
func (c *Controller) Toggle() bool {
	if c.timer.Running() {
		c.Pause()
		return false
	}
	c.Start()
	return true
}

// Reset stops the timer, zeroes elapsed time and clears every lap.
func (c *Controller) Reset(ctx context.Context) error {
	c.timer.Reset()
	c.ledger.Clear()
	c.refreshChart()
	c.log.Info("reset")
	if c.persist == nil {
		return nil
	}
	return errors.Wrap(c.persist.ClearLaps(ctx), "failed to clear stored laps")
}

// Lap records a lap at the current elapsed time. It reports false when no
// lap is applicable (never started and nothing elapsed). The lap is kept
// even if persisting it fails.
func (c *Controller) Lap(ctx context.Context) (model.LapRecord, bool, error) {
	clamps := c.ledger.ClampCount()
	rec, ok := c.ledger.Record(c.timer.Elapsed(), c.timer.Running())
	if !ok {
		return model.LapRecord{}, false, nil
	}
	fields := log.Fields{"lap": rec.Number, "splitMs": rec.SplitMs, "cumulativeMs": rec.CumulativeMs}
	if c.ledger.ClampCount() > clamps {
		c.log.WithFields(fields).Warn("elapsed time went backwards; lap clamped")
	} else {
		c.log.WithFields(fields).Debug("lap recorded")
	}
	c.refreshChart()
	return rec, true, c.save(ctx)
}

// Clear removes every lap without touching the timer.
func (c *Controller) Clear(ctx context.Context) error {
	c.ledger.Clear()
	c.refreshChart()
	c.log.Info("laps cleared")
	if c.persist == nil {
		return nil
	}
	return errors.Wrap(c.persist.ClearLaps(ctx), "failed to clear stored laps")
}

// Import replaces the ledger with records after validating them.
func (c *Controller) Import(ctx context.Context, records []model.LapRecord) error {
	ledger, err := laps.Restore(records)
	if err != nil {
		return err
	}
	c.ledger = ledger
	if last, ok := ledger.Last(); ok {
		c.timer.EnsureAtLeast(last.CumulativeMs)
	}
	c.refreshChart()
	c.log.WithField("laps", ledger.Len()).Info("laps imported")
	return c.save(ctx)
}

// Elapsed returns the current elapsed milliseconds.
func (c *Controller) Elapsed() int64 {
	return c.timer.Elapsed()
}

// Running reports whether the timer is running.
func (c *Controller) Running() bool {
	return c.timer.Running()
}

// Laps returns a copy of the recorded laps.
func (c *Controller) Laps() []model.LapRecord {
	return c.ledger.All()
}

// Stats returns lap statistics, reporting false when there are no laps.
func (c *Controller) Stats() (model.LapStats, bool) {
	return c.ledger.Stats()
}

// ClampCount reports how many laps were clamped because the clock stepped back.
func (c *Controller) ClampCount() int {
	return c.ledger.ClampCount()
}

// Chart returns the chart pipeline.
func (c *Controller) Chart() *chart.Pipeline {
	return c.chart
}

// OpenChart draws the latest laps and freezes the chart while it is presented.
func (c *Controller) OpenChart() {
	c.refreshChart()
	c.chart.Suspend()
}

// CloseChart unfreezes the chart and draws any laps recorded meanwhile.
func (c *Controller) CloseChart() {
	if c.chart.Resume() {
		c.chart.Flush()
	}
}

// Theme returns the active theme name.
func (c *Controller) Theme() string {
	return c.theme
}

// SetTheme switches the chart palette and persists the choice.
func (c *Controller) SetTheme(ctx context.Context, theme string) error {
	if !chart.ValidTheme(theme) {
		return errors.Errorf("unknown theme %q", theme)
	}
	c.theme = chart.PaletteFor(theme).Name
	c.chart.SetPalette(chart.PaletteFor(c.theme))
	c.chart.Flush()
	c.log.WithField("theme", c.theme).Debug("theme changed")
	if c.persist == nil {
		return nil
	}
	return errors.Wrap(c.persist.SaveTheme(ctx, c.theme), "failed to save theme")
}

// ToggleTheme cycles the theme and returns the new name.
func (c *Controller) ToggleTheme(ctx context.Context) (string, error) {
	next := chart.NextTheme(c.theme)
	return next, c.SetTheme(ctx, next)
}

func (c *Controller) refreshChart() {
	if !c.chart.Refresh(c.ledger.All()) {
		c.log.Debug("chart refresh deferred while suspended")
	}
}

func (c *Controller) save(ctx context.Context) error {
	if c.persist == nil {
		return nil
	}
	return errors.Wrap(c.persist.SaveLaps(ctx, c.ledger.All()), "failed to save laps")
}
