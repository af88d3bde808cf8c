package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg struct {
	gen int
	at  time.Time
}

// ticker schedules the periodic display refresh. Each Start opens a new
// generation so that ticks already in flight from an earlier run are dropped
// instead of doubling the refresh rate.
type ticker struct {
	interval time.Duration
	gen      int
	active   bool
}

func newTicker(interval time.Duration) *ticker {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	return &ticker{interval: interval}
}

// Start begins ticking. It returns nil when already active.
func (t *ticker) Start() tea.Cmd {
	if t.active {
		return nil
	}
	t.active = true
	t.gen++
	return t.schedule()
}

// Stop ends ticking. Stopping an inactive ticker is a no-op.
func (t *ticker) Stop() {
	t.active = false
}

// Active reports whether ticks are being scheduled.
func (t *ticker) Active() bool {
	return t.active
}

// Handle reschedules after a tick of the current generation and reports
// whether the tick should trigger a redraw.
func (t *ticker) Handle(msg tickMsg) (tea.Cmd, bool) {
	if !t.active || msg.gen != t.gen {
		return nil, false
	}
	return t.schedule(), true
}

func (t *ticker) schedule() tea.Cmd {
	gen := t.gen
	return tea.Tick(t.interval, func(at time.Time) tea.Msg {
		return tickMsg{gen: gen, at: at}
	})
}
