// Package tui provides the Bubble Tea stopwatch interface.
package tui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/verte-zerg/lapwatch/internal/export"
	"github.com/verte-zerg/lapwatch/internal/logging"
	"github.com/verte-zerg/lapwatch/internal/model"
	"github.com/verte-zerg/lapwatch/internal/session"
	"github.com/verte-zerg/lapwatch/internal/stats"
)

type mode int

const (
	modeMain mode = iota
	modeChart
	modeConfirm
)

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmClear
	confirmExport
)

// Model implements the Bubble Tea stopwatch UI.
type Model struct {
	ctl       *session.Controller
	log       log.FieldLogger
	exportDir string
	now       func() time.Time

	ticker *ticker
	help   help.Model
	table  table.Model
	search textinput.Model

	mode      mode
	searching bool
	confirm   confirmAction

	width  int
	height int

	status string
	errMsg string
}

// NewModel constructs the stopwatch UI around a session controller.
// Exports are written to exportDir.
func NewModel(cfg model.Config, ctl *session.Controller, logger log.FieldLogger, exportDir string) *Model {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "lap number or time"
	search.CharLimit = 32

	m := &Model{
		ctl:       ctl,
		log:       logging.Module(logger, "tui"),
		exportDir: exportDir,
		now:       time.Now,
		ticker:    newTicker(cfg.RefreshInterval),
		help:      help.New(),
		table:     newLapTable(),
		search:    search,
	}
	m.refreshTable()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.ctl.Running() {
		return m.ticker.Start()
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tickMsg:
		cmd, _ := m.ticker.Handle(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.ticker.Stop()
			return m, tea.Quit
		}
		switch m.mode {
		case modeChart:
			return m.updateChart(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m *Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	m.errMsg = ""
	switch {
	case key.Matches(msg, keys.Quit):
		m.ticker.Stop()
		return m, tea.Quit
	case key.Matches(msg, keys.Toggle):
		if m.ctl.Toggle() {
			m.status = "Running"
			return m, m.ticker.Start()
		}
		m.ticker.Stop()
		m.status = "Paused"
		return m, nil
	case key.Matches(msg, keys.Lap):
		rec, ok, err := m.ctl.Lap(ctx)
		m.reportErr("save lap", err)
		if ok {
			m.status = fmt.Sprintf("Lap %d: %s", rec.Number, stats.FormatTime(rec.SplitMs))
			m.refreshTable()
		}
		return m, nil
	case key.Matches(msg, keys.Reset):
		m.ticker.Stop()
		m.reportErr("reset", m.ctl.Reset(ctx))
		m.status = "Reset"
		m.refreshTable()
		return m, nil
	case key.Matches(msg, keys.Chart):
		m.ctl.OpenChart()
		m.mode = modeChart
		return m, nil
	case key.Matches(msg, keys.Export):
		if len(m.ctl.Laps()) == 0 {
			m.status = "There are no lap records to export."
			return m, nil
		}
		m.confirm = confirmExport
		m.mode = modeConfirm
		return m, nil
	case key.Matches(msg, keys.Image):
		m.exportChart()
		return m, nil
	case key.Matches(msg, keys.Clear):
		if len(m.ctl.Laps()) == 0 {
			return m, nil
		}
		m.confirm = confirmClear
		m.mode = modeConfirm
		return m, nil
	case key.Matches(msg, keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, keys.Theme):
		theme, err := m.ctl.ToggleTheme(ctx)
		m.reportErr("save theme", err)
		m.status = "Theme: " + theme
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.refreshTable()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refreshTable()
	return m, cmd
}

func (m *Model) updateChart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Close), key.Matches(msg, keys.Chart), key.Matches(msg, keys.Quit):
		m.ctl.CloseChart()
		m.mode = modeMain
		return m, nil
	case key.Matches(msg, keys.Toggle):
		if m.ctl.Toggle() {
			return m, m.ticker.Start()
		}
		m.ticker.Stop()
		return m, nil
	case key.Matches(msg, keys.Lap):
		_, ok, err := m.ctl.Lap(context.Background())
		m.reportErr("save lap", err)
		if ok {
			m.refreshTable()
		}
		return m, nil
	case key.Matches(msg, keys.Image):
		m.exportChart()
		return m, nil
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Confirm):
		action := m.confirm
		m.confirm = confirmNone
		m.mode = modeMain
		switch action {
		case confirmClear:
			m.reportErr("clear laps", m.ctl.Clear(context.Background()))
			m.status = "Laps cleared"
			m.refreshTable()
		case confirmExport:
			m.exportCSV()
		}
		return m, nil
	case key.Matches(msg, keys.Close), msg.String() == "n":
		m.confirm = confirmNone
		m.mode = modeMain
		return m, nil
	}
	return m, nil
}

func (m *Model) exportCSV() {
	records := m.ctl.Laps()
	path := filepath.Join(m.exportDir, export.CSVFileName(m.now()))
	err := export.WriteFile(path, func(w io.Writer) error {
		return export.WriteCSV(w, records)
	})
	if err != nil {
		m.reportErr("export csv", err)
		return
	}
	m.log.WithFields(log.Fields{"path": path, "laps": len(records)}).Info("exported csv")
	m.status = "Saved " + path
}

// exportChart saves the chart as last drawn, so an open modal exports its
// frozen view.
func (m *Model) exportChart() {
	records := m.ctl.Laps()
	if len(records) == 0 {
		m.status = "There are no lap records to export."
		return
	}
	path := filepath.Join(m.exportDir, export.ChartFileName(m.now()))
	img := m.ctl.Chart().Image()
	err := export.WriteFile(path, func(w io.Writer) error {
		return export.WritePNG(w, img)
	})
	if err != nil {
		m.reportErr("export chart", err)
		return
	}
	m.log.WithFields(log.Fields{"path": path, "laps": len(records)}).Info("exported chart")
	m.status = "Saved " + path
}

func (m *Model) reportErr(action string, err error) {
	if err == nil {
		return
	}
	m.log.WithField("err", err).Errorf("failed to %s", action)
	m.errMsg = fmt.Sprintf("failed to %s: %v", action, err)
}

func (m *Model) refreshTable() {
	m.table.SetRows(lapTableRows(m.ctl.Laps(), m.search.Value()))
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.help.Width = m.width
	m.table.SetWidth(minInt(m.width, 60))
	m.table.SetHeight(maxInt(3, m.height-m.fixedHeight()))

	chartHeight := maxInt(8, m.height-8)
	m.ctl.Chart().SetTextSize(modalInnerWidth(m.width), chartHeight, true)
	m.ctl.Chart().Flush()
}

func (m *Model) fixedHeight() int {
	return lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderFooter()) + 1
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	switch m.mode {
	case modeChart:
		return fitLines(m.renderChartModal(), m.width, m.height)
	case modeConfirm:
		return fitLines(m.renderConfirmModal(), m.width, m.height)
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := maxInt(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) renderHeader() string {
	elapsed := timeStyle.Render(stats.FormatTime(m.ctl.Elapsed()))
	state := "Stopped"
	if m.ctl.Running() {
		state = "Running"
	} else if m.ctl.Elapsed() > 0 {
		state = "Paused"
	}
	st, ok := m.ctl.Stats()
	count := "0"
	if ok {
		count = fmt.Sprintf("%d", st.Count)
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Laps", count),
		metricCard("Average", stats.FormatAverage(st, ok)),
		metricCard("Fastest", stats.FormatFastest(st, ok)),
	)
	block := lipgloss.JoinVertical(lipgloss.Center, elapsed, statusStyle.Render(state), cards)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, block)
}

func (m *Model) renderBody() string {
	var parts []string
	if m.searching || m.search.Value() != "" {
		parts = append(parts, m.search.View())
	}
	if len(m.ctl.Laps()) == 0 {
		parts = append(parts, statusStyle.Render("No laps recorded yet."))
	} else {
		parts = append(parts, tableMutedStyle.Render(m.table.View()))
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, strings.Join(parts, "\n"))
}

func (m *Model) renderFooter() string {
	lines := []string{footerStyle.Render(m.help.View(keys))}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	} else if m.status != "" {
		lines = append(lines, footerStyle.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderChartModal() string {
	body := []string{
		m.ctl.Chart().Text(),
		"",
		footerStyle.Render("esc/g: close  x: save png  (chart is frozen while open)"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderConfirmModal() string {
	title, prompt := "", ""
	switch m.confirm {
	case confirmClear:
		title = "Clear All Laps"
		prompt = "Are you sure you want to clear all lap records?"
	case confirmExport:
		title = "Export Laps"
		prompt = fmt.Sprintf("Export %d lap records as CSV?", len(m.ctl.Laps()))
	}
	body := []string{
		cardValueStyle.Render(title),
		prompt,
		"",
		footerStyle.Render("enter/y: confirm  esc/n: cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
