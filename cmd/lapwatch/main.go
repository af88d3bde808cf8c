// Package main provides the CLI entrypoint for lapwatch.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/lapwatch/internal/chart"
	"github.com/verte-zerg/lapwatch/internal/config"
	"github.com/verte-zerg/lapwatch/internal/export"
	"github.com/verte-zerg/lapwatch/internal/laps"
	"github.com/verte-zerg/lapwatch/internal/logging"
	"github.com/verte-zerg/lapwatch/internal/model"
	"github.com/verte-zerg/lapwatch/internal/session"
	"github.com/verte-zerg/lapwatch/internal/stats"
	"github.com/verte-zerg/lapwatch/internal/store"
	"github.com/verte-zerg/lapwatch/internal/tui"
)

const (
	defaultTextChartHeight = 16
)

var (
	rootTheme     string
	rootRefreshMs int
	rootLogLevel  string

	lapsChart bool
	lapsWidth int
	lapsColor bool

	exportOut    string
	exportWidth  int
	exportHeight int
	exportTheme  string

	clearYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lapwatch",
		Short:         "Terminal stopwatch with laps and a lap-time chart",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runStopwatchCmd,
	}

	rootCmd.Flags().StringVar(&rootTheme, "theme", config.DefaultTheme, "color theme (dark or light)")
	rootCmd.Flags().IntVar(&rootRefreshMs, "refresh-ms", config.DefaultRefreshMs, "display refresh interval in milliseconds")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLapsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

// loadSettings merges built-in defaults, the config file and flags. Flags the
// user set explicitly win over the file.
func loadSettings(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Default()
	cfg.Theme = rootTheme
	cfg.RefreshInterval = time.Duration(rootRefreshMs) * time.Millisecond
	cfg.LogLevel = rootLogLevel

	applyStringConfig(cmd, "theme", &cfg.Theme, fileCfg.Stopwatch.Theme)
	refreshMs := rootRefreshMs
	applyIntConfig(cmd, "refresh-ms", &refreshMs, fileCfg.Stopwatch.RefreshMs)
	cfg.RefreshInterval = time.Duration(refreshMs) * time.Millisecond
	applyIntConfig(cmd, "width", &cfg.ChartWidth, fileCfg.Chart.Width)
	applyIntConfig(cmd, "height", &cfg.ChartHeight, fileCfg.Chart.Height)
	applyStringConfig(cmd, "log-level", &cfg.LogLevel, fileCfg.Log.Level)

	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return model.Config{}, fmt.Errorf("--log-level: %w", err)
	}
	return cfg, nil
}

func runStopwatchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(config.DefaultLogPath())
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()
	logger, err := logging.New(cfg.LogLevel, logFile)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	records, err := st.LoadLaps(ctx)
	if err != nil {
		if !errors.Is(err, laps.ErrCorruptLedger) {
			return fmt.Errorf("failed to load laps: %w", err)
		}
		logger.WithFields(log.Fields{"module": "main", "err": err}).Warn("discarding stored laps")
		logErrf("stored laps are corrupt and were ignored: %v\n", err)
		records = nil
	}

	if !cmd.Flags().Changed("theme") {
		stored, err := st.Theme(ctx)
		if err != nil {
			logger.WithFields(log.Fields{"module": "main", "err": err}).Warn("failed to read stored theme")
		} else if chart.ValidTheme(stored) {
			cfg.Theme = stored
		}
	}

	ctl, err := session.New(session.Options{
		Laps:     records,
		Theme:    cfg.Theme,
		Pipeline: chart.NewPipeline(cfg.ChartWidth, cfg.ChartHeight, chart.PaletteFor(cfg.Theme)),
		Persist:  st,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	exportDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve export directory: %w", err)
	}

	logger.WithFields(log.Fields{"module": "main", "laps": len(records), "theme": cfg.Theme}).Info("starting")
	ui := tui.NewModel(cfg, ctl, logger, exportDir)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "laps",
		Short: "Print recorded laps and statistics",
		Args:  cobra.NoArgs,
		RunE:  runLapsCmd,
	}
	cmd.Flags().BoolVar(&lapsChart, "chart", false, "also draw the lap-time chart")
	cmd.Flags().IntVar(&lapsWidth, "width", 0, "chart width in columns (default: terminal width)")
	cmd.Flags().BoolVar(&lapsColor, "color", false, "force colored chart output")
	return cmd
}

func runLapsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	records, err := loadLaps()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, records); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(records) == 0 {
		return nil
	}
	if err := stats.RenderLapTable(out, records); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !lapsChart {
		return nil
	}
	width := lapsWidth
	if width <= 0 {
		width = chart.TerminalWidth()
	}
	palette := chart.PaletteFor(storedTheme(cfg.Theme))
	if err := chart.WriteText(out, records, width, defaultTextChartHeight, palette, lapsColor); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export laps to a file",
	}
	cmd.PersistentFlags().StringVarP(&exportOut, "output", "o", "", "output path (default: dated file in the current directory, - for stdout)")

	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Export laps as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, export.CSVFileName(time.Now()), export.WriteCSV)
		},
	}
	jsonCmd := &cobra.Command{
		Use:   "json",
		Short: "Export laps as JSON (readable by import)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name := strings.TrimSuffix(export.CSVFileName(time.Now()), ".csv") + ".json"
			return runExport(cmd, name, export.WriteJSON)
		},
	}
	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Export the lap-time chart as PNG",
		Args:  cobra.NoArgs,
		RunE:  runExportChartCmd,
	}
	chartCmd.Flags().IntVar(&exportWidth, "width", config.DefaultChartWidth, "image width in pixels")
	chartCmd.Flags().IntVar(&exportHeight, "height", config.DefaultChartHeight, "image height in pixels")
	chartCmd.Flags().StringVar(&exportTheme, "theme", "", "color theme (default: stored or configured theme)")

	cmd.AddCommand(csvCmd, jsonCmd, chartCmd)
	return cmd
}

func runExportChartCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	theme := exportTheme
	if theme == "" {
		theme = storedTheme(cfg.Theme)
	}
	if !chart.ValidTheme(theme) {
		return fmt.Errorf("--theme must be dark or light")
	}
	palette := chart.PaletteFor(theme)
	width, height := cfg.ChartWidth, cfg.ChartHeight
	if cmd.Flags().Changed("width") {
		width = exportWidth
	}
	if cmd.Flags().Changed("height") {
		height = exportHeight
	}
	if width < 100 || height < 100 {
		return fmt.Errorf("--width and --height must be >= 100")
	}
	return runExport(cmd, export.ChartFileName(time.Now()), func(w io.Writer, records []model.LapRecord) error {
		return export.WriteChart(w, records, width, height, palette)
	})
}

func runExport(cmd *cobra.Command, defaultName string, write func(io.Writer, []model.LapRecord) error) error {
	records, err := loadLaps()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return export.ErrNoLaps
	}
	if exportOut == "-" {
		return write(cmd.OutOrStdout(), records)
	}
	path := exportOut
	if path == "" {
		path = defaultName
	}
	if err := export.WriteFile(path, func(w io.Writer) error { return write(w, records) }); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	logErrf("Wrote %s (%d laps)\n", path, len(records))
	return nil
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded laps",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
	cmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	records, err := st.LoadLaps(ctx)
	if err != nil && !errors.Is(err, laps.ErrCorruptLedger) {
		return fmt.Errorf("failed to load laps: %w", err)
	}
	if err == nil && len(records) == 0 {
		logErrln("No laps to clear.")
		return nil
	}
	if !clearYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Are you sure you want to clear all lap records?")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Aborted.")
			return nil
		}
	}
	if err := st.ClearLaps(ctx); err != nil {
		return fmt.Errorf("failed to clear laps: %w", err)
	}
	logErrln("Laps cleared.")
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace recorded laps with a JSON lap file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	records, err := laps.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	if err := st.SaveLaps(context.Background(), records); err != nil {
		return fmt.Errorf("failed to save laps: %w", err)
	}
	logErrf("Imported %d laps\n", len(records))
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func loadLaps() ([]model.LapRecord, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer closeStore(st)
	records, err := st.LoadLaps(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load laps: %w", err)
	}
	return records, nil
}

func storedTheme(fallback string) string {
	st, err := openStore()
	if err != nil {
		return fallback
	}
	defer closeStore(st)
	theme, err := st.Theme(context.Background())
	if err != nil || theme == "" {
		return fallback
	}
	return theme
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N] ", prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# lapwatch configuration
# Uncomment a value to enable it. CLI flags override config values.

[stopwatch]
# refresh-ms = %d         # Display refresh interval (1-1000)
# theme = %q          # dark or light; the TUI remembers the last toggle

[chart]
# width = %d             # PNG export width in pixels
# height = %d            # PNG export height in pixels

[log]
# level = %q          # debug, info, warn or error
`,
		config.DefaultRefreshMs,
		config.DefaultTheme,
		config.DefaultChartWidth,
		config.DefaultChartHeight,
		config.DefaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
