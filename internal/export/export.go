// Package export writes lap data as CSV, JSON and PNG chart images.
package export

import (
	"encoding/csv"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/verte-zerg/lapwatch/internal/chart"
	"github.com/verte-zerg/lapwatch/internal/laps"
	"github.com/verte-zerg/lapwatch/internal/model"
	"github.com/verte-zerg/lapwatch/internal/stats"
)

// ErrNoLaps is returned when there is nothing to export.
var ErrNoLaps = errors.New("no laps to export")

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"Lap Number", "Lap Time", "Total Time"}

// CSVFileName returns the default CSV file name for the UTC date of t.
func CSVFileName(t time.Time) string {
	return "stopwatch_laps_" + t.UTC().Format("2006-01-02") + ".csv"
}

// ChartFileName returns the default PNG file name for the UTC date of t.
func ChartFileName(t time.Time) string {
	return "stopwatch-laps-" + t.UTC().Format("2006-01-02") + ".png"
}

// WriteCSV writes one row per lap with HH:MM:SS.mmm times.
func WriteCSV(w io.Writer, records []model.LapRecord) error {
	if len(records) == 0 {
		return ErrNoLaps
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Number),
			stats.FormatTime(r.SplitMs),
			stats.FormatTime(r.CumulativeMs),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write lap %d", r.Number)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush csv")
}

// WriteJSON writes the ledger in its storage encoding.
func WriteJSON(w io.Writer, records []model.LapRecord) error {
	data, err := laps.Encode(records)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "failed to write json")
	}
	return nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "failed to encode png")
}

// WriteChart renders records at width x height and encodes the result as PNG.
func WriteChart(w io.Writer, records []model.LapRecord, width, height int, palette chart.Palette) error {
	if len(records) == 0 {
		return ErrNoLaps
	}
	layout, _ := chart.Compute(records, width, height)
	return WritePNG(w, chart.RenderImage(layout, palette))
}

// WriteFile creates path and hands it to write. The file is written to a
// temporary sibling first and renamed into place on success.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output dir")
	}
	tmp, err := os.CreateTemp(dir, ".lapwatch-export-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return errors.Wrap(err, "failed to set export permissions")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close export")
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "failed to move export into place")
	}
	return nil
}
