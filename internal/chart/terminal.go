package chart

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/lapwatch/internal/model"
)

const terminalWidthBackup = 80

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether w is a terminal that accepts color.
// NO_COLOR always wins over force.
func ShouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// WriteText renders records as a text chart of width x height cells.
func WriteText(w io.Writer, records []model.LapRecord, width, height int, palette Palette, forceColor bool) error {
	layout, _ := ComputeText(records, width, height)
	_, err := fmt.Fprintln(w, RenderText(layout, palette, ShouldUseColor(w, forceColor)))
	return err
}
