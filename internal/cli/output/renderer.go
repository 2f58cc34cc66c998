// Package output renders extraction results: the columns CSV, JSON,
// and a human-readable summary table.
package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// OutputMode determines how results are rendered.
type OutputMode string

const (
	ModeAuto  OutputMode = "auto"
	ModeTable OutputMode = "table"
	ModeCSV   OutputMode = "csv"
	ModeJSON  OutputMode = "json"
)

// Mode parses a mode string, defaulting to auto.
func Mode(s string) OutputMode {
	switch OutputMode(s) {
	case ModeTable, ModeCSV, ModeJSON:
		return OutputMode(s)
	default:
		return ModeAuto
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
}

// NewRenderer creates a renderer, detecting TTY state from stdout.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
// Tests use this to pin down auto-mode behavior.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	return &Renderer{out: out, errOut: errOut, mode: mode, isTTY: isTTY}
}

// Mode resolves the effective output mode: auto becomes table on a
// terminal and csv when piped.
func (r *Renderer) Mode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeTable
	}
	return ModeCSV
}

// Out returns the destination writer.
func (r *Renderer) Out() io.Writer { return r.out }

// ErrOut returns the error writer.
func (r *Renderer) ErrOut() io.Writer { return r.errOut }
