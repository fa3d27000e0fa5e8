// Package ui renders errors and notices on the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	ckerrors "github.com/Aman-CERP/checkignore/internal/errors"
)

// Printer writes styled messages to one stream, normally stderr.
// Color is used only when the stream is a terminal and NO_COLOR is unset.
type Printer struct {
	out    io.Writer
	color  bool
	styles Styles
}

// NewPrinter creates a Printer for w with automatic color detection.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterWithColor(w, IsTTY(w) && !DetectNoColor())
}

// NewPrinterWithColor creates a Printer with color forced on or off.
func NewPrinterWithColor(w io.Writer, color bool) *Printer {
	p := &Printer{out: w, color: color, styles: NoColorStyles()}
	if color {
		p.styles = NewStyles(lipgloss.NewRenderer(w))
	}
	return p
}

// Error prints err in the errors.FormatForCLI layout.
func (p *Printer) Error(err error) {
	text := ckerrors.FormatForCLI(err)
	if !p.color {
		_, _ = io.WriteString(p.out, text)
		return
	}

	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "Hint:"):
			line = p.styles.Hint.Render(line)
		case strings.HasPrefix(trimmed, "Code:"):
			line = p.styles.Code.Render(line)
		default:
			line = p.styles.Error.Render(line)
		}
		_, _ = fmt.Fprintln(p.out, line)
	}
}

// Warning prints a one-line warning.
func (p *Printer) Warning(msg string) {
	line := "Warning: " + msg
	if p.color {
		line = p.styles.Warning.Render(line)
	}
	_, _ = fmt.Fprintln(p.out, line)
}

// Notice prints a one-line informational message.
func (p *Printer) Notice(msg string) {
	if p.color {
		msg = p.styles.Label.Render(msg)
	}
	_, _ = fmt.Fprintln(p.out, msg)
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
