// Package output formats classification results for the terminal.
package output

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/Aman-CERP/checkignore/internal/gitignore"
)

// AbsPaths joins each slash-separated relative path onto root and returns
// cleaned, host-native absolute paths in the same order. root is expected to
// be absolute already; AbsPaths performs no I/O.
func AbsPaths(root string, rel []string) []string {
	out := make([]string, len(rel))
	for i, p := range rel {
		out[i] = filepath.Clean(filepath.Join(root, filepath.FromSlash(p)))
	}
	return out
}

// Writer provides formatted output for CLI.
type Writer struct {
	out io.Writer
}

// New creates a new output Writer.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Lines prints one path per line.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Lines(paths []string) {
	for _, p := range paths {
		_, _ = fmt.Fprintln(w.out, p)
	}
}

// Explain prints the verdict for one path in the form
//
//	ignored	.gitignore:3:*.log	app.log
//	allowed	::	main.go
//
// The middle column names the deciding rule; it is "::" when no rule matched.
func (w *Writer) Explain(source string, res gitignore.MatchResult) {
	verdict := "allowed"
	if res.Ignored {
		verdict = "ignored"
	}
	rule := "::"
	if res.Matched {
		rule = fmt.Sprintf("%s:%d:%s", source, res.Line, res.Rule)
	}
	_, _ = fmt.Fprintf(w.out, "%s\t%s\t%s\n", verdict, rule, res.Path)
}

// Status prints a status message with an icon.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}
