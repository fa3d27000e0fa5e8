// Package logging configures log/slog for checkignore.
//
// By default only warnings and errors are written, as text, to stderr. The
// --debug flag adds debug-level JSON records to a rotating file under
// ~/.checkignore/logs/. Standard output is reserved for results.
package logging
