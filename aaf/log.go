package aaf

import (
	"fmt"
	"io"
)

// Logger is the logging sink collaborator described in spec.md section 6.
// The core never reaches for a global logger; callers inject one.
type Logger interface {
	Logf(level int, format string, args ...interface{})
}

// Log levels, lowest first.
const (
	LogDebug = 0
	LogWarn  = 1
	LogError = 2
)

// NopLogger discards everything. It is the default when no Logger is
// supplied.
type NopLogger struct{}

func (NopLogger) Logf(level int, format string, args ...interface{}) {}

// WriterLogger writes formatted lines to an io.Writer, filtering by a
// minimum level. It mirrors the injected Logfile/DEBUG pair the teacher
// package used for its own diagnostics.
type WriterLogger struct {
	W        io.Writer
	MinLevel int
}

func (l *WriterLogger) Logf(level int, format string, args ...interface{}) {
	if l.W == nil || level < l.MinLevel {
		return
	}
	fmt.Fprintf(l.W, format, args...)
	fmt.Fprintln(l.W)
}
