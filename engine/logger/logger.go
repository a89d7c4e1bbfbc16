// Package logger provides the leveled logger used across the viewer.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is the diagnostic sink for the viewer. Info and debug lines go to the output writer,
// warnings and errors to the error writer.
type Logger interface {
	// DebugEnabled reports whether Debugf lines are emitted.
	//
	// Returns:
	//   - bool: true if debug logging is on
	DebugEnabled() bool

	// SetDebug turns debug logging on or off.
	//
	// Parameters:
	//   - enabled: true to emit Debugf lines
	SetDebug(enabled bool)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes leveled records through log/slog text handlers. Every record carries a
// logger=<prefix> attribute when a prefix is set.
type DefaultLogger struct {
	level *slog.LevelVar
	out   *slog.Logger
	err   *slog.Logger
}

var _ Logger = &DefaultLogger{}

// NewDefaultLogger creates a logger writing to stdout and stderr.
//
// Parameters:
//   - prefix: the component name attached to every record (may be empty)
//   - debug: whether Debugf lines are emitted
//
// Returns:
//   - *DefaultLogger: the logger
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewLogger(prefix, os.Stdout, os.Stderr, debug)
}

// NewLogger creates a logger writing to the given writers.
//
// Parameters:
//   - prefix: the component name attached to every record (may be empty)
//   - out: destination for debug and info lines
//   - errOut: destination for warning and error lines
//   - debug: whether Debugf lines are emitted
//
// Returns:
//   - *DefaultLogger: the logger
func NewLogger(prefix string, out, errOut io.Writer, debug bool) *DefaultLogger {
	level := &slog.LevelVar{}
	opts := &slog.HandlerOptions{Level: level}
	l := &DefaultLogger{
		level: level,
		out:   slog.New(slog.NewTextHandler(out, opts)),
		err:   slog.New(slog.NewTextHandler(errOut, opts)),
	}
	if prefix != "" {
		l.out = l.out.With("logger", prefix)
		l.err = l.err.With("logger", prefix)
	}
	l.SetDebug(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.level.Level() <= slog.LevelDebug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.out.Debug(fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Info(fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Warn(fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Error(fmt.Sprintf(format, args...))
}

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool    { return false }
func (nopLogger) SetDebug(bool)         {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
