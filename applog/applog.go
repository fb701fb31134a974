// Package applog is the leveled logging façade used throughout apkglink.
// It wraps a *log.Logger the way the teacher's daemon prefixes every line
// with its component name ("apkgdb: ...", "ctrl: ...") rather than reaching
// for a structured-logging library: every Logger call still ends up going
// through the standard library's log package, just with a level and a
// component tag folded into the format string ahead of time.
package applog

import (
	"log"
	"os"
)

// Level selects which calls a Logger actually emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name, defaulting to LevelInfo on no match.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a component-prefixed, level-gated logger over *log.Logger.
type Logger struct {
	component string
	min       Level
	out       *log.Logger
}

// New returns a Logger that prefixes every line with "component: " and
// drops any call below min. A nil *log.Logger falls back to a logger
// writing to os.Stderr with the standard library's default flags.
func New(component string, min Level, out *log.Logger) *Logger {
	if out == nil {
		out = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Logger{component: component, min: min, out: out}
}

// With returns a Logger sharing the same output and level floor but tagged
// with a different component name, mirroring how the teacher's daemon
// varies its prefix per subsystem (db:, ctrl:, apkgdb:) while sharing one
// underlying *log.Logger.
func (l *Logger) With(component string) *Logger {
	return &Logger{component: component, min: l.min, out: l.out}
}

func (l *Logger) logf(lvl Level, format string, v ...interface{}) {
	if lvl < l.min {
		return
	}
	l.out.Printf(l.component+": "+format, v...)
}

func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { l.logf(LevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.logf(LevelWarn, format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf(LevelError, format, v...) }

// Printf satisfies linkdb's logSink interface, forwarding at LevelInfo so
// a Database's internal "linkdb: ..." lines flow through the same
// component-prefixed pipe as the rest of the daemon.
func (l *Logger) Printf(format string, v ...interface{}) { l.logf(LevelInfo, format, v...) }
