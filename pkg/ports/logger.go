// Package ports defines the interfaces between the mjpegw pipeline and its
// adapters.
package ports

import (
	"fmt"
	"strings"
)

// LogLevel is the severity of a log message.
type LogLevel int

const (
	// LevelDebug is for per-frame and per-component details.
	LevelDebug LogLevel = iota
	// LevelInfo is for pipeline progress.
	LevelInfo
	// LevelWarn is for problems that do not stop encoding, such as a debug
	// frame that could not be saved.
	LevelWarn
	// LevelError is for failures that abort the run.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the name accepted by ParseLogLevel.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses debug, info, warn (or warning), error or quiet,
// ignoring case. An empty string is info.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "quiet":
		return LevelQuiet, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
}

// Logger writes leveled messages. msg is a format string and doubles as the
// translation key, so callers pass constant strings and put values in args.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that tags messages with component.
	// Stages and adapters log through a component logger.
	WithComponent(component string) Logger
}
