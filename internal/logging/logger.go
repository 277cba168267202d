// Package logging provides the leveled logger used by the server and CLI.
//
// All output goes to stderr; stdout belongs to the JSON-RPC stream when the
// MCP server is running.
package logging

import (
	"fmt"
	"strings"
)

// Level represents the severity level of a log message.
type Level int

const (
	// LevelDebug is for per-request details such as tool arguments.
	LevelDebug Level = iota
	// LevelInfo is for lifecycle messages like startup and shutdown.
	LevelInfo
	// LevelWarn is for recoverable problems such as a failed tool call.
	LevelWarn
	// LevelError is for problems that stop the server.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
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
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name. Matching is case-insensitive and an empty
// string yields LevelInfo.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "quiet", "off":
		return LevelQuiet, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger abstracts leveled logging.
type Logger interface {
	// Debug logs a debug message with optional format arguments.
	Debug(msg string, args ...interface{})

	// Info logs an informational message with optional format arguments.
	Info(msg string, args ...interface{})

	// Warn logs a warning message with optional format arguments.
	Warn(msg string, args ...interface{})

	// Error logs an error message with optional format arguments.
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with the component name.
	WithComponent(component string) Logger
}
