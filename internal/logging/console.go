package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// Console writes log lines to a stream, stderr by default.
type Console struct {
	level     Level
	component string
	color     bool
	out       io.Writer
	mu        *sync.Mutex
	now       func() time.Time
}

// NewConsole creates a console logger on stderr. Color output is enabled
// when stderr is a terminal.
func NewConsole(level Level) *Console {
	fd := os.Stderr.Fd()
	return &Console{
		level: level,
		color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		out:   os.Stderr,
		mu:    &sync.Mutex{},
		now:   time.Now,
	}
}

// NewConsoleWriter creates an uncolored console logger on w.
func NewConsoleWriter(level Level, w io.Writer) *Console {
	return &Console{
		level: level,
		out:   w,
		mu:    &sync.Mutex{},
		now:   time.Now,
	}
}

// Debug logs a debug message.
func (l *Console) Debug(msg string, args ...interface{}) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *Console) Info(msg string, args ...interface{}) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Console) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Console) Error(msg string, args ...interface{}) {
	l.log(LevelError, msg, args...)
}

// WithComponent returns a new logger with the specified component name.
// The returned logger shares the stream and its lock with l.
func (l *Console) WithComponent(component string) Logger {
	c := *l
	c.component = component
	return &c
}

func (l *Console) log(level Level, msg string, args ...interface{}) {
	if level < l.level {
		return
	}

	text := msg
	if len(args) > 0 {
		text = fmt.Sprintf(msg, args...)
	}

	var output string
	if l.component != "" {
		if l.color {
			output = fmt.Sprintf("%s[%s]%s %s", colorCyan, l.component, colorReset, text)
		} else {
			output = fmt.Sprintf("[%s] %s", l.component, text)
		}
	} else {
		output = text
	}

	if l.color {
		switch level {
		case LevelDebug:
			output = colorGray + output + colorReset
		case LevelWarn:
			output = colorYellow + output + colorReset
		case LevelError:
			output = colorRed + output + colorReset
		}
	}

	stamp := l.now().Format("2006/01/02 15:04:05")
	l.mu.Lock()
	fmt.Fprintf(l.out, "%s %-5s %s\n", stamp, level, output)
	l.mu.Unlock()
}
