// Package logger provides leveled, prefixed logging for the analyzer.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Level represents log verbosity.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var (
	globalMu      sync.RWMutex
	globalLevel   = LevelInfo
	globalColored = true
	globalOut     io.Writer = os.Stderr
)

var (
	styleTrace = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E7B8B"))
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ECE6A"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0AF68"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7768E"))
	styleFaint = lipgloss.NewStyle().Faint(true)
)

// Logger writes leveled messages tagged with a component prefix.
type Logger struct {
	prefix string
}

// New creates a logger with the given component prefix.
func New(prefix string) *Logger {
	return &Logger{prefix: prefix}
}

// SetGlobalLevel sets the minimum level emitted by all loggers.
func SetGlobalLevel(level Level) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLevel = level
}

// SetColored enables or disables colored output.
func SetColored(colored bool) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalColored = colored
}

// SetOutput redirects log output. Used by tests.
func SetOutput(w io.Writer) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalOut = w
}

// ParseLevel converts a string to a Level, returning an error if unrecognized.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q (valid: trace, debug, info, warn, error)", s)
}

func (l *Logger) log(level Level, label string, style lipgloss.Style, format string, args ...any) {
	globalMu.RLock()
	if level < globalLevel {
		globalMu.RUnlock()
		return
	}
	colored := globalColored
	out := globalOut
	globalMu.RUnlock()

	ts := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)

	if colored {
		fmt.Fprintf(out, "%s %s %s %s\n",
			styleFaint.Render(ts), style.Render("["+label+"]"), styleFaint.Render("["+l.prefix+"]"), msg)
	} else {
		fmt.Fprintf(out, "%s [%s] [%s] %s\n", ts, label, l.prefix, msg)
	}
}

// Trace logs at the most verbose level.
func (l *Logger) Trace(format string, args ...any) {
	l.log(LevelTrace, "TRACE", styleTrace, format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, "DEBUG", styleDebug, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, "INFO", styleInfo, format, args...)
}

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, "WARN", styleWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, "ERROR", styleError, format, args...)
}
