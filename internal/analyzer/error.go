package analyzer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrorCode classifies analyzer failures for programmatic handling.
type ErrorCode string

const (
	ErrBinaryNotFound      ErrorCode = "binary_not_found"
	ErrBinaryNotExecutable ErrorCode = "binary_not_executable"
	ErrExecutionFailed     ErrorCode = "execution_failed"
	ErrExecutionTimeout    ErrorCode = "execution_timeout"
	ErrInvalidHelpOutput   ErrorCode = "invalid_help_output"
	ErrConfig              ErrorCode = "config_error"
)

// Error is a classified analyzer failure. It wraps the underlying
// cause when one exists.
type Error struct {
	Code    ErrorCode
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, err: err}
}

var (
	errTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7768E"))
	errHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E7B8B"))
)

// suggestions maps each error code to recovery hints shown to the
// user.
var suggestions = map[ErrorCode][]string{
	ErrBinaryNotFound: {
		"check that the path is spelled correctly",
		"use an absolute path or make sure the binary is on PATH",
	},
	ErrBinaryNotExecutable: {
		"check the file's execute permission (chmod +x)",
		"make sure the path points at the binary, not a directory",
	},
	ErrExecutionFailed: {
		"the binary may target a different platform or have a broken interpreter line",
	},
	ErrExecutionTimeout: {
		"raise the timeout with --timeout or limits.timeout_seconds",
		"the binary may be waiting for input it will never receive",
	},
	ErrInvalidHelpOutput: {
		"the binary may not support --help, -h, or a help subcommand",
		"try running the binary manually to see what it prints",
	},
	ErrConfig: {
		"check the config file and table overrides for typos",
	},
}

// UserMessage renders the error with its recovery suggestions for
// terminal display.
func (e *Error) UserMessage() string {
	var sb strings.Builder
	sb.WriteString(errTitleStyle.Render("error: " + e.Message))
	if e.err != nil {
		sb.WriteString("\n")
		sb.WriteString(errHintStyle.Render("  cause: " + e.err.Error()))
	}
	for _, hint := range suggestions[e.Code] {
		sb.WriteString("\n")
		sb.WriteString(errHintStyle.Render("  hint: " + hint))
	}
	return sb.String()
}
