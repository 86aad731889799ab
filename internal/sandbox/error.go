package sandbox

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a structured probe failure. Timeout distinguishes a child
// that was killed at the deadline from one that could not be run.
type Error struct {
	Cmd     string
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	if e.Timeout {
		return fmt.Sprintf("probe %q timed out", e.Cmd)
	}
	return fmt.Sprintf("probe %q failed: %v", e.Cmd, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a probe timeout.
func IsTimeout(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Timeout
}

func cmdString(binary string, args []string) string {
	if len(args) == 0 {
		return binary
	}
	return binary + " " + strings.Join(args, " ")
}
