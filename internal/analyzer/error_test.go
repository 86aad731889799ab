package analyzer

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := os.ErrNotExist
	err := newError(ErrBinaryNotFound, "binary not found: tool", cause)

	if !strings.Contains(err.Error(), "binary_not_found") {
		t.Errorf("Error() = %q, want code mentioned", err.Error())
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("wrapped cause should survive errors.Is")
	}
}

func TestUserMessageIncludesHints(t *testing.T) {
	err := newError(ErrExecutionTimeout, "probe timed out", nil)
	msg := err.UserMessage()
	if !strings.Contains(msg, "probe timed out") {
		t.Errorf("UserMessage missing message: %q", msg)
	}
	if !strings.Contains(msg, "--timeout") {
		t.Errorf("UserMessage missing recovery hint: %q", msg)
	}
}
