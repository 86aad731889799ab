// Package sandbox executes untrusted binaries as bounded, non-interactive
// probes: no stdin, allowlisted environment, resource ceilings applied to
// the child, and a hard wall-clock deadline.
package sandbox

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/sanae-abe/cli-testing-specialist/internal/logger"
)

var log = logger.New("sandbox")

// pollInterval is how often the gate checks for child exit. A probe
// never blocks longer than its timeout plus one interval.
const pollInterval = 50 * time.Millisecond

// Gate runs probes under a fixed set of resource limits.
type Gate struct {
	limits Limits
}

// NewGate creates a gate. The limits apply to every probe it runs.
func NewGate(limits Limits) *Gate {
	return &Gate{limits: limits}
}

// Limits returns the gate's resource limits.
func (g *Gate) Limits() Limits { return g.limits }

// Run probes the binary with the given arguments and returns its
// captured output: stdout if non-empty, else stderr (many tools print
// help to stderr). A non-zero exit is not an error; spawn failures,
// limit-application failures, and timeouts are.
func (g *Gate) Run(binary string, args []string, timeout time.Duration) (string, error) {
	stdout, stderr, _, err := g.probe(binary, args, timeout, true)
	if err != nil {
		return "", err
	}
	if stdout != "" {
		return stdout, nil
	}
	return stderr, nil
}

// ExitCode probes the binary with no arguments, discarding all output,
// and returns its exit code. A timeout is reported as a *Error with
// Timeout set.
func (g *Gate) ExitCode(binary string, timeout time.Duration) (int, error) {
	_, _, code, err := g.probe(binary, nil, timeout, false)
	return code, err
}

func (g *Gate) probe(binary string, args []string, timeout time.Duration, capture bool) (string, string, int, error) {
	cmdStr := cmdString(binary, args)
	log.Debug("probe: %s (timeout %s)", cmdStr, timeout)

	cmd := exec.Command(binary, args...) //nolint:gosec // probing the binary is the point
	cmd.Stdin = nil                      // null device: a probe never reads input
	cmd.Env = probeEnv()

	var stdout, stderr bytes.Buffer
	if capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return "", "", 0, &Error{Cmd: cmdStr, Err: err}
	}

	// Ceilings go on before we begin waiting, so a hostile child is
	// bounded for nearly its entire lifetime.
	if err := applyLimits(cmd.Process.Pid, g.limits); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return "", "", 0, &Error{Cmd: cmdStr, Err: fmt.Errorf("apply resource limits: %w", err)}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	deadline := time.Now().Add(timeout)
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()

	for {
		select {
		case waitErr := <-done:
			code := 0
			if waitErr != nil {
				var exitErr *exec.ExitError
				if !errors.As(waitErr, &exitErr) {
					return "", "", 0, &Error{Cmd: cmdStr, Err: waitErr}
				}
				code = exitErr.ExitCode()
			}
			log.Trace("probe exited %d after %s: %s", code, time.Since(start).Round(time.Millisecond), cmdStr)
			return stdout.String(), stderr.String(), code, nil
		case <-tick.C:
			if time.Now().After(deadline) {
				log.Warn("probe exceeded %s, killing: %s", timeout, cmdStr)
				_ = cmd.Process.Kill()
				<-done // reap; never leave a zombie
				return "", "", 0, &Error{Cmd: cmdStr, Timeout: true}
			}
		}
	}
}
