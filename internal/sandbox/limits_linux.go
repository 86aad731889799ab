//go:build linux

package sandbox

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// applyLimits lowers the child's rlimit ceilings via prlimit(2). The
// pid still exists unreaped at this point, so the call cannot race a
// recycled pid. A ceiling is never raised above an already-lower
// inherited hard limit. Failures are fatal on Linux, where limiting
// is expected to work.
func applyLimits(pid int, l Limits) error {
	targets := []struct {
		resource int
		name     string
		want     uint64
	}{
		{unix.RLIMIT_AS, "address-space", l.MaxMemoryBytes},
		{unix.RLIMIT_NOFILE, "open-file", l.MaxFileDescriptors},
		{unix.RLIMIT_NPROC, "process-count", l.MaxProcesses},
	}
	for _, t := range targets {
		if err := lowerLimit(pid, t.resource, t.want); err != nil {
			return fmt.Errorf("lower %s limit to %d: %w", t.name, t.want, err)
		}
	}
	return nil
}

func lowerLimit(pid, resource int, want uint64) error {
	var cur unix.Rlimit
	if err := unix.Prlimit(pid, resource, nil, &cur); err != nil {
		return err
	}
	if cur.Max != unix.RLIM_INFINITY && cur.Max <= want {
		// Inherited ceiling is already at or below ours. Lowering
		// further would be wrong; raising is forbidden.
		return nil
	}
	lim := unix.Rlimit{Cur: want, Max: want}
	return unix.Prlimit(pid, resource, &lim, nil)
}
