//go:build !linux && !windows

package sandbox

import "sync"

var limitsUnsupportedOnce sync.Once

// applyLimits is a no-op on platforms without prlimit or Job Objects.
// The timeout still bounds the probe; the degradation is logged once.
func applyLimits(pid int, l Limits) error {
	limitsUnsupportedOnce.Do(func() {
		log.Warn("resource limiting not supported on this platform; probes bounded by timeout only")
	})
	return nil
}
