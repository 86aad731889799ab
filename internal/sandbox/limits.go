package sandbox

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Limits caps the resources a probed child process may consume. The
// value is fixed at construction and shared by every probe.
type Limits struct {
	// MaxMemoryBytes caps the child's address space.
	MaxMemoryBytes uint64
	// MaxFileDescriptors caps open files.
	MaxFileDescriptors uint64
	// MaxProcesses caps processes/threads, guarding against fork bombs.
	MaxProcesses uint64
	// Timeout bounds a full-analysis probe.
	Timeout time.Duration
}

// DefaultLimits returns the standard probe limits: 500MB memory,
// 1024 file descriptors, 100 processes, 300s timeout.
func DefaultLimits() Limits {
	return Limits{
		MaxMemoryBytes:     500 * 1024 * 1024,
		MaxFileDescriptors: 1024,
		MaxProcesses:       100,
		Timeout:            300 * time.Second,
	}
}

// envLimits mirrors Limits for environment variable overrides
// (CLI_SPECIALIST_MAX_MEMORY_BYTES and friends).
type envLimits struct {
	MaxMemoryBytes     uint64 `envconfig:"MAX_MEMORY_BYTES"`
	MaxFileDescriptors uint64 `envconfig:"MAX_FILE_DESCRIPTORS"`
	MaxProcesses       uint64 `envconfig:"MAX_PROCESSES"`
	TimeoutSeconds     int    `envconfig:"TIMEOUT_SECONDS"`
}

// LimitsFromEnv applies CLI_SPECIALIST_* environment overrides on top
// of the given base limits. Unset variables leave the base unchanged.
func LimitsFromEnv(base Limits) (Limits, error) {
	var e envLimits
	if err := envconfig.Process("cli_specialist", &e); err != nil {
		return base, fmt.Errorf("limit env overrides: %w", err)
	}
	if e.MaxMemoryBytes > 0 {
		base.MaxMemoryBytes = e.MaxMemoryBytes
	}
	if e.MaxFileDescriptors > 0 {
		base.MaxFileDescriptors = e.MaxFileDescriptors
	}
	if e.MaxProcesses > 0 {
		base.MaxProcesses = e.MaxProcesses
	}
	if e.TimeoutSeconds > 0 {
		base.Timeout = time.Duration(e.TimeoutSeconds) * time.Second
	}
	return base, nil
}

// Validate checks that every ceiling is positive.
func (l Limits) Validate() error {
	if l.MaxMemoryBytes == 0 {
		return fmt.Errorf("max memory must be positive")
	}
	if l.MaxFileDescriptors == 0 {
		return fmt.Errorf("max file descriptors must be positive")
	}
	if l.MaxProcesses == 0 {
		return fmt.Errorf("max processes must be positive")
	}
	if l.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
