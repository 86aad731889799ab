// Package config loads analyzer configuration and the externally
// supplied inference tables (pattern/constraint/enum), with embedded
// defaults and safe-deserialization guards.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sanae-abe/cli-testing-specialist/internal/logger"
	"github.com/sanae-abe/cli-testing-specialist/internal/sandbox"
)

var cfgLog = logger.New("config")

// DefaultConfigFilename is looked up in the working directory when no
// explicit config path is given.
const DefaultConfigFilename = ".cli-specialist.yml"

// Config is the analyzer configuration file.
type Config struct {
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Limits   LimitsConfig   `yaml:"limits"`
	Log      LogConfig      `yaml:"log"`
}

// AnalyzerConfig holds analysis behavior settings.
type AnalyzerConfig struct {
	// MaxDepth bounds recursive subcommand discovery.
	MaxDepth int `yaml:"max_depth"`
	// TablesDir optionally overrides the embedded inference tables.
	TablesDir string `yaml:"tables_dir"`
	// NoArgsProbeTimeoutMS bounds the no-args interactivity probe.
	NoArgsProbeTimeoutMS int `yaml:"no_args_probe_timeout_ms"`
}

// LimitsConfig holds resource ceilings for probe execution.
type LimitsConfig struct {
	MaxMemoryMB        int `yaml:"max_memory_mb"`
	MaxFileDescriptors int `yaml:"max_file_descriptors"`
	MaxProcesses       int `yaml:"max_processes"`
	TimeoutSeconds     int `yaml:"timeout_seconds"`
}

// ToLimits converts the YAML representation into the sandbox value object.
func (c LimitsConfig) ToLimits() sandbox.Limits {
	return sandbox.Limits{
		MaxMemoryBytes:     uint64(c.MaxMemoryMB) * 1024 * 1024,
		MaxFileDescriptors: uint64(c.MaxFileDescriptors),
		MaxProcesses:       uint64(c.MaxProcesses),
		Timeout:            time.Duration(c.TimeoutSeconds) * time.Second,
	}
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level   string `yaml:"level"`
	NoColor bool   `yaml:"no_color"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			MaxDepth:             3,
			NoArgsProbeTimeoutMS: 1000,
		},
		Limits: LimitsConfig{
			MaxMemoryMB:        500,
			MaxFileDescriptors: 1024,
			MaxProcesses:       100,
			TimeoutSeconds:     300,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults
// when the file does not exist. Load does not call Validate; callers
// apply CLI overrides first, then validate.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := decodeStrict(path, data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks all Config fields and returns a numbered multi-error
// report.
func (c *Config) Validate() error {
	var errs []string

	if c.Analyzer.MaxDepth < 1 || c.Analyzer.MaxDepth > 10 {
		errs = append(errs, fmt.Sprintf("analyzer.max_depth: must be 1-10 (got %d)", c.Analyzer.MaxDepth))
	}
	if c.Analyzer.NoArgsProbeTimeoutMS < 100 || c.Analyzer.NoArgsProbeTimeoutMS > 10000 {
		errs = append(errs, fmt.Sprintf("analyzer.no_args_probe_timeout_ms: must be 100-10000 (got %d)", c.Analyzer.NoArgsProbeTimeoutMS))
	}
	if c.Analyzer.TablesDir != "" {
		if fi, err := os.Stat(c.Analyzer.TablesDir); err != nil || !fi.IsDir() {
			errs = append(errs, fmt.Sprintf("analyzer.tables_dir: not a directory (%q)", c.Analyzer.TablesDir))
		}
	}

	if err := c.Limits.ToLimits().Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("limits: %v", err))
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level: %v", err))
	}

	if len(errs) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for i, e := range errs {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, e)
	}
	return errors.New(sb.String())
}
