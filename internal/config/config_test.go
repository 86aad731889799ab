package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Analyzer.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", cfg.Analyzer.MaxDepth)
	}
	if cfg.Analyzer.NoArgsProbeTimeoutMS != 1000 {
		t.Errorf("NoArgsProbeTimeoutMS = %d, want 1000", cfg.Analyzer.NoArgsProbeTimeoutMS)
	}
	if cfg.Limits.TimeoutSeconds != 300 {
		t.Errorf("TimeoutSeconds = %d, want 300", cfg.Limits.TimeoutSeconds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLimitsConfigToLimits(t *testing.T) {
	cfg := DefaultConfig()
	limits := cfg.Limits.ToLimits()

	if limits.MaxMemoryBytes != 500*1024*1024 {
		t.Errorf("MaxMemoryBytes = %d, want 500MB", limits.MaxMemoryBytes)
	}
	if limits.Timeout != 300*time.Second {
		t.Errorf("Timeout = %v, want 300s", limits.Timeout)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load of missing file should fall back to defaults: %v", err)
	}
	if cfg.Analyzer.MaxDepth != DefaultConfig().Analyzer.MaxDepth {
		t.Error("missing file should yield default config")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	content := `
analyzer:
  max_depth: 2
  no_args_probe_timeout_ms: 500
limits:
  timeout_seconds: 60
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analyzer.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", cfg.Analyzer.MaxDepth)
	}
	if cfg.Limits.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, want 60", cfg.Limits.TimeoutSeconds)
	}
	// Fields not present keep their defaults.
	if cfg.Limits.MaxFileDescriptors != 1024 {
		t.Errorf("MaxFileDescriptors = %d, want default 1024", cfg.Limits.MaxFileDescriptors)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadLenientOnUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	content := `
analyzer:
  max_depth: 4
future_section:
  something: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unknown fields should warn, not fail: %v", err)
	}
	if cfg.Analyzer.MaxDepth != 4 {
		t.Errorf("MaxDepth = %d, want 4", cfg.Analyzer.MaxDepth)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analyzer.MaxDepth = 99
	cfg.Analyzer.NoArgsProbeTimeoutMS = 5
	cfg.Log.Level = "shouty"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{"max_depth", "no_args_probe_timeout_ms", "log.level"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing mention of %s", msg, want)
		}
	}
}

func TestValidateTablesDirMustBeDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Analyzer.TablesDir = file
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for tables_dir pointing at a file")
	}
}
