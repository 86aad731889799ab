package analyzer

import (
	"testing"

	"github.com/sanae-abe/cli-testing-specialist/internal/types"
)

const sampleHelp = `A tool for testing things

Usage: sample [OPTIONS] <INPUT> <OUTPUT>

Options:
  -h, --help              Print help
  -v, --verbose           Enable verbose output
      --port <PORT>       Port to listen on
      --config <FILE>     Path to config file
  -o, --output <FORMAT>   Output format
`

func TestParseOptions(t *testing.T) {
	options := ParseOptions(sampleHelp)

	want := []struct {
		short, long string
		kind        types.OptionKind
	}{
		{"-h", "--help", types.KindFlag},
		{"-v", "--verbose", types.KindFlag},
		{"", "--port", types.KindString},
		{"", "--config", types.KindString},
		{"-o", "--output", types.KindString},
	}
	if len(options) != len(want) {
		t.Fatalf("got %d options, want %d: %+v", len(options), len(want), options)
	}
	for i, w := range want {
		opt := options[i]
		if opt.Short != w.short || opt.Long != w.long {
			t.Errorf("option %d = (%q, %q), want (%q, %q)", i, opt.Short, opt.Long, w.short, w.long)
		}
		if opt.Type.Kind != w.kind {
			t.Errorf("option %d kind = %q, want %q", i, opt.Type.Kind, w.kind)
		}
		if opt.Required {
			t.Errorf("option %d should default to optional", i)
		}
	}
}

func TestParseOptionsDescriptions(t *testing.T) {
	options := ParseOptions("  -p, --port <PORT>   Port to listen on\n")
	if len(options) != 1 {
		t.Fatalf("got %d options, want 1", len(options))
	}
	if options[0].Description != "Port to listen on" {
		t.Errorf("description = %q", options[0].Description)
	}
}

func TestParseOptionsDeduplicates(t *testing.T) {
	text := "  -h, --help   Print help\n  -h, --help   Print help\n"
	options := ParseOptions(text)
	if len(options) != 1 {
		t.Fatalf("got %d options, want 1 after dedup", len(options))
	}
	if options[0].Short != "-h" || options[0].Long != "--help" {
		t.Errorf("got (%q, %q)", options[0].Short, options[0].Long)
	}
}

func TestParseOptionsSkipsProse(t *testing.T) {
	text := "This tool has many features\n\nSee the manual for details\n"
	if options := ParseOptions(text); len(options) != 0 {
		t.Errorf("expected no options from prose, got %+v", options)
	}
}

func TestParseOptionsLongOnlyAndShortOnly(t *testing.T) {
	text := "      --dry-run    Do nothing\n  -q           Quiet mode\n"
	options := ParseOptions(text)
	if len(options) != 2 {
		t.Fatalf("got %d options, want 2", len(options))
	}
	if options[0].Long != "--dry-run" || options[0].Short != "" {
		t.Errorf("first = (%q, %q)", options[0].Short, options[0].Long)
	}
	if options[1].Short != "-q" || options[1].Long != "" {
		t.Errorf("second = (%q, %q)", options[1].Short, options[1].Long)
	}
}

func TestParseRequiredArgs(t *testing.T) {
	args := ParseRequiredArgs(sampleHelp)
	if len(args) != 2 || args[0] != "INPUT" || args[1] != "OUTPUT" {
		t.Errorf("args = %v, want [INPUT OUTPUT]", args)
	}
}

func TestParseRequiredArgsFirstUsageLineOnly(t *testing.T) {
	text := "Usage: cmd <FIRST>\nUsage: cmd <SECOND>\n"
	args := ParseRequiredArgs(text)
	if len(args) != 1 || args[0] != "FIRST" {
		t.Errorf("args = %v, want [FIRST]", args)
	}
}

func TestParseRequiredArgsNoUsageLine(t *testing.T) {
	if args := ParseRequiredArgs("no usage here\n"); args != nil {
		t.Errorf("args = %v, want nil", args)
	}
}

func TestVersionToken(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"tool 1.2.3", "1.2.3"},
		{"version 2.0", "2.0"},
		{"v3.1.4-rc.1 build", "3.1.4-rc.1"},
		{"no version here", ""},
	}
	for _, c := range cases {
		if got := versionToken.FindString(c.in); got != c.want {
			t.Errorf("versionToken(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
