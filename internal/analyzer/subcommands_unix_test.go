//go:build unix

package analyzer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sanae-abe/cli-testing-specialist/internal/sandbox"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool")
	script := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestDetector(t *testing.T, maxDepth int) *Detector {
	t.Helper()
	gate := sandbox.NewGate(sandbox.DefaultLimits())
	return NewDetector(gate, newTestInferrer(t), maxDepth, 10*time.Second)
}

func TestScanCandidates(t *testing.T) {
	text := `Fast tooling

Commands:
  alpha        First command
  beta-two     Second command
  publish [options] [path]  Publish things

Other text

SUBCOMMANDS:
  gamma        Third command
`
	got := scanCandidates(text)
	want := []candidate{
		{"alpha", "First command"},
		{"beta-two", "Second command"},
		{"publish", "Publish things"},
		{"gamma", "Third command"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestScanCandidatesBlankLineClosesSection(t *testing.T) {
	text := `Commands:
  alpha        First command

  orphan       Not in a section anymore
`
	got := scanCandidates(text)
	if len(got) != 1 || got[0].name != "alpha" {
		t.Errorf("candidates = %+v, want only alpha", got)
	}
}

func TestDetectBuildsTreeAndDropsBrokenCandidates(t *testing.T) {
	bin := writeScript(t, `case "$1 $2" in
"alpha --help")
  printf 'Usage: tool alpha [OPTIONS]\n\nOptions:\n  -v, --verbose   Verbose output\n\nCommands:\n  nested        A nested command\n'
  ;;
"nested --help")
  printf 'Usage: tool nested\n\nOptions:\n  -q, --quiet   Quiet mode\n'
  ;;
*)
  exit 1
  ;;
esac
`)

	helpText := "Commands:\n  alpha        First command\n  beta         Broken command\n"
	subs := newTestDetector(t, 3).Detect(bin, helpText)

	if len(subs) != 1 {
		t.Fatalf("got %d subcommands, want 1 (beta dropped): %+v", len(subs), subs)
	}
	alpha := subs[0]
	if alpha.Name != "alpha" || alpha.Depth != 0 {
		t.Errorf("alpha = %s depth %d", alpha.Name, alpha.Depth)
	}
	if len(alpha.Options) == 0 {
		t.Error("alpha should have parsed options")
	}
	if len(alpha.Subcommands) != 1 || alpha.Subcommands[0].Name != "nested" {
		t.Fatalf("alpha children = %+v, want nested", alpha.Subcommands)
	}
	if alpha.Subcommands[0].Depth != 1 {
		t.Errorf("nested depth = %d, want 1", alpha.Subcommands[0].Depth)
	}
}

func TestDetectCycleSafe(t *testing.T) {
	bin := writeScript(t, `if [ "$1" = "loop" ]; then
  printf 'Commands:\n  loop         Loops back to itself\n'
  exit 0
fi
exit 1
`)

	helpText := "Commands:\n  loop         Loops back to itself\n"
	result := newTestDetector(t, 5).Detect(bin, helpText)

	if len(result) != 1 || result[0].Name != "loop" {
		t.Fatalf("result = %+v, want single loop node", result)
	}
	if len(result[0].Subcommands) != 0 {
		t.Errorf("self-referential help must not recurse: %+v", result[0].Subcommands)
	}
}

func TestDetectHonorsMaxDepth(t *testing.T) {
	bin := writeScript(t, `case "$1" in
one)
  printf 'Commands:\n  two          Level two\n'
  ;;
two)
  printf 'Commands:\n  three        Level three\n'
  ;;
three)
  printf 'Commands:\n  four         Level four\n'
  ;;
*)
  exit 1
  ;;
esac
`)

	helpText := "Commands:\n  one          Level one\n"
	subs := newTestDetector(t, 2).Detect(bin, helpText)

	if len(subs) != 1 || subs[0].Name != "one" {
		t.Fatalf("subs = %+v", subs)
	}
	two := subs[0].Subcommands
	if len(two) != 1 || two[0].Name != "two" {
		t.Fatalf("level two = %+v", two)
	}
	if len(two[0].Subcommands) != 0 {
		t.Errorf("depth 2 must not be explored with max depth 2: %+v", two[0].Subcommands)
	}
}
