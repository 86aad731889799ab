package analyzer

import (
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/sanae-abe/cli-testing-specialist/internal/sandbox"
	"github.com/sanae-abe/cli-testing-specialist/internal/types"
)

// interactiveTools are substring patterns for binaries known to open
// an interactive session with no arguments. These must never be
// probed blindly.
var interactiveTools = compileInteractiveGlobs([]string{
	// database clients
	"psql", "mysql", "redis-cli", "mongo", "mongosh", "sqlite3",
	// language REPLs
	"python", "python3", "node", "irb", "php", "R", "julia",
	// debuggers and shells
	"gdb", "lldb", "ghci", "erl", "iex",
})

func compileInteractiveGlobs(names []string) []glob.Glob {
	globs := make([]glob.Glob, 0, len(names))
	for _, name := range names {
		globs = append(globs, glob.MustCompile("*"+name+"*"))
	}
	return globs
}

// Classifier predicts a binary's no-arguments behavior via an ordered
// strategy chain. Earlier strategies always win; later ones run only
// when no verdict was produced.
type Classifier struct {
	gate    *sandbox.Gate
	timeout time.Duration
}

// NewClassifier returns a classifier probing through gate. The
// timeout applies only to the no-args probe and should be short.
func NewClassifier(gate *sandbox.Gate, timeout time.Duration) *Classifier {
	return &Classifier{gate: gate, timeout: timeout}
}

// Classify runs the strategy chain over a finished analysis.
func (c *Classifier) Classify(analysis *types.CliAnalysis) types.NoArgsBehavior {
	// Known-interactive tools short-circuit before any execution.
	// Many of them exit immediately with stdin on the null device,
	// which would fool the exit-code probe.
	if isInteractiveTool(analysis.BinaryName) {
		log.Debug("binary %q matches interactive allowlist", analysis.BinaryName)
		return types.Interactive
	}

	if behavior, ok := c.probeExitCode(analysis.BinaryPath); ok {
		return behavior
	}

	if usage := usageArgs(analysis.HelpOutput); usage != "" {
		log.Debug("classifying from usage pattern: %s", usage)
		if requiresSubcommand(usage) {
			return types.RequireSubcommand
		}
		if optionalOnly(usage) {
			return types.ShowHelp
		}
	}

	if len(analysis.Subcommands) > 0 {
		return types.RequireSubcommand
	}
	return types.ShowHelp
}

func isInteractiveTool(binaryName string) bool {
	for _, g := range interactiveTools {
		if g.Match(binaryName) {
			return true
		}
	}
	return false
}

// probeExitCode runs the binary with no arguments under a short
// timeout, discarding output. A timeout produces no verdict and falls
// through to the usage heuristics.
func (c *Classifier) probeExitCode(binaryPath string) (types.NoArgsBehavior, bool) {
	code, err := c.gate.ExitCode(binaryPath, c.timeout)
	if err != nil {
		if sandbox.IsTimeout(err) {
			log.Debug("no-args probe timed out, falling through")
		} else {
			log.Debug("no-args probe failed: %v", err)
		}
		return "", false
	}

	log.Debug("no-args probe exited with code %d", code)
	switch code {
	case 0:
		return types.ShowHelp, true
	case 1, 2:
		return types.RequireSubcommand, true
	default:
		return types.ShowHelp, true
	}
}

// usageArgs returns the portion of the first Usage line after the
// "usage:" prefix, or "" when the text has no usage line.
func usageArgs(helpText string) string {
	line := firstUsageLine(helpText)
	if line == "" {
		return ""
	}
	if m := usageLine.FindString(line); m != "" {
		return strings.TrimSpace(line[len(m):])
	}
	return ""
}

// requiresSubcommand reports whether the usage pattern demands a
// subcommand: a <SUBCOMMAND>/<COMMAND> placeholder, or an unbracketed
// COMMAND/SUBCOMMAND token.
func requiresSubcommand(pattern string) bool {
	lower := strings.ToLower(pattern)
	if strings.Contains(lower, "<subcommand>") || strings.Contains(lower, "<command>") {
		return true
	}
	if strings.Contains(lower, " command") || strings.Contains(lower, " subcommand") {
		if !strings.Contains(lower, "[command]") && !strings.Contains(lower, "[subcommand]") {
			return true
		}
	}
	return false
}

// optionalOnly reports whether the usage pattern has no arguments at
// all, or its argument portion starts with an optional bracket.
func optionalOnly(pattern string) bool {
	parts := strings.Fields(pattern)
	if len(parts) <= 1 {
		return true
	}
	args := strings.Join(parts[1:], " ")
	return strings.HasPrefix(strings.TrimSpace(args), "[")
}
