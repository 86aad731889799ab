package analyzer

import (
	"regexp"
	"strings"
	"time"

	"github.com/sanae-abe/cli-testing-specialist/internal/sandbox"
	"github.com/sanae-abe/cli-testing-specialist/internal/types"
)

var (
	// shortOption matches "-x" bounded by whitespace, a comma, or end
	// of line so "--long" never yields a bogus short flag.
	shortOption = regexp.MustCompile(`-([a-zA-Z])(?:\s|,|$)`)

	// longOption matches "--lowercase-kebab" tokens.
	longOption = regexp.MustCompile(`--([a-z][a-z0-9-]+)`)

	// versionToken matches "1.2", "1.2.3" and "1.2.3-rc.1" shapes.
	versionToken = regexp.MustCompile(`\b\d+\.\d+(?:\.\d+)?(?:-[a-z0-9.]+)?\b`)

	// optionWithValue matches a long option followed by a <value>
	// placeholder, marking the option as value-taking.
	optionWithValue = regexp.MustCompile(`--([a-z][a-z0-9-]+)\s+<([^>]+)>`)

	// optionDescription captures the trailing text after the long flag
	// and its optional value placeholder.
	optionDescription = regexp.MustCompile(`(?:--[a-z][a-z0-9-]+)(?:\s+<[^>]+>)?\s+(.+)`)

	usageLine   = regexp.MustCompile(`(?i)^\s*usage:\s+`)
	requiredArg = regexp.MustCompile(`<([^>]+)>`)
)

// ParseOptions extracts command-line options from raw help text. Lines
// without a hyphen are skipped, and options are deduplicated by their
// exact (short, long) pair, first occurrence winning.
func ParseOptions(helpText string) []types.CliOption {
	var options []types.CliOption
	seen := make(map[[2]string]struct{})

	for _, line := range strings.Split(helpText, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.Contains(trimmed, "-") {
			continue
		}

		var short, long string
		if m := shortOption.FindStringSubmatch(trimmed); m != nil {
			short = "-" + m[1]
		}
		if m := longOption.FindStringSubmatch(trimmed); m != nil {
			long = "--" + m[1]
		}
		if short == "" && long == "" {
			continue
		}

		key := [2]string{short, long}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		var description string
		if m := optionDescription.FindStringSubmatch(trimmed); m != nil {
			description = strings.TrimSpace(m[1])
		}

		optType := types.FlagType()
		if optionWithValue.MatchString(trimmed) {
			optType = types.StringType()
		}

		options = append(options, types.CliOption{
			Short:       short,
			Long:        long,
			Description: description,
			Type:        optType,
		})
	}
	return options
}

// ParseRequiredArgs extracts required positional argument names from
// the first Usage line: every <NAME> token, left to right. Later
// Usage-like lines are ignored.
func ParseRequiredArgs(helpText string) []string {
	for _, line := range strings.Split(helpText, "\n") {
		if !usageLine.MatchString(line) {
			continue
		}
		var args []string
		for _, m := range requiredArg.FindAllStringSubmatch(line, -1) {
			args = append(args, m[1])
		}
		return args
	}
	return nil
}

// firstUsageLine returns the first case-insensitive "Usage:" line, or
// "" if the text has none.
func firstUsageLine(helpText string) string {
	for _, line := range strings.Split(helpText, "\n") {
		if usageLine.MatchString(line) {
			return line
		}
	}
	return ""
}

// fetchHelp acquires help text via the probe fallback chain: --help,
// then -h, then a help subcommand. The first non-empty output wins.
// When every probe fails to execute, the last probe error is returned;
// an empty result with a nil error means at least one probe ran but
// printed nothing.
func fetchHelp(gate *sandbox.Gate, binary string, timeout time.Duration) (string, error) {
	var lastErr error
	ran := false
	for _, args := range [][]string{{"--help"}, {"-h"}, {"help"}} {
		out, err := gate.Run(binary, args, timeout)
		if err != nil {
			log.Debug("help probe %v failed: %v", args, err)
			lastErr = err
			continue
		}
		ran = true
		if strings.TrimSpace(out) != "" {
			return out, nil
		}
	}
	if ran {
		return "", nil
	}
	return "", lastErr
}

// fetchVersion probes for a version string via --version, -v, then a
// version subcommand. The first output containing a version-shaped
// token wins; no match yields "".
func fetchVersion(gate *sandbox.Gate, binary string, timeout time.Duration) string {
	for _, args := range [][]string{{"--version"}, {"-v"}, {"version"}} {
		out, err := gate.Run(binary, args, timeout)
		if err != nil {
			log.Debug("version probe %v failed: %v", args, err)
			continue
		}
		if v := versionToken.FindString(out); v != "" {
			return v
		}
	}
	return ""
}
