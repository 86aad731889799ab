package analyzer

import (
	"regexp"
	"strings"
	"time"

	"github.com/sanae-abe/cli-testing-specialist/internal/sandbox"
	"github.com/sanae-abe/cli-testing-specialist/internal/types"
)

// subcommandLine matches one candidate row inside a subcommand
// section: 2+ leading spaces, kebab-case name, optional bracketed
// placeholder args, 2+ spaces, description.
var subcommandLine = regexp.MustCompile(`^\s{2,}([a-z][a-z0-9-]+)(?:\s+\[[^\]]+\])*\s{2,}(.+)$`)

// subcommandHeaders are the accepted section header spellings.
var subcommandHeaders = []string{
	"Commands:",
	"Available Commands:",
	"Subcommands:",
	"Available subcommands:",
	"COMMANDS:",
	"SUBCOMMANDS:",
}

// Detector recursively discovers a binary's subcommand tree by
// re-probing help text for each candidate.
type Detector struct {
	gate     *sandbox.Gate
	inferrer *Inferrer
	maxDepth int
	timeout  time.Duration
}

// NewDetector returns a subcommand detector probing through gate with
// the given per-probe timeout and recursion bound.
func NewDetector(gate *sandbox.Gate, inferrer *Inferrer, maxDepth int, timeout time.Duration) *Detector {
	return &Detector{gate: gate, inferrer: inferrer, maxDepth: maxDepth, timeout: timeout}
}

// Detect discovers the subcommand tree reachable from the given help
// text. The result order matches first-seen order in the text.
func (d *Detector) Detect(binary, helpText string) []types.Subcommand {
	return d.detect(binary, helpText, 0, make(map[string]struct{}))
}

func (d *Detector) detect(binary, helpText string, depth int, visited map[string]struct{}) []types.Subcommand {
	if depth >= d.maxDepth {
		log.Debug("recursion depth %d reached, not descending", d.maxDepth)
		return nil
	}

	candidates := scanCandidates(helpText)
	if len(candidates) == 0 {
		return nil
	}
	log.Debug("found %d subcommand candidates at depth %d", len(candidates), depth)

	var subs []types.Subcommand
	for _, c := range candidates {
		key := binary + "-" + c.name
		if _, seen := visited[key]; seen {
			log.Debug("skipping already visited subcommand: %s", c.name)
			continue
		}
		visited[key] = struct{}{}

		subHelp := d.subcommandHelp(binary, c.name)
		if subHelp == "" {
			log.Warn("no help output for subcommand %q, dropping it", c.name)
			continue
		}

		options := ParseOptions(subHelp)
		d.inferrer.InferTypes(options)

		subs = append(subs, types.Subcommand{
			Name:         c.name,
			Description:  c.description,
			Options:      options,
			RequiredArgs: ParseRequiredArgs(subHelp),
			Subcommands:  d.detect(binary, subHelp, depth+1, visited),
			Depth:        depth,
		})
	}
	return subs
}

type candidate struct {
	name        string
	description string
}

// scanCandidates collects candidate rows from every subcommand
// section in the text. A blank line closes a section; later sections
// are scanned too, in order.
func scanCandidates(helpText string) []candidate {
	var candidates []candidate
	inSection := false

	for _, line := range strings.Split(helpText, "\n") {
		if !inSection {
			trimmed := strings.TrimSpace(line)
			for _, header := range subcommandHeaders {
				if strings.HasPrefix(trimmed, header) {
					inSection = true
					break
				}
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			inSection = false
			continue
		}

		if m := subcommandLine.FindStringSubmatch(line); m != nil {
			candidates = append(candidates, candidate{
				name:        m[1],
				description: strings.TrimSpace(m[2]),
			})
		}
	}
	return candidates
}

// subcommandHelp probes for a candidate's help text with the same
// fallback chain as top-level help, scoped to the subcommand.
func (d *Detector) subcommandHelp(binary, name string) string {
	for _, args := range [][]string{{name, "--help"}, {name, "-h"}, {"help", name}} {
		out, err := d.gate.Run(binary, args, d.timeout)
		if err != nil {
			log.Debug("subcommand help probe %v failed: %v", args, err)
			continue
		}
		if strings.TrimSpace(out) != "" {
			return out
		}
	}
	return ""
}
