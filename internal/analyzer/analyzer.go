// Package analyzer reconstructs a structural model of an untrusted
// command-line binary: its global options with inferred types, its
// recursive subcommand tree, and its predicted no-arguments behavior.
// All probing goes through the sandbox gate.
package analyzer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sanae-abe/cli-testing-specialist/internal/config"
	"github.com/sanae-abe/cli-testing-specialist/internal/logger"
	"github.com/sanae-abe/cli-testing-specialist/internal/sandbox"
	"github.com/sanae-abe/cli-testing-specialist/internal/types"
)

var log = logger.New("analyzer")

// Options configures an Analyzer.
type Options struct {
	// Limits bound every probe the analyzer runs.
	Limits sandbox.Limits

	// MaxDepth bounds subcommand recursion. Zero means the default
	// of 3.
	MaxDepth int

	// Tables are the inference tables. Nil means the embedded
	// defaults.
	Tables *config.Tables

	// NoArgsProbeTimeout bounds the behavior classifier's single
	// no-args probe. Zero means 1 second.
	NoArgsProbeTimeout time.Duration

	// Version is recorded in the analysis metadata.
	Version string
}

// Analyzer runs the full analysis pipeline for one binary at a time.
// Analysis is strictly sequential and depth-first.
type Analyzer struct {
	gate       *sandbox.Gate
	inferrer   *Inferrer
	detector   *Detector
	classifier *Classifier
	version    string
}

// New creates an analyzer. It fails only when the inference tables
// cannot be loaded.
func New(opts Options) (*Analyzer, error) {
	tables := opts.Tables
	if tables == nil {
		var err error
		tables, err = config.DefaultTables()
		if err != nil {
			return nil, newError(ErrConfig, "cannot load inference tables", err)
		}
	}

	limits := opts.Limits
	if limits == (sandbox.Limits{}) {
		limits = sandbox.DefaultLimits()
	}
	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = 3
	}
	probeTimeout := opts.NoArgsProbeTimeout
	if probeTimeout == 0 {
		probeTimeout = time.Second
	}

	gate := sandbox.NewGate(limits)
	inferrer := NewInferrer(tables)
	return &Analyzer{
		gate:       gate,
		inferrer:   inferrer,
		detector:   NewDetector(gate, inferrer, maxDepth, limits.Timeout),
		classifier: NewClassifier(gate, probeTimeout),
		version:    opts.Version,
	}, nil
}

// Analyze probes the target binary and assembles its analysis record.
// Path validation failures and fully empty help output abort the call;
// everything below subcommand discovery is recovered locally.
func (a *Analyzer) Analyze(target string) (*types.CliAnalysis, error) {
	start := time.Now()

	path, err := resolveBinary(target)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	log.Info("analyzing %s", path)

	timeout := a.gate.Limits().Timeout
	helpText, probeErr := fetchHelp(a.gate, path, timeout)
	if strings.TrimSpace(helpText) == "" {
		if probeErr != nil {
			if sandbox.IsTimeout(probeErr) {
				return nil, newError(ErrExecutionTimeout,
					fmt.Sprintf("help probes for %s timed out", name), probeErr)
			}
			return nil, newError(ErrExecutionFailed,
				fmt.Sprintf("cannot execute %s", name), probeErr)
		}
		return nil, newError(ErrInvalidHelpOutput,
			fmt.Sprintf("no help output from %s", name), nil)
	}

	analysis := types.NewAnalysis(path, name, helpText, a.version)
	analysis.Version = fetchVersion(a.gate, path, timeout)

	analysis.GlobalOptions = ParseOptions(helpText)
	a.inferrer.InferTypes(analysis.GlobalOptions)
	analysis.RequiredArgs = ParseRequiredArgs(helpText)

	analysis.Subcommands = a.detector.Detect(path, helpText)

	analysis.NoArgsBehavior = a.classifier.Classify(analysis)

	analysis.RecomputeMetadata(time.Since(start))
	log.Info("analysis complete: %d options, %d subcommands in %dms",
		analysis.Metadata.TotalOptions, analysis.Metadata.TotalSubcommands,
		analysis.Metadata.DurationMS)
	return analysis, nil
}
