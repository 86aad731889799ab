// Package types defines the data model produced by CLI analysis.
package types

import (
	"time"

	"github.com/google/uuid"
)

// OptionKind classifies the value an option accepts.
type OptionKind string

const (
	// KindFlag is a boolean switch that takes no value.
	KindFlag OptionKind = "flag"
	// KindString is a free-form string value.
	KindString OptionKind = "string"
	// KindNumeric is an integer value, optionally bounded.
	KindNumeric OptionKind = "numeric"
	// KindPath is a file or directory path.
	KindPath OptionKind = "path"
	// KindEnum is a value drawn from a fixed set.
	KindEnum OptionKind = "enum"
)

// Valid returns true if the OptionKind is a known value.
func (k OptionKind) Valid() bool {
	switch k {
	case KindFlag, KindString, KindNumeric, KindPath, KindEnum:
		return true
	}
	return false
}

// OptionType is the inferred type of an option together with its
// constraints. Min and Max are set together or not at all; Values is
// only populated for enum options.
type OptionType struct {
	Kind   OptionKind `json:"kind"`
	Min    *int64     `json:"min,omitempty"`
	Max    *int64     `json:"max,omitempty"`
	Values []string   `json:"values,omitempty"`
}

// FlagType returns the type for a valueless switch.
func FlagType() OptionType { return OptionType{Kind: KindFlag} }

// StringType returns the type for a free-form string option.
func StringType() OptionType { return OptionType{Kind: KindString} }

// NumericType returns an unbounded numeric type. Bounds are assigned
// by constraint augmentation.
func NumericType() OptionType { return OptionType{Kind: KindNumeric} }

// PathType returns the type for a path option.
func PathType() OptionType { return OptionType{Kind: KindPath} }

// EnumType returns an enum type with the given allowed values.
func EnumType(values []string) OptionType {
	return OptionType{Kind: KindEnum, Values: values}
}

// Bounded reports whether numeric bounds are assigned.
func (t OptionType) Bounded() bool { return t.Min != nil && t.Max != nil }

// Consistent reports whether the bound invariant holds: min and max
// are either both set or both unset.
func (t OptionType) Consistent() bool {
	return (t.Min == nil) == (t.Max == nil)
}

// CliOption is a single parsed command-line option. At least one of
// Short or Long is always set by the parser.
type CliOption struct {
	Short        string     `json:"short,omitempty"`
	Long         string     `json:"long,omitempty"`
	Description  string     `json:"description,omitempty"`
	Type         OptionType `json:"type"`
	Required     bool       `json:"required"`
	DefaultValue string     `json:"default_value,omitempty"`
}

// Subcommand is a node in the recursively discovered subcommand tree.
// Depth is 0 for top-level subcommands and increases by 1 per level.
type Subcommand struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Options      []CliOption  `json:"options"`
	RequiredArgs []string     `json:"required_args,omitempty"`
	Subcommands  []Subcommand `json:"subcommands"`
	Depth        int          `json:"depth"`
}

// NoArgsBehavior is the predicted effect of invoking the binary with
// zero arguments.
type NoArgsBehavior string

const (
	// ShowHelp means the binary prints usage and exits cleanly.
	ShowHelp NoArgsBehavior = "show_help"
	// RequireSubcommand means the binary demands a subcommand and
	// exits non-zero.
	RequireSubcommand NoArgsBehavior = "require_subcommand"
	// Interactive means the binary enters an interactive session.
	Interactive NoArgsBehavior = "interactive"
)

// Valid returns true if the NoArgsBehavior is a known value.
func (b NoArgsBehavior) Valid() bool {
	return b == ShowHelp || b == RequireSubcommand || b == Interactive
}

// AnalysisMetadata carries statistics about a completed analysis.
// Counts are recomputed from the finished tree, never maintained
// incrementally.
type AnalysisMetadata struct {
	AnalysisID       string `json:"analysis_id"`
	AnalyzedAt       string `json:"analyzed_at"`
	AnalyzerVersion  string `json:"analyzer_version"`
	TotalSubcommands int    `json:"total_subcommands"`
	TotalOptions     int    `json:"total_options"`
	DurationMS       int64  `json:"analysis_duration_ms"`
}

// CliAnalysis is the root record for one analyzed binary. It is
// immutable once returned from the analyzer.
type CliAnalysis struct {
	BinaryPath     string           `json:"binary_path"`
	BinaryName     string           `json:"binary_name"`
	Version        string           `json:"version,omitempty"`
	HelpOutput     string           `json:"help_output"`
	GlobalOptions  []CliOption      `json:"global_options"`
	Subcommands    []Subcommand     `json:"subcommands"`
	NoArgsBehavior NoArgsBehavior   `json:"no_args_behavior,omitempty"`
	RequiredArgs   []string         `json:"required_args,omitempty"`
	Metadata       AnalysisMetadata `json:"metadata"`
}

// NewAnalysis creates an analysis record for the given binary with a
// fresh analysis ID and timestamp.
func NewAnalysis(binaryPath, binaryName, helpOutput, analyzerVersion string) *CliAnalysis {
	return &CliAnalysis{
		BinaryPath:    binaryPath,
		BinaryName:    binaryName,
		HelpOutput:    helpOutput,
		GlobalOptions: []CliOption{},
		Subcommands:   []Subcommand{},
		Metadata: AnalysisMetadata{
			AnalysisID:      uuid.NewString(),
			AnalyzedAt:      time.Now().UTC().Format(time.RFC3339),
			AnalyzerVersion: analyzerVersion,
		},
	}
}

// RecomputeMetadata walks the finished tree and fills in the recursive
// subcommand/option counts and the elapsed duration. Nil slices are
// normalized to empty on the way so the JSON always carries arrays,
// never null.
func (a *CliAnalysis) RecomputeMetadata(elapsed time.Duration) {
	if a.GlobalOptions == nil {
		a.GlobalOptions = []CliOption{}
	}
	a.Subcommands = normalizeSubcommands(a.Subcommands)
	a.Metadata.TotalSubcommands = countSubcommands(a.Subcommands)
	a.Metadata.TotalOptions = len(a.GlobalOptions) + countOptions(a.Subcommands)
	a.Metadata.DurationMS = elapsed.Milliseconds()
}

func normalizeSubcommands(subs []Subcommand) []Subcommand {
	if subs == nil {
		return []Subcommand{}
	}
	for i := range subs {
		if subs[i].Options == nil {
			subs[i].Options = []CliOption{}
		}
		subs[i].Subcommands = normalizeSubcommands(subs[i].Subcommands)
	}
	return subs
}

// MaxDepth returns the deepest subcommand depth in the tree, or -1 if
// there are no subcommands.
func (a *CliAnalysis) MaxDepth() int {
	return maxDepth(a.Subcommands, -1)
}

func countSubcommands(subs []Subcommand) int {
	n := len(subs)
	for i := range subs {
		n += countSubcommands(subs[i].Subcommands)
	}
	return n
}

func countOptions(subs []Subcommand) int {
	n := 0
	for i := range subs {
		n += len(subs[i].Options) + countOptions(subs[i].Subcommands)
	}
	return n
}

func maxDepth(subs []Subcommand, deepest int) int {
	for i := range subs {
		if subs[i].Depth > deepest {
			deepest = subs[i].Depth
		}
		deepest = maxDepth(subs[i].Subcommands, deepest)
	}
	return deepest
}
