package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestOptionKindValid(t *testing.T) {
	for _, k := range []OptionKind{KindFlag, KindString, KindNumeric, KindPath, KindEnum} {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if OptionKind("boolean").Valid() {
		t.Error("unknown kind should not be valid")
	}
}

func TestNoArgsBehaviorValid(t *testing.T) {
	for _, b := range []NoArgsBehavior{ShowHelp, RequireSubcommand, Interactive} {
		if !b.Valid() {
			t.Errorf("%q should be valid", b)
		}
	}
	if NoArgsBehavior("exit").Valid() {
		t.Error("unknown behavior should not be valid")
	}
}

func TestOptionTypeConsistent(t *testing.T) {
	min, max := int64(1), int64(65535)

	both := OptionType{Kind: KindNumeric, Min: &min, Max: &max}
	if !both.Consistent() || !both.Bounded() {
		t.Error("both bounds set should be consistent and bounded")
	}

	neither := NumericType()
	if !neither.Consistent() || neither.Bounded() {
		t.Error("no bounds should be consistent and unbounded")
	}

	onlyMin := OptionType{Kind: KindNumeric, Min: &min}
	if onlyMin.Consistent() {
		t.Error("a single bound violates the invariant")
	}
}

func TestRecomputeMetadata(t *testing.T) {
	a := NewAnalysis("/usr/bin/tool", "tool", "Usage: tool", "1.0.0")
	a.GlobalOptions = []CliOption{
		{Short: "-h", Long: "--help", Type: FlagType()},
		{Long: "--verbose", Type: FlagType()},
	}
	a.Subcommands = []Subcommand{
		{
			Name:    "run",
			Depth:   0,
			Options: []CliOption{{Long: "--fast", Type: FlagType()}},
			Subcommands: []Subcommand{
				{
					Name:    "all",
					Depth:   1,
					Options: []CliOption{{Long: "--jobs", Type: NumericType()}},
				},
			},
		},
		{Name: "stop", Depth: 0},
	}

	a.RecomputeMetadata(1500 * time.Millisecond)

	if a.Metadata.TotalSubcommands != 3 {
		t.Errorf("TotalSubcommands = %d, want 3", a.Metadata.TotalSubcommands)
	}
	if a.Metadata.TotalOptions != 4 {
		t.Errorf("TotalOptions = %d, want 4", a.Metadata.TotalOptions)
	}
	if a.Metadata.DurationMS != 1500 {
		t.Errorf("DurationMS = %d, want 1500", a.Metadata.DurationMS)
	}
	if a.MaxDepth() != 1 {
		t.Errorf("MaxDepth = %d, want 1", a.MaxDepth())
	}
}

func TestNewAnalysisIdentity(t *testing.T) {
	a := NewAnalysis("/bin/x", "x", "help", "2.0.0")
	b := NewAnalysis("/bin/x", "x", "help", "2.0.0")

	if a.Metadata.AnalysisID == "" || a.Metadata.AnalysisID == b.Metadata.AnalysisID {
		t.Error("each analysis should get a unique non-empty ID")
	}
	if _, err := time.Parse(time.RFC3339, a.Metadata.AnalyzedAt); err != nil {
		t.Errorf("AnalyzedAt should be RFC3339: %v", err)
	}
}

func TestAnalysisJSONEmitsArraysNotNull(t *testing.T) {
	a := NewAnalysis("/usr/bin/tool", "tool", "Usage: tool", "1.0.0")

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"global_options":[]`, `"subcommands":[]`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("output %s missing %s", data, want)
		}
	}

	// Slices nilled out later are normalized back by the metadata pass.
	a.GlobalOptions = nil
	a.Subcommands = []Subcommand{{Name: "run"}}
	a.RecomputeMetadata(time.Millisecond)

	data, err = json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("output should never carry null slices: %s", data)
	}
	if !strings.Contains(string(data), `"options":[]`) {
		t.Errorf("nested subcommand options should serialize as []: %s", data)
	}
}

func TestAnalysisJSONRoundTrip(t *testing.T) {
	min, max := int64(1), int64(65535)
	a := NewAnalysis("/usr/bin/tool", "tool", "Usage: tool [OPTIONS]", "1.0.0")
	a.Version = "3.2.1"
	a.NoArgsBehavior = ShowHelp
	a.GlobalOptions = []CliOption{
		{Short: "-p", Long: "--port", Type: OptionType{Kind: KindNumeric, Min: &min, Max: &max}},
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back CliAnalysis
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.NoArgsBehavior != ShowHelp {
		t.Errorf("NoArgsBehavior = %q, want %q", back.NoArgsBehavior, ShowHelp)
	}
	opt := back.GlobalOptions[0]
	if opt.Type.Kind != KindNumeric || !opt.Type.Bounded() || *opt.Type.Min != 1 || *opt.Type.Max != 65535 {
		t.Errorf("numeric bounds lost in round trip: %+v", opt.Type)
	}
}
