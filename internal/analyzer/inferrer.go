package analyzer

import (
	"strings"

	"github.com/sanae-abe/cli-testing-specialist/internal/config"
	"github.com/sanae-abe/cli-testing-specialist/internal/types"
)

// Inferrer refines parsed option types using the loaded inference
// tables. It holds only read-only shared state and is safe for
// concurrent use.
type Inferrer struct {
	tables *config.Tables
}

// NewInferrer returns an inferrer backed by the given tables.
func NewInferrer(tables *config.Tables) *Inferrer {
	return &Inferrer{tables: tables}
}

// InferTypes reclassifies every value-taking option in place, then
// runs the numeric and enum augmentation passes. Flag options are
// never reclassified.
func (inf *Inferrer) InferTypes(options []types.CliOption) {
	for i := range options {
		options[i].Type = inf.inferType(&options[i])
	}
	inf.applyNumericConstraints(options)
	inf.applyEnumValues(options)
}

func (inf *Inferrer) inferType(opt *types.CliOption) types.OptionType {
	if opt.Type.Kind == types.KindFlag {
		return opt.Type
	}

	name := canonicalName(opt)
	for _, p := range inf.tables.Patterns.Patterns {
		if inf.matchesPattern(name, p) {
			return kindToType(p.Type)
		}
	}
	return kindToType(inf.tables.Patterns.DefaultType)
}

// matchesPattern checks the canonical name against one rule's
// keywords, honoring the table's case, partial-match, and minimum
// keyword length settings.
func (inf *Inferrer) matchesPattern(name string, p config.OptionPattern) bool {
	settings := inf.tables.Patterns.Settings
	if !settings.CaseSensitive {
		name = strings.ToLower(name)
	}

	for _, keyword := range p.Keywords {
		if !settings.CaseSensitive {
			keyword = strings.ToLower(keyword)
		}
		if settings.PartialMatch {
			if len(keyword) >= settings.MinKeywordLength && strings.Contains(name, keyword) {
				return true
			}
		} else if name == keyword {
			return true
		}
	}
	return false
}

// applyNumericConstraints assigns bounds to every numeric option. An
// option matching no constraint alias gets the table defaults, so min
// and max are always set together.
func (inf *Inferrer) applyNumericConstraints(options []types.CliOption) {
	for i := range options {
		if options[i].Type.Kind != types.KindNumeric {
			continue
		}

		name := strings.ToLower(canonicalName(&options[i]))
		min, max := inf.tables.Numeric.Defaults.Min, inf.tables.Numeric.Defaults.Max
		for _, c := range inf.tables.Numeric.Ordered() {
			if anyAliasContained(name, c.Aliases) {
				min, max = c.Min, c.Max
				break
			}
		}
		lo, hi := min, max
		options[i].Type.Min = &lo
		options[i].Type.Max = &hi
	}
}

// applyEnumValues assigns allowed values to every enum option whose
// canonical name matches an alias. Unmatched enums keep an empty
// value list.
func (inf *Inferrer) applyEnumValues(options []types.CliOption) {
	for i := range options {
		if options[i].Type.Kind != types.KindEnum {
			continue
		}

		name := strings.ToLower(canonicalName(&options[i]))
		for _, def := range inf.tables.Enums.Ordered() {
			if anyAliasContained(name, def.Aliases) {
				options[i].Type.Values = append([]string(nil), def.Values...)
				break
			}
		}
	}
}

// canonicalName strips leading dashes off the long flag, falling back
// to the short flag.
func canonicalName(opt *types.CliOption) string {
	if opt.Long != "" {
		return strings.TrimLeft(opt.Long, "-")
	}
	return strings.TrimLeft(opt.Short, "-")
}

func anyAliasContained(name string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.Contains(name, strings.ToLower(alias)) {
			return true
		}
	}
	return false
}

func kindToType(patternType string) types.OptionType {
	switch patternType {
	case "numeric":
		return types.NumericType()
	case "path":
		return types.PathType()
	case "enum":
		return types.EnumType(nil)
	case "boolean":
		return types.FlagType()
	default:
		return types.StringType()
	}
}
