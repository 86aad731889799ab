package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

const (
	patternsFile = "option-patterns.yaml"
	numericFile  = "numeric-constraints.yaml"
	enumsFile    = "enum-definitions.yaml"
)

// validate is the shared validator instance for table schemas.
var validate = validator.New()

// OptionPattern is one priority-ordered keyword rule for option type
// inference.
type OptionPattern struct {
	Type        string   `yaml:"type" validate:"required,oneof=string numeric path enum boolean"`
	Priority    int      `yaml:"priority" validate:"min=0,max=255"`
	Keywords    []string `yaml:"keywords" validate:"required,min=1,dive,min=1"`
	Description string   `yaml:"description"`
}

// PatternSettings controls how keywords are matched against option names.
type PatternSettings struct {
	CaseSensitive    bool `yaml:"case_sensitive"`
	PartialMatch     bool `yaml:"partial_match"`
	MinKeywordLength int  `yaml:"min_keyword_length" validate:"min=1"`
}

// PatternTable is the full inference rule set. Patterns are sorted by
// descending priority at load, so lookups are a plain linear scan.
type PatternTable struct {
	Patterns    []OptionPattern `yaml:"patterns" validate:"required,min=1,dive"`
	DefaultType string          `yaml:"default_type" validate:"required,oneof=string numeric path enum boolean"`
	Settings    PatternSettings `yaml:"settings"`
}

// NumericConstraint assigns bounds to numeric options whose canonical
// name contains one of the aliases.
type NumericConstraint struct {
	Aliases     []string `yaml:"aliases" validate:"required,min=1,dive,min=1"`
	Min         int64    `yaml:"min"`
	Max         int64    `yaml:"max" validate:"gtefield=Min"`
	Unit        string   `yaml:"unit"`
	Description string   `yaml:"description"`
}

// NumericDefaults are the bounds for numeric options no alias matched.
// Both are always applied together.
type NumericDefaults struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max" validate:"gtefield=Min"`
}

// NumericTable maps constraint names to their definitions.
type NumericTable struct {
	Constraints map[string]NumericConstraint `yaml:"constraints" validate:"dive"`
	Defaults    NumericDefaults              `yaml:"default_constraints"`

	ordered []NumericConstraint
}

// Ordered returns the constraints in deterministic (name-sorted)
// order, precomputed at load.
func (t *NumericTable) Ordered() []NumericConstraint { return t.ordered }

// EnumDefinition assigns allowed values to enum options whose
// canonical name contains one of the aliases.
type EnumDefinition struct {
	Aliases     []string `yaml:"aliases" validate:"required,min=1,dive,min=1"`
	Values      []string `yaml:"values" validate:"required,min=1,dive,min=1"`
	Description string   `yaml:"description"`
}

// EnumTable maps enum names to their definitions.
type EnumTable struct {
	Enums map[string]EnumDefinition `yaml:"enums" validate:"dive"`

	ordered []EnumDefinition
}

// Ordered returns the definitions in deterministic (name-sorted)
// order, precomputed at load.
func (t *EnumTable) Ordered() []EnumDefinition { return t.ordered }

// Tables bundles the three inference tables. A Tables value is
// read-only after load and safe to share by reference.
type Tables struct {
	Patterns PatternTable
	Numeric  NumericTable
	Enums    EnumTable
}

var (
	tablesOnce   sync.Once
	cachedTables *Tables
	cachedErr    error
)

// DefaultTables returns the process-wide table set loaded from the
// embedded defaults. The load happens exactly once; every later call
// returns the same shared read-only value.
func DefaultTables() (*Tables, error) {
	tablesOnce.Do(func() {
		cachedTables, cachedErr = LoadTables("")
	})
	return cachedTables, cachedErr
}

// LoadTables loads the inference tables. When dir is non-empty, files
// present there override the embedded defaults file-by-file.
func LoadTables(dir string) (*Tables, error) {
	t := &Tables{}

	if err := loadTable(dir, patternsFile, &t.Patterns); err != nil {
		return nil, err
	}
	if err := loadTable(dir, numericFile, &t.Numeric); err != nil {
		return nil, err
	}
	if err := loadTable(dir, enumsFile, &t.Enums); err != nil {
		return nil, err
	}

	// Hoist the priority sort out of the per-option lookup path.
	sort.SliceStable(t.Patterns.Patterns, func(i, j int) bool {
		return t.Patterns.Patterns[i].Priority > t.Patterns.Patterns[j].Priority
	})

	t.Numeric.ordered = orderedValues(t.Numeric.Constraints)
	t.Enums.ordered = orderedValues(t.Enums.Enums)

	cfgLog.Debug("inference tables loaded: %d patterns, %d numeric constraints, %d enums",
		len(t.Patterns.Patterns), len(t.Numeric.Constraints), len(t.Enums.Enums))
	return t, nil
}

func loadTable(dir, name string, out any) error {
	data, err := readTable(dir, name)
	if err != nil {
		return err
	}
	if err := decodeStrict(name, data, out); err != nil {
		return err
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%s: schema validation failed: %w", name, err)
	}
	return nil
}

func readTable(dir, name string) ([]byte, error) {
	if dir != "" {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path) //nolint:gosec // user-supplied table dir
		if err == nil {
			cfgLog.Debug("using table override: %s", path)
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return defaultsFS.ReadFile("defaults/" + name)
}

func orderedValues[V any](m map[string]V) []V {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	vals := make([]V, 0, len(names))
	for _, name := range names {
		vals = append(vals, m[name])
	}
	return vals
}
