// Package parallel chooses a fan-out strategy for downstream test
// generation from the estimated workload size. Analysis itself stays
// strictly sequential; only generation fans out.
package parallel

import (
	"runtime"

	"github.com/sanae-abe/cli-testing-specialist/internal/logger"
	"github.com/sanae-abe/cli-testing-specialist/internal/types"
)

var log = logger.New("parallel")

// Strategy is the degree of fan-out for test generation.
type Strategy string

const (
	// Sequential runs everything single-threaded.
	Sequential Strategy = "sequential"
	// CategoryLevel fans out one worker per test category.
	CategoryLevel Strategy = "category_level"
	// TestLevel additionally fans out within each category.
	TestLevel Strategy = "test_level"
)

// Workload describes the estimated generation workload.
type Workload struct {
	NumCategories             int
	EstimatedTestsPerCategory int
	NumCPUs                   int
}

// NewWorkload estimates the workload for an analysis split across the
// given number of test categories.
func NewWorkload(analysis *types.CliAnalysis, numCategories int) Workload {
	return Workload{
		NumCategories:             numCategories,
		EstimatedTestsPerCategory: estimateTestsPerCategory(analysis, numCategories),
		NumCPUs:                   runtime.NumCPU(),
	}
}

// TotalEstimatedTests returns the estimated test count across all
// categories.
func (w Workload) TotalEstimatedTests() int {
	return w.NumCategories * w.EstimatedTestsPerCategory
}

// estimateTestsPerCategory derives a rough per-category test count
// from the CLI's complexity, clamped to 5..50.
func estimateTestsPerCategory(analysis *types.CliAnalysis, numCategories int) int {
	if numCategories == 0 {
		return 0
	}

	complexity := len(analysis.GlobalOptions) + analysis.Metadata.TotalSubcommands
	if complexity < 1 {
		complexity = 1
	}
	perCategory := complexity * 2 / numCategories

	if perCategory < 5 {
		return 5
	}
	if perCategory > 50 {
		return 50
	}
	return perCategory
}

// Choose picks the fan-out strategy: small workloads run sequential,
// medium ones fan out per category, and large workloads on enough
// cores fan out within categories too.
func Choose(w Workload) Strategy {
	total := w.TotalEstimatedTests()

	if total < 20 || w.NumCategories <= 1 {
		log.Debug("choosing sequential strategy (tests=%d, categories=%d)", total, w.NumCategories)
		return Sequential
	}
	if total < 100 || w.NumCPUs < 4 {
		log.Debug("choosing category-level strategy (tests=%d, cpus=%d)", total, w.NumCPUs)
		return CategoryLevel
	}
	log.Debug("choosing test-level strategy (tests=%d, cpus=%d)", total, w.NumCPUs)
	return TestLevel
}
