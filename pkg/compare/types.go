package compare

import internalcompare "github.com/pulumi/json-equals/internal/compare"

const (
	categoryKeySet = string(internalcompare.CategoryKeySet)
	categoryLength = string(internalcompare.CategoryLength)
	categoryType   = string(internalcompare.CategoryType)
	categoryValue  = string(internalcompare.CategoryValue)
)

// Logger receives trace output of visited leaves and pruned array elements.
type Logger interface {
	Debugf(format string, args ...any)
}

// PruneRule drops the object elements of arrays at Path whose Field (a
// dotted path inside the element) renders to Value.
type PruneRule struct {
	Path  string `json:"path" yaml:"path"`
	Field string `json:"field" yaml:"field"`
	Value string `json:"value" yaml:"value"`
}

// Options configures compare behavior.
type Options struct {
	// Ignore lists path patterns such as "$[*].meta.updated" whose subtrees
	// are skipped.
	Ignore []string
	// Prune lists structured prune rules.
	Prune []PruneRule
	// PruneKeys holds prune rules in "path:field" form mapped to the
	// expected value. Keys that are not of that form are skipped.
	PruneKeys map[string]string
	// SkipEmptyArrays skips arrays where either side is empty after pruning
	// instead of reporting a length mismatch.
	SkipEmptyArrays bool
	// MaxChanges caps the number of inequality lines rendered by
	// RenderText. Zero or less renders all of them.
	MaxChanges int
	// ShowSuccesses makes RenderText list every matched value.
	ShowSuccesses bool
	Logger        Logger
}

// SummaryItem is one summary category/count entry for compare output.
type SummaryItem struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	// Entries are the inequality messages of the category.
	Entries []string `json:"entries,omitempty"`
}

// Result is the structured output of a document comparison.
type Result struct {
	Equal        bool          `json:"equal"`
	Summary      []SummaryItem `json:"summary"`
	Inequalities []string      `json:"inequalities"`
	Successes    []string      `json:"successes"`

	report        internalcompare.Report
	maxChanges    int
	showSuccesses bool
}

// SuccessCount is the number of matching leaves.
func (r Result) SuccessCount() int { return len(r.Successes) }

// InequalityCount is the number of recorded inequalities.
func (r Result) InequalityCount() int { return len(r.Inequalities) }
