package compare

import (
	"fmt"
	"io"

	internalcompare "github.com/pulumi/json-equals/internal/compare"
	"github.com/pulumi/json-equals/internal/jsontree"
)

// Compare parses two JSON documents and compares them.
func Compare(source, comparate []byte, opts Options) (Result, error) {
	a, err := jsontree.Parse(source)
	if err != nil {
		return Result{}, fmt.Errorf("source: %w", err)
	}
	b, err := jsontree.Parse(comparate)
	if err != nil {
		return Result{}, fmt.Errorf("comparate: %w", err)
	}
	return compareValues(a, b, opts)
}

// CompareValues compares two documents already decoded by encoding/json
// (maps, slices and scalars).
func CompareValues(source, comparate any, opts Options) (Result, error) {
	a, err := jsontree.FromAny(source)
	if err != nil {
		return Result{}, fmt.Errorf("source: %w", err)
	}
	b, err := jsontree.FromAny(comparate)
	if err != nil {
		return Result{}, fmt.Errorf("comparate: %w", err)
	}
	return compareValues(a, b, opts)
}

func compareValues(source, comparate jsontree.Value, opts Options) (Result, error) {
	report, err := internalcompare.Compare(source, comparate, internalOptions(opts))
	if err != nil {
		return Result{}, err
	}

	return Result{
		Equal:         report.IsEqual(),
		Summary:       summarize(report),
		Inequalities:  cloneOrEmpty(report.Inequalities()),
		Successes:     cloneOrEmpty(report.Successes()),
		report:        report,
		maxChanges:    opts.MaxChanges,
		showSuccesses: opts.ShowSuccesses,
	}, nil
}

func internalOptions(opts Options) internalcompare.Options {
	predicates := make([]internalcompare.PrunePredicate, 0, len(opts.Prune)+len(opts.PruneKeys))
	for _, r := range opts.Prune {
		predicates = append(predicates, internalcompare.PrunePredicate{Pattern: r.Path, Field: r.Field, Value: r.Value})
	}
	predicates = append(predicates, internalcompare.PrunePredicatesFromMap(opts.PruneKeys)...)

	internal := internalcompare.Options{
		Ignore:          opts.Ignore,
		Prune:           predicates,
		SkipEmptyArrays: opts.SkipEmptyArrays,
	}
	if opts.Logger != nil {
		internal.Logger = opts.Logger
	}
	return internal
}

// summarize groups the findings by category, in catalogue order.
func summarize(report internalcompare.Report) []SummaryItem {
	byCategory := map[string]*SummaryItem{}
	for _, f := range report.Findings() {
		category := string(f.Category)
		item, ok := byCategory[category]
		if !ok {
			item = &SummaryItem{Category: category}
			byCategory[category] = item
		}
		item.Count++
		item.Entries = append(item.Entries, f.Message)
	}

	summary := []SummaryItem{}
	for _, category := range []string{categoryKeySet, categoryLength, categoryType, categoryValue} {
		if item, ok := byCategory[category]; ok {
			summary = append(summary, *item)
		}
	}
	return summary
}

// RenderText writes the human-readable compare output.
func RenderText(out io.Writer, result Result) {
	internalcompare.RenderText(out, result.report, result.maxChanges)
	if result.showSuccesses {
		internalcompare.RenderSuccesses(out, result.report)
	}
}

func cloneOrEmpty(xs []string) []string {
	if len(xs) == 0 {
		return []string{}
	}
	clone := make([]string, len(xs))
	copy(clone, xs)
	return clone
}
