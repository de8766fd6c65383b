package compare

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

type summaryOnlyJSON struct {
	Equal   bool          `json:"equal"`
	Summary []SummaryItem `json:"summary"`
}

type fullJSON struct {
	Equal        bool          `json:"equal"`
	Summary      []SummaryItem `json:"summary"`
	Inequalities []string      `json:"inequalities"`
	Successes    int           `json:"successes"`
}

// RenderJSON writes a deterministic JSON payload for compare results. The
// summary-only form carries the inequality messages inside each category.
func RenderJSON(out io.Writer, result Result, summaryOnly bool) error {
	normalized := normalizeForJSON(result)

	var payload any
	if summaryOnly {
		payload = summaryOnlyJSON{Equal: normalized.Equal, Summary: normalized.Summary}
	} else {
		payload = fullJSON{
			Equal:        normalized.Equal,
			Summary:      summaryWithoutEntries(normalized.Summary),
			Inequalities: normalized.Inequalities,
			Successes:    len(result.Successes),
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal compare JSON: %w", err)
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write compare JSON: %w", err)
	}
	return nil
}

func normalizeForJSON(result Result) Result {
	return Result{
		Equal:        result.Equal,
		Summary:      normalizeSummary(result.Summary),
		Inequalities: cloneOrEmpty(result.Inequalities),
		Successes:    cloneOrEmpty(result.Successes),
	}
}

func normalizeSummary(items []SummaryItem) []SummaryItem {
	if len(items) == 0 {
		return []SummaryItem{}
	}
	normalized := make([]SummaryItem, len(items))
	for i, item := range items {
		entryCopy := cloneOrEmpty(item.Entries)
		sort.Strings(entryCopy)
		normalized[i] = SummaryItem{
			Category: item.Category,
			Count:    item.Count,
			Entries:  entryCopy,
		}
	}
	sort.Slice(normalized, func(i, j int) bool {
		if normalized[i].Category != normalized[j].Category {
			return normalized[i].Category < normalized[j].Category
		}
		return normalized[i].Count < normalized[j].Count
	})
	return normalized
}

func summaryWithoutEntries(items []SummaryItem) []SummaryItem {
	if len(items) == 0 {
		return []SummaryItem{}
	}
	stripped := make([]SummaryItem, len(items))
	for i, item := range items {
		stripped[i] = SummaryItem{Category: item.Category, Count: item.Count}
	}
	return stripped
}
