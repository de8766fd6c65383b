package compare

import (
	"sort"
	"strings"

	"github.com/pulumi/json-equals/internal/jsontree"
)

// PredicateSeparator separates the element pattern from the field path in
// the textual form of a prune predicate.
const PredicateSeparator = ":"

// PrunePredicate deletes object elements of an array before comparison when
// the element sits at a position matching Pattern and the scalar found by
// descending Field renders to Value.
type PrunePredicate struct {
	Pattern string
	Field   string
	Value   string

	malformed bool
}

// ParsePrunePredicate builds a predicate from its textual key
// ("pattern:field.path") and expected value. A key that does not split into
// exactly two non-empty parts yields a predicate that never matches.
func ParsePrunePredicate(key, value string) PrunePredicate {
	parts := strings.Split(key, PredicateSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return PrunePredicate{Pattern: key, Value: value, malformed: true}
	}
	return PrunePredicate{Pattern: parts[0], Field: parts[1], Value: value}
}

// PrunePredicatesFromMap parses the key/value form used by configuration
// files. The result is ordered by key so runs are reproducible.
func PrunePredicatesFromMap(m map[string]string) []PrunePredicate {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	predicates := make([]PrunePredicate, 0, len(keys))
	for _, k := range keys {
		predicates = append(predicates, ParsePrunePredicate(k, m[k]))
	}
	return predicates
}

// Malformed reports whether the predicate was parsed from an unusable key.
func (p PrunePredicate) Malformed() bool {
	return p.malformed || p.Pattern == "" || p.Field == ""
}

// Key returns the textual "pattern:field" form of the predicate.
func (p PrunePredicate) Key() string {
	if p.malformed {
		return p.Pattern
	}
	return p.Pattern + PredicateSeparator + p.Field
}

// matches reports whether the element at path should be pruned.
func (p PrunePredicate) matches(path string, element jsontree.Value) bool {
	if p.Malformed() || element.Kind() != jsontree.Object {
		return false
	}
	if !Match(path, p.Pattern) {
		return false
	}
	got, ok := resolveField(element, p.Field)
	return ok && got == p.Value
}

// resolveField walks the dotted field path from obj and renders the scalar
// at its end. A missing leaf renders as "null". The second result is false
// when an intermediate step is missing or not an object, or when the leaf
// is a container.
func resolveField(obj jsontree.Value, dotted string) (string, bool) {
	steps := strings.Split(dotted, fieldSeparator)
	current := obj
	for _, step := range steps[:len(steps)-1] {
		if current.Kind() != jsontree.Object {
			return "", false
		}
		next, ok := current.Field(step)
		if !ok {
			return "", false
		}
		current = next
	}
	if current.Kind() != jsontree.Object {
		return "", false
	}

	leaf, ok := current.Field(steps[len(steps)-1])
	if !ok {
		return "null", true
	}
	if leaf.Kind().IsContainer() {
		return "", false
	}
	return leaf.Render(), true
}
