package stats

import (
	"github.com/pulumi/json-equals/internal/compare"
	"github.com/pulumi/json-equals/internal/jsontree"
)

// Stats describes the shape of one JSON document.
type Stats struct {
	Summary Summary `json:"summary"`
	// Paths counts the leaves found under each wildcard path, for example
	// "$[*].data.last_updated". The keys are valid ignore patterns.
	Paths map[string]int `json:"paths"`
}

// Summary counts the values of a document by kind.
type Summary struct {
	// Objects is the number of objects, including the root.
	Objects int `json:"objects"`
	// Arrays is the number of arrays, including the root.
	Arrays int `json:"arrays"`
	// EmptyArrays is the number of arrays without elements.
	EmptyArrays int `json:"emptyArrays"`
	// Fields is the total number of object members.
	Fields   int `json:"fields"`
	Strings  int `json:"strings"`
	Integers int `json:"integers"`
	Floats   int `json:"floats"`
	Booleans int `json:"booleans"`
	Nulls    int `json:"nulls"`
	// MaxDepth is the deepest container nesting; a flat root has depth 1.
	MaxDepth int `json:"maxDepth"`
}

// Leaves is the number of scalar values in the document.
func (s Summary) Leaves() int {
	return s.Strings + s.Integers + s.Floats + s.Booleans + s.Nulls
}

// Of computes the statistics of doc.
func Of(doc jsontree.Value) Stats {
	builder := &statsBuilder{stats: Stats{Paths: map[string]int{}}}

	visitDocument(doc, builder)

	return builder.stats
}

type documentVisitor interface {
	visitObject(obj jsontree.Value, depth int)
	visitArray(arr jsontree.Value, depth int)
	visitLeaf(pattern string, leaf jsontree.Value)
}

// visitDocument walks doc depth first. Array indices are replaced by the
// wildcard so that patterns aggregate over elements.
func visitDocument(doc jsontree.Value, visitor documentVisitor) {
	var visit func(v jsontree.Value, pattern string, depth int)
	visit = func(v jsontree.Value, pattern string, depth int) {
		switch v.Kind() {
		case jsontree.Object:
			visitor.visitObject(v, depth+1)
			for _, key := range v.Keys() {
				field, _ := v.Field(key)
				visit(field, pattern+"."+key, depth+1)
			}
		case jsontree.Array:
			visitor.visitArray(v, depth+1)
			elements := pattern + "[" + compare.Wildcard + "]"
			for i := 0; i < v.Len(); i++ {
				visit(v.Index(i), elements, depth+1)
			}
		default:
			visitor.visitLeaf(pattern, v)
		}
	}
	visit(doc, compare.RootPath, 0)
}

type statsBuilder struct {
	stats Stats
}

func (b *statsBuilder) visitObject(obj jsontree.Value, depth int) {
	b.stats.Summary.Objects++
	b.stats.Summary.Fields += obj.Len()
	b.depth(depth)
}

func (b *statsBuilder) visitArray(arr jsontree.Value, depth int) {
	b.stats.Summary.Arrays++
	if arr.Len() == 0 {
		b.stats.Summary.EmptyArrays++
	}
	b.depth(depth)
}

func (b *statsBuilder) visitLeaf(pattern string, leaf jsontree.Value) {
	b.stats.Paths[pattern]++

	s := &b.stats.Summary
	switch leaf.Kind() {
	case jsontree.String:
		s.Strings++
	case jsontree.Integer:
		s.Integers++
	case jsontree.Float:
		s.Floats++
	case jsontree.Boolean:
		s.Booleans++
	default:
		s.Nulls++
	}
}

func (b *statsBuilder) depth(d int) {
	if d > b.stats.Summary.MaxDepth {
		b.stats.Summary.MaxDepth = d
	}
}
