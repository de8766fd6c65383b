package compare

import (
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"

	"github.com/pulumi/json-equals/internal/jsontree"
)

// class is the coarse type of an array element used to balance two arrays
// before they are walked position by position.
type class uint8

const (
	classObject class = iota
	classArray
	classValue
)

func (c class) String() string {
	switch c {
	case classObject:
		return "object"
	case classArray:
		return "array"
	}
	return "value"
}

func classOf(v jsontree.Value) class {
	switch v.Kind() {
	case jsontree.Object:
		return classObject
	case jsontree.Array:
		return classArray
	}
	return classValue
}

type child struct {
	value jsontree.Value
	class class
	// index is the position of the element in the source array. It survives
	// pruning so paths keep addressing the original document.
	index int
}

// children is the classified, prunable copy of one array's elements.
type children struct {
	items  []child
	counts [3]int
}

func classify(arr jsontree.Value) *children {
	c := &children{items: make([]child, 0, arr.Len())}
	for i := 0; i < arr.Len(); i++ {
		v := arr.Index(i)
		cls := classOf(v)
		c.items = append(c.items, child{value: v, class: cls, index: i})
		c.counts[cls]++
	}
	return c
}

func (c *children) len() int                  { return len(c.items) }
func (c *children) objectCount() int          { return c.counts[classObject] }
func (c *children) arrayCount() int           { return c.counts[classArray] }
func (c *children) valueCount() int           { return c.counts[classValue] }
func (c *children) at(i int) child            { return c.items[i] }
func (c *children) balanced(o *children) bool { return c.counts == o.counts }

// prune drops every object element that one of the predicates selects. The
// elements are addressed under path by their original index.
func (c *children) prune(path string, predicates []PrunePredicate, pruned func(elementPath string)) {
	kept := c.items[:0]
	for _, ch := range c.items {
		if ch.class == classObject && anyMatches(predicates, indexPath(path, ch.index), ch.value) {
			c.counts[classObject]--
			if pruned != nil {
				pruned(indexPath(path, ch.index))
			}
			continue
		}
		kept = append(kept, ch)
	}
	c.items = kept
	contract.Assertf(c.counts[classObject] >= 0, "negative object count after pruning %s", path)
}

func anyMatches(predicates []PrunePredicate, path string, element jsontree.Value) bool {
	for _, p := range predicates {
		if p.matches(path, element) {
			return true
		}
	}
	return false
}
