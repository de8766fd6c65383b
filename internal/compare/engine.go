package compare

import (
	"errors"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pulumi/json-equals/internal/jsontree"
)

var (
	// ErrInvalidRoot indicates a document root that is neither an object nor an array.
	ErrInvalidRoot = errors.New("document root must be an object or an array")
	// ErrRootMismatch indicates an object-rooted document compared with an array-rooted one.
	ErrRootMismatch = errors.New("document roots are of different kinds")
)

// Logger receives trace output while a comparison walks the documents.
type Logger interface {
	Debugf(format string, args ...any)
}

// Options configures a Comparator.
type Options struct {
	// Ignore lists path patterns whose subtrees are skipped.
	Ignore []string
	// Prune lists predicates selecting array elements to drop before the
	// arrays are compared. An element is dropped if any predicate selects it.
	Prune []PrunePredicate
	// SkipEmptyArrays skips arrays where either side is empty after pruning
	// instead of reporting a length mismatch.
	SkipEmptyArrays bool
	// Logger, if set, traces visited leaves and pruned elements.
	Logger Logger
}

// Comparator holds an immutable comparison configuration. It is safe for
// concurrent use; every Compare call records into its own Report.
type Comparator struct {
	ignoreExact    mapset.Set[string]
	ignorePatterns []string
	prune          []PrunePredicate
	skipEmpty      bool
	logger         Logger
}

// New builds a Comparator from opts.
func New(opts Options) *Comparator {
	c := &Comparator{
		ignoreExact: mapset.NewSet[string](),
		prune:       append([]PrunePredicate(nil), opts.Prune...),
		skipEmpty:   opts.SkipEmptyArrays,
		logger:      opts.Logger,
	}
	for _, pattern := range opts.Ignore {
		if strings.Contains(pattern, Wildcard) {
			c.ignorePatterns = append(c.ignorePatterns, pattern)
			continue
		}
		c.ignoreExact.Add(pattern)
	}
	return c
}

// Compare deep-compares source against comparate. Both roots must be objects
// or both must be arrays; otherwise no Report is produced.
func (c *Comparator) Compare(source, comparate jsontree.Value) (Report, error) {
	sk, ck := source.Kind(), comparate.Kind()
	if !sk.IsContainer() || !ck.IsContainer() {
		return Report{}, fmt.Errorf("%w: got %s and %s", ErrInvalidRoot, sk, ck)
	}
	if sk != ck {
		return Report{}, fmt.Errorf("%w: %s vs %s", ErrRootMismatch, sk, ck)
	}

	w := &walker{Comparator: c}
	if sk == jsontree.Object {
		w.compareObjects(source, comparate, RootPath)
	} else {
		w.compareArrays(source, comparate, RootPath)
	}
	return w.rec.report(), nil
}

// Compare is shorthand for New(opts).Compare(source, comparate).
func Compare(source, comparate jsontree.Value, opts Options) (Report, error) {
	return New(opts).Compare(source, comparate)
}

func (c *Comparator) ignored(path string) bool {
	if c.ignoreExact.Contains(path) {
		return true
	}
	for _, pattern := range c.ignorePatterns {
		if Match(path, pattern) {
			return true
		}
	}
	return false
}

func (c *Comparator) tracef(format string, args ...any) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}

// walker is the state of a single comparison run.
type walker struct {
	*Comparator
	rec recorder
}

func (w *walker) compareObjects(a, b jsontree.Value, path string) {
	if w.ignored(path) {
		return
	}

	keysA, keysB := a.Keys(), b.Keys()
	if !mapset.NewThreadUnsafeSet(keysA...).Equal(mapset.NewThreadUnsafeSet(keysB...)) {
		w.rec.inequality(path, CategoryKeySet, keySetDiffers(path, keysA, keysB))
		return
	}

	for _, key := range keysA {
		va, _ := a.Field(key)
		vb, _ := b.Field(key)
		child := childPath(path, key)
		switch {
		case va.Kind() == jsontree.Object && vb.Kind() == jsontree.Object:
			w.compareObjects(va, vb, child)
		case va.Kind() == jsontree.Array && vb.Kind() == jsontree.Array:
			w.compareArrays(va, vb, child)
		default:
			w.compareValues(va, vb, child)
		}
	}
}

func (w *walker) compareArrays(a, b jsontree.Value, path string) {
	if w.ignored(path) {
		return
	}

	ca, cb := classify(a), classify(b)
	if len(w.prune) > 0 {
		ca.prune(path, w.prune, w.pruned("source"))
		cb.prune(path, w.prune, w.pruned("comparate"))
	}

	if ca.len() == 0 || cb.len() == 0 {
		if ca.len() != cb.len() && !w.skipEmpty {
			w.rec.inequality(path, CategoryLength, lengthDiffers(path, ca.len(), cb.len()))
		}
		return
	}
	if !ca.balanced(cb) {
		w.rec.inequality(path, CategoryLength, lengthDiffers(path, ca.len(), cb.len()))
		return
	}

	for i := 0; i < ca.len(); i++ {
		ea, eb := ca.at(i), cb.at(i)
		elemPath := indexPath(path, ea.index)
		if ea.class != eb.class {
			if !w.ignored(elemPath) {
				w.rec.inequality(elemPath, CategoryType, elementTypeDiffers(elemPath, ea.class, eb.class))
			}
			continue
		}
		switch ea.class {
		case classObject:
			w.compareObjects(ea.value, eb.value, elemPath)
		case classArray:
			w.compareArrays(ea.value, eb.value, elemPath)
		default:
			w.compareValues(ea.value, eb.value, elemPath)
		}
	}
}

// compareValues compares two leaves. Containers never meet here with equal
// kinds; a container against anything else is a type mismatch.
func (w *walker) compareValues(a, b jsontree.Value, path string) {
	if w.ignored(path) {
		return
	}
	w.tracef("checking leaf %s", path)

	if a.Kind() != b.Kind() {
		w.rec.inequality(path, CategoryType, typeDiffers(path, a.Kind(), b.Kind()))
		return
	}
	if !jsontree.ScalarEqual(a, b) {
		w.rec.inequality(path, CategoryValue, valueDiffers(path, a, b))
		return
	}
	w.rec.success(agreed(path, a))
}

func (w *walker) pruned(side string) func(string) {
	if w.logger == nil {
		return nil
	}
	return func(elementPath string) {
		w.tracef("pruning %s %s", side, elementPath)
	}
}
