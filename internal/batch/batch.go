// Package batch pairs the documents of two directory trees and compares each
// pair.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pulumi/json-equals/internal/compare"
	"github.com/pulumi/json-equals/internal/load"
)

// DefaultPattern selects every JSON document below a directory.
const DefaultPattern = "**/*.json"

// Pair is one relative path looked up in both trees. An empty Source or
// Comparate means the file only exists on the other side.
type Pair struct {
	Rel       string
	Source    string
	Comparate string
}

// Complete reports whether both sides of the pair exist.
func (p Pair) Complete() bool { return p.Source != "" && p.Comparate != "" }

// Pairs matches pattern in both directories and returns the union of the
// relative paths, sorted.
func Pairs(sourceDir, comparateDir, pattern string) ([]Pair, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	sources, err := glob(sourceDir, pattern)
	if err != nil {
		return nil, err
	}
	comparates, err := glob(comparateDir, pattern)
	if err != nil {
		return nil, err
	}

	rels := sources.Union(comparates).ToSlice()
	sort.Strings(rels)

	pairs := make([]Pair, 0, len(rels))
	for _, rel := range rels {
		p := Pair{Rel: rel}
		if sources.Contains(rel) {
			p.Source = filepath.Join(sourceDir, filepath.FromSlash(rel))
		}
		if comparates.Contains(rel) {
			p.Comparate = filepath.Join(comparateDir, filepath.FromSlash(rel))
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func glob(dir, pattern string) (mapset.Set[string], error) {
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("searching %s with pattern '%s': %w", dir, pattern, err)
	}
	return mapset.NewThreadUnsafeSet(matches...), nil
}

// Outcome is the result of comparing one Pair. Err is set when a side is
// missing, unreadable or the roots cannot be compared.
type Outcome struct {
	Pair   Pair
	Report compare.Report
	Err    error
}

// Run compares every pair with c, using at most workers goroutines. The
// outcomes are returned in the order of pairs. Run only fails when ctx is
// cancelled.
func Run(ctx context.Context, c *compare.Comparator, loader load.Loader, pairs []Pair, workers int) ([]Outcome, error) {
	outcomes := make([]Outcome, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, p := range pairs {
		outcomes[i].Pair = p
		if !p.Complete() {
			outcomes[i].Err = missing(p)
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i].Report, outcomes[i].Err = comparePair(ctx, c, loader, p)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func comparePair(ctx context.Context, c *compare.Comparator, loader load.Loader, p Pair) (compare.Report, error) {
	source, err := loader.Document(ctx, p.Source)
	if err != nil {
		return compare.Report{}, err
	}
	comparate, err := loader.Document(ctx, p.Comparate)
	if err != nil {
		return compare.Report{}, err
	}
	return c.Compare(source, comparate)
}

// ErrMissing is wrapped by outcomes whose pair lacks a side.
var ErrMissing = errors.New("document missing")

func missing(p Pair) error {
	if p.Source == "" {
		return fmt.Errorf("%w in source tree: %s", ErrMissing, p.Rel)
	}
	return fmt.Errorf("%w in comparate tree: %s", ErrMissing, p.Rel)
}
