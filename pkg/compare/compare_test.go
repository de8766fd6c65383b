package compare

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalcompare "github.com/pulumi/json-equals/internal/compare"
	"github.com/pulumi/json-equals/internal/jsontree"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func compareFixtures(t *testing.T, name string, opts Options) Result {
	t.Helper()
	result, err := Compare(readFixture(t, name+"_a.json"), readFixture(t, name+"_b.json"), opts)
	require.NoError(t, err)
	return result
}

func TestCompareBooksIgnoresKeyOrder(t *testing.T) {
	result := compareFixtures(t, "book", Options{})

	assert.True(t, result.Equal)
	assert.Equal(t, 12, result.SuccessCount())
	assert.Empty(t, result.Summary)
	assert.Equal(t, []string{}, result.Inequalities)
}

func TestCompareArraysReportsOneInequality(t *testing.T) {
	result := compareFixtures(t, "array", Options{})

	assert.False(t, result.Equal)
	assert.Equal(t, 1, result.InequalityCount())
	assert.Equal(t, 4, result.SuccessCount())
	assert.Equal(t, []SummaryItem{{
		Category: "value-mismatch",
		Count:    1,
		Entries:  []string{"$[1].tags[0]: value mismatch, expected c but got d"},
	}}, result.Summary)
}

func TestCompareIdentitiesWithIgnoreAndPrune(t *testing.T) {
	ignore := []string{"$[*].data.last_updated"}
	prune := map[string]string{"$[*].data.identities[*]:installed": "false"}

	result := compareFixtures(t, "identities", Options{Ignore: ignore, PruneKeys: prune})
	assert.True(t, result.Equal, result.Inequalities)
	want := []string{
		"$[0].data.identities[0].installed==true",
		"$[0].data.identities[0].provider==github",
		"$[0].user==ada",
		"$[1].data.identities[1].installed==true",
		"$[1].data.identities[1].provider==github",
		"$[1].user==grace",
	}
	if diff := cmp.Diff(want, result.Successes); diff != "" {
		t.Fatalf("successes mismatch (-want +got):\n%s", diff)
	}

	structured := compareFixtures(t, "identities", Options{
		Ignore: ignore,
		Prune:  []PruneRule{{Path: "$[*].data.identities[*]", Field: "installed", Value: "false"}},
	})
	if diff := cmp.Diff(result.Successes, structured.Successes); diff != "" {
		t.Fatalf("structured rules differ from keyed rules (-keyed +structured):\n%s", diff)
	}

	result = compareFixtures(t, "identities", Options{Ignore: ignore})
	assert.Equal(t, 5, result.InequalityCount())
	assert.Equal(t, []string{"length-mismatch", "value-mismatch"}, categories(result.Summary))
	assert.Equal(t, 4, result.Summary[1].Count)

	result = compareFixtures(t, "identities", Options{})
	assert.Equal(t, 7, result.InequalityCount())
}

func categories(items []SummaryItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Category
	}
	return out
}

func TestCompareSummaryOrder(t *testing.T) {
	result, err := Compare(
		[]byte(`{"a":1,"b":"x","c":[1],"d":{"k":1}}`),
		[]byte(`{"a":2,"b":1,"c":[1,2],"d":{"j":1}}`),
		Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"key-set-mismatch", "length-mismatch", "type-mismatch", "value-mismatch"}, categories(result.Summary))
}

func TestCompareErrors(t *testing.T) {
	_, err := Compare([]byte(`{`), []byte(`{}`), Options{})
	assert.True(t, errors.Is(err, jsontree.ErrInvalidDocument), err)
	assert.True(t, strings.HasPrefix(err.Error(), "source: "), err)

	_, err = Compare([]byte(`{}`), []byte(``), Options{})
	assert.True(t, errors.Is(err, jsontree.ErrEmptyDocument), err)
	assert.True(t, strings.HasPrefix(err.Error(), "comparate: "), err)

	_, err = Compare([]byte(`{}`), []byte(`[]`), Options{})
	assert.True(t, errors.Is(err, internalcompare.ErrRootMismatch), err)
}

func TestCompareValues(t *testing.T) {
	var source, comparate any
	require.NoError(t, json.Unmarshal([]byte(`{"n":1,"items":[{"ts":5,"v":true}]}`), &source))
	require.NoError(t, json.Unmarshal([]byte(`{"n":1,"items":[{"ts":6,"v":true}]}`), &comparate))

	result, err := CompareValues(source, comparate, Options{Ignore: []string{"$.items[*].ts"}})
	require.NoError(t, err)
	assert.True(t, result.Equal)
	assert.Equal(t, []string{"$.items[0].v==true", "$.n==1"}, result.Successes)

	_, err = CompareValues(map[string]any{"c": make(chan int)}, map[string]any{}, Options{})
	assert.True(t, errors.Is(err, jsontree.ErrInvalidDocument), err)
}

type traceLogger struct{ lines []string }

func (l *traceLogger) Debugf(format string, args ...any) {
	l.lines = append(l.lines, format)
}

func TestCompareTracesThroughLogger(t *testing.T) {
	logger := &traceLogger{}
	_, err := Compare([]byte(`{"a":1}`), []byte(`{"a":1}`), Options{Logger: logger})
	require.NoError(t, err)

	assert.Equal(t, []string{"checking leaf %s"}, logger.lines)
}

func TestRenderTextMaxChanges(t *testing.T) {
	source := []byte(`[1,2,3,4]`)
	comparate := []byte(`[5,6,7,8]`)

	result, err := Compare(source, comparate, Options{MaxChanges: 2})
	require.NoError(t, err)
	var out bytes.Buffer
	RenderText(&out, result)
	assert.Contains(t, out.String(), "Found 4 inequalities:")
	assert.Equal(t, 1, strings.Count(out.String(), "value mismatch"), "the parent line counts towards the cap")

	result, err = Compare(source, comparate, Options{})
	require.NoError(t, err)
	out.Reset()
	RenderText(&out, result)
	assert.Equal(t, 4, strings.Count(out.String(), "value mismatch"))
}

func TestRenderTextShowSuccesses(t *testing.T) {
	result, err := Compare([]byte(`{"a":1}`), []byte(`{"a":1}`), Options{ShowSuccesses: true})
	require.NoError(t, err)

	var out bytes.Buffer
	RenderText(&out, result)

	assert.Contains(t, out.String(), "Looking good! No inequalities found.")
	assert.Contains(t, out.String(), "- `$.a==1`")
}
