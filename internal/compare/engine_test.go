package compare

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulumi/json-equals/internal/jsontree"
)

func mustParse(t *testing.T, doc string) jsontree.Value {
	t.Helper()
	v, err := jsontree.Parse([]byte(doc))
	require.NoError(t, err)
	return v
}

func compareDocs(t *testing.T, source, comparate string, opts Options) Report {
	t.Helper()
	report, err := Compare(mustParse(t, source), mustParse(t, comparate), opts)
	require.NoError(t, err)
	assert.Equal(t, report.SuccessCount()+report.InequalityCount(), report.TotalCount())
	assert.Equal(t, report.InequalityCount() == 0, report.IsEqual())
	return report
}

func TestCompareIsReflexive(t *testing.T) {
	t.Parallel()

	docs := []string{
		`{}`,
		`[]`,
		`{"a":1,"b":"two","c":null,"d":true,"e":1.5}`,
		`[1,"x",null,false,{"k":[1,2,[3]]},[]]`,
		`{"store":{"books":[{"title":"a","price":8.95},{"title":"b","price":12}]}}`,
	}
	for _, doc := range docs {
		report := compareDocs(t, doc, doc, Options{})
		assert.True(t, report.IsEqual(), doc)
		assert.Zero(t, report.InequalityCount(), doc)
	}
}

func TestCompareKeySetMismatch(t *testing.T) {
	t.Parallel()

	report := compareDocs(t, `{"a":1}`, `{"b":1}`, Options{})

	require.Equal(t, 1, report.InequalityCount())
	f := report.Findings()[0]
	assert.Equal(t, CategoryKeySet, f.Category)
	assert.Equal(t, "$", f.Path)
	assert.Equal(t, "$: object keys differ, [a] vs. [b]", f.Message)
	assert.Zero(t, report.SuccessCount())
}

func TestCompareKeySetMismatchStopsDescent(t *testing.T) {
	t.Parallel()

	report := compareDocs(t,
		`{"o":{"a":1,"b":2},"p":1}`,
		`{"o":{"a":2},"p":1}`,
		Options{})

	assert.Equal(t, []string{"$.o: object keys differ, [a b] vs. [a]"}, report.Inequalities())
	assert.Equal(t, []string{"$.p==1"}, report.Successes())
}

func TestCompareLeafTypeMismatch(t *testing.T) {
	t.Parallel()

	report := compareDocs(t, `{"a":1}`, `{"a":"1"}`, Options{})

	require.Equal(t, 1, report.InequalityCount())
	f := report.Findings()[0]
	assert.Equal(t, CategoryType, f.Category)
	assert.Equal(t, "$.a: type mismatch, expected integer but got string", f.Message)
}

func TestCompareContainerAgainstScalar(t *testing.T) {
	t.Parallel()

	report := compareDocs(t, `{"a":{"x":1}}`, `{"a":[1]}`, Options{})

	require.Equal(t, 1, report.InequalityCount())
	assert.Equal(t, "$.a: type mismatch, expected object but got array", report.Inequalities()[0])
}

func TestCompareValueMismatch(t *testing.T) {
	t.Parallel()

	report := compareDocs(t, `{"a":1,"b":"x","c":true}`, `{"a":2,"b":"x","c":false}`, Options{})

	assert.Equal(t, []string{
		"$.a: value mismatch, expected 1 but got 2",
		"$.c: value mismatch, expected true but got false",
	}, report.Inequalities())
	assert.Equal(t, []string{"$.b==x"}, report.Successes())
}

func TestCompareNumbers(t *testing.T) {
	t.Parallel()

	report := compareDocs(t, `{"f":1.50,"n":null}`, `{"f":1.5,"n":null}`, Options{})
	assert.True(t, report.IsEqual())
	assert.Equal(t, []string{"$.f==1.5", "$.n==null"}, report.Successes())

	report = compareDocs(t, `{"f":1}`, `{"f":1.0}`, Options{})
	require.Equal(t, 1, report.InequalityCount())
	assert.Equal(t, CategoryType, report.Findings()[0].Category)

	report = compareDocs(t, `{"a":1e21,"b":0.0000001,"c":2.0}`, `{"a":1e21,"b":0.0000001,"c":2}`, Options{})
	assert.Equal(t, []string{"$.a==1.0E21", "$.b==1.0E-7"}, report.Successes())
	assert.Equal(t, []string{"$.c: type mismatch, expected float but got integer"}, report.Inequalities())
}

func TestComparePruneOnWholeFloat(t *testing.T) {
	t.Parallel()

	report := compareDocs(t,
		`[{"score":1.0,"v":1},{"score":2.5,"v":2}]`,
		`[{"score":2.5,"v":2}]`,
		Options{Prune: []PrunePredicate{ParsePrunePredicate("$[*]:score", "1.0")}})

	assert.True(t, report.IsEqual(), report.Inequalities())
	assert.Equal(t, []string{"$[1].score==2.5", "$[1].v==2"}, report.Successes())
}

func TestCompareArrayLengthMismatch(t *testing.T) {
	t.Parallel()

	report := compareDocs(t, `[1,2]`, `[1,2,3]`, Options{})

	require.Equal(t, 1, report.InequalityCount())
	f := report.Findings()[0]
	assert.Equal(t, CategoryLength, f.Category)
	assert.Equal(t, "$: array length mismatch, 2 vs 3", f.Message)
	assert.Zero(t, report.SuccessCount())
}

func TestCompareArrayClassCountsMustBalance(t *testing.T) {
	t.Parallel()

	report := compareDocs(t, `[1,{"a":1}]`, `[1,[1]]`, Options{})

	require.Equal(t, 1, report.InequalityCount())
	assert.Equal(t, CategoryLength, report.Findings()[0].Category)
	assert.Equal(t, "$: array length mismatch, 2 vs 2", report.Inequalities()[0])
}

func TestCompareArrayPositional(t *testing.T) {
	t.Parallel()

	report := compareDocs(t, `[1,{"x":1}]`, `[1,{"x":1}]`, Options{})

	assert.True(t, report.IsEqual())
	assert.Equal(t, []string{"$[0]==1", "$[1].x==1"}, report.Successes())
}

func TestCompareArrayElementClassMismatch(t *testing.T) {
	t.Parallel()

	report := compareDocs(t, `[{"a":1},2]`, `[2,{"a":1}]`, Options{})

	assert.Equal(t, []string{
		"$[0]: element type mismatch, expected object but got value",
		"$[1]: element type mismatch, expected value but got object",
	}, report.Inequalities())
	assert.Zero(t, report.SuccessCount())
}

func TestCompareArrayValueMismatchCarriesIndex(t *testing.T) {
	t.Parallel()

	report := compareDocs(t, `{"xs":["a","b"]}`, `{"xs":["a","c"]}`, Options{})

	assert.Equal(t, []string{"$.xs[1]: value mismatch, expected b but got c"}, report.Inequalities())
	assert.Equal(t, []string{"$.xs[0]==a"}, report.Successes())
}

func TestCompareEmptyArrays(t *testing.T) {
	t.Parallel()

	report := compareDocs(t, `{"a":[]}`, `{"a":[]}`, Options{})
	assert.True(t, report.IsEqual())
	assert.Zero(t, report.TotalCount())

	report = compareDocs(t, `{"a":[]}`, `{"a":[1]}`, Options{})
	assert.Equal(t, []string{"$.a: array length mismatch, 0 vs 1"}, report.Inequalities())

	report = compareDocs(t, `{"a":[]}`, `{"a":[1]}`, Options{SkipEmptyArrays: true})
	assert.True(t, report.IsEqual())
	assert.Zero(t, report.TotalCount())
}

func TestCompareWildcardIgnore(t *testing.T) {
	t.Parallel()

	report := compareDocs(t,
		`[{"ts":1,"v":"a"},{"ts":2,"v":"b"}]`,
		`[{"ts":9,"v":"a"},{"ts":8,"v":"b"}]`,
		Options{Ignore: []string{"$[*].ts"}})

	assert.True(t, report.IsEqual())
	assert.Equal(t, []string{"$[0].v==a", "$[1].v==b"}, report.Successes())
}

func TestCompareIgnoreSubtrees(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ignore []string
	}{
		{"exact object", []string{"$.meta"}},
		{"exact leaf", []string{"$.meta.updated"}},
		{"wildcard in array", []string{"$.meta.tags[*]"}},
	}
	source := `{"meta":{"updated":"x","tags":["a"]},"id":1}`
	comparate := `{"meta":{"updated":"y","tags":["b"]},"id":1}`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := compareDocs(t, source, comparate, Options{Ignore: tt.ignore})
			switch tt.name {
			case "exact object":
				assert.True(t, report.IsEqual())
			case "exact leaf":
				assert.Equal(t, []string{"$.meta.tags[0]: value mismatch, expected a but got b"}, report.Inequalities())
			default:
				assert.Equal(t, []string{"$.meta.updated: value mismatch, expected x but got y"}, report.Inequalities())
			}
		})
	}
}

func TestComparePruneStaleElements(t *testing.T) {
	t.Parallel()

	opts := Options{Prune: []PrunePredicate{ParsePrunePredicate("$[*]:status", "stale")}}
	report := compareDocs(t,
		`[{"status":"stale","v":0},{"status":"ok","v":1}]`,
		`[{"status":"ok","v":1}]`,
		opts)

	assert.True(t, report.IsEqual())
	assert.Equal(t, []string{"$[1].status==ok", "$[1].v==1"}, report.Successes())
}

func TestComparePruneByNestedField(t *testing.T) {
	t.Parallel()

	opts := Options{Prune: PrunePredicatesFromMap(map[string]string{
		"$.array[*]:id.isValid": "false",
	})}
	report := compareDocs(t,
		`{"array":[{"id":{"isValid":false},"n":1},{"id":{"isValid":true},"n":2}]}`,
		`{"array":[{"id":{"isValid":true},"n":2},{"id":{"isValid":false},"n":3},{"id":{"isValid":false},"n":4}]}`,
		opts)

	assert.True(t, report.IsEqual())
	assert.Equal(t, []string{"$.array[1].id.isValid==true", "$.array[1].n==2"}, report.Successes())
}

func TestComparePruneAndIgnoreTogether(t *testing.T) {
	t.Parallel()

	source := `[
		{"data":{"last_updated":"2021-01-01","identities":[
			{"name":"a","installed":true},
			{"name":"b","installed":false}
		]}}
	]`
	comparate := `[
		{"data":{"last_updated":"2022-02-02","identities":[
			{"name":"a","installed":true}
		]}}
	]`
	opts := Options{
		Ignore: []string{"$[*].data.last_updated"},
		Prune: PrunePredicatesFromMap(map[string]string{
			"$[*].data.identities[*]:installed": "false",
		}),
	}

	report := compareDocs(t, source, comparate, opts)
	assert.True(t, report.IsEqual(), report.Inequalities())
	assert.Equal(t, []string{
		"$[0].data.identities[0].installed==true",
		"$[0].data.identities[0].name==a",
	}, report.Successes())

	report = compareDocs(t, source, comparate, Options{Ignore: opts.Ignore})
	assert.Equal(t, []string{"$[0].data.identities: array length mismatch, 2 vs 1"}, report.Inequalities())
}

func TestComparePruneLeavesEmptyArray(t *testing.T) {
	t.Parallel()

	opts := Options{Prune: []PrunePredicate{ParsePrunePredicate("$.xs[*]:gone", "true")}}

	report := compareDocs(t, `{"xs":[{"gone":true}]}`, `{"xs":[]}`, opts)
	assert.True(t, report.IsEqual())

	report = compareDocs(t, `{"xs":[{"gone":true}]}`, `{"xs":[{"gone":false}]}`, opts)
	assert.Equal(t, []string{"$.xs: array length mismatch, 0 vs 1"}, report.Inequalities())
}

func TestCompareMalformedPredicateIsSkipped(t *testing.T) {
	t.Parallel()

	opts := Options{Prune: []PrunePredicate{
		ParsePrunePredicate("$[*]", "x"),
		ParsePrunePredicate("$[*]:a:b", "x"),
		ParsePrunePredicate("$[*]:status", "stale"),
	}}
	report := compareDocs(t, `[{"status":"stale"},{"status":"ok"}]`, `[{"status":"ok"}]`, opts)

	assert.True(t, report.IsEqual())
}

func TestCompareRootErrors(t *testing.T) {
	t.Parallel()

	_, err := Compare(mustParse(t, `{}`), mustParse(t, `[]`), Options{})
	assert.True(t, errors.Is(err, ErrRootMismatch), err)

	_, err = Compare(mustParse(t, `"x"`), mustParse(t, `"x"`), Options{})
	assert.True(t, errors.Is(err, ErrInvalidRoot), err)

	_, err = Compare(mustParse(t, `{}`), mustParse(t, `1`), Options{})
	assert.True(t, errors.Is(err, ErrInvalidRoot), err)
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestCompareTracesLeavesAndPrunes(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	opts := Options{
		Prune:  []PrunePredicate{ParsePrunePredicate("$.xs[*]:drop", "true")},
		Logger: logger,
	}
	compareDocs(t, `{"xs":[{"drop":true},{"drop":false}]}`, `{"xs":[{"drop":false}]}`, opts)

	want := []string{
		"pruning source $.xs[0]",
		"checking leaf $.xs[1].drop",
	}
	if diff := cmp.Diff(want, logger.lines); diff != "" {
		t.Fatalf("unexpected trace (-want +got):\n%s", diff)
	}
}

func TestCompareDeepNesting(t *testing.T) {
	t.Parallel()

	const depth = 5000
	doc := strings.Repeat(`{"a":`, depth) + "1" + strings.Repeat("}", depth)
	report := compareDocs(t, doc, doc, Options{})

	require.Equal(t, 1, report.SuccessCount())
	assert.True(t, strings.HasSuffix(report.Successes()[0], ".a==1"))
}

func TestComparatorIsSafeForConcurrentUse(t *testing.T) {
	t.Parallel()

	c := New(Options{Ignore: []string{"$[*].ts"}})
	source := mustParse(t, `[{"ts":1,"v":1},{"ts":2,"v":2}]`)
	comparate := mustParse(t, `[{"ts":3,"v":1},{"ts":4,"v":3}]`)

	var wg sync.WaitGroup
	reports := make([]Report, 16)
	for i := range reports {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := c.Compare(source, comparate)
			if err != nil {
				t.Errorf("compare failed: %v", err)
				return
			}
			reports[i] = r
		}()
	}
	wg.Wait()

	for _, r := range reports {
		assert.Equal(t, 1, r.SuccessCount())
		assert.Equal(t, []string{"$[1].v: value mismatch, expected 2 but got 3"}, r.Inequalities())
	}
}

func TestReportAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	report := compareDocs(t, `{"a":1,"b":1}`, `{"a":1,"b":2}`, Options{})

	report.Successes()[0] = "changed"
	report.Findings()[0].Message = "changed"
	assert.Equal(t, []string{"$.a==1"}, report.Successes())
	assert.Equal(t, []string{"$.b: value mismatch, expected 1 but got 2"}, report.Inequalities())
}
