package compare

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"

	"github.com/pulumi/json-equals/internal/util/diagtree"
)

// RenderText writes the human-readable comparison report. At most
// maxChanges lines of inequalities are printed; zero or less prints all of
// them.
func RenderText(out io.Writer, report Report, maxChanges int) {
	if maxChanges <= 0 {
		maxChanges = -1
	}
	fmt.Fprintf(out, "### Do the documents match?\n\n")
	displayedInequalities := new(bytes.Buffer)
	lenInequalities := Tree(report).Display(displayedInequalities, maxChanges)
	if lenInequalities == 0 {
		fmt.Fprintln(out, "Looking good! No inequalities found.")
	} else {
		fmt.Fprintf(out, "Found %s:\n", countNoun(lenInequalities, "inequality"))
	}

	_, err := out.Write(displayedInequalities.Bytes())
	contract.AssertNoErrorf(err, "writing to a bytes.Buffer failing indicates OOM")

	fmt.Fprintf(out, "\n%s matched.\n", countNoun(report.SuccessCount(), "value"))
}

// RenderSuccesses lists every agreeing leaf, one per line.
func RenderSuccesses(out io.Writer, report Report) {
	if report.SuccessCount() == 0 {
		return
	}
	fmt.Fprintln(out, "\n#### Matched values:")
	fmt.Fprintln(out, "")
	for _, s := range report.successes {
		fmt.Fprintf(out, "- `%s`\n", s)
	}
}

// Tree arranges the findings of a report by path segment.
func Tree(report Report) *diagtree.Node {
	root := &diagtree.Node{}
	for _, f := range report.findings {
		node := root.Path(Segments(f.Path)...)
		node.SetDescription(severity(f.Category), "%s", strings.TrimPrefix(f.Message, f.Path+": "))
	}
	return root
}

func severity(c Category) diagtree.Severity {
	switch c {
	case CategoryKeySet, CategoryLength:
		return diagtree.Danger
	case CategoryType:
		return diagtree.Warn
	}
	return diagtree.Info
}
