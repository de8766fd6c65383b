package diagtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
)

// Node is one step of a node path. Titles are path segments ("$", ".name",
// "[0]") so that the concatenated titles from the root spell the full path.
type Node struct {
	Title       string
	Description string
	Severity    Severity

	subfields       []*Node
	subfieldByTitle map[string]*Node
	doDisplay       bool
	parent          *Node
}

// Label returns the child titled name, creating it on first use. Children
// keep their insertion order.
func (m *Node) Label(name string) *Node {
	contract.Assertf(name != "", "we cannot display an empty name")
	if v, ok := m.subfieldByTitle[name]; ok {
		return v
	}
	v := &Node{
		Title:  name,
		parent: m,
	}
	if m.subfieldByTitle == nil {
		m.subfieldByTitle = map[string]*Node{}
	}
	m.subfieldByTitle[name] = v
	m.subfields = append(m.subfields, v)
	return v
}

// Path descends through one Label per title.
func (m *Node) Path(titles ...string) *Node {
	n := m
	for _, t := range titles {
		n = n.Label(t)
	}
	return n
}

func (m *Node) PathTitles() []string {
	if m == nil {
		return nil
	}

	parts := []string{}
	for n := m; n != nil; n = n.parent {
		if n.Title == "" {
			continue
		}
		parts = append(parts, n.Title)
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	return parts
}

func (m *Node) WalkDisplayed(visit func(*Node)) {
	if m == nil || visit == nil || !m.doDisplay {
		return
	}
	visit(m)
	for _, child := range m.subfields {
		child.WalkDisplayed(visit)
	}
}

// SetDescription marks m and its ancestors for display. A second description
// on the same node is appended.
func (m *Node) SetDescription(level Severity, msg string, a ...any) {
	for v := m; v != nil && !v.doDisplay; v = v.parent {
		v.doDisplay = true
	}
	desc := fmt.Sprintf(msg, a...)
	if m.Description != "" {
		desc = m.Description + "; " + desc
	}
	m.Description = desc
	if level.rank > m.Severity.rank {
		m.Severity = level
	}
}

type cappedWriter struct {
	// The number of remaining lines before we hit the cap.
	remaining int
	out       io.Writer
}

func (c *cappedWriter) incr() {
	if c.remaining > 0 {
		// We never step past 0, because -1 indicates that we should always print
		c.remaining--
	}
}

func (c *cappedWriter) Write(p []byte) (n int, err error) {
	if c.remaining > 0 || c.remaining == -1 {
		return c.out.Write(p)
	}
	return len(p), nil
}

// Display writes the displayed part of the tree, at most max lines (-1 for
// no limit), and returns the number of described nodes.
func (m *Node) Display(out io.Writer, max int) int {
	writer := &cappedWriter{max, out}
	if m.Title != "" {
		return m.display(writer, 0, true)
	}
	var n int
	for _, child := range m.subfields {
		n += child.display(writer, 0, true)
	}
	return n
}

func (m *Node) display(out *cappedWriter, level int, prefix bool) int {
	write := func(s string) {
		_, err := out.Write([]byte(s))
		contract.AssertNoErrorf(err, "failed to write display")
	}
	if m == nil || !m.doDisplay {
		return 0
	}

	if prefix {
		write(strings.Repeat("  ", level) + "- ")
	}
	write(m.Title)

	var displayed int
	if m.Description == "" {
		if s := m.uniqueSuccessor(); s != nil {
			return s.display(out, level, false)
		}
		write(":\n")
	} else {
		displayed++
		write(" " + m.Severity.String() + " " + m.Description + "\n")
	}
	out.incr()

	for _, child := range m.subfields {
		displayed += child.display(out, level+1, true)
	}
	return displayed
}

// Find the unique displayed successor node for m.
//
// If there is no successor or if there are multiple successors, nil is returned.
func (m *Node) uniqueSuccessor() *Node {
	var us *Node
	for _, s := range m.subfields {
		if !s.doDisplay {
			continue
		}
		if us != nil {
			return nil
		}
		us = s
	}
	return us
}

// Severity of a node. Higher ranks win when a node is described twice.
type Severity struct {
	s    string
	rank int
}

var (
	None   = Severity{"", 0}
	Info   = Severity{"`🟢`", 1}
	Warn   = Severity{"`🟡`", 2}
	Danger = Severity{"`🔴`", 3}
)

func (s Severity) String() string {
	return s.s
}
