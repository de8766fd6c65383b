package compare

import (
	"strconv"
	"strings"
)

const (
	// RootPath addresses the document root.
	RootPath = "$"
	// Wildcard stands for any index inside a path pattern.
	Wildcard = "*"

	fieldSeparator = "."
	beginIndex     = "["
	endIndex       = "]"
)

func childPath(parent, field string) string {
	return parent + fieldSeparator + field
}

func indexPath(parent string, index int) string {
	return parent + beginIndex + strconv.Itoa(index) + endIndex
}

// segment is one dot-separated step of a path: a field name (or the root
// marker) followed by zero or more bracketed indices.
type segment struct {
	name    string
	indices []string
	ok      bool
}

func parseSegment(s string) segment {
	open := strings.Index(s, beginIndex)
	if open < 0 {
		return segment{name: s, ok: true}
	}
	seg := segment{name: s[:open], ok: true}
	rest := s[open:]
	for rest != "" {
		if !strings.HasPrefix(rest, beginIndex) {
			return segment{}
		}
		end := strings.Index(rest, endIndex)
		if end < 0 {
			return segment{}
		}
		seg.indices = append(seg.indices, rest[1:end])
		rest = rest[end+1:]
	}
	return seg
}

// Match reports whether the concrete node path is addressed by pattern.
// Both are split on the field separator and must have the same number of
// segments. Field names compare exactly; indices compare as strings unless
// the pattern index is the wildcard. A segment carrying indices never
// matches one that does not.
func Match(path, pattern string) bool {
	pathParts := strings.Split(path, fieldSeparator)
	patternParts := strings.Split(pattern, fieldSeparator)
	if len(pathParts) != len(patternParts) {
		return false
	}

	for i := range pathParts {
		if pathParts[i] == patternParts[i] {
			continue
		}
		node, want := parseSegment(pathParts[i]), parseSegment(patternParts[i])
		if !node.ok || !want.ok {
			return false
		}
		if node.name != want.name || len(node.indices) != len(want.indices) {
			return false
		}
		for j, idx := range node.indices {
			if want.indices[j] != Wildcard && want.indices[j] != idx {
				return false
			}
		}
	}
	return true
}

// ValidPattern reports whether pattern is a well-formed path pattern: it
// starts at the root marker and every index is a non-negative base-10
// integer without leading zeros, or the wildcard. Field names never match a
// wildcard, so a "*" outside brackets is rejected.
func ValidPattern(pattern string) bool {
	parts := strings.Split(pattern, fieldSeparator)
	root := parseSegment(parts[0])
	if !root.ok || root.name != RootPath {
		return false
	}
	for i, part := range parts {
		seg := parseSegment(part)
		if !seg.ok || (i > 0 && seg.name == "") || strings.Contains(seg.name, Wildcard) {
			return false
		}
		for _, idx := range seg.indices {
			if idx != Wildcard && !validIndex(idx) {
				return false
			}
		}
	}
	return true
}

func validIndex(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Segments splits a node path into display titles, one per field or index
// step: "$.a[0].b" becomes ["$", ".a", "[0]", ".b"].
func Segments(path string) []string {
	var out []string
	for i, part := range strings.Split(path, fieldSeparator) {
		seg := parseSegment(part)
		if !seg.ok {
			out = append(out, part)
			continue
		}
		if i == 0 {
			out = append(out, seg.name)
		} else {
			out = append(out, fieldSeparator+seg.name)
		}
		for _, idx := range seg.indices {
			out = append(out, beginIndex+idx+endIndex)
		}
	}
	return out
}
