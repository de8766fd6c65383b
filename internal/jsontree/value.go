// Package jsontree holds the read-only JSON document model consumed by the
// comparator.
package jsontree

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the runtime type of a JSON value.
type Kind uint8

const (
	Null Kind = iota
	Object
	Array
	String
	Integer
	Float
	Boolean
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Object:
		return "object"
	case Array:
		return "array"
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	}
	return "unknown"
}

// IsContainer reports whether values of this kind hold other values.
func (k Kind) IsContainer() bool {
	return k == Object || k == Array
}

// Value is a single node of a parsed JSON document. The zero Value is null.
type Value struct {
	kind Kind

	fields map[string]Value
	items  []Value
	str    string
	i      int64
	f      float64
	b      bool
}

func NewNull() Value                { return Value{} }
func NewString(s string) Value      { return Value{kind: String, str: s} }
func NewInteger(i int64) Value      { return Value{kind: Integer, i: i} }
func NewFloat(f float64) Value      { return Value{kind: Float, f: f} }
func NewBoolean(b bool) Value       { return Value{kind: Boolean, b: b} }
func NewArray(items ...Value) Value { return Value{kind: Array, items: items} }

// NewObject wraps fields as an object value. The map is not copied and must
// not be modified afterwards.
func NewObject(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: Object, fields: fields}
}

func (v Value) Kind() Kind { return v.kind }

// Keys returns the sorted field names of an object, or nil for other kinds.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Field returns the value stored under name. The second result is false when
// v is not an object or has no such field.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	f, ok := v.fields[name]
	return f, ok
}

// Len is the number of elements of an array or fields of an object.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.fields)
	}
	return 0
}

// Index returns the i-th array element. It panics when v is not an array or
// i is out of range, like a slice index.
func (v Value) Index(i int) Value {
	return v.items[i]
}

func (v Value) Str() string    { return v.str }
func (v Value) Int() int64     { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Bool() bool     { return v.b }

// Render returns the canonical string form of a scalar value: strings
// verbatim, integers in base 10, floats as described by formatFloat,
// booleans as true/false and null as "null". Containers render as
// their kind name.
func (v Value) Render() string {
	switch v.kind {
	case String:
		return v.str
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return formatFloat(v.f)
	case Boolean:
		return strconv.FormatBool(v.b)
	case Null:
		return "null"
	}
	return v.kind.String()
}

// ScalarEqual reports whether two scalar values have the same kind and the
// same value. Floats are compared by canonical form.
func ScalarEqual(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case String:
		return a.str == b.str
	case Integer:
		return a.i == b.i
	case Float:
		return a.Render() == b.Render()
	case Boolean:
		return a.b == b.b
	case Null:
		return true
	}
	return false
}

// formatFloat renders the shortest round-tripping digits of f and always
// keeps a fraction, so 1.0 stays "1.0". Magnitudes in [1e-3, 1e7) use plain
// decimal notation, others use a mantissa and an unpadded exponent such as
// "1.0E21" or "1.0E-7".
func formatFloat(f float64) string {
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, err := strconv.Atoi(exp)
	if err != nil {
		return mantissa + "E" + exp
	}
	return mantissa + "E" + strconv.Itoa(n)
}
