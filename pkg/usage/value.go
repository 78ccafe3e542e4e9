package usage

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Value is anything an example can bind to an action slot
type Value interface {
	// Token is the text the value contributes to a command line
	Token() string
}

// String is a reference token or a plain string parameter
type String string

// Token implements Value
func (s String) Token() string { return string(s) }

// Int is an integer parameter
type Int int64

// Token implements Value
func (i Int) Token() string { return strconv.FormatInt(int64(i), 10) }

// Float is a floating point parameter
type Float float64

// Token implements Value. Whole numbers keep a trailing ".0" so they read as
// floats on the command line.
func (f Float) Token() string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Bool is a boolean parameter
type Bool bool

// Token implements Value
func (b Bool) Token() string {
	if b {
		return "True"
	}
	return "False"
}

// ColumnRef selects one column of a metadata reference. An empty Column
// means no column was selected.
type ColumnRef struct {
	Ref    String
	Column string
}

// Token implements Value; it is the metadata reference itself
func (c ColumnRef) Token() string { return string(c.Ref) }

// HasColumn reports whether a column was selected
func (c ColumnRef) HasColumn() bool { return c.Column != "" }

// List is an ordered sequence of values
type List []Value

// Token implements Value
func (l List) Token() string {
	tokens := make([]string, len(l))
	for i, v := range l {
		tokens[i] = v.Token()
	}
	return strings.Join(tokens, " ")
}

// Values flattens v into the ordered sequence of values it stands for:
// a List yields its elements, nil yields nothing and anything else is a
// sequence of one.
func Values(v Value) []Value {
	switch t := v.(type) {
	case nil:
		return nil
	case List:
		return []Value(t)
	default:
		return []Value{v}
	}
}

// Refs builds a List of reference tokens
func Refs(refs ...string) List {
	l := make(List, len(refs))
	for i, r := range refs {
		l[i] = String(r)
	}
	return l
}

// SortedRefs returns the records' references as a List sorted by reference
func SortedRefs(records ...Record) List {
	refs := make([]string, len(records))
	for i, r := range records {
		refs[i] = r.Ref
	}
	sort.Strings(refs)
	return Refs(refs...)
}

// kind ranks values of different types against each other
func kind(v Value) int {
	switch v.(type) {
	case Bool:
		return 0
	case Int, Float:
		return 1
	case String:
		return 2
	default:
		return 3
	}
}

// Less orders two values by their natural ordering: booleans false before
// true, numbers numerically, strings lexically. Values of different kinds
// order bool < number < string < anything else.
func Less(a, b Value) bool {
	ka, kb := kind(a), kind(b)
	if ka != kb {
		return ka < kb
	}
	switch x := a.(type) {
	case Bool:
		return !bool(x) && bool(b.(Bool))
	case Int:
		if y, ok := b.(Int); ok {
			return x < y
		}
		return float64(x) < float64(b.(Float))
	case Float:
		if y, ok := b.(Int); ok {
			return float64(x) < float64(y)
		}
		return x < b.(Float)
	}
	return a.Token() < b.Token()
}

// Sorted returns a sorted copy of values; equal values keep their order
func Sorted(values []Value) []Value {
	out := make([]Value, len(values))
	copy(out, values)
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// Binding assigns a value to a named action slot
type Binding struct {
	Name  string
	Value Value
}

// Bindings is an ordered set of slot assignments
type Bindings []Binding

// Get returns the value bound to name
func (b Bindings) Get(name string) (Value, bool) {
	for _, binding := range b {
		if binding.Name == name {
			return binding.Value, true
		}
	}
	return nil, false
}

// With returns a copy of b with name bound to v, replacing an earlier binding
// of the same name in place.
func (b Bindings) With(name string, v Value) Bindings {
	out := make(Bindings, len(b), len(b)+1)
	copy(out, b)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = v
			return out
		}
	}
	return append(out, Binding{Name: name, Value: v})
}

// Names lists the bound slot names in order
func (b Bindings) Names() []string {
	names := make([]string, len(b))
	for i, binding := range b {
		names[i] = binding.Name
	}
	return names
}
