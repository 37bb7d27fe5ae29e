package smalldiff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Value is the canonical, comparison-ready form of any input. The set of
// implementations is closed: Null, Bool, Int, Uint, Float, String, Sequence
// and *Mapping. Consumers are expected to switch over all of them
type Value interface {
	// Kind reports which variant this value is
	Kind() Kind
	// Interface returns the value as plain go data: nil, bool, int64, uint64,
	// float64, string, []interface{} or map[string]interface{}
	Interface() interface{}

	value()
}

// Null is an absent or nil value
type Null struct{}

// Bool is a canonical boolean
type Bool bool

// Int is a canonical signed integer
type Int int64

// Uint is a canonical unsigned integer
type Uint uint64

// Float is a canonical floating point number
type Float float64

// String is canonical text
type String string

// Sequence is an ordered list of canonical values
type Sequence []Value

func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindBool }
func (Int) Kind() Kind      { return KindInt }
func (Uint) Kind() Kind     { return KindUint }
func (Float) Kind() Kind    { return KindFloat }
func (String) Kind() Kind   { return KindString }
func (Sequence) Kind() Kind { return KindSequence }

func (Null) Interface() interface{}     { return nil }
func (b Bool) Interface() interface{}   { return bool(b) }
func (i Int) Interface() interface{}    { return int64(i) }
func (u Uint) Interface() interface{}   { return uint64(u) }
func (f Float) Interface() interface{}  { return float64(f) }
func (s String) Interface() interface{} { return string(s) }
func (s Sequence) Interface() interface{} {
	res := make([]interface{}, len(s))
	for i, v := range s {
		res[i] = v.Interface()
	}
	return res
}

func (Null) value()     {}
func (Bool) value()     {}
func (Int) value()      {}
func (Uint) value()     {}
func (Float) value()    {}
func (String) value()   {}
func (Sequence) value() {}

// MarshalJSON implements the json.Marshaler interface
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalYAML implements the yaml.InterfaceMarshaler interface
func (Null) MarshalYAML() (interface{}, error) { return nil, nil }

// MarshalJSON implements the json.Marshaler interface. NaN & infinities have
// no JSON number form and are written as the strings "NaN", "+Inf" & "-Inf"
func (f Float) MarshalJSON() ([]byte, error) {
	x := float64(f)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return []byte(strconv.Quote(strconv.FormatFloat(x, 'g', -1, 64))), nil
	}
	return json.Marshal(x)
}

// MarshalYAML implements the yaml.InterfaceMarshaler interface
func (s Sequence) MarshalYAML() (interface{}, error) { return toYAML(s), nil }

// Entry is a single key-value pair in a Mapping
type Entry struct {
	Key   string
	Value Value
}

// Mapping is a set of string keys bound to canonical values. Key order is
// irrelevant for equality but stable for iteration: keys come back in the
// order they were added
type Mapping struct {
	keys []string
	vals map[string]Value
}

// NewMapping builds a mapping from entries, preserving their order. A repeated
// key keeps its first position & takes the last value
func NewMapping(entries ...Entry) *Mapping {
	m := &Mapping{
		keys: make([]string, 0, len(entries)),
		vals: make(map[string]Value, len(entries)),
	}
	for _, e := range entries {
		if _, ok := m.vals[e.Key]; !ok {
			m.keys = append(m.keys, e.Key)
		}
		m.vals[e.Key] = e.Value
	}
	return m
}

// MappingOf builds a mapping from a go map, ordering keys lexically
func MappingOf(vals map[string]Value) *Mapping {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := &Mapping{keys: keys, vals: make(map[string]Value, len(vals))}
	for k, v := range vals {
		m.vals[k] = v
	}
	return m
}

func (m *Mapping) Kind() Kind { return KindMapping }
func (m *Mapping) value()     {}

// Len returns the number of keys
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in iteration order
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Get returns the value bound to key, if any
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Entries lists key-value pairs in iteration order
func (m *Mapping) Entries() []Entry {
	entries := make([]Entry, 0, m.Len())
	for _, k := range m.Keys() {
		entries = append(entries, Entry{Key: k, Value: m.vals[k]})
	}
	return entries
}

// Interface returns a map[string]interface{}
func (m *Mapping) Interface() interface{} {
	res := make(map[string]interface{}, m.Len())
	for _, e := range m.Entries() {
		res[e.Key] = e.Value.Interface()
	}
	return res
}

// MarshalJSON writes keys in iteration order
func (m *Mapping) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", e.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements the yaml.InterfaceMarshaler interface, keeping
// keys in iteration order
func (m *Mapping) MarshalYAML() (interface{}, error) {
	return toYAML(m), nil
}

// toYAML converts a value to data go-yaml will encode in key order
func toYAML(v Value) interface{} {
	switch x := v.(type) {
	case nil, Null:
		return nil
	case Sequence:
		res := make([]interface{}, len(x))
		for i, el := range x {
			res[i] = toYAML(el)
		}
		return res
	case *Mapping:
		ms := make(yaml.MapSlice, 0, x.Len())
		for _, e := range x.Entries() {
			ms = append(ms, yaml.MapItem{Key: e.Key, Value: toYAML(e.Value)})
		}
		return ms
	default:
		return v.Interface()
	}
}

// Equal reports whether two canonical values are deeply equal. Numbers compare
// by value regardless of representation, so Int(1) equals Float(1). NaN is
// never equal to anything, itself included. Two nil Values are equal
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind().IsNumber() && b.Kind().IsNumber() {
		return numbersEqual(a, b)
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case Null:
		return true
	case Bool:
		return x == b.(Bool)
	case String:
		return x == b.(String)
	case Sequence:
		y := b.(Sequence)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		y := b.(*Mapping)
		if x.Len() != y.Len() {
			return false
		}
		for _, e := range x.Entries() {
			yv, ok := y.Get(e.Key)
			if !ok || !Equal(e.Value, yv) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(a, b Value) bool {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Uint:
			return x >= 0 && uint64(x) == uint64(y)
		case Float:
			return intEqualsFloat(int64(x), float64(y))
		}
	case Uint:
		switch y := b.(type) {
		case Int:
			return y >= 0 && uint64(x) == uint64(y)
		case Uint:
			return x == y
		case Float:
			return uintEqualsFloat(uint64(x), float64(y))
		}
	case Float:
		switch y := b.(type) {
		case Int, Uint:
			return numbersEqual(b, a)
		case Float:
			return x == y
		}
	}
	return false
}

// intEqualsFloat is exact: integers above 2^53 never equal a neighbouring
// float that happens to round to them
func intEqualsFloat(i int64, f float64) bool {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= -math.MinInt64 {
		return false
	}
	return int64(f) == i
}

func uintEqualsFloat(u uint64, f float64) bool {
	if f != math.Trunc(f) || f < 0 || f >= 1<<64 {
		return false
	}
	return uint64(f) == u
}

// canonicalText renders v as compact JSON, used to give set members a stable
// order. Values JSON can't represent (NaN, infinities) fall back to fmt
func canonicalText(v Value) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v.Interface())
	}
	return string(data)
}

// countNodes returns the number of values in a tree, v included
func countNodes(v Value) int {
	switch x := v.(type) {
	case nil:
		return 0
	case Sequence:
		n := 1
		for _, el := range x {
			n += countNodes(el)
		}
		return n
	case *Mapping:
		n := 1
		for _, e := range x.Entries() {
			n += countNodes(e.Value)
		}
		return n
	default:
		return 1
	}
}
