package smalldiff

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Normalizer converts arbitrary values into canonical Values. A Normalizer
// replaces the default rule chain entirely and is consulted for every value in
// a tree that isn't already a Value, not just the root. def runs the default
// rule chain on v, routing any children of v back through the Normalizer, so
// implementations only need to special-case the types they care about:
//
//	func(v interface{}, def smalldiff.DefaultFunc) (smalldiff.Value, error) {
//		if t, ok := v.(time.Time); ok {
//			return smalldiff.String(t.Format("2006-01-02")), nil
//		}
//		return def(v)
//	}
type Normalizer interface {
	Normalize(v interface{}, def DefaultFunc) (Value, error)
}

// DefaultFunc applies the default normalization rules to a single value
type DefaultFunc func(v interface{}) (Value, error)

// NormalizerFunc adapts a function to the Normalizer interface
type NormalizerFunc func(v interface{}, def DefaultFunc) (Value, error)

// Normalize implements the Normalizer interface
func (f NormalizerFunc) Normalize(v interface{}, def DefaultFunc) (Value, error) {
	return f(v, def)
}

// Enumerated is implemented by labeled constants that should compare by an
// underlying scalar rather than their go representation
type Enumerated interface {
	EnumValue() interface{}
}

// Set is implemented by unordered collections. Members are normalized and
// compared as a Sequence
type Set interface {
	Members() []interface{}
}

// Mapper is implemented by values that export themselves as a mapping. The
// returned map is normalized recursively. Mapper takes priority over schema
// export (json.Marshaler, proto.Message) and field reflection
type Mapper interface {
	ToMap() map[string]interface{}
}

// Normalize converts v to a canonical Value. A nil Normalizer uses the default
// rule chain, in order:
//
//  1. values that are already a Value are returned as-is
//  2. Enumerated values normalize their EnumValue
//  3. time.Time becomes RFC 3339 text with nanoseconds & zone. civil.Date,
//     civil.DateTime & civil.Time become ISO 8601 text
//  4. []byte is decoded as UTF-8 text, failing with a *DecodingError
//  5. Set values & maps with struct{} elements become a Sequence of members,
//     sorted by their canonical JSON text
//  6. Mapper values normalize the result of ToMap
//  7. proto.Message, json.Marshaler & encoding.TextMarshaler values normalize
//     their encoded form. errors backed by a struct skip this step
//  8. everything else is reflected: scalars become primitives, slices & arrays
//     become a Sequence, maps & structs become a Mapping of exported fields
//  9. anything left fails with an *UnsupportedTypeError
//
// Errors are normalized by their fields, not their message. Errors that only
// hold an unexported message, like those from errors.New, normalize to an
// empty Mapping, so two such errors with different messages compare as equal
func Normalize(v interface{}, n Normalizer) (Value, error) {
	nz := &normalizer{override: n}
	return nz.normalize(v)
}

// normalizer holds state for a single call to Normalize
type normalizer struct {
	override Normalizer
	// path of the value currently being normalized, used in errors
	path Path
}

func (nz *normalizer) normalize(v interface{}) (Value, error) {
	if cv, ok := v.(Value); ok {
		return cv, nil
	}
	if nz.override != nil {
		nv, err := nz.override.Normalize(v, nz.defaults)
		if err != nil {
			return nil, err
		}
		if nv == nil {
			return nil, fmt.Errorf("normalizer returned no value for %T at %q", v, nz.path)
		}
		return nv, nil
	}
	return nz.defaults(v)
}

// child normalizes a value nested under the current path
func (nz *normalizer) child(seg string, v interface{}) (Value, error) {
	parent := nz.path
	nz.path = parent.Key(seg)
	defer func() { nz.path = parent }()
	return nz.normalize(v)
}

func (nz *normalizer) defaults(v interface{}) (Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || isNil(rv) {
		return Null{}, nil
	}

	switch x := v.(type) {
	case Value:
		return x, nil
	case Enumerated:
		return nz.normalize(x.EnumValue())
	case time.Time:
		return String(x.Format(time.RFC3339Nano)), nil
	case civil.Date:
		return String(x.String()), nil
	case civil.DateTime:
		return String(x.String()), nil
	case civil.Time:
		return String(x.String()), nil
	case json.Number:
		return jsonNumber(x), nil
	case []byte:
		return nz.text(x)
	case Set:
		return nz.set(x.Members())
	case Mapper:
		return nz.normalize(x.ToMap())
	}

	if _, ok := v.(error); ok && reflect.Indirect(rv).Kind() == reflect.Struct {
		return nz.fields(reflect.Indirect(rv))
	}

	switch x := v.(type) {
	case proto.Message:
		data, err := protojson.Marshal(x)
		if err != nil {
			return nil, fmt.Errorf("exporting %T at %q: %w", v, nz.path, err)
		}
		return nz.exported(data)
	case json.Marshaler:
		data, err := x.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("exporting %T at %q: %w", v, nz.path, err)
		}
		return nz.exported(data)
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("exporting %T at %q: %w", v, nz.path, err)
		}
		return String(text), nil
	}

	return nz.reflected(rv)
}

func (nz *normalizer) reflected(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return nz.normalize(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Complex64, reflect.Complex128:
		return String(strconv.FormatComplex(rv.Complex(), 'g', -1, 128)), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nz.text(rv.Bytes())
		}
		return nz.sequence(rv)
	case reflect.Array:
		return nz.sequence(rv)
	case reflect.Map:
		if rv.Type().Elem() == emptyStruct {
			members := make([]interface{}, 0, rv.Len())
			for _, k := range rv.MapKeys() {
				members = append(members, k.Interface())
			}
			return nz.set(members)
		}
		return nz.mapping(rv)
	case reflect.Struct:
		return nz.fields(rv)
	default:
		return nil, &UnsupportedTypeError{Path: nz.path, Type: rv.Type()}
	}
}

var emptyStruct = reflect.TypeOf(struct{}{})

func (nz *normalizer) text(data []byte) (Value, error) {
	if utf8.Valid(data) {
		return String(data), nil
	}
	offset := 0
	for offset < len(data) {
		r, size := utf8.DecodeRune(data[offset:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		offset += size
	}
	return nil, &DecodingError{Path: nz.path, Offset: offset}
}

func (nz *normalizer) exported(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding exported JSON at %q: %w", nz.path, err)
	}
	return nz.normalize(v)
}

func (nz *normalizer) sequence(rv reflect.Value) (Value, error) {
	seq := make(Sequence, rv.Len())
	for i := range seq {
		v, err := nz.child(strconv.Itoa(i), rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		seq[i] = v
	}
	return seq, nil
}

// set normalizes members into a sequence ordered by canonical text. go has no
// stable enumeration order for unordered collections, sorting keeps diffs of
// equal sets empty
func (nz *normalizer) set(members []interface{}) (Value, error) {
	type member struct {
		val  Value
		text string
	}
	sorted := make([]member, len(members))
	for i, m := range members {
		v, err := nz.child(strconv.Itoa(i), m)
		if err != nil {
			return nil, err
		}
		sorted[i] = member{val: v, text: canonicalText(v)}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].text < sorted[j].text
	})

	seq := make(Sequence, len(sorted))
	for i, m := range sorted {
		seq[i] = m.val
	}
	return seq, nil
}

func (nz *normalizer) mapping(rv reflect.Value) (Value, error) {
	vals := make(map[string]Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return nil, &UnsupportedTypeError{Path: nz.path, Type: rv.Type(), Reason: err.Error()}
		}
		v, err := nz.child(key, iter.Value().Interface())
		if err != nil {
			return nil, err
		}
		vals[key] = v
	}
	return MappingOf(vals), nil
}

// fields reflects the exported fields of a struct in declaration order. A
// `smalldiff:"name"` tag renames a field, `smalldiff:"-"` skips it
func (nz *normalizer) fields(rv reflect.Value) (Value, error) {
	t := rv.Type()
	entries := make([]Entry, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("smalldiff"); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}

		v, err := nz.child(name, rv.Field(i).Interface())
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: name, Value: v})
	}
	return NewMapping(entries...), nil
}

// mapKey renders a map key as text, the same way encoding/json does
func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "", fmt.Errorf("nil map key")
		}
		k = k.Elem()
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if k.Kind() == reflect.Ptr && k.IsNil() {
			return "", fmt.Errorf("nil map key")
		}
		text, err := tm.MarshalText()
		return string(text), err
	}

	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(k.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(k.Float(), 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("map keys of type %s can't be rendered as text", k.Type())
	}
}

func jsonNumber(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		return Int(i)
	}
	if f, err := n.Float64(); err == nil {
		return Float(f)
	}
	return String(n)
}

func isNil(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
