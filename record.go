package smalldiff

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
)

// Record is a single point of disagreement between expected & actual. A nil
// Expected means the location only exists in actual, a nil Actual means it's
// missing from actual. An explicit null on either side is Null{}
type Record struct {
	Expected Value `json:"expected"`
	Actual   Value `json:"actual"`
}

// MarshalYAML implements the yaml.InterfaceMarshaler interface
func (r *Record) MarshalYAML() (interface{}, error) {
	return yaml.MapSlice{
		{Key: "expected", Value: toYAML(r.Expected)},
		{Key: "actual", Value: toYAML(r.Actual)},
	}, nil
}

// DiffMap is a flat mapping from Path strings to the Record found at that
// location. Disagreements are never nested: a mismatch three levels deep is a
// single entry keyed by its full path. A DiffMap is empty iff the compared
// values are equal
type DiffMap map[string]*Record

// Empty is true when no disagreements were found
func (d DiffMap) Empty() bool { return len(d) == 0 }

// Paths lists every path in the map, see SortPaths for ordering
func (d DiffMap) Paths() []string {
	paths := make([]string, 0, len(d))
	for p := range d {
		paths = append(paths, p)
	}
	SortPaths(paths)
	return paths
}

func (d DiffMap) add(p Path, expected, actual Value) {
	d[string(p)] = &Record{Expected: expected, Actual: actual}
}

// MarshalJSON writes entries in Paths order
func (d DiffMap) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, p := range d.Paths() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		rec, err := json.Marshal(d[p])
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", p, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(rec)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements the yaml.InterfaceMarshaler interface, writing
// entries in Paths order
func (d DiffMap) MarshalYAML() (interface{}, error) {
	ms := make(yaml.MapSlice, 0, len(d))
	for _, p := range d.Paths() {
		rec, _ := d[p].MarshalYAML()
		ms = append(ms, yaml.MapItem{Key: p, Value: rec})
	}
	return ms, nil
}
