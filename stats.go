package smalldiff

// Stats holds statistical metadata about a comparison
type Stats struct {
	Expected int `json:"expectedNodes"` // count of values in the expected tree
	Actual   int `json:"actualNodes"`   // count of values in the actual tree

	Changed int `json:"changed,omitempty"` // locations present on both sides with different values
	Added   int `json:"added,omitempty"`   // locations only present in actual
	Removed int `json:"removed,omitempty"` // locations missing from actual
}

// NodeChange returns a count of the shift between expected & actual trees
func (s Stats) NodeChange() int {
	return s.Actual - s.Expected
}

// Differences is the total number of records in the DiffMap
func (s Stats) Differences() int {
	return s.Changed + s.Added + s.Removed
}

func (s *Stats) populate(expected, actual Value, d DiffMap) {
	s.Expected = countNodes(expected)
	s.Actual = countNodes(actual)
	for _, rec := range d {
		switch {
		case rec.Expected == nil:
			s.Added++
		case rec.Actual == nil:
			s.Removed++
		default:
			s.Changed++
		}
	}
}
