package smalldiff

import (
	"sort"
	"strconv"
	"strings"
)

// Path addresses a location in a value tree as a dot-separated list of
// mapping keys & sequence indices, eg: "users.0.addresses.1.city". The empty
// path is the root
type Path string

// Root is the path of the top-level value
const Root = Path("")

// Key returns the path of a mapping key beneath p
func (p Path) Key(key string) Path {
	if p == Root {
		return Path(key)
	}
	return p + "." + Path(key)
}

// Index returns the path of a sequence element beneath p
func (p Path) Index(i int) Path {
	return p.Key(strconv.Itoa(i))
}

// Segments splits a path into its keys & indices. Root has no segments
func (p Path) Segments() []string {
	if p == Root {
		return nil
	}
	return strings.Split(string(p), ".")
}

func (p Path) String() string { return string(p) }

// SortPaths orders paths segment by segment, comparing segments that are both
// integers numerically so "a.2" sorts before "a.10"
func SortPaths(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		return lessPath(paths[i], paths[j])
	})
}

func lessPath(a, b string) bool {
	as := Path(a).Segments()
	bs := Path(b).Segments()
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			return an < bn
		}
		return as[i] < bs[i]
	}
	return len(as) < len(bs)
}
