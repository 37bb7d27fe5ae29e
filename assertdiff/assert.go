// Package assertdiff provides test assertions that report structural
// differences between expected & actual values, one line per path
package assertdiff

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/qri-io/smalldiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tHelper interface {
	Helper()
}

// Equal asserts that expected & actual have no structural differences
//
//	assertdiff.Equal(t, want, got)
func Equal(t assert.TestingT, expected, actual interface{}, msgAndArgs ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return EqualWith(t, nil, expected, actual, msgAndArgs...)
}

// EqualWith is Equal using a custom Normalizer
func EqualWith(t assert.TestingT, n smalldiff.Normalizer, expected, actual interface{}, msgAndArgs ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	d, err := smalldiff.Compare(expected, actual, smalldiff.OptionNormalizer(n))
	if err != nil {
		return assert.Fail(t, compareFailure(err, expected, actual), msgAndArgs...)
	}
	if d.Empty() {
		return true
	}

	report, err := smalldiff.FormatPrettyString(d, false)
	if err != nil {
		return assert.Fail(t, fmt.Sprintf("Not equal, formatting %d differences failed: %s", len(d), err), msgAndArgs...)
	}
	return assert.Fail(t, fmt.Sprintf("Not equal (%d differences):\n%s", len(d), report), msgAndArgs...)
}

// NotEqual asserts that expected & actual differ in at least one location
func NotEqual(t assert.TestingT, expected, actual interface{}, msgAndArgs ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	d, err := smalldiff.Compare(expected, actual)
	if err != nil {
		return assert.Fail(t, compareFailure(err, expected, actual), msgAndArgs...)
	}
	if !d.Empty() {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("Should not be equal, both are:\n%s", spew.Sdump(actual)), msgAndArgs...)
}

// MustEqual is Equal, stopping the test on failure
func MustEqual(t require.TestingT, expected, actual interface{}, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if !Equal(t, expected, actual, msgAndArgs...) {
		t.FailNow()
	}
}

// MustEqualWith is EqualWith, stopping the test on failure
func MustEqualWith(t require.TestingT, n smalldiff.Normalizer, expected, actual interface{}, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if !EqualWith(t, n, expected, actual, msgAndArgs...) {
		t.FailNow()
	}
}

func compareFailure(err error, expected, actual interface{}) string {
	return fmt.Sprintf("Cannot compare values: %s\nexpected:\n%sactual:\n%s", err, spew.Sdump(expected), spew.Sdump(actual))
}
