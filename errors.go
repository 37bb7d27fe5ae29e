package smalldiff

import (
	"fmt"
	"reflect"
)

var (
	// ErrTypeMismatch is matched by every *TypeMismatchError
	ErrTypeMismatch = fmt.Errorf("type mismatch")
	// ErrUnsupportedType is matched by every *UnsupportedTypeError
	ErrUnsupportedType = fmt.Errorf("unsupported type")
	// ErrDecoding is matched by every *DecodingError
	ErrDecoding = fmt.Errorf("decoding error")
)

// TypeMismatchError is returned by Compare when expected & actual have
// different runtime types. No comparison is attempted
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: cannot compare %s with %s", ErrTypeMismatch, typeName(e.Expected), typeName(e.Actual))
}

// Is makes errors.Is(err, ErrTypeMismatch) work
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// UnsupportedTypeError is returned when a value matches no normalization rule
type UnsupportedTypeError struct {
	// Path is the location of the value within the tree being normalized
	Path Path
	Type reflect.Type
	// Reason is set when the type is partly supported, eg: a map with
	// unsupported key types
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	msg := fmt.Sprintf("%s %s", ErrUnsupportedType, typeName(e.Type))
	if e.Path != Root {
		msg += fmt.Sprintf(" at %q", e.Path)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg + ". provide a custom Normalizer, or implement Mapper or json.Marshaler on the type"
}

// Is makes errors.Is(err, ErrUnsupportedType) work
func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// DecodingError is returned when byte content isn't valid UTF-8 text
type DecodingError struct {
	Path Path
	// Offset is the index of the first invalid byte
	Offset int
}

func (e *DecodingError) Error() string {
	if e.Path != Root {
		return fmt.Sprintf("%s: invalid UTF-8 at byte %d of %q", ErrDecoding, e.Offset, e.Path)
	}
	return fmt.Sprintf("%s: invalid UTF-8 at byte %d", ErrDecoding, e.Offset)
}

// Is makes errors.Is(err, ErrDecoding) work
func (e *DecodingError) Is(target error) bool { return target == ErrDecoding }

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}
