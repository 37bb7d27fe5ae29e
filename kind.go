package smalldiff

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind identifies the variant of a canonical Value
type Kind uint8

const (
	// KindNull is an absent or nil value
	KindNull Kind = iota
	// KindBool is a boolean
	KindBool
	// KindInt is a signed integer
	KindInt
	// KindUint is an unsigned integer
	KindUint
	// KindFloat is a floating point number
	KindFloat
	// KindString is text, including decoded bytes & formatted dates
	KindString
	// KindSequence is an ordered list of values
	KindSequence
	// KindMapping is a set of string keys, each bound to a value
	KindMapping
)

// IsPrimitive is true for every kind that can't contain other values
func (k Kind) IsPrimitive() bool {
	return k < KindSequence
}

// IsNumber is true for the integer & floating point kinds
func (k Kind) IsNumber() bool {
	switch k {
	case KindInt, KindUint, KindFloat:
		return true
	default:
		return false
	}
}
