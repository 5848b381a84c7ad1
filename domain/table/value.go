package table

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind defines the storage kind of a cell
type ValueKind string

const (
	KindMissing ValueKind = "missing"
	KindString  ValueKind = "string"
	KindNumeric ValueKind = "numeric"
)

// Value is a single cell. The zero Value is missing.
type Value struct {
	Kind ValueKind `json:"kind"`
	Str  string    `json:"str,omitempty"`
	Num  float64   `json:"num,omitempty"`
}

// NewStringValue creates a string value. The empty string is a valid value, not a missing one.
func NewStringValue(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NewNumericValue creates a numeric value; NaN becomes missing and -0 becomes 0
func NewNumericValue(n float64) Value {
	if math.IsNaN(n) {
		return NewMissingValue()
	}
	if n == 0 {
		n = 0
	}
	return Value{Kind: KindNumeric, Num: n}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Kind: KindMissing}
}

// IsMissing reports whether the cell holds no value
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing || v.Kind == ""
}

// IsNumeric returns true if the value represents a valid number
func (v Value) IsNumeric() bool {
	return v.Kind == KindNumeric
}

// IsString returns true if the value holds text
func (v Value) IsString() bool {
	return v.Kind == KindString
}

// AsFloat64 returns the numeric value as float64, or 0 if not numeric
func (v Value) AsFloat64() float64 {
	if v.Kind == KindNumeric {
		return v.Num
	}
	return 0.0
}

// Numbers outside [plainMin, plainMax) in magnitude render in exponent form
const (
	plainMin = 1e-6
	plainMax = 1e21
)

// String renders the value the way it is written to output files.
// Numbers use the shortest representation that round-trips, in plain decimal unless
// the magnitude is very large or very small; missing renders as "".
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumeric:
		if a := math.Abs(v.Num); a >= plainMax || (a != 0 && a < plainMin) {
			return strconv.FormatFloat(v.Num, 'g', -1, 64)
		}
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return ""
}

// Equal compares kind and content. Missing equals missing.
func (v Value) Equal(other Value) bool {
	if v.IsMissing() || other.IsMissing() {
		return v.IsMissing() && other.IsMissing()
	}
	if v.Kind != other.Kind {
		return false
	}
	if v.Kind == KindNumeric {
		return v.Num == other.Num
	}
	return v.Str == other.Str
}

// appendKey writes an unambiguous encoding of the value used for row fingerprints
func (v Value) appendKey(b *strings.Builder) {
	switch {
	case v.IsMissing():
		b.WriteString("m;")
	case v.Kind == KindNumeric:
		n := v.Num
		if n == 0 {
			// keys must agree with Equal, where -0 == 0
			n = 0
		}
		b.WriteString("n")
		b.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
		b.WriteString(";")
	default:
		b.WriteString("s")
		b.WriteString(strconv.Itoa(len(v.Str)))
		b.WriteString(":")
		b.WriteString(v.Str)
	}
}
