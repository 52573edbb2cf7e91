package dataset

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Float is an optional float64. Missing source cells and undefined derived
// ratios are represented by Known=false; NaN is never used as a sentinel.
type Float struct {
	Val   float64
	Known bool
}

// Known wraps a concrete value.
func Known(v float64) Float {
	return Float{Val: v, Known: true}
}

// Unknown is the missing value.
func Unknown() Float {
	return Float{}
}

// ParseFloat converts a raw CSV cell into a Float. Empty cells and
// unparseable content are unknown rather than errors.
func ParseFloat(s string) Float {
	if s == "" || s == "NaN" {
		return Unknown()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Unknown()
	}
	return Known(v)
}

var nullLiteral = []byte("null")

// MarshalJSON renders unknown values as null.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Known {
		return nullLiteral, nil
	}
	return json.Marshal(f.Val)
}

// UnmarshalJSON accepts null or a number.
func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		*f = Unknown()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Known(v)
	return nil
}
