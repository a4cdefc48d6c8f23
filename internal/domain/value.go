package domain

import (
	"encoding/json"
	"fmt"
)

// ValueKind tags a measurement value.
type ValueKind int

const (
	ValueMissing ValueKind = iota
	ValueNumeric
	ValueCategorical
)

// Value is a measured reading: a number, a categorical label (e.g.
// "preserved"), or missing. The zero Value is missing.
type Value struct {
	kind ValueKind
	num  float64
	str  string
}

func NumericValue(f float64) Value {
	return Value{kind: ValueNumeric, num: f}
}

func CategoricalValue(s string) Value {
	return Value{kind: ValueCategorical, str: s}
}

func MissingValue() Value {
	return Value{}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsMissing() bool { return v.kind == ValueMissing }

// Float returns the numeric value, if any.
func (v Value) Float() (float64, bool) {
	if v.kind != ValueNumeric {
		return 0, false
	}
	return v.num, true
}

// Label returns the categorical label, if any.
func (v Value) Label() (string, bool) {
	if v.kind != ValueCategorical {
		return "", false
	}
	return v.str, true
}

func (v Value) String() string {
	switch v.kind {
	case ValueNumeric:
		return fmt.Sprintf("%g", v.num)
	case ValueCategorical:
		return v.str
	}
	return ""
}

// MarshalJSON encodes a missing value as null, numeric as a number and
// categorical as a string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNumeric:
		return json.Marshal(v.num)
	case ValueCategorical:
		return json.Marshal(v.str)
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = NumericValue(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = CategoricalValue(s)
		return nil
	}
	return fmt.Errorf("value must be null, a number or a string, got %s", data)
}
