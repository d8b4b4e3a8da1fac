package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ScalarKind is the type a constraint cell was coerced to.
type ScalarKind int

const (
	KindBool ScalarKind = iota
	KindInt
	KindFloat
	KindText
)

// Scalar is a coerced constraint value.
type Scalar struct {
	kind ScalarKind
	b    bool
	i    int64
	f    float64
	s    string
}

func BoolValue(v bool) *Scalar { return &Scalar{kind: KindBool, b: v} }

func IntValue(v int64) *Scalar { return &Scalar{kind: KindInt, i: v} }

func FloatValue(v float64) *Scalar { return &Scalar{kind: KindFloat, f: v} }

func TextValue(v string) *Scalar { return &Scalar{kind: KindText, s: v} }

func (s *Scalar) Kind() ScalarKind { return s.kind }

// Bool returns the value if the scalar is a boolean.
func (s *Scalar) Bool() (bool, bool) { return s.b, s.kind == KindBool }

// Int returns the integer value if the scalar is an integer.
func (s *Scalar) Int() (int64, bool) { return s.i, s.kind == KindInt }

// Float returns the numeric value for integers and floats.
func (s *Scalar) Float() (float64, bool) {
	switch s.kind {
	case KindInt:
		return float64(s.i), true
	case KindFloat:
		return s.f, true
	default:
		return 0, false
	}
}

// Text returns the raw text if the cell could not be coerced.
func (s *Scalar) Text() (string, bool) { return s.s, s.kind == KindText }

// Coerce converts a catalog cell. Empty cells yield nil.
//
//	"true"/"yes" -> true, "false"/"no" -> false (any case)
//	integer literal -> int, decimal or exponent -> float, anything else -> text
func Coerce(cell string) *Scalar {
	v := strings.TrimSpace(cell)
	if v == "" {
		return nil
	}
	switch strings.ToLower(v) {
	case "true", "yes":
		return BoolValue(true)
	case "false", "no":
		return BoolValue(false)
	}
	// Digit separators and hex literals stay text.
	if strings.ContainsAny(v, "_xX") {
		return TextValue(v)
	}
	if !strings.ContainsAny(v, ".eE") {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return IntValue(i)
		}
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return FloatValue(f)
	}
	return TextValue(v)
}

func (s *Scalar) String() string {
	switch s.kind {
	case KindBool:
		return strconv.FormatBool(s.b)
	case KindInt:
		return strconv.FormatInt(s.i, 10)
	case KindFloat:
		return strconv.FormatFloat(s.f, 'g', -1, 64)
	default:
		return s.s
	}
}

// MarshalJSON implements json.Marshaler.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case KindBool:
		return json.Marshal(s.b)
	case KindInt:
		return json.Marshal(s.i)
	case KindFloat:
		return json.Marshal(s.f)
	default:
		return json.Marshal(s.s)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty constraint value")
	}
	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*s = *BoolValue(b)
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = *TextValue(text)
	default:
		lit := string(data)
		if !strings.ContainsAny(lit, ".eE") {
			if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
				*s = *IntValue(i)
				return nil
			}
		}
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return fmt.Errorf("constraint value %s is not a boolean, number or string", lit)
		}
		*s = *FloatValue(f)
	}
	return nil
}
