package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Value is a sealed interface representing a configuration value.
// Only Number, Text, Bool, and Unset implement it. No nested arrays or
// objects - an attribute assignment is always a scalar.
type Value interface {
	value() // Sealed - only these types implement it
}

// Number represents a numeric value. Always float64 at this layer; the
// solver path truncates toward zero when it needs an integer (see
// sat.Encoder).
type Number float64

func (Number) value() {}

// Text represents a string value, NFC normalized at construction.
type Text string

func (Text) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// Unset represents the absence of a value. It is distinct from an empty
// string: a Configuration with no entry for a key and one holding Unset
// behave identically in both validators.
type Unset struct{}

func (Unset) value() {}

// NewText creates a Text value with NFC normalization applied.
// All Text construction must go through here (or FromAny) so that
// comparisons and encoder keys never see denormalized strings.
func NewText(s string) Text {
	return Text(norm.NFC.String(s))
}

// FromAny converts a dynamically-typed value (as produced by YAML or JSON
// decoding) into a Value. Integer and float types collapse to Number;
// strings are NFC normalized; nil maps to Unset.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Unset{}, nil
	case Value:
		return val, nil
	case string:
		return NewText(val), nil
	case bool:
		return Bool(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(val), nil
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case uint64:
		return Number(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// IsSet reports whether v carries an actual assignment. Unset, nil, and the
// empty string all count as "not set" - a required attribute holding "" is
// still missing.
func IsSet(v Value) bool {
	switch val := v.(type) {
	case nil, Unset:
		return false
	case Text:
		return strings.TrimSpace(string(val)) != ""
	default:
		return true
	}
}

// AsNumber applies the numeric side of the coercion table: Number passes
// through, numeric Text parses, Bool maps to 1/0. The second return is false
// when no numeric reading exists.
func AsNumber(v Value) (float64, bool) {
	switch val := v.(type) {
	case Number:
		return float64(val), true
	case Text:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(val)), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case Bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// LooseEqual implements the shared equality coercion table: if both sides
// have a numeric reading they compare as numbers (so Number(5) equals
// Text("5") and Bool(true) equals Number(1)); otherwise both must be Text
// and compare as NFC strings. Unset equals nothing, including Unset.
func LooseEqual(a, b Value) bool {
	if a == nil || b == nil {
		return false
	}
	if _, ok := a.(Unset); ok {
		return false
	}
	if _, ok := b.(Unset); ok {
		return false
	}
	na, aNum := AsNumber(a)
	nb, bNum := AsNumber(b)
	if aNum && bNum {
		return na == nb
	}
	ta, aText := a.(Text)
	tb, bText := b.(Text)
	if aText && bText {
		return ta == tb
	}
	return false
}

// CompareNumeric coerces both sides to numbers and returns their ordering
// (-1, 0, +1). When either side has no numeric reading the comparison is
// undefined and ok is false; ordering operators treat that as "condition
// not met", never as an error.
func CompareNumeric(a, b Value) (int, bool) {
	na, okA := AsNumber(a)
	nb, okB := AsNumber(b)
	if !okA || !okB {
		return 0, false
	}
	switch {
	case na < nb:
		return -1, true
	case na > nb:
		return 1, true
	default:
		return 0, true
	}
}

// Key returns a canonical token for v, used as an encoder map key and in
// solver variable names. Values that are loosely equal do not necessarily
// share a key; the encoder resolves coercion before keying.
func Key(v Value) string {
	switch val := v.(type) {
	case Number:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Text:
		return string(val)
	case Bool:
		return strconv.FormatBool(bool(val))
	default:
		return ""
	}
}

// TruncateToInt converts a Number toward zero for the solver path.
// Fractional configuration values lose precision here; this is the
// documented rounding rule for the integer encoding.
func TruncateToInt(f float64) int {
	return int(math.Trunc(f))
}
