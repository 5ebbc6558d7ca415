package roman

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a decimal value known to lie within [MinValue, MaxValue].
type Value int

// NewValue validates v and returns it as a Value. Out-of-range input is
// rejected, never clamped.
func NewValue(v int) (Value, error) {
	if v < MinValue || v > MaxValue {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, v)
	}
	return Value(v), nil
}

// MustValue is NewValue that panics on error. Intended for constants and tests.
func MustValue(v int) Value {
	value, err := NewValue(v)
	if err != nil {
		panic(err)
	}
	return value
}

// Int returns the plain integer.
func (v Value) Int() int { return int(v) }

// Roman returns the canonical numeral for v.
func (v Value) Roman() string { return Encode(int(v)) }

func (v Value) String() string { return strconv.Itoa(int(v)) }

// InRange reports whether v can be expressed as a Roman numeral.
func InRange(v int) bool {
	return v >= MinValue && v <= MaxValue
}

// Encode returns the canonical numeral for v by repeatedly taking the largest
// magnitude that still fits. Range checks belong to the caller; values below
// one yield an empty string.
func Encode(v int) string {
	var b strings.Builder
	remaining := v
	for _, sym := range symbolTable {
		for remaining >= sym.Value {
			b.WriteString(sym.Numeral)
			remaining -= sym.Value
		}
	}
	return b.String()
}
