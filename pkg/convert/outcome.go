package convert

import (
	"strconv"

	"github.com/goliatone/go-numerals/pkg/roman"
)

// Kind tags which numeral system the input was written in.
type Kind int

const (
	// KindDecimal marks decimal input converted to a Roman numeral.
	KindDecimal Kind = iota + 1
	// KindRoman marks Roman input converted to a decimal value.
	KindRoman
)

// Conversion type tags handed to the history collaborator.
const (
	ConversionDecimalToRoman = "decimal_to_roman"
	ConversionRomanToDecimal = "roman_to_decimal"
	ConversionError          = "error"
)

func (k Kind) String() string {
	switch k {
	case KindDecimal:
		return "decimal"
	case KindRoman:
		return "roman"
	default:
		return "unknown"
	}
}

// NumberName returns the display name used in user-facing messages.
func (k Kind) NumberName() string {
	switch k {
	case KindDecimal:
		return "DecimalNumber"
	case KindRoman:
		return "RomanNumber"
	default:
		return "Number"
	}
}

// Outcome is a successful conversion. Decimal and Roman always describe the
// same value; Roman is the canonical spelling regardless of input kind.
type Outcome struct {
	Kind    Kind
	Input   string
	Decimal roman.Value
	Roman   string
	// Violations is always empty: input with violations is rejected with an
	// *Error carrying the rules instead.
	Violations []roman.Rule
}

// ConversionType returns the stable history tag for the outcome.
func (o Outcome) ConversionType() string {
	if o.Kind == KindRoman {
		return ConversionRomanToDecimal
	}
	return ConversionDecimalToRoman
}

// Converted returns the counterpart of the input as text.
func (o Outcome) Converted() string {
	if o.Kind == KindRoman {
		return strconv.Itoa(o.Decimal.Int())
	}
	return o.Roman
}
