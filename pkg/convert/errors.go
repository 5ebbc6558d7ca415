package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-numerals/pkg/roman"
)

// ErrorKind classifies why input could not be converted.
type ErrorKind int

const (
	// KindMixedFormat means the input mixes digits and letters.
	KindMixedFormat ErrorKind = iota + 1
	// KindMalformedInput means the input is neither a number nor a numeral.
	KindMalformedInput
	// KindOutOfRange means the value falls outside [1, 3999].
	KindOutOfRange
	// KindRuleViolation means the numeral breaks one or more grammar rules.
	KindRuleViolation
)

// Sentinels usable with errors.Is against any *Error of the matching kind.
var (
	ErrMixedFormat    = errors.New("convert: mixed format")
	ErrMalformedInput = errors.New("convert: malformed input")
	ErrOutOfRange     = errors.New("convert: out of range")
	ErrRuleViolation  = errors.New("convert: rule violation")
)

const invalidInputMessage = "Invalid input. Please enter a valid Roman numeral or decimal number."

func (k ErrorKind) String() string {
	switch k {
	case KindMixedFormat:
		return "mixed_format"
	case KindMalformedInput:
		return "malformed_input"
	case KindOutOfRange:
		return "out_of_range"
	case KindRuleViolation:
		return "rule_violation"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMixedFormat:
		return ErrMixedFormat
	case KindMalformedInput:
		return ErrMalformedInput
	case KindOutOfRange:
		return ErrOutOfRange
	case KindRuleViolation:
		return ErrRuleViolation
	default:
		return nil
	}
}

// Error describes a rejected input. Source records which numeral system the
// input was read as once that is known; Value is the parsed or decoded value
// for range failures.
type Error struct {
	Kind   ErrorKind
	Input  string
	Source Kind
	Value  int
	Rules  []roman.Rule
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindOutOfRange:
		if e.Source == KindRoman {
			return fmt.Sprintf("Roman numeral %s represents a value outside the supported range (%d-%d).", e.Input, roman.MinValue, roman.MaxValue)
		}
		return fmt.Sprintf("Decimal value %s is outside the supported range (%d-%d).", e.Input, roman.MinValue, roman.MaxValue)
	case KindRuleViolation:
		return strings.Join(e.Messages(), ", ")
	default:
		return invalidInputMessage
	}
}

// Messages returns the messages of every violated rule.
func (e *Error) Messages() []string {
	if e.Kind != KindRuleViolation {
		return []string{e.Error()}
	}
	return roman.Messages(e.Rules)
}

// Is matches the sentinel for the error kind.
func (e *Error) Is(target error) bool {
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the ErrorKind from err, returning zero when err is not an
// *Error.
func KindOf(err error) ErrorKind {
	var convErr *Error
	if errors.As(err, &convErr) {
		return convErr.Kind
	}
	return 0
}
