package convert

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-numerals/pkg/roman"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithValidator overrides the Roman validator used for numeral input.
func WithValidator(validator *roman.Validator) Option {
	return func(d *Dispatcher) {
		if validator != nil {
			d.validator = validator
		}
	}
}

// WithStrict toggles the canonical form check on the default validator.
func WithStrict(strict bool) Option {
	return func(d *Dispatcher) {
		if strict {
			d.validator = roman.NewValidator(roman.WithCanonicalCheck())
		} else {
			d.validator = roman.NewValidator()
		}
	}
}

// Dispatcher classifies raw input as decimal or Roman and converts it. It
// holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	validator *roman.Validator
}

// New constructs a Dispatcher. Without options it checks the five default
// grammar rules.
func New(options ...Option) *Dispatcher {
	d := &Dispatcher{validator: roman.NewValidator()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// Validator exposes the validator used for Roman input.
func (d *Dispatcher) Validator() *roman.Validator {
	return d.validator
}

var defaultDispatcher = New()

// ParseAndConvert converts raw using the default dispatcher.
func ParseAndConvert(raw string) (Outcome, error) {
	return defaultDispatcher.ParseAndConvert(raw)
}

// ParseAndConvert inspects raw, converts it, and returns either an Outcome or
// an *Error. Surrounding whitespace is ignored and Roman input is accepted in
// any letter case.
func (d *Dispatcher) ParseAndConvert(raw string) (Outcome, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return Outcome{}, &Error{Kind: KindMalformedInput, Input: input}
	}

	if hasDigit(input) && hasLetter(input) {
		return Outcome{}, &Error{Kind: KindMixedFormat, Input: input}
	}

	n, err := strconv.Atoi(input)
	switch {
	case err == nil:
		return d.fromDecimal(input, n)
	case errors.Is(err, strconv.ErrRange):
		return Outcome{}, &Error{Kind: KindOutOfRange, Input: input, Source: KindDecimal, Err: err}
	}

	for _, r := range input {
		if !unicode.IsLetter(r) {
			return Outcome{}, &Error{Kind: KindMalformedInput, Input: input}
		}
	}

	upper := strings.ToUpper(input)
	pos := 0
	for _, r := range upper {
		if !roman.IsSymbol(r) {
			return Outcome{}, &Error{
				Kind:   KindMalformedInput,
				Input:  upper,
				Source: KindRoman,
				Err:    &roman.SymbolError{Symbol: r, Position: pos},
			}
		}
		pos++
	}
	return d.fromRoman(upper)
}

func (d *Dispatcher) fromDecimal(input string, n int) (Outcome, error) {
	value, err := roman.NewValue(n)
	if err != nil {
		return Outcome{}, &Error{Kind: KindOutOfRange, Input: input, Source: KindDecimal, Value: n, Err: err}
	}
	return Outcome{
		Kind:    KindDecimal,
		Input:   input,
		Decimal: value,
		Roman:   value.Roman(),
	}, nil
}

func (d *Dispatcher) fromRoman(input string) (Outcome, error) {
	decoded, err := d.validator.Decode(input)
	if err != nil {
		return Outcome{}, &Error{Kind: KindMalformedInput, Input: input, Source: KindRoman, Err: err}
	}

	value, err := roman.NewValue(decoded.Value)
	if err != nil {
		return Outcome{}, &Error{
			Kind:   KindOutOfRange,
			Input:  input,
			Source: KindRoman,
			Value:  decoded.Value,
			Rules:  decoded.Violations,
			Err:    err,
		}
	}
	if !decoded.Valid() {
		return Outcome{}, &Error{
			Kind:   KindRuleViolation,
			Input:  input,
			Source: KindRoman,
			Value:  decoded.Value,
			Rules:  decoded.Violations,
		}
	}

	return Outcome{
		Kind:    KindRoman,
		Input:   input,
		Decimal: value,
		Roman:   value.Roman(),
	}, nil
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
