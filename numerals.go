package numerals

import (
	"github.com/goliatone/go-numerals/pkg/convert"
	"github.com/goliatone/go-numerals/pkg/roman"
)

// Outcome is a successful conversion; alias exported via the root package for
// convenience.
type Outcome = convert.Outcome

// Error describes rejected input.
type Error = convert.Error

// Decoding is the result of validating a Roman numeral.
type Decoding = roman.Decoding

// Rule identifies a Roman numeral grammar rule.
type Rule = roman.Rule

// Convert detects whether raw is a decimal number or a Roman numeral and
// converts it to the other representation.
func Convert(raw string) (Outcome, error) {
	return convert.ParseAndConvert(raw)
}

// Encode returns the canonical numeral for v, rejecting values outside
// [1, 3999] with roman.ErrOutOfRange.
func Encode(v int) (string, error) {
	value, err := roman.NewValue(v)
	if err != nil {
		return "", err
	}
	return value.Roman(), nil
}

// Decode validates an uppercase numeral and returns its value together with
// any rule violations.
func Decode(numeral string) (Decoding, error) {
	return roman.Decode(numeral)
}

// Rules lists the grammar rules checked by Decode.
func Rules() []Rule {
	return roman.Rules()
}
