// Package roman converts between decimal values and Roman numerals.
//
// Encode produces the canonical numeral for a value using the greedy
// largest-first walk over the symbol table. Decode reads an arbitrary numeral,
// returning its best-effort value together with every grammar rule the input
// violates:
//
//	d, err := roman.Decode("IC")
//	// d.Value == 99, d.Violations == []roman.Rule{roman.RuleSkips}
//
// Decoding never fails on a malformed numeral; callers decide whether a
// non-empty violation list is fatal. All tables are read-only and every
// function is safe for concurrent use.
package roman
