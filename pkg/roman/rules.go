package roman

// Rule identifies one numeral grammar rule a decoded input can violate.
type Rule int

const (
	// RuleRepeats flags a symbol repeated more than three times in a row.
	RuleRepeats Rule = iota
	// RuleSubtractives flags a subtractive pair led by anything but I, X or C.
	RuleSubtractives
	// RuleRepeatableSubtractives flags a subtractive symbol reused as a prefix,
	// or a subtractive pair placed out of descending order.
	RuleRepeatableSubtractives
	// RuleSkips flags a subtraction spanning more than one order of magnitude.
	RuleSkips
	// RuleVLD flags V, L or D appearing twice in a row.
	RuleVLD
	// RuleNonCanonical flags input that breaks no other rule yet differs from
	// the canonical encoding of its value. Only checked in strict mode, which
	// drops RuleRepeatableSubtractives.
	RuleNonCanonical

	ruleCount
)

var ruleInfo = [ruleCount]struct {
	name    string
	message string
}{
	RuleRepeats:                {"Repeats", "A numeral cannot be repeated more than three times. (IIII is illegal)"},
	RuleSubtractives:           {"Subtractives", "Only I, X, and C can be used as subtractives."},
	RuleRepeatableSubtractives: {"Repeatable Subtractives", "Only one I, X, and C can be subtracted from two larger numerals."},
	RuleSkips:                  {"Skips", "Only one numeral can be skipped when subtracting (IX is valid, but IC is not)."},
	RuleVLD:                    {"VLD", "The letters V, L, and D cannot be repeated."},
	RuleNonCanonical:           {"UserInputMismatch", "User input does not match code expectations."},
}

// Name returns the short rule label.
func (r Rule) Name() string {
	if r < 0 || r >= ruleCount {
		return "Unknown"
	}
	return ruleInfo[r].name
}

// Message returns the human readable explanation shown to users.
func (r Rule) Message() string {
	if r < 0 || r >= ruleCount {
		return ""
	}
	return ruleInfo[r].message
}

func (r Rule) String() string { return r.Name() }

// Rules returns the five grammar rules checked by default.
func Rules() []Rule {
	return []Rule{RuleRepeats, RuleSubtractives, RuleRepeatableSubtractives, RuleSkips, RuleVLD}
}

// StrictRules returns the rules checked in strict mode, where the canonical
// form check stands in for RuleRepeatableSubtractives.
func StrictRules() []Rule {
	return []Rule{RuleRepeats, RuleSubtractives, RuleSkips, RuleVLD, RuleNonCanonical}
}

// Messages maps rules to their messages, preserving order.
func Messages(rules []Rule) []string {
	if len(rules) == 0 {
		return nil
	}
	out := make([]string, len(rules))
	for i, rule := range rules {
		out[i] = rule.Message()
	}
	return out
}
