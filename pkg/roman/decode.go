package roman

// Decoding is the result of reading a numeral: its best-effort value and the
// rules it violates, in rule order, each listed once.
type Decoding struct {
	Input      string
	Value      int
	Violations []Rule
}

// Valid reports whether no rule was violated.
func (d Decoding) Valid() bool { return len(d.Violations) == 0 }

// Has reports whether rule is among the violations.
func (d Decoding) Has(rule Rule) bool {
	for _, v := range d.Violations {
		if v == rule {
			return true
		}
	}
	return false
}

// Option configures a Validator.
type Option func(*Validator)

// WithCanonicalCheck selects strict mode: RuleRepeatableSubtractives is
// replaced by RuleNonCanonical, which rejects any spelling that breaks no
// other rule yet differs from Encode of its value.
func WithCanonicalCheck() Option {
	return func(v *Validator) {
		v.canonical = true
	}
}

// Validator decodes numerals and checks them against the grammar rules. The
// zero value checks the five default rules.
type Validator struct {
	canonical bool
}

// NewValidator constructs a Validator with the supplied options.
func NewValidator(options ...Option) *Validator {
	v := &Validator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// Strict reports whether the canonical form check is enabled.
func (v *Validator) Strict() bool {
	return v != nil && v.canonical
}

// Rules lists the rules this validator checks.
func (v *Validator) Rules() []Rule {
	if v.Strict() {
		return StrictRules()
	}
	return Rules()
}

// Decode reads numeral using the default rules.
func Decode(numeral string) (Decoding, error) {
	return (*Validator)(nil).Decode(numeral)
}

// Decode reads numeral, which must be non-empty and consist only of uppercase
// table symbols. Grammar violations are reported in the Decoding, never as an
// error.
func (v *Validator) Decode(numeral string) (Decoding, error) {
	if numeral == "" {
		return Decoding{}, ErrEmpty
	}

	symbols := []rune(numeral)
	values := make([]int, len(symbols))
	for i, r := range symbols {
		value, ok := SymbolValue(r)
		if !ok {
			return Decoding{}, &SymbolError{Symbol: r, Position: i}
		}
		values[i] = value
	}

	out := Decoding{
		Input: numeral,
		Value: sumValues(values),
	}

	var violated [ruleCount]bool
	checkGrammar(symbols, values, &violated)

	if v.Strict() {
		// Strict mode compares against the canonical encoding in place of the
		// ordering rule, so IIX or IXI read as mismatches instead.
		violated[RuleRepeatableSubtractives] = false
		if !anyViolated(violated) && InRange(out.Value) && Encode(out.Value) != numeral {
			violated[RuleNonCanonical] = true
		}
	}

	for rule := Rule(0); rule < ruleCount; rule++ {
		if violated[rule] {
			out.Violations = append(out.Violations, rule)
		}
	}
	return out, nil
}

// sumValues walks right to left, subtracting any symbol smaller than the one
// to its right.
func sumValues(values []int) int {
	total := 0
	right := 0
	for i := len(values) - 1; i >= 0; i-- {
		value := values[i]
		if value < right {
			total -= value
		} else {
			total += value
		}
		right = value
	}
	return total
}

// checkGrammar runs every rule in one left-to-right pass. A group is either a
// single symbol or a subtractive pair; once a pair is read, every later group
// must be worth less than the pair's subtracted symbol.
func checkGrammar(symbols []rune, values []int, violated *[ruleCount]bool) {
	var (
		repeat    int
		bound     int
		pairTail  = -1
		usedAsSub = make(map[rune]bool, 3)
	)

	for i, sym := range symbols {
		value := values[i]

		if i > 0 && sym == symbols[i-1] {
			repeat++
		} else {
			repeat = 1
		}
		if repeat > 3 {
			violated[RuleRepeats] = true
		}
		if isNonRepeatable(sym) && repeat > 1 {
			violated[RuleVLD] = true
		}

		ascending := i+1 < len(symbols) && values[i+1] > value
		if ascending {
			next := values[i+1]
			if !isSubtractive(sym) {
				violated[RuleSubtractives] = true
			} else {
				if usedAsSub[sym] {
					violated[RuleRepeatableSubtractives] = true
				}
				usedAsSub[sym] = true
				if next > 10*value {
					violated[RuleSkips] = true
				}
				if i > 0 && values[i-1] < 10*value {
					violated[RuleRepeatableSubtractives] = true
				}
			}
		}

		if i == pairTail {
			continue
		}

		group := value
		if ascending {
			group = values[i+1] - value
		}
		if bound > 0 && group >= bound {
			violated[RuleRepeatableSubtractives] = true
		}
		if ascending {
			bound = value
			pairTail = i + 1
		}
	}
}

func anyViolated(violated [ruleCount]bool) bool {
	for _, v := range violated {
		if v {
			return true
		}
	}
	return false
}
