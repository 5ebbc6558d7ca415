package roman

const (
	// MinValue is the smallest value representable as a Roman numeral.
	MinValue = 1
	// MaxValue is the largest value representable without overline notation.
	MaxValue = 3999
)

// Symbol pairs a decimal magnitude with its numeral spelling.
type Symbol struct {
	Value   int
	Numeral string
}

// symbolTable lists the canonical magnitudes in descending order.
var symbolTable = [...]Symbol{
	{1000, "M"},
	{900, "CM"},
	{500, "D"},
	{400, "CD"},
	{100, "C"},
	{90, "XC"},
	{50, "L"},
	{40, "XL"},
	{10, "X"},
	{9, "IX"},
	{5, "V"},
	{4, "IV"},
	{1, "I"},
}

// SymbolTable returns a copy of the thirteen canonical (value, numeral) pairs
// ordered from the largest magnitude to the smallest.
func SymbolTable() []Symbol {
	out := make([]Symbol, len(symbolTable))
	copy(out, symbolTable[:])
	return out
}

// SymbolValue reports the value of a single numeral symbol. Lowercase symbols
// are not recognised.
func SymbolValue(r rune) (int, bool) {
	switch r {
	case 'I':
		return 1, true
	case 'V':
		return 5, true
	case 'X':
		return 10, true
	case 'L':
		return 50, true
	case 'C':
		return 100, true
	case 'D':
		return 500, true
	case 'M':
		return 1000, true
	default:
		return 0, false
	}
}

// IsSymbol reports whether r is one of I, V, X, L, C, D, M.
func IsSymbol(r rune) bool {
	_, ok := SymbolValue(r)
	return ok
}

func isSubtractive(r rune) bool {
	return r == 'I' || r == 'X' || r == 'C'
}

func isNonRepeatable(r rune) bool {
	return r == 'V' || r == 'L' || r == 'D'
}
