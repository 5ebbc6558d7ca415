package roman

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned when a value falls outside [MinValue, MaxValue].
	ErrOutOfRange = errors.New("roman: value outside the supported range (1-3999)")
	// ErrEmpty is returned when Decode receives an empty numeral.
	ErrEmpty = errors.New("roman: numeral is empty")
	// ErrUnknownSymbol matches any *SymbolError via errors.Is.
	ErrUnknownSymbol = errors.New("roman: unknown symbol")
)

// SymbolError reports a character that is not part of the symbol table.
type SymbolError struct {
	Symbol   rune
	Position int
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("roman: unknown symbol %q at position %d", e.Symbol, e.Position)
}

// Is lets errors.Is(err, ErrUnknownSymbol) match symbol errors.
func (e *SymbolError) Is(target error) bool {
	return target == ErrUnknownSymbol
}
