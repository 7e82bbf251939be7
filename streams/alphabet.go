package streams

import (
	"strings"

	"github.com/pkg/errors"
)

// ZeroWidth is the placeholder carrier of slots that hold only spacing or
// extra punctuation.
const ZeroWidth = '\u200b'

// BaseSize is the number of symbols in the fixed base alphabet:
// a..z, 0..9 and ZeroWidth.
const BaseSize = 37

const zeroWidthSymbol = 36

var (
	// ErrUnknownCarrier is returned when a carrier rune is in neither the
	// base alphabet nor the extension alphabet.
	ErrUnknownCarrier = errors.New("streams: carrier not in base or extension alphabet")
	// ErrUnknownSymbol is returned when a symbol id is outside the alphabet.
	ErrUnknownSymbol = errors.New("streams: symbol outside alphabet")
)

// baseSymbol returns the base alphabet id of r.
func baseSymbol(r rune) (int, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a'), true
	case r >= '0' && r <= '9':
		return 26 + int(r-'0'), true
	case r == ZeroWidth:
		return zeroWidthSymbol, true
	}
	return 0, false
}

func baseRune(symbol int) rune {
	switch {
	case symbol < 26:
		return 'a' + rune(symbol)
	case symbol < 36:
		return '0' + rune(symbol-26)
	default:
		return ZeroWidth
	}
}

// InBase reports whether r belongs to the base alphabet.
func InBase(r rune) bool {
	_, ok := baseSymbol(r)
	return ok
}

// Alphabet is the base alphabet extended with the per-message runes that fall
// outside it. Extension runes get consecutive ids starting at BaseSize in the
// order they are registered.
type Alphabet struct {
	ext   []rune
	index map[rune]int
}

// NewAlphabet returns an alphabet whose extension holds the runes of ext in
// order. Runes that are in the base alphabet or repeated are rejected, since
// they would make the id space ambiguous.
func NewAlphabet(ext string) (*Alphabet, error) {
	a := &Alphabet{index: make(map[rune]int)}
	for _, r := range ext {
		if InBase(r) {
			return nil, errors.Errorf("streams: extension rune %q is in the base alphabet", r)
		}
		if _, ok := a.index[r]; ok {
			return nil, errors.Errorf("streams: extension rune %q repeated", r)
		}
		a.Register(r)
	}
	return a, nil
}

// Register adds r to the extension if it is not known yet and returns its id.
func (a *Alphabet) Register(r rune) int {
	if sym, ok := a.Symbol(r); ok {
		return sym
	}
	if a.index == nil {
		a.index = make(map[rune]int)
	}
	sym := BaseSize + len(a.ext)
	a.ext = append(a.ext, r)
	a.index[r] = sym
	return sym
}

// Symbol returns the id of r.
func (a *Alphabet) Symbol(r rune) (int, bool) {
	if sym, ok := baseSymbol(r); ok {
		return sym, true
	}
	sym, ok := a.index[r]
	return sym, ok
}

// Rune returns the rune for symbol.
func (a *Alphabet) Rune(symbol int) (rune, bool) {
	if symbol < 0 || symbol >= a.Size() {
		return 0, false
	}
	if symbol < BaseSize {
		return baseRune(symbol), true
	}
	return a.ext[symbol-BaseSize], true
}

// Size returns the total number of symbols, base plus extension.
func (a *Alphabet) Size() int {
	return BaseSize + len(a.ext)
}

// ExtLen returns the number of extension runes.
func (a *Alphabet) ExtLen() int {
	return len(a.ext)
}

// String returns the extension runes in id order.
func (a *Alphabet) String() string {
	var b strings.Builder
	for _, r := range a.ext {
		b.WriteRune(r)
	}
	return b.String()
}
