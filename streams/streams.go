// Package streams splits text into parallel carrier and style streams and
// joins them back.
//
// Every slot carries one rune (a lowercase letter, digit, ZeroWidth or an
// extension rune) and a Style describing the spaces before it, the
// punctuation mark after it and whether it was capitalized.
//
// Decompose is lossless for valid UTF-8 except for two cases: trailing
// spaces are dropped, and a literal ZeroWidth rune in the input cannot be
// told apart from a placeholder slot and disappears. Invalid UTF-8 bytes
// become U+FFFD extension runes.
package streams

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

var (
	// ErrStreamLength is returned when the carrier and style streams differ in length.
	ErrStreamLength = errors.New("streams: carrier and style streams differ in length")
	// ErrInvalidStyle is returned for a style field outside its alphabet.
	ErrInvalidStyle = errors.New("streams: style value out of range")
)

// Streams is a decomposed text.
type Streams struct {
	Carriers []rune
	Styles   []Style
	Ext      *Alphabet
}

// Len returns the number of slots.
func (s *Streams) Len() int {
	return len(s.Styles)
}

// Validate checks that both streams have the same length and that every
// style field fits its alphabet.
func (s *Streams) Validate() error {
	if len(s.Carriers) != len(s.Styles) {
		return errors.Wrapf(ErrStreamLength, "%d carriers, %d styles", len(s.Carriers), len(s.Styles))
	}
	for i, st := range s.Styles {
		if st.Spaces > MaxSpaces || st.Punct >= PunctCount {
			return errors.Wrapf(ErrInvalidStyle, "slot %d: %+v", i, st)
		}
	}
	return nil
}

// Symbols maps the carriers to their ids in s.Ext.
func (s *Streams) Symbols() ([]int, error) {
	ext := s.Ext
	if ext == nil {
		ext = &Alphabet{}
	}

	symbols := make([]int, len(s.Carriers))
	for i, r := range s.Carriers {
		sym, ok := ext.Symbol(r)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownCarrier, "slot %d: %q", i, r)
		}
		symbols[i] = sym
	}
	return symbols, nil
}

// FromSymbols rebuilds streams from carrier ids and styles.
func FromSymbols(symbols []int, styles []Style, ext *Alphabet) (*Streams, error) {
	if len(symbols) != len(styles) {
		return nil, errors.Wrapf(ErrStreamLength, "%d carriers, %d styles", len(symbols), len(styles))
	}

	carriers := make([]rune, len(symbols))
	for i, sym := range symbols {
		r, ok := ext.Rune(sym)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownSymbol, "slot %d: id %d, alphabet size %d", i, sym, ext.Size())
		}
		carriers[i] = r
	}

	return &Streams{Carriers: carriers, Styles: styles, Ext: ext}, nil
}

// Decompose splits text into streams. Runes outside the base alphabet are
// registered in the extension alphabet in order of first occurrence.
func Decompose(text string) *Streams {
	d := &decomposer{
		s: &Streams{Ext: &Alphabet{}},
	}

	runes := []rune(text)
	for i := 0; i < len(runes); {
		r := runes[i]

		if r == ' ' {
			d.addSpace()
			i++
			continue
		}

		if PunctOf(r) != PunctNone {
			host := len(d.s.Styles) - 1
			if len(d.pending) > 0 {
				d.flushSpaces(d.pending)
				d.pending = d.pending[:0]
				host = len(d.s.Styles) - 1
			}

			for first := true; i < len(runes); first = false {
				p := PunctOf(runes[i])
				if p == PunctNone {
					break
				}
				if first && host >= 0 {
					d.s.Styles[host].Punct = p
				} else {
					d.add(ZeroWidth, Style{Punct: p})
				}
				i++
			}
			continue
		}

		var spaces uint8
		if n := len(d.pending); n > 0 {
			d.flushSpaces(d.pending[:n-1])
			spaces = d.pending[n-1]
			d.pending = d.pending[:0]
		}

		capitalize := false
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
			capitalize = true
		}
		if !InBase(r) {
			d.s.Ext.Register(r)
		}

		d.add(r, Style{Spaces: spaces, Capitalize: capitalize})
		i++
	}

	return d.s
}

type decomposer struct {
	s       *Streams
	pending []uint8 // space chunks not yet attached to a slot
}

func (d *decomposer) add(r rune, st Style) {
	d.s.Carriers = append(d.s.Carriers, r)
	d.s.Styles = append(d.s.Styles, st)
}

func (d *decomposer) addSpace() {
	n := len(d.pending)
	if n == 0 || d.pending[n-1] == MaxSpaces {
		d.pending = append(d.pending, 1)
		return
	}
	d.pending[n-1]++
}

// flushSpaces emits one zero-width slot per chunk.
func (d *decomposer) flushSpaces(chunks []uint8) {
	for _, c := range chunks {
		d.add(ZeroWidth, Style{Spaces: c})
	}
}

// Recompose joins streams back into text.
func Recompose(s *Streams) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(s.Carriers) * 2)

	for i, r := range s.Carriers {
		st := s.Styles[i]

		for k := uint8(0); k < st.Spaces; k++ {
			b.WriteByte(' ')
		}

		if r != ZeroWidth {
			if st.Capitalize {
				r = unicode.ToUpper(r)
			}
			b.WriteRune(r)
		}

		if mark, ok := st.Punct.Mark(); ok {
			b.WriteRune(mark)
		}
	}

	return b.String(), nil
}
