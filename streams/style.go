package streams

// Punct is the code of a punctuation mark that follows a carrier.
type Punct uint8

const (
	PunctNone Punct = iota
	PunctPeriod
	PunctComma
	PunctExclaim
	PunctQuestion
	PunctSemicolon
	PunctColon
	// PunctReserved is never produced by Decompose and renders as nothing.
	PunctReserved
)

// PunctCount is the size of the punctuation alphabet.
const PunctCount = 8

// SpacesCount is the size of the spaces-before alphabet.
const SpacesCount = 4

// MaxSpaces is the largest spaces-before value one slot holds.
const MaxSpaces = SpacesCount - 1

var punctMarks = [PunctCount]rune{0, '.', ',', '!', '?', ';', ':', 0}

// PunctOf returns the code for r, or PunctNone when r is not a supported mark.
func PunctOf(r rune) Punct {
	switch r {
	case '.':
		return PunctPeriod
	case ',':
		return PunctComma
	case '!':
		return PunctExclaim
	case '?':
		return PunctQuestion
	case ';':
		return PunctSemicolon
	case ':':
		return PunctColon
	}
	return PunctNone
}

// Mark returns the rune of p; ok is false for PunctNone and PunctReserved.
func (p Punct) Mark() (r rune, ok bool) {
	if int(p) >= len(punctMarks) {
		return 0, false
	}
	r = punctMarks[p]
	return r, r != 0
}

// SentenceEnd reports whether p ends a sentence.
func (p Punct) SentenceEnd() bool {
	return p == PunctPeriod || p == PunctExclaim || p == PunctQuestion
}

// Style holds the attributes of one carrier slot.
type Style struct {
	Spaces     uint8 // spaces before the carrier, 0..3
	Punct      Punct // mark after the carrier
	Capitalize bool  // carrier was an uppercase letter
}

// Byte packs s as spaces | punct<<2 | capitalize<<5.
func (s Style) Byte() byte {
	b := s.Spaces&0b11 | byte(s.Punct&0b111)<<2
	if s.Capitalize {
		b |= 1 << 5
	}
	return b
}

// StyleFromByte unpacks a byte produced by Style.Byte. Bits above the sixth
// are ignored.
func StyleFromByte(b byte) Style {
	return Style{
		Spaces:     b & 0b11,
		Punct:      Punct(b>>2) & 0b111,
		Capitalize: b>>5&1 == 1,
	}
}

// CapContext returns the capitalization context of slot i: true when the
// previous slot ended a sentence.
func CapContext(styles []Style, i int) bool {
	return i > 0 && styles[i-1].Punct.SentenceEnd()
}
