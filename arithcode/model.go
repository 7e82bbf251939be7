// Package arithcode implements a 32-bit binary arithmetic coder together with
// the adaptive frequency model it is driven by.
//
// The coder narrows an interval [low, high] for every symbol and renormalises
// it around the half, quarter and three-quarter points, deferring ambiguous
// bits until they resolve. Encoder and Decoder perform the same integer
// arithmetic, so an adaptive model updated after each symbol stays in sync on
// both sides.
package arithcode

// Model defines the interface for probability models used in arithmetic coding.
// A model provides the probability distribution for symbols in the data stream.
type Model interface {
	// SymbolCount returns the total number of possible symbols in this model.
	SymbolCount() int

	// Freq returns the cumulative frequency range [low, high) for the given symbol.
	// The range is relative to the total frequency returned by TotalFreq().
	Freq(symbol int) (low, high uint64)

	// TotalFreq returns the sum of all symbol frequencies.
	TotalFreq() uint64

	// Find returns the symbol corresponding to the given cumulative frequency.
	Find(cumFreq uint64) int
}

// Updater is implemented by models that learn from the coded sequence.
// Encoder and Decoder call Update after every symbol they code.
type Updater interface {
	Update(symbol int)
}

// searchCumulative returns the symbol whose range in cum contains value.
// Values at or past the total resolve to the last symbol.
func searchCumulative(cum []uint64, value uint64) int {
	left, right := 0, len(cum)-1
	for left < right-1 {
		mid := (left + right) / 2
		if cum[mid] <= value {
			left = mid
		} else {
			right = mid
		}
	}
	return left
}
