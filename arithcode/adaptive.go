package arithcode

// MaxTotal bounds the total frequency of an AdaptiveModel. Keeping the total
// far below the quarter point keeps every symbol's sub-interval non-empty and
// the range*count products inside uint64.
const MaxTotal uint64 = 1 << 24

// AdaptiveModel is an order-0 frequency model that learns as symbols are coded.
//
// Every count starts at 1 so no symbol ever has zero probability. After each
// Update the cumulative table is rebuilt in full; alphabets coded here are
// small enough that this is cheaper than maintaining a tree.
type AdaptiveModel struct {
	freqs    []uint64
	cumFreqs []uint64
	total    uint64
}

// NewAdaptiveModel creates an adaptive model over numSymbols symbols.
func NewAdaptiveModel(numSymbols int) *AdaptiveModel {
	if numSymbols <= 0 {
		panic("numSymbols must be positive")
	}
	m := &AdaptiveModel{
		freqs:    make([]uint64, numSymbols),
		cumFreqs: make([]uint64, numSymbols+1),
	}
	m.Reset()
	return m
}

// Reset returns all counts to 1.
func (m *AdaptiveModel) Reset() {
	for i := range m.freqs {
		m.freqs[i] = 1
	}
	m.rebuild()
}

func (m *AdaptiveModel) rebuild() {
	var sum uint64
	for i, f := range m.freqs {
		m.cumFreqs[i] = sum
		sum += f
	}
	m.cumFreqs[len(m.freqs)] = sum
	m.total = sum
}

// Update records one occurrence of symbol.
func (m *AdaptiveModel) Update(symbol int) {
	m.freqs[symbol]++
	if m.total+1 > MaxTotal {
		for i, f := range m.freqs {
			m.freqs[i] = (f + 1) / 2
		}
	}
	m.rebuild()
}

// Count returns the current frequency count of symbol.
func (m *AdaptiveModel) Count(symbol int) uint64 {
	return m.freqs[symbol]
}

func (m *AdaptiveModel) SymbolCount() int {
	return len(m.freqs)
}

func (m *AdaptiveModel) Freq(symbol int) (low, high uint64) {
	if symbol < 0 || symbol >= len(m.freqs) {
		panic("symbol out of range")
	}
	return m.cumFreqs[symbol], m.cumFreqs[symbol+1]
}

func (m *AdaptiveModel) TotalFreq() uint64 {
	return m.total
}

// Find returns the symbol whose cumulative range contains cumFreq. Values
// outside [0, TotalFreq()) only arise from corrupt input and resolve to the
// last symbol.
func (m *AdaptiveModel) Find(cumFreq uint64) int {
	return searchCumulative(m.cumFreqs, cumFreq)
}
