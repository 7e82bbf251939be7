package arithcode

import (
	"io"
)

const (
	// stateBits defines the precision of the arithmetic coding state.
	stateBits = 32
	// stateMax is the maximum value of the state (2^32 - 1).
	stateMax uint64 = (1 << stateBits) - 1
	// half is the midpoint of the state range.
	half uint64 = 1 << (stateBits - 1)
	// quarter is one quarter of the state range.
	quarter uint64 = 1 << (stateBits - 2)
	// threeQuarter is three quarters of the state range.
	threeQuarter uint64 = 3 * quarter
)

// Encoder compresses data using arithmetic coding.
type Encoder struct {
	output      bitSink
	low         uint64 // Lower bound of the current interval
	high        uint64 // Upper bound of the current interval
	pendingBits int    // Number of pending underflow bits
}

// NewEncoder creates a new arithmetic encoder that writes packed bits to w.
func NewEncoder(w io.Writer) *Encoder {
	return NewEncoderWire(w, PackedBits)
}

// NewEncoderWire creates an encoder that lays out its output according to wire.
func NewEncoderWire(w io.Writer, wire Wire) *Encoder {
	return &Encoder{
		output: newBitSink(w, wire),
		low:    0,
		high:   stateMax,
	}
}

// Encode writes a symbol using the given model. When the model implements
// Updater it is updated with symbol afterwards.
func (e *Encoder) Encode(symbol int, model Model) error {
	symLow, symHigh := model.Freq(symbol)
	total := model.TotalFreq()

	rangeSize := e.high - e.low + 1
	e.high = e.low + (rangeSize*symHigh)/total - 1
	e.low = e.low + (rangeSize*symLow)/total

	for {
		if e.high < half {
			if err := e.emit(0); err != nil {
				return err
			}
		} else if e.low >= half {
			if err := e.emit(1); err != nil {
				return err
			}
			e.low -= half
			e.high -= half
		} else if e.low >= quarter && e.high < threeQuarter {
			// Underflow: interval straddles the middle
			e.pendingBits++
			e.low -= quarter
			e.high -= quarter
		} else {
			break
		}

		e.low = (e.low << 1) & stateMax
		e.high = ((e.high << 1) & stateMax) | 1
	}

	if u, ok := model.(Updater); ok {
		u.Update(symbol)
	}
	return nil
}

// emit writes bit followed by the pending bits, which always resolve to its
// complement.
func (e *Encoder) emit(bit byte) error {
	if err := e.output.WriteBit(bit); err != nil {
		return err
	}
	for ; e.pendingBits > 0; e.pendingBits-- {
		if err := e.output.WriteBit(bit ^ 1); err != nil {
			return err
		}
	}
	return nil
}

// Close finalizes the encoding and flushes any remaining bits.
func (e *Encoder) Close() error {
	// Output enough bits to disambiguate the final interval
	e.pendingBits++

	bit := byte(1)
	if e.low < quarter {
		bit = 0
	}
	if err := e.emit(bit); err != nil {
		return err
	}

	return e.output.Flush()
}
