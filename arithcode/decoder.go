package arithcode

import (
	"io"
)

// Decoder decompresses data using arithmetic coding.
//
// Input that ends early is padded with zero bits: a truncated stream decodes
// to some definite symbol sequence rather than failing. Callers that need
// to detect corruption must carry their own check.
type Decoder struct {
	input bitSource
	low   uint64 // Lower bound of the current interval
	high  uint64 // Upper bound of the current interval
	value uint64 // Current value being decoded
}

// NewDecoder creates a new arithmetic decoder that reads packed bits from r.
func NewDecoder(r io.Reader) (*Decoder, error) {
	return NewDecoderWire(r, PackedBits)
}

// NewDecoderWire creates a decoder for input laid out according to wire.
func NewDecoderWire(r io.Reader, wire Wire) (*Decoder, error) {
	d := &Decoder{
		input: newBitSource(r, wire),
		low:   0,
		high:  stateMax,
	}

	for i := 0; i < stateBits; i++ {
		bit, err := d.readBit()
		if err != nil {
			return nil, err
		}
		d.value = (d.value << 1) | uint64(bit)
	}

	return d, nil
}

func (d *Decoder) readBit() (byte, error) {
	bit, err := d.input.ReadBit()
	if err == io.EOF {
		return 0, nil
	}
	return bit, err
}

// Decode reads and returns the next symbol using the given model. When the
// model implements Updater it is updated with the decoded symbol.
func (d *Decoder) Decode(model Model) (int, error) {
	total := model.TotalFreq()
	rangeSize := d.high - d.low + 1
	cumFreq := ((d.value-d.low+1)*total - 1) / rangeSize

	symbol := model.Find(cumFreq)
	symLow, symHigh := model.Freq(symbol)

	d.high = d.low + (rangeSize*symHigh)/total - 1
	d.low = d.low + (rangeSize*symLow)/total

	for {
		if d.high < half {
			// Do nothing
		} else if d.low >= half {
			d.low -= half
			d.high -= half
			d.value -= half
		} else if d.low >= quarter && d.high < threeQuarter {
			d.low -= quarter
			d.high -= quarter
			d.value -= quarter
		} else {
			break
		}

		d.low = (d.low << 1) & stateMax
		d.high = ((d.high << 1) & stateMax) | 1

		bit, err := d.readBit()
		if err != nil {
			return 0, err
		}
		d.value = ((d.value << 1) & stateMax) | uint64(bit)
	}

	if u, ok := model.(Updater); ok {
		u.Update(symbol)
	}
	return symbol, nil
}
