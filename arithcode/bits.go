package arithcode

import (
	"io"
)

// Wire selects how bit-units produced by the coder are laid out in bytes.
type Wire int

const (
	// PackedBits stores eight bit-units per byte, most significant bit first,
	// zero padded at the end.
	PackedBits Wire = iota
	// ByteBits stores every bit-unit as a whole 0x00 or 0xFF byte. It is eight
	// times larger than PackedBits and exists for compatibility with
	// containers written in that layout.
	ByteBits
)

func (w Wire) String() string {
	switch w {
	case PackedBits:
		return "packed"
	case ByteBits:
		return "byte"
	default:
		return "unknown"
	}
}

type bitSink interface {
	WriteBit(bit byte) error
	Flush() error
}

type bitSource interface {
	ReadBit() (byte, error)
}

func newBitSink(w io.Writer, wire Wire) bitSink {
	if wire == ByteBits {
		return &unitWriter{output: w}
	}
	return newBitWriter(w)
}

func newBitSource(r io.Reader, wire Wire) bitSource {
	if wire == ByteBits {
		return &unitReader{input: r}
	}
	return newBitReader(r)
}

// bitWriter writes individual bits to an io.Writer.
type bitWriter struct {
	output      io.Writer
	accumulator byte
	numBits     int
}

func newBitWriter(w io.Writer) *bitWriter {
	return &bitWriter{output: w}
}

func (bw *bitWriter) WriteBit(bit byte) error {
	bw.accumulator = (bw.accumulator << 1) | (bit & 1)
	bw.numBits++

	if bw.numBits == 8 {
		if _, err := bw.output.Write([]byte{bw.accumulator}); err != nil {
			return err
		}
		bw.accumulator = 0
		bw.numBits = 0
	}

	return nil
}

// WriteBits writes the low width bits of value, most significant first.
func (bw *bitWriter) WriteBits(value uint64, width int) error {
	for i := width - 1; i >= 0; i-- {
		if err := bw.WriteBit(byte(value >> uint(i))); err != nil {
			return err
		}
	}
	return nil
}

func (bw *bitWriter) Flush() error {
	if bw.numBits > 0 {
		bw.accumulator <<= (8 - bw.numBits)
		if _, err := bw.output.Write([]byte{bw.accumulator}); err != nil {
			return err
		}
		bw.accumulator = 0
		bw.numBits = 0
	}
	return nil
}

// bitReader reads individual bits from an io.Reader.
type bitReader struct {
	input       io.Reader
	accumulator byte
	numBits     int
	buf         [1]byte
}

func newBitReader(r io.Reader) *bitReader {
	return &bitReader{input: r}
}

func (br *bitReader) ReadBit() (byte, error) {
	if br.numBits == 0 {
		n, err := br.input.Read(br.buf[:])
		if n == 0 {
			if err == nil {
				err = io.EOF
			}
			return 0, err
		}
		br.accumulator = br.buf[0]
		br.numBits = 8
	}

	br.numBits--
	bit := (br.accumulator >> br.numBits) & 1
	return bit, nil
}

// ReadBits reads width bits, most significant first.
func (br *bitReader) ReadBits(width int) (uint64, error) {
	var v uint64
	for i := 0; i < width; i++ {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | uint64(bit)
	}
	return v, nil
}

// unitWriter writes one byte per bit.
type unitWriter struct {
	output io.Writer
}

func (uw *unitWriter) WriteBit(bit byte) error {
	b := byte(0x00)
	if bit&1 == 1 {
		b = 0xFF
	}
	_, err := uw.output.Write([]byte{b})
	return err
}

func (uw *unitWriter) Flush() error { return nil }

// unitReader reads one bit per byte; bytes at or above 0x80 are ones.
type unitReader struct {
	input io.Reader
	buf   [1]byte
}

func (ur *unitReader) ReadBit() (byte, error) {
	n, err := ur.input.Read(ur.buf[:])
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	if ur.buf[0] >= 0x80 {
		return 1, nil
	}
	return 0, nil
}
