package atc

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/egonelbre/exp-text-compression/arithcode"
	"github.com/egonelbre/exp-text-compression/streams"
)

const (
	// fixedWidth is the bit width of every carrier id and style code.
	fixedWidth = 6
	// FixedWidthCapacity is the largest carrier alphabet FixedWidth can
	// address: the base alphabet plus 27 extension runes.
	FixedWidthCapacity = 1 << fixedWidth
)

// FixedWidth packs carrier ids and style codes at 6 bits each and compresses
// the concatenation with zlib.
type FixedWidth struct {
	// Level is the zlib compression level. Zero means zlib.BestCompression.
	Level int
}

func (f FixedWidth) Format() Format { return FormatBITZ }

func (f FixedWidth) Pack(text string) (*Container, error) {
	s, err := decompose(text)
	if err != nil {
		return nil, err
	}
	return f.PackStreams(s)
}

// PackStreams packs already decomposed streams. It fails with
// ErrAlphabetOverflow when the alphabet does not fit in 6 bits.
func (f FixedWidth) PackStreams(s *streams.Streams) (*Container, error) {
	if err := checkSlots(s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ext := ""
	size := streams.BaseSize
	if s.Ext != nil {
		ext = s.Ext.String()
		size = s.Ext.Size()
	}
	if size > FixedWidthCapacity {
		return nil, errors.Wrapf(ErrAlphabetOverflow, "%d symbols, capacity %d", size, FixedWidthCapacity)
	}

	symbols, err := s.Symbols()
	if err != nil {
		return nil, err
	}
	codes := make([]int, len(s.Styles))
	for i, st := range s.Styles {
		codes[i] = int(st.Byte())
	}

	carriers := arithcode.PackFixed(symbols, fixedWidth)
	styles := arithcode.PackFixed(codes, fixedWidth)

	level := f.Level
	if level == 0 {
		level = zlib.BestCompression
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, errors.Wrap(err, "zlib")
	}
	if _, err := zw.Write(carriers); err != nil {
		return nil, errors.Wrap(err, "zlib")
	}
	if _, err := zw.Write(styles); err != nil {
		return nil, errors.Wrap(err, "zlib")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "zlib")
	}

	return &Container{
		Format:     FormatBITZ,
		N:          len(symbols),
		Ext:        ext,
		CarrierLen: len(carriers),
		StyleLen:   len(styles),
		Payload:    buf.Bytes(),
	}, nil
}

func (f FixedWidth) Unpack(c *Container) (string, error) {
	s, err := f.UnpackStreams(c)
	if err != nil {
		return "", err
	}
	return streams.Recompose(s)
}

// UnpackStreams decodes the streams of c. Unlike the arithmetic formats any
// mismatch between the header and the payload is reported as ErrCorrupt.
func (f FixedWidth) UnpackStreams(c *Container) (*streams.Streams, error) {
	if c.Format != FormatBITZ {
		return nil, errors.Wrapf(ErrUnknownFormat, "%q is not %q", c.Format, FormatBITZ)
	}
	ext, err := parseHeader(c)
	if err != nil {
		return nil, err
	}

	// parseHeader bounds N, so packedLen cannot overflow and the lengths
	// below are small once they match.
	want := packedLen(c.N)
	if c.CarrierLen != want || c.StyleLen != want {
		return nil, errors.Wrapf(ErrCorrupt, "stream lengths %d/%d, expected %d for %d slots",
			c.CarrierLen, c.StyleLen, want, c.N)
	}

	zr, err := zlib.NewReader(bytes.NewReader(c.Payload))
	if err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	defer zr.Close()

	total := int64(c.CarrierLen + c.StyleLen)
	payload, err := io.ReadAll(io.LimitReader(zr, total+1))
	if err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	if int64(len(payload)) != total {
		return nil, errors.Wrapf(ErrCorrupt, "payload holds %d bytes, expected %d", len(payload), total)
	}

	symbols, err := arithcode.UnpackFixed(payload[:c.CarrierLen], c.N, fixedWidth)
	if err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	codes, err := arithcode.UnpackFixed(payload[c.CarrierLen:], c.N, fixedWidth)
	if err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}

	styles := make([]streams.Style, c.N)
	for i, code := range codes {
		styles[i] = streams.StyleFromByte(byte(code))
	}

	s, err := streams.FromSymbols(symbols, styles, ext)
	if err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	return s, nil
}

// packedLen returns the byte length of n values packed at fixedWidth bits,
// for 0 <= n <= MaxSlots.
func packedLen(n int) int {
	return (n*fixedWidth + 7) / 8
}
