package arithcode

import (
	"bytes"
	"io"
)

// PackFixed packs every value into width bits, most significant bit first,
// and pads the final byte with zeros. Bits above width are discarded.
func PackFixed(values []int, width int) []byte {
	var buf bytes.Buffer
	buf.Grow((len(values)*width + 7) / 8)

	bw := newBitWriter(&buf)
	for _, v := range values {
		// bytes.Buffer writes do not fail
		_ = bw.WriteBits(uint64(v), width)
	}
	_ = bw.Flush()

	return buf.Bytes()
}

// UnpackFixed reads count values of width bits each from data. It returns
// io.ErrUnexpectedEOF when data holds fewer than count values.
func UnpackFixed(data []byte, count, width int) ([]int, error) {
	if len(data)*8 < count*width {
		return nil, io.ErrUnexpectedEOF
	}

	br := newBitReader(bytes.NewReader(data))
	values := make([]int, count)
	for i := range values {
		v, err := br.ReadBits(width)
		if err != nil {
			return nil, err
		}
		values[i] = int(v)
	}
	return values, nil
}
