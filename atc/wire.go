package atc

import (
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Container fields in the binary encoding. The layout is a protobuf message,
// so decoders skip fields they do not know.
const (
	fieldFormat     protowire.Number = 1
	fieldN          protowire.Number = 2
	fieldExt        protowire.Number = 3
	fieldCarrierLen protowire.Number = 4
	fieldStyleLen   protowire.Number = 5
	fieldPayload    protowire.Number = 6
)

// MarshalBinary encodes c in protobuf wire format.
func (c *Container) MarshalBinary() ([]byte, error) {
	return c.AppendBinary(nil), nil
}

// AppendBinary appends the encoding of c to b.
func (c *Container) AppendBinary(b []byte) []byte {
	b = protowire.AppendTag(b, fieldFormat, protowire.BytesType)
	b = protowire.AppendString(b, string(c.Format))
	b = protowire.AppendTag(b, fieldN, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.N))
	if c.Ext != "" {
		b = protowire.AppendTag(b, fieldExt, protowire.BytesType)
		b = protowire.AppendString(b, c.Ext)
	}
	if c.CarrierLen != 0 {
		b = protowire.AppendTag(b, fieldCarrierLen, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(c.CarrierLen))
	}
	if c.StyleLen != 0 {
		b = protowire.AppendTag(b, fieldStyleLen, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(c.StyleLen))
	}
	b = protowire.AppendTag(b, fieldPayload, protowire.BytesType)
	b = protowire.AppendBytes(b, c.Payload)
	return b
}

// UnmarshalBinary decodes c from the output of MarshalBinary.
func (c *Container) UnmarshalBinary(b []byte) error {
	*c = Container{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(ErrCorrupt, protowire.ParseError(n).Error())
		}
		b = b[n:]

		switch {
		case num == fieldFormat && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			c.Format = Format(v)
		case num == fieldExt && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			c.Ext = string(v)
		case num == fieldPayload && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			c.Payload = append([]byte(nil), v...)
		case (num == fieldN || num == fieldCarrierLen || num == fieldStyleLen) && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			if n >= 0 && v > math.MaxInt32 {
				return errors.Wrapf(ErrCorrupt, "field %d value %d out of range", num, v)
			}
			switch num {
			case fieldN:
				c.N = int(v)
			case fieldCarrierLen:
				c.CarrierLen = int(v)
			case fieldStyleLen:
				c.StyleLen = int(v)
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}

		if n < 0 {
			return errors.Wrapf(ErrCorrupt, "field %d: %v", num, protowire.ParseError(n))
		}
		b = b[n:]
	}

	return nil
}

// AppendDelimited appends c prefixed with its encoded length, for embedding
// in an outer stream.
func AppendDelimited(b []byte, c *Container) []byte {
	return protowire.AppendBytes(b, c.AppendBinary(nil))
}

// ReadContainer decodes one length-prefixed container from the start of b
// and returns the bytes that follow it untouched.
func ReadContainer(b []byte) (*Container, []byte, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, b, errors.Wrap(ErrCorrupt, protowire.ParseError(n).Error())
	}

	c := &Container{}
	if err := c.UnmarshalBinary(v); err != nil {
		return nil, b, err
	}
	return c, b[n:], nil
}
