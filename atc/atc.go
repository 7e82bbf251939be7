// Package atc packs natural-language text into compact containers.
//
// Text is decomposed into four parallel streams (carriers, spaces before,
// punctuation after, capitalization) by package streams. A backend then
// codes the streams: Arithmetic drives them through adaptive models into a
// binary arithmetic coder, FixedWidth bit-packs them and runs zlib over the
// result. Every backend satisfies Codec, and Unpack dispatches on the format
// tag stored in the container, so callers never need to know which backend
// produced a container.
//
// All state lives inside a single Pack or Unpack call; concurrent calls on
// independent inputs are safe.
package atc

import (
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/egonelbre/exp-text-compression/streams"
)

// Format identifies the layout of a Container.
type Format string

const (
	// FormatAC3 is arithmetic coding with a capitalization context and
	// bit-packed output.
	FormatAC3 Format = "ATC-AC3-v1"
	// FormatAC2 is arithmetic coding with a capitalization context and one
	// byte per coded bit.
	FormatAC2 Format = "ATC-AC2-v2"
	// FormatAC2v1 shares the FormatAC2 layout.
	FormatAC2v1 Format = "ATC-AC2-v1"
	// FormatAC1 is arithmetic coding with a single capitalization model and
	// one byte per coded bit.
	FormatAC1 Format = "ATC-AC-v1"
	// FormatBITZ is 6-bit fixed-width packing compressed with zlib.
	FormatBITZ Format = "ATC-BITZ-v1"
)

// MaxSlots is the largest slot count a container may hold. Pack refuses
// longer texts and Unpack rejects headers above it before allocating.
//
// Adaptive coding of repetitive text costs far less than a bit per slot, so
// the count cannot be bounded by the payload size of arithmetic formats.
const MaxSlots = 1 << 24

// Container is a packed text.
type Container struct {
	Format Format
	// N is the number of carrier slots.
	N int
	// Ext lists the extension alphabet in id order.
	Ext string
	// CarrierLen and StyleLen are the packed stream lengths in bytes before
	// compression. Only FormatBITZ uses them.
	CarrierLen int
	StyleLen   int
	Payload    []byte
}

// Codec packs text into containers of one format and unpacks them again.
type Codec interface {
	Format() Format
	Pack(text string) (*Container, error)
	Unpack(c *Container) (string, error)
}

// Pack packs text with the default backend, Arithmetic in FormatAC3.
func Pack(text string) (*Container, error) {
	return Arithmetic{}.Pack(text)
}

// decompose splits text after checking that it survives the round trip
// through []rune.
func decompose(text string) (*streams.Streams, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidUTF8
	}
	return streams.Decompose(text), nil
}

// checkSlots rejects streams longer than MaxSlots.
func checkSlots(s *streams.Streams) error {
	if n := s.Len(); n > MaxSlots {
		return errors.Wrapf(ErrTooLarge, "%d slots, limit %d", n, MaxSlots)
	}
	return nil
}

// PackStreams packs already decomposed streams with the default backend.
func PackStreams(s *streams.Streams) (*Container, error) {
	return Arithmetic{}.PackStreams(s)
}

// Unpack restores the text of c, whichever backend produced it.
func Unpack(c *Container) (string, error) {
	s, err := UnpackStreams(c)
	if err != nil {
		return "", err
	}
	return streams.Recompose(s)
}

// UnpackStreams decodes the streams of c without recomposing them.
func UnpackStreams(c *Container) (*streams.Streams, error) {
	if c == nil {
		return nil, errors.Wrap(ErrCorrupt, "nil container")
	}

	switch c.Format {
	case FormatAC3, FormatAC2, FormatAC2v1, FormatAC1:
		return Arithmetic{Variant: c.Format}.UnpackStreams(c)
	case FormatBITZ:
		return FixedWidth{}.UnpackStreams(c)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", c.Format)
	}
}

// Backend describes one of the available codecs.
type Backend struct {
	Name        string
	Description string
	Codec       Codec
}

// Backends lists every codec able to produce containers.
var Backends = []Backend{
	{
		Name:        "ac3",
		Description: "adaptive arithmetic coding, capitalization context, packed bits",
		Codec:       Arithmetic{Variant: FormatAC3},
	},
	{
		Name:        "ac2",
		Description: "adaptive arithmetic coding, capitalization context, one byte per bit",
		Codec:       Arithmetic{Variant: FormatAC2},
	},
	{
		Name:        "ac1",
		Description: "adaptive arithmetic coding, single capitalization model, one byte per bit",
		Codec:       Arithmetic{Variant: FormatAC1},
	},
	{
		Name:        "bitz",
		Description: "6-bit fixed-width packing with zlib",
		Codec:       FixedWidth{},
	},
}

// Lookup returns the backend with the given name.
func Lookup(name string) (Backend, bool) {
	for _, b := range Backends {
		if b.Name == name {
			return b, true
		}
	}
	return Backend{}, false
}
