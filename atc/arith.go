package atc

import (
	"bytes"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/egonelbre/exp-text-compression/arithcode"
	"github.com/egonelbre/exp-text-compression/streams"
)

// Arithmetic codes the four streams with adaptive models and a binary
// arithmetic coder.
//
// Both directions visit the streams in the same order: every carrier, then
// every spaces value, then every punctuation code, then every capitalization
// flag. Punctuation is therefore fully known before capitalization is coded,
// and the capitalization model for slot i can depend on the punctuation of
// slot i-1.
type Arithmetic struct {
	// Variant is one of FormatAC3, FormatAC2, FormatAC2v1 or FormatAC1.
	// The zero value means FormatAC3.
	Variant Format
}

type arithLayout struct {
	wire       arithcode.Wire
	capContext bool
}

var arithLayouts = map[Format]arithLayout{
	FormatAC3:   {wire: arithcode.PackedBits, capContext: true},
	FormatAC2:   {wire: arithcode.ByteBits, capContext: true},
	FormatAC2v1: {wire: arithcode.ByteBits, capContext: true},
	FormatAC1:   {wire: arithcode.ByteBits, capContext: false},
}

func (a Arithmetic) Format() Format {
	if a.Variant == "" {
		return FormatAC3
	}
	return a.Variant
}

func (a Arithmetic) layout(f Format) (arithLayout, error) {
	layout, ok := arithLayouts[f]
	if !ok {
		return arithLayout{}, errors.Wrapf(ErrUnknownFormat, "%q is not an arithmetic format", f)
	}
	return layout, nil
}

// models holds one adaptive model per stream. They are created fresh for
// every call and never shared.
type models struct {
	carrier   *arithcode.AdaptiveModel
	spaces    *arithcode.AdaptiveModel
	punct     *arithcode.AdaptiveModel
	capNormal *arithcode.AdaptiveModel
	capAfter  *arithcode.AdaptiveModel
}

func newModels(carrierSize int, capContext bool) *models {
	m := &models{
		carrier:   arithcode.NewAdaptiveModel(carrierSize),
		spaces:    arithcode.NewAdaptiveModel(streams.SpacesCount),
		punct:     arithcode.NewAdaptiveModel(streams.PunctCount),
		capNormal: arithcode.NewAdaptiveModel(2),
	}
	m.capAfter = m.capNormal
	if capContext {
		m.capAfter = arithcode.NewAdaptiveModel(2)
	}
	return m
}

// capModel selects the capitalization model of slot i.
func (m *models) capModel(styles []streams.Style, i int) *arithcode.AdaptiveModel {
	if streams.CapContext(styles, i) {
		return m.capAfter
	}
	return m.capNormal
}

func (a Arithmetic) Pack(text string) (*Container, error) {
	s, err := decompose(text)
	if err != nil {
		return nil, err
	}
	return a.PackStreams(s)
}

// PackStreams codes already decomposed streams.
func (a Arithmetic) PackStreams(s *streams.Streams) (*Container, error) {
	format := a.Format()
	layout, err := a.layout(format)
	if err != nil {
		return nil, err
	}
	if err := checkSlots(s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	symbols, err := s.Symbols()
	if err != nil {
		return nil, err
	}

	ext := ""
	carrierSize := streams.BaseSize
	if s.Ext != nil {
		ext = s.Ext.String()
		carrierSize = s.Ext.Size()
	}

	var buf bytes.Buffer
	enc := arithcode.NewEncoderWire(&buf, layout.wire)
	m := newModels(carrierSize, layout.capContext)

	for _, sym := range symbols {
		if err := enc.Encode(sym, m.carrier); err != nil {
			return nil, errors.Wrap(err, "carrier")
		}
	}
	for _, st := range s.Styles {
		if err := enc.Encode(int(st.Spaces), m.spaces); err != nil {
			return nil, errors.Wrap(err, "spaces")
		}
	}
	for _, st := range s.Styles {
		if err := enc.Encode(int(st.Punct), m.punct); err != nil {
			return nil, errors.Wrap(err, "punct")
		}
	}
	for i, st := range s.Styles {
		if err := enc.Encode(boolSymbol(st.Capitalize), m.capModel(s.Styles, i)); err != nil {
			return nil, errors.Wrap(err, "capitalize")
		}
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return &Container{
		Format:  format,
		N:       len(symbols),
		Ext:     ext,
		Payload: buf.Bytes(),
	}, nil
}

func (a Arithmetic) Unpack(c *Container) (string, error) {
	s, err := a.UnpackStreams(c)
	if err != nil {
		return "", err
	}
	return streams.Recompose(s)
}

// UnpackStreams decodes the streams of c. The layout follows c.Format, which
// must be one of the arithmetic formats.
//
// A payload shorter than the encoder produced is padded with zero bits and
// still decodes to c.N slots; the result is then wrong but no error is
// reported.
func (a Arithmetic) UnpackStreams(c *Container) (*streams.Streams, error) {
	layout, err := a.layout(c.Format)
	if err != nil {
		return nil, err
	}
	ext, err := parseHeader(c)
	if err != nil {
		return nil, err
	}

	n := c.N
	symbols := make([]int, n)
	styles := make([]streams.Style, n)
	if n == 0 {
		return streams.FromSymbols(symbols, styles, ext)
	}

	dec, err := arithcode.NewDecoderWire(bytes.NewReader(c.Payload), layout.wire)
	if err != nil {
		return nil, err
	}
	m := newModels(ext.Size(), layout.capContext)

	for i := range symbols {
		if symbols[i], err = dec.Decode(m.carrier); err != nil {
			return nil, errors.Wrap(err, "carrier")
		}
	}
	for i := range styles {
		sym, err := dec.Decode(m.spaces)
		if err != nil {
			return nil, errors.Wrap(err, "spaces")
		}
		styles[i].Spaces = uint8(sym)
	}
	for i := range styles {
		sym, err := dec.Decode(m.punct)
		if err != nil {
			return nil, errors.Wrap(err, "punct")
		}
		styles[i].Punct = streams.Punct(sym)
	}
	for i := range styles {
		sym, err := dec.Decode(m.capModel(styles, i))
		if err != nil {
			return nil, errors.Wrap(err, "capitalize")
		}
		styles[i].Capitalize = sym == 1
	}

	return streams.FromSymbols(symbols, styles, ext)
}

// parseHeader validates the header fields shared by all formats and rebuilds
// the alphabet.
func parseHeader(c *Container) (*streams.Alphabet, error) {
	if c.N < 0 || c.N > MaxSlots {
		return nil, errors.Wrapf(ErrCorrupt, "slot count %d outside [0, %d]", c.N, MaxSlots)
	}
	if !utf8.ValidString(c.Ext) {
		return nil, errors.Wrap(ErrCorrupt, "extension alphabet is not valid UTF-8")
	}
	ext, err := streams.NewAlphabet(c.Ext)
	if err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	return ext, nil
}

func boolSymbol(b bool) int {
	if b {
		return 1
	}
	return 0
}
