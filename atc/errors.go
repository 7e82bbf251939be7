package atc

import (
	"github.com/pkg/errors"

	"github.com/egonelbre/exp-text-compression/streams"
)

var (
	// ErrUnknownFormat is returned by Unpack for a format tag it does not know.
	ErrUnknownFormat = errors.New("atc: unrecognized container format")
	// ErrAlphabetOverflow is returned when a fixed-width backend cannot
	// address every carrier symbol.
	ErrAlphabetOverflow = errors.New("atc: carrier alphabet exceeds fixed-width capacity")
	// ErrCorrupt is returned when a container cannot be decoded.
	ErrCorrupt = errors.New("atc: corrupt container")
	// ErrTooLarge is returned by Pack for text with more than MaxSlots slots.
	ErrTooLarge = errors.New("atc: text exceeds slot limit")
	// ErrInvalidUTF8 is returned by Pack for text that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("atc: text is not valid UTF-8")

	// Structural errors of the streams themselves.
	ErrStreamLength   = streams.ErrStreamLength
	ErrInvalidStyle   = streams.ErrInvalidStyle
	ErrUnknownCarrier = streams.ErrUnknownCarrier
)
