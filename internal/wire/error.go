package wire

import (
	"errors"
	"fmt"
)

// The three error kinds surfaced by the codec. Specific parse failures wrap
// one of these so callers can classify with errors.Is.
var (
	// ErrUnderflow is returned when the input ends before a required field
	// could be read.
	ErrUnderflow = errors.New("parse underflow")

	// ErrParse is returned when a field's value violates a field-local
	// invariant.
	ErrParse = errors.New("parse error")

	// ErrInvalidMessage is returned when a field is syntactically valid but
	// forbidden in its message.
	ErrInvalidMessage = errors.New("invalid message")
)

var (
	ErrUnknownMessageType = fmt.Errorf("%w: unknown message type", ErrParse)

	errInvalidObjectStatus  = fmt.Errorf("%w: object status out of range", ErrParse)
	errInvalidLocationType  = fmt.Errorf("%w: location type out of range", ErrParse)
	errInvalidGroupOrder    = fmt.Errorf("%w: group order out of range", ErrParse)
	errInvalidContentExists = fmt.Errorf("%w: invalid content exists byte", ErrParse)
	errInvalidPriority      = fmt.Errorf("%w: priority out of range", ErrParse)

	errGroupOrderRequired = fmt.Errorf("%w: group order must not be default", ErrInvalidMessage)
)
