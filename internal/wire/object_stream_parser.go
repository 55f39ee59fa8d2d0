package wire

import (
	"bufio"
	"fmt"
	"io"

	"github.com/quic-go/quic-go/quicvarint"
)

// ObjectStreamParser drives one unidirectional data stream or datagram. The
// stream type is classified from the first varint. For single-object streams
// the header is available immediately and the payload is consumed through
// PayloadReader; for multi-object streams Parse yields one object per call
// until the stream ends.
type ObjectStreamParser struct {
	reader *bufio.Reader
	typ    ObjectMessageType

	// template carries the fields bound by the stream header and is copied
	// into every object of a multi-object stream.
	template ObjectMessage
}

func NewObjectStreamParser(r io.Reader) (*ObjectStreamParser, error) {
	br := bufio.NewReader(r)
	st, err := quicvarint.Read(br)
	if err != nil {
		return nil, underflow(err)
	}
	p := &ObjectStreamParser{
		reader: br,
		typ:    ObjectMessageType(st),
	}
	switch p.typ {
	case ObjectStreamMessageType, ObjectDatagramMessageType:
		p.template.Type = p.typ
		if err := p.template.parseHeader(br); err != nil {
			return nil, err
		}
	case StreamHeaderTrackMessageType:
		var h StreamHeaderTrackMessage
		if err := h.parse(br); err != nil {
			return nil, err
		}
		p.template = ObjectMessage{
			Type:              p.typ,
			SubscribeID:       h.SubscribeID,
			TrackAlias:        h.TrackAlias,
			PublisherPriority: h.PublisherPriority,
		}
	case StreamHeaderGroupMessageType:
		var h StreamHeaderGroupMessage
		if err := h.parse(br); err != nil {
			return nil, err
		}
		p.template = ObjectMessage{
			Type:              p.typ,
			SubscribeID:       h.SubscribeID,
			TrackAlias:        h.TrackAlias,
			GroupID:           h.GroupID,
			PublisherPriority: h.PublisherPriority,
		}
	default:
		return nil, fmt.Errorf("%w: 0x%x", ErrUnknownMessageType, st)
	}
	return p, nil
}

func (p *ObjectStreamParser) Type() ObjectMessageType {
	return p.typ
}

// Header returns the fields read from the stream header. For single-object
// streams this is the complete object header.
func (p *ObjectStreamParser) Header() ObjectMessage {
	return p.template
}

// PayloadReader exposes the remaining bytes of a single-object stream. It is
// only valid for OBJECT_STREAM and OBJECT_DATAGRAM streams.
func (p *ObjectStreamParser) PayloadReader() io.Reader {
	return p.reader
}

// Parse returns the next object of a multi-object stream. io.EOF is returned
// untouched when the stream ends on an object boundary.
func (p *ObjectStreamParser) Parse() (*ObjectMessage, error) {
	if _, err := p.reader.Peek(1); err != nil {
		// A stream ending exactly on an object boundary is a clean EOF.
		return nil, err
	}
	m := p.template
	switch p.typ {
	case StreamHeaderTrackMessageType:
		var o StreamHeaderTrackObject
		if err := o.parse(p.reader); err != nil {
			return nil, err
		}
		m.GroupID = o.GroupID
		m.ObjectID = o.ObjectID
		m.ObjectStatus = o.ObjectStatus
		m.ObjectPayload = o.ObjectPayload
	case StreamHeaderGroupMessageType:
		var o StreamHeaderGroupObject
		if err := o.parse(p.reader); err != nil {
			return nil, err
		}
		m.ObjectID = o.ObjectID
		m.ObjectStatus = o.ObjectStatus
		m.ObjectPayload = o.ObjectPayload
	default:
		return nil, fmt.Errorf("%w: not a multi-object stream: %v", ErrInvalidMessage, p.typ)
	}
	return &m, nil
}
