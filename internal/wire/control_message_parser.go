package wire

import (
	"bufio"
	"fmt"
	"io"

	"github.com/quic-go/quic-go/quicvarint"
)

// ControlMessageParser reads typed control messages off the control stream.
// Bytes may arrive in arbitrary chunks, the underlying reader blocks until a
// complete field is available.
type ControlMessageParser struct {
	reader messageReader
}

func NewControlMessageParser(r io.Reader) *ControlMessageParser {
	return &ControlMessageParser{
		reader: bufio.NewReader(r),
	}
}

// Parse returns the next control message. io.EOF is returned untouched when
// the stream ends cleanly on a message boundary.
func (p *ControlMessageParser) Parse() (ControlMessage, error) {
	mt, err := quicvarint.Read(p.reader)
	if err != nil {
		return nil, err
	}
	var m ControlMessage
	switch ControlMessageType(mt) {
	case messageTypeClientSetup:
		m = &ClientSetupMessage{}
	case messageTypeServerSetup:
		m = &ServerSetupMessage{}
	case messageTypeSubscribe:
		m = &SubscribeMessage{}
	case messageTypeSubscribeUpdate:
		m = &SubscribeUpdateMessage{}
	case messageTypeSubscribeOk:
		m = &SubscribeOkMessage{}
	case messageTypeSubscribeError:
		m = &SubscribeErrorMessage{}
	case messageTypeUnsubscribe:
		m = &UnsubscribeMessage{}
	case messageTypeSubscribeDone:
		m = &SubscribeDoneMessage{}
	case messageTypeAnnounce:
		m = &AnnounceMessage{}
	case messageTypeAnnounceOk:
		m = &AnnounceOkMessage{}
	case messageTypeAnnounceError:
		m = &AnnounceErrorMessage{}
	case messageTypeUnannounce:
		m = &UnannounceMessage{}
	case messageTypeAnnounceCancel:
		m = &AnnounceCancelMessage{}
	case messageTypeTrackStatusRequest:
		m = &TrackStatusRequestMessage{}
	case messageTypeTrackStatus:
		m = &TrackStatusMessage{}
	case messageTypeGoAway:
		m = &GoAwayMessage{}
	default:
		return nil, fmt.Errorf("%w: 0x%x", ErrUnknownMessageType, mt)
	}
	if err := m.parse(p.reader); err != nil {
		return nil, err
	}
	return m, nil
}
