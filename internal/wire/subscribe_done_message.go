package wire

import "github.com/quic-go/quic-go/quicvarint"

// Subscribe done status codes
const (
	SubscribeDoneUnsubscribed      uint64 = 0x00
	SubscribeDoneInternalError     uint64 = 0x01
	SubscribeDoneUnauthorized      uint64 = 0x02
	SubscribeDoneTrackEnded        uint64 = 0x03
	SubscribeDoneSubscriptionEnded uint64 = 0x04
	SubscribeDoneGoingAway         uint64 = 0x05
	SubscribeDoneExpired           uint64 = 0x06
)

type SubscribeDoneMessage struct {
	SubscribeID   uint64
	StatusCode    uint64
	ReasonPhrase  string
	ContentExists bool
	Final         Location
}

func (m *SubscribeDoneMessage) Type() ControlMessageType {
	return messageTypeSubscribeDone
}

func (m *SubscribeDoneMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeSubscribeDone))
	buf = quicvarint.Append(buf, m.SubscribeID)
	buf = quicvarint.Append(buf, m.StatusCode)
	buf = appendVarIntString(buf, m.ReasonPhrase)
	if m.ContentExists {
		buf = append(buf, 1)
		return m.Final.append(buf)
	}
	return append(buf, 0)
}

func (m *SubscribeDoneMessage) parse(r messageReader) (err error) {
	if m.SubscribeID, err = readVarint(r); err != nil {
		return err
	}
	if m.StatusCode, err = readVarint(r); err != nil {
		return err
	}
	if m.ReasonPhrase, err = parseVarIntString(r); err != nil {
		return err
	}
	contentExists, err := readUint8(r)
	if err != nil {
		return err
	}
	switch contentExists {
	case 0:
		m.ContentExists = false
	case 1:
		m.ContentExists = true
		err = m.Final.parse(r)
	default:
		return errInvalidContentExists
	}
	return err
}
