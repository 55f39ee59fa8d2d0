package wire

import (
	"time"

	"github.com/quic-go/quic-go/quicvarint"
)

type SubscribeOkMessage struct {
	SubscribeID   uint64
	Expires       time.Duration
	GroupOrder    GroupOrder
	ContentExists bool
	Latest        Location
	Parameters    Parameters
}

func (m *SubscribeOkMessage) Type() ControlMessageType {
	return messageTypeSubscribeOk
}

func (m *SubscribeOkMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeSubscribeOk))
	buf = quicvarint.Append(buf, m.SubscribeID)
	buf = quicvarint.Append(buf, uint64(m.Expires/time.Millisecond))
	buf = append(buf, byte(m.GroupOrder))
	if m.ContentExists {
		buf = append(buf, 1)
		buf = m.Latest.append(buf)
	} else {
		buf = append(buf, 0)
	}
	return m.Parameters.appendNum(buf)
}

func (m *SubscribeOkMessage) parse(r messageReader) (err error) {
	if m.SubscribeID, err = readVarint(r); err != nil {
		return err
	}
	expires, err := readVarint(r)
	if err != nil {
		return err
	}
	m.Expires = time.Duration(expires) * time.Millisecond
	order, err := readUint8(r)
	if err != nil {
		return err
	}
	if order > uint8(GroupOrderNewestFirst) {
		return errInvalidGroupOrder
	}
	// A SUBSCRIBE_OK states the definitive order, Default is not allowed.
	if GroupOrder(order) == GroupOrderDefault {
		return errGroupOrderRequired
	}
	m.GroupOrder = GroupOrder(order)
	contentExists, err := readUint8(r)
	if err != nil {
		return err
	}
	switch contentExists {
	case 0:
		m.ContentExists = false
	case 1:
		m.ContentExists = true
		if err = m.Latest.parse(r); err != nil {
			return err
		}
	default:
		return errInvalidContentExists
	}
	m.Parameters, err = parseTrackRequestParameters(r)
	return err
}
