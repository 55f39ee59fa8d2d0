package wire

import "github.com/quic-go/quic-go/quicvarint"

type UnsubscribeMessage struct {
	SubscribeID uint64
}

func (m *UnsubscribeMessage) Type() ControlMessageType {
	return messageTypeUnsubscribe
}

func (m *UnsubscribeMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeUnsubscribe))
	return quicvarint.Append(buf, m.SubscribeID)
}

func (m *UnsubscribeMessage) parse(r messageReader) (err error) {
	m.SubscribeID, err = readVarint(r)
	return err
}
