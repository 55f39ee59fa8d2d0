package wire

import "github.com/quic-go/quic-go/quicvarint"

type SubscribeUpdateMessage struct {
	SubscribeID        uint64
	Start              Location
	End                Location
	SubscriberPriority uint8
	Parameters         Parameters
}

func (m *SubscribeUpdateMessage) Type() ControlMessageType {
	return messageTypeSubscribeUpdate
}

func (m *SubscribeUpdateMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeSubscribeUpdate))
	buf = quicvarint.Append(buf, m.SubscribeID)
	buf = m.Start.append(buf)
	buf = m.End.append(buf)
	buf = append(buf, m.SubscriberPriority)
	return m.Parameters.appendNum(buf)
}

func (m *SubscribeUpdateMessage) parse(r messageReader) (err error) {
	if m.SubscribeID, err = readVarint(r); err != nil {
		return err
	}
	if err = m.Start.parse(r); err != nil {
		return err
	}
	if err = m.End.parse(r); err != nil {
		return err
	}
	if m.SubscriberPriority, err = readUint8(r); err != nil {
		return err
	}
	m.Parameters, err = parseTrackRequestParameters(r)
	return err
}
