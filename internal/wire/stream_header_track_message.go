package wire

import "github.com/quic-go/quic-go/quicvarint"

type StreamHeaderTrackMessage struct {
	SubscribeID       uint64
	TrackAlias        uint64
	PublisherPriority uint8
}

func (m *StreamHeaderTrackMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(StreamHeaderTrackMessageType))
	buf = quicvarint.Append(buf, m.SubscribeID)
	buf = quicvarint.Append(buf, m.TrackAlias)
	return quicvarint.Append(buf, uint64(m.PublisherPriority))
}

func (m *StreamHeaderTrackMessage) parse(r messageReader) (err error) {
	if m.SubscribeID, err = readVarint(r); err != nil {
		return err
	}
	if m.TrackAlias, err = readVarint(r); err != nil {
		return err
	}
	priority, err := readVarint(r)
	if err != nil {
		return err
	}
	if priority > 0xff {
		return errInvalidPriority
	}
	m.PublisherPriority = uint8(priority)
	return nil
}
