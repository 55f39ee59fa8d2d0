package wire

import "github.com/quic-go/quic-go/quicvarint"

type AnnounceCancelMessage struct {
	TrackNamespace string
	ErrorCode      uint64
	ReasonPhrase   string
}

func (m *AnnounceCancelMessage) Type() ControlMessageType {
	return messageTypeAnnounceCancel
}

func (m *AnnounceCancelMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeAnnounceCancel))
	buf = appendVarIntString(buf, m.TrackNamespace)
	buf = quicvarint.Append(buf, m.ErrorCode)
	return appendVarIntString(buf, m.ReasonPhrase)
}

func (m *AnnounceCancelMessage) parse(r messageReader) (err error) {
	if m.TrackNamespace, err = parseVarIntString(r); err != nil {
		return err
	}
	if m.ErrorCode, err = readVarint(r); err != nil {
		return err
	}
	m.ReasonPhrase, err = parseVarIntString(r)
	return err
}
