package wire

import "github.com/quic-go/quic-go/quicvarint"

type UnannounceMessage struct {
	TrackNamespace string
}

func (m *UnannounceMessage) Type() ControlMessageType {
	return messageTypeUnannounce
}

func (m *UnannounceMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeUnannounce))
	return appendVarIntString(buf, m.TrackNamespace)
}

func (m *UnannounceMessage) parse(r messageReader) (err error) {
	m.TrackNamespace, err = parseVarIntString(r)
	return err
}
