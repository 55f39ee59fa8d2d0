package wire

import "github.com/quic-go/quic-go/quicvarint"

type AnnounceOkMessage struct {
	TrackNamespace string
}

func (m *AnnounceOkMessage) Type() ControlMessageType {
	return messageTypeAnnounceOk
}

func (m *AnnounceOkMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeAnnounceOk))
	return appendVarIntString(buf, m.TrackNamespace)
}

func (m *AnnounceOkMessage) parse(r messageReader) (err error) {
	m.TrackNamespace, err = parseVarIntString(r)
	return err
}
