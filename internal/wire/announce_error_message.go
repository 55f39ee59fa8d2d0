package wire

import "github.com/quic-go/quic-go/quicvarint"

type AnnounceErrorMessage struct {
	TrackNamespace string
	ErrorCode      uint64
	ReasonPhrase   string
}

func (m *AnnounceErrorMessage) Type() ControlMessageType {
	return messageTypeAnnounceError
}

func (m *AnnounceErrorMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeAnnounceError))
	buf = appendVarIntString(buf, m.TrackNamespace)
	buf = quicvarint.Append(buf, m.ErrorCode)
	return appendVarIntString(buf, m.ReasonPhrase)
}

func (m *AnnounceErrorMessage) parse(r messageReader) (err error) {
	if m.TrackNamespace, err = parseVarIntString(r); err != nil {
		return err
	}
	if m.ErrorCode, err = readVarint(r); err != nil {
		return err
	}
	m.ReasonPhrase, err = parseVarIntString(r)
	return err
}
