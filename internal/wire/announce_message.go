package wire

import "github.com/quic-go/quic-go/quicvarint"

type AnnounceMessage struct {
	TrackNamespace string
	Parameters     Parameters
}

func (m *AnnounceMessage) Type() ControlMessageType {
	return messageTypeAnnounce
}

func (m *AnnounceMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeAnnounce))
	buf = appendVarIntString(buf, m.TrackNamespace)
	return m.Parameters.appendNum(buf)
}

func (m *AnnounceMessage) parse(r messageReader) (err error) {
	if m.TrackNamespace, err = parseVarIntString(r); err != nil {
		return err
	}
	m.Parameters, err = parseTrackRequestParameters(r)
	return err
}
