package wire

import "github.com/quic-go/quic-go/quicvarint"

type TrackStatusRequestMessage struct {
	TrackNamespace string
	TrackName      string
}

func (m *TrackStatusRequestMessage) Type() ControlMessageType {
	return messageTypeTrackStatusRequest
}

func (m *TrackStatusRequestMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeTrackStatusRequest))
	buf = appendVarIntString(buf, m.TrackNamespace)
	return appendVarIntString(buf, m.TrackName)
}

func (m *TrackStatusRequestMessage) parse(r messageReader) (err error) {
	if m.TrackNamespace, err = parseVarIntString(r); err != nil {
		return err
	}
	m.TrackName, err = parseVarIntString(r)
	return err
}
