package wire

import "github.com/quic-go/quic-go/quicvarint"

type GoAwayMessage struct {
	NewSessionURI string
}

func (m *GoAwayMessage) Type() ControlMessageType {
	return messageTypeGoAway
}

func (m *GoAwayMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeGoAway))
	return appendVarIntString(buf, m.NewSessionURI)
}

func (m *GoAwayMessage) parse(r messageReader) (err error) {
	m.NewSessionURI, err = parseVarIntString(r)
	return err
}
