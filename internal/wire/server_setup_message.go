package wire

import "github.com/quic-go/quic-go/quicvarint"

type ServerSetupMessage struct {
	SelectedVersion Version
	SetupParameters Parameters
}

func (m *ServerSetupMessage) Type() ControlMessageType {
	return messageTypeServerSetup
}

func (m *ServerSetupMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeServerSetup))
	buf = quicvarint.Append(buf, uint64(m.SelectedVersion))
	return m.SetupParameters.appendNum(buf)
}

func (m *ServerSetupMessage) parse(r messageReader) error {
	v, err := readVarint(r)
	if err != nil {
		return err
	}
	m.SelectedVersion = Version(v)
	m.SetupParameters, err = parseSetupParameters(r)
	return err
}
