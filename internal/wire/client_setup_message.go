package wire

import "github.com/quic-go/quic-go/quicvarint"

type ClientSetupMessage struct {
	SupportedVersions []Version
	SetupParameters   Parameters
}

func (m *ClientSetupMessage) Type() ControlMessageType {
	return messageTypeClientSetup
}

func (m *ClientSetupMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeClientSetup))
	buf = quicvarint.Append(buf, uint64(len(m.SupportedVersions)))
	for _, v := range m.SupportedVersions {
		buf = quicvarint.Append(buf, uint64(v))
	}
	return m.SetupParameters.appendNum(buf)
}

func (m *ClientSetupMessage) parse(r messageReader) error {
	numVersions, err := readVarint(r)
	if err != nil {
		return err
	}
	m.SupportedVersions = make([]Version, 0, numVersions)
	for i := uint64(0); i < numVersions; i++ {
		v, err := readVarint(r)
		if err != nil {
			return err
		}
		m.SupportedVersions = append(m.SupportedVersions, Version(v))
	}
	m.SetupParameters, err = parseSetupParameters(r)
	return err
}
