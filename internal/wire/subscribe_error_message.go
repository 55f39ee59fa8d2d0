package wire

import "github.com/quic-go/quic-go/quicvarint"

// Subscribe error codes
const (
	SubscribeErrorInternal        uint64 = 0x00
	SubscribeErrorInvalidRange    uint64 = 0x01
	SubscribeErrorRetryTrackAlias uint64 = 0x02
	SubscribeErrorTrackNotExist   uint64 = 0x03
	SubscribeErrorUnauthorized    uint64 = 0x04
	SubscribeErrorTimeout         uint64 = 0x05
)

type SubscribeErrorMessage struct {
	SubscribeID  uint64
	ErrorCode    uint64
	ReasonPhrase string

	// RetryTrackAlias is always on the wire but only meaningful when
	// ErrorCode is SubscribeErrorRetryTrackAlias.
	RetryTrackAlias uint64
}

func (m *SubscribeErrorMessage) Type() ControlMessageType {
	return messageTypeSubscribeError
}

func (m *SubscribeErrorMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeSubscribeError))
	buf = quicvarint.Append(buf, m.SubscribeID)
	buf = quicvarint.Append(buf, m.ErrorCode)
	buf = appendVarIntString(buf, m.ReasonPhrase)
	return quicvarint.Append(buf, m.RetryTrackAlias)
}

func (m *SubscribeErrorMessage) parse(r messageReader) (err error) {
	if m.SubscribeID, err = readVarint(r); err != nil {
		return err
	}
	if m.ErrorCode, err = readVarint(r); err != nil {
		return err
	}
	if m.ReasonPhrase, err = parseVarIntString(r); err != nil {
		return err
	}
	m.RetryTrackAlias, err = readVarint(r)
	return err
}
