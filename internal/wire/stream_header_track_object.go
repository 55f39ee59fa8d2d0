package wire

import (
	"io"

	"github.com/quic-go/quic-go/quicvarint"
)

// StreamHeaderTrackObject is one entry on a STREAM_HEADER_TRACK stream. A
// zero length on the wire (an empty ObjectPayload) means the entry carries a
// status marker instead of a payload; the status varint follows the length in
// that case.
type StreamHeaderTrackObject struct {
	GroupID       uint64
	ObjectID      uint64
	ObjectStatus  ObjectStatus
	ObjectPayload []byte
}

func (m *StreamHeaderTrackObject) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, m.GroupID)
	buf = quicvarint.Append(buf, m.ObjectID)
	buf = quicvarint.Append(buf, uint64(len(m.ObjectPayload)))
	if len(m.ObjectPayload) == 0 {
		return quicvarint.Append(buf, uint64(m.ObjectStatus))
	}
	return append(buf, m.ObjectPayload...)
}

func (m *StreamHeaderTrackObject) parse(r messageReader) (err error) {
	if m.GroupID, err = readVarint(r); err != nil {
		return err
	}
	if m.ObjectID, err = readVarint(r); err != nil {
		return err
	}
	length, err := readVarint(r)
	if err != nil {
		return err
	}
	if length == 0 {
		status, err := readVarint(r)
		if err != nil {
			return err
		}
		if status > uint64(ObjectStatusEndOfTrackAndGroup) {
			return errInvalidObjectStatus
		}
		m.ObjectStatus = ObjectStatus(status)
		m.ObjectPayload = []byte{}
		return nil
	}
	m.ObjectStatus = ObjectStatusNormal
	m.ObjectPayload = make([]byte, length)
	if _, err := io.ReadFull(r, m.ObjectPayload); err != nil {
		return underflow(err)
	}
	return nil
}
