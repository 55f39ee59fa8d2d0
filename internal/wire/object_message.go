package wire

import (
	"fmt"

	"github.com/quic-go/quic-go/quicvarint"
)

// ObjectStatus marks objects that exist only as markers without payload.
type ObjectStatus uint64

const (
	ObjectStatusNormal             ObjectStatus = 0x00
	ObjectStatusObjectNotExist     ObjectStatus = 0x01
	ObjectStatusGroupNotExist      ObjectStatus = 0x02
	ObjectStatusEndOfGroup         ObjectStatus = 0x03
	ObjectStatusEndOfTrackAndGroup ObjectStatus = 0x04
)

func (s ObjectStatus) String() string {
	switch s {
	case ObjectStatusNormal:
		return "Normal"
	case ObjectStatusObjectNotExist:
		return "ObjectNotExist"
	case ObjectStatusGroupNotExist:
		return "GroupNotExist"
	case ObjectStatusEndOfGroup:
		return "EndOfGroup"
	case ObjectStatusEndOfTrackAndGroup:
		return "EndOfTrackAndGroup"
	}
	return fmt.Sprintf("unknown object status (%d)", uint64(s))
}

// ObjectMessage is the header of an OBJECT_STREAM or OBJECT_DATAGRAM. The
// payload is not length-prefixed and runs to the end of the stream or
// datagram; the parser hands it to the caller separately.
type ObjectMessage struct {
	Type              ObjectMessageType
	SubscribeID       uint64
	TrackAlias        uint64
	GroupID           uint64
	ObjectID          uint64
	PublisherPriority uint8
	ObjectStatus      ObjectStatus
	ObjectPayload     []byte
}

func (m *ObjectMessage) Append(buf []byte) []byte {
	if m.Type == ObjectDatagramMessageType {
		buf = quicvarint.Append(buf, uint64(ObjectDatagramMessageType))
	} else {
		buf = quicvarint.Append(buf, uint64(ObjectStreamMessageType))
	}
	buf = quicvarint.Append(buf, m.SubscribeID)
	buf = quicvarint.Append(buf, m.TrackAlias)
	buf = quicvarint.Append(buf, m.GroupID)
	buf = quicvarint.Append(buf, m.ObjectID)
	buf = append(buf, m.PublisherPriority)
	buf = quicvarint.Append(buf, uint64(m.ObjectStatus))
	return append(buf, m.ObjectPayload...)
}

// parseHeader reads all fields up to, but not including, the payload.
func (m *ObjectMessage) parseHeader(r messageReader) (err error) {
	if m.SubscribeID, err = readVarint(r); err != nil {
		return err
	}
	if m.TrackAlias, err = readVarint(r); err != nil {
		return err
	}
	if m.GroupID, err = readVarint(r); err != nil {
		return err
	}
	if m.ObjectID, err = readVarint(r); err != nil {
		return err
	}
	if m.PublisherPriority, err = readUint8(r); err != nil {
		return err
	}
	status, err := readVarint(r)
	if err != nil {
		return err
	}
	if status > uint64(ObjectStatusEndOfTrackAndGroup) {
		return errInvalidObjectStatus
	}
	m.ObjectStatus = ObjectStatus(status)
	return nil
}
