package moqt

import (
	"bytes"
	"io"

	"github.com/moqtools/moqt/internal/wire"
)

// Wire-level enums reused on the public surface.
type (
	GroupOrder      = wire.GroupOrder
	ObjectStatus    = wire.ObjectStatus
	LocationType    = wire.LocationType
	TrackStatusCode = wire.TrackStatusCode
	Location        = wire.Location
	Role            = wire.Role
)

const (
	GroupOrderDefault     = wire.GroupOrderDefault
	GroupOrderOldestFirst = wire.GroupOrderOldestFirst
	GroupOrderNewestFirst = wire.GroupOrderNewestFirst

	LocationTypeLatestGroup   = wire.LocationTypeLatestGroup
	LocationTypeLatestObject  = wire.LocationTypeLatestObject
	LocationTypeAbsoluteStart = wire.LocationTypeAbsoluteStart
	LocationTypeAbsoluteRange = wire.LocationTypeAbsoluteRange

	ObjectStatusNormal             = wire.ObjectStatusNormal
	ObjectStatusObjectNotExist     = wire.ObjectStatusObjectNotExist
	ObjectStatusGroupNotExist      = wire.ObjectStatusGroupNotExist
	ObjectStatusEndOfGroup         = wire.ObjectStatusEndOfGroup
	ObjectStatusEndOfTrackAndGroup = wire.ObjectStatusEndOfTrackAndGroup

	TrackStatusInProgress   = wire.TrackStatusInProgress
	TrackStatusDoesNotExist = wire.TrackStatusDoesNotExist
	TrackStatusNotYetBegun  = wire.TrackStatusNotYetBegun
	TrackStatusFinished     = wire.TrackStatusFinished
	TrackStatusUnknown      = wire.TrackStatusUnknown

	RolePublisher  = wire.RolePublisher
	RoleSubscriber = wire.RoleSubscriber
	RolePubSub     = wire.RolePubSub
)

// FullTrackName names a track across sessions.
type FullTrackName struct {
	Namespace string
	Name      string
}

// ForwardingPreference is the publisher's choice of how objects of a
// subscription are multiplexed over streams.
type ForwardingPreference int

const (
	ForwardingPreferenceTrack ForwardingPreference = iota
	ForwardingPreferenceGroup
	ForwardingPreferenceObject
	ForwardingPreferenceDatagram
)

func (p ForwardingPreference) String() string {
	switch p {
	case ForwardingPreferenceTrack:
		return "Track"
	case ForwardingPreferenceGroup:
		return "Group"
	case ForwardingPreferenceObject:
		return "Object"
	case ForwardingPreferenceDatagram:
		return "Datagram"
	}
	return "unknown forwarding preference"
}

// ObjectHeader describes one object on the publish path.
type ObjectHeader struct {
	SubscribeID          uint64
	TrackAlias           uint64
	GroupID              uint64
	ObjectID             uint64
	PublisherPriority    uint8
	ForwardingPreference ForwardingPreference
	ObjectStatus         ObjectStatus

	// Length is the total object length for partial publishes on
	// multi-object streams. Zero is accepted only when the whole object is
	// published in a single eom call; the length is then taken from that
	// call's payload.
	Length uint64
}

// Object is one received object. The payload of objects arriving on their
// own stream is consumed lazily through Payload; everything else is
// delivered inline.
type Object struct {
	GroupID           uint64
	ObjectID          uint64
	PublisherPriority uint8
	Status            ObjectStatus

	payload io.Reader
}

func newObject(m *wire.ObjectMessage) *Object {
	return &Object{
		GroupID:           m.GroupID,
		ObjectID:          m.ObjectID,
		PublisherPriority: m.PublisherPriority,
		Status:            m.ObjectStatus,
		payload:           bytes.NewReader(m.ObjectPayload),
	}
}

// Payload returns the object's payload byte stream. It ends with io.EOF at
// the end of the object.
func (o *Object) Payload() io.Reader {
	return o.payload
}

// ReadPayload drains the payload stream and returns it as one slice.
func (o *Object) ReadPayload() ([]byte, error) {
	return io.ReadAll(o.payload)
}
