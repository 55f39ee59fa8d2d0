package wire

import "io"

type messageReader interface {
	io.Reader
	io.ByteReader
}

// ControlMessage is implemented by all messages that travel on the control
// stream. Append serializes the message including its frame-type tag, parse
// reads the body after the tag has been consumed.
type ControlMessage interface {
	Type() ControlMessageType
	Append([]byte) []byte
	parse(messageReader) error
}

type ObjectMessageType uint64

// Object message types
const (
	ObjectStreamMessageType      ObjectMessageType = 0x00
	ObjectDatagramMessageType    ObjectMessageType = 0x01
	StreamHeaderTrackMessageType ObjectMessageType = 0x50
	StreamHeaderGroupMessageType ObjectMessageType = 0x51
)

func (mt ObjectMessageType) String() string {
	switch mt {
	case ObjectStreamMessageType:
		return "ObjectStreamMessage"
	case ObjectDatagramMessageType:
		return "ObjectDatagramMessage"
	case StreamHeaderTrackMessageType:
		return "StreamHeaderTrackMessage"
	case StreamHeaderGroupMessageType:
		return "StreamHeaderGroupMessage"
	}
	return "unknown message type"
}

type ControlMessageType uint64

// Control message types
const (
	messageTypeSubscribeUpdate    ControlMessageType = 0x02
	messageTypeSubscribe          ControlMessageType = 0x03
	messageTypeSubscribeOk        ControlMessageType = 0x04
	messageTypeSubscribeError     ControlMessageType = 0x05
	messageTypeAnnounce           ControlMessageType = 0x06
	messageTypeAnnounceOk         ControlMessageType = 0x07
	messageTypeAnnounceError      ControlMessageType = 0x08
	messageTypeUnannounce         ControlMessageType = 0x09
	messageTypeUnsubscribe        ControlMessageType = 0x0a
	messageTypeSubscribeDone      ControlMessageType = 0x0b
	messageTypeAnnounceCancel     ControlMessageType = 0x0c
	messageTypeTrackStatusRequest ControlMessageType = 0x0d
	messageTypeTrackStatus        ControlMessageType = 0x0e
	messageTypeGoAway             ControlMessageType = 0x10
	messageTypeClientSetup        ControlMessageType = 0x40
	messageTypeServerSetup        ControlMessageType = 0x41
)

func (mt ControlMessageType) String() string {
	switch mt {
	case messageTypeSubscribeUpdate:
		return "SubscribeUpdateMessage"
	case messageTypeSubscribe:
		return "SubscribeMessage"
	case messageTypeSubscribeOk:
		return "SubscribeOkMessage"
	case messageTypeSubscribeError:
		return "SubscribeErrorMessage"
	case messageTypeAnnounce:
		return "AnnounceMessage"
	case messageTypeAnnounceOk:
		return "AnnounceOkMessage"
	case messageTypeAnnounceError:
		return "AnnounceErrorMessage"
	case messageTypeUnannounce:
		return "UnannounceMessage"
	case messageTypeUnsubscribe:
		return "UnsubscribeMessage"
	case messageTypeSubscribeDone:
		return "SubscribeDoneMessage"
	case messageTypeAnnounceCancel:
		return "AnnounceCancelMessage"
	case messageTypeTrackStatusRequest:
		return "TrackStatusRequestMessage"
	case messageTypeTrackStatus:
		return "TrackStatusMessage"
	case messageTypeGoAway:
		return "GoAwayMessage"
	case messageTypeClientSetup:
		return "ClientSetupMessage"
	case messageTypeServerSetup:
		return "ServerSetupMessage"
	}
	return "unknown message type"
}
