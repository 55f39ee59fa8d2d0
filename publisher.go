package moqt

import (
	"fmt"

	"github.com/moqtools/moqt/internal/wire"
	"github.com/quic-go/quic-go/quicvarint"
)

// publication is the publisher-side record of an accepted subscription.
type publication struct {
	trackAlias uint64
	priority   uint8
	groupOrder GroupOrder
}

// publishKey indexes the open stream an object belongs on. The forwarding
// preference decides how much of the (group, object) pair takes part in the
// lookup: Track collapses both, Group keeps the group, Object and Datagram
// keep the full tuple.
type publishKey struct {
	subscribeID uint64
	pref        ForwardingPreference
	group       uint64
	object      uint64
}

func newPublishKey(h ObjectHeader) publishKey {
	k := publishKey{
		subscribeID: h.SubscribeID,
		pref:        h.ForwardingPreference,
		group:       h.GroupID,
		object:      h.ObjectID,
	}
	switch h.ForwardingPreference {
	case ForwardingPreferenceTrack:
		k.group = 0
		k.object = 0
	case ForwardingPreferenceGroup:
		k.object = 0
	}
	return k
}

// publishData is the per-key book-keeping that lets several objects, and
// several partial writes of one object, share a stream.
type publishData struct {
	stream       SendStream
	group        uint64
	objectID     uint64
	objectLength uint64
	hasLength    bool
	offset       uint64
}

// Publish writes one object, or one part of an object, under its forwarding
// preference. Partial writes of the same object pass increasing offsets and
// set eom on the last part; multi-object streams require the total length
// either in the header or, on a single-part object, implicitly via eom.
func (s *Session) Publish(header ObjectHeader, offset uint64, payload []byte, eom bool) error {
	if header.ObjectStatus != ObjectStatusNormal {
		return errStatusWithPayload
	}
	return s.publish(header, offset, payload, eom)
}

// PublishStatus emits a status marker: an object with no payload.
func (s *Session) PublishStatus(header ObjectHeader) error {
	if header.ObjectStatus == ObjectStatusNormal {
		return fmt.Errorf("status publish requires a non-normal status")
	}
	return s.publish(header, 0, nil, true)
}

func (s *Session) publish(header ObjectHeader, offset uint64, payload []byte, eom bool) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	key := newPublishKey(header)
	sendAsDatagram := header.ForwardingPreference == ForwardingPreferenceDatagram

	buf := make([]byte, 0, 1500)
	pd, ok := s.publishData[key]
	if !ok {
		// Opening a stream mid-object cannot produce a parseable stream.
		if offset != 0 {
			return errMidObjectPublish
		}
		pd = &publishData{
			group:        header.GroupID,
			objectID:     header.ObjectID,
			objectLength: header.Length,
			hasLength:    header.Length > 0,
		}
		if !sendAsDatagram {
			stream, err := s.conn.OpenUniStream()
			if err != nil {
				return fmt.Errorf("failed to open uni stream: %w", err)
			}
			if p, ok := stream.(StreamPrioritizer); ok {
				p.SetPriority(s.order(header))
			}
			pd.stream = stream
		}
		s.publishData[key] = pd
		switch header.ForwardingPreference {
		case ForwardingPreferenceTrack:
			buf = (&wire.StreamHeaderTrackMessage{
				SubscribeID:       header.SubscribeID,
				TrackAlias:        header.TrackAlias,
				PublisherPriority: header.PublisherPriority,
			}).Append(buf)
		case ForwardingPreferenceGroup:
			buf = (&wire.StreamHeaderGroupMessage{
				SubscribeID:       header.SubscribeID,
				TrackAlias:        header.TrackAlias,
				GroupID:           header.GroupID,
				PublisherPriority: header.PublisherPriority,
			}).Append(buf)
		}
	}

	if offset == 0 {
		multiObject := header.ForwardingPreference == ForwardingPreferenceTrack ||
			header.ForwardingPreference == ForwardingPreferenceGroup
		if multiObject {
			if header.GroupID < pd.group {
				return errDecreasingGroup
			}
			sameGroup := header.GroupID == pd.group
			if sameGroup || header.ForwardingPreference == ForwardingPreferenceGroup {
				if header.ObjectID < pd.objectID ||
					(header.ObjectID == pd.objectID && pd.offset != 0) {
					return errDecreasingObject
				}
			}
		}
		pd.group = header.GroupID
		pd.objectID = header.ObjectID
		if multiObject {
			length := header.Length
			if length == 0 && header.ObjectStatus == ObjectStatusNormal {
				if !eom {
					return fmt.Errorf("multi-object streams require an object length")
				}
				length = uint64(len(payload))
			}
			pd.objectLength = length
			pd.hasLength = true
			buf = appendMultiObjectHeader(buf, header, length)
		} else {
			buf = (&wire.ObjectMessage{
				Type:              objectMessageType(header.ForwardingPreference),
				SubscribeID:       header.SubscribeID,
				TrackAlias:        header.TrackAlias,
				GroupID:           header.GroupID,
				ObjectID:          header.ObjectID,
				PublisherPriority: header.PublisherPriority,
				ObjectStatus:      header.ObjectStatus,
			}).Append(buf)
		}
	}

	if pd.hasLength && uint64(len(payload)) > pd.objectLength {
		return errLengthExceeded
	}
	buf = append(buf, payload...)

	if sendAsDatagram {
		delete(s.publishData, key)
		return s.conn.SendDatagram(buf)
	}

	if _, err := pd.stream.Write(buf); err != nil {
		delete(s.publishData, key)
		return fmt.Errorf("failed to write object: %w", err)
	}
	streamEOM := (eom && header.ForwardingPreference == ForwardingPreferenceObject) ||
		header.ObjectStatus == ObjectStatusEndOfGroup ||
		header.ObjectStatus == ObjectStatusEndOfTrackAndGroup
	if streamEOM {
		err := pd.stream.Close()
		delete(s.publishData, key)
		return err
	}
	if eom {
		pd.offset = 0
		pd.hasLength = false
		pd.objectLength = 0
	} else {
		pd.offset += uint64(len(payload))
		if pd.hasLength {
			pd.objectLength -= uint64(len(payload))
		}
	}
	return nil
}

func objectMessageType(pref ForwardingPreference) wire.ObjectMessageType {
	if pref == ForwardingPreferenceDatagram {
		return wire.ObjectDatagramMessageType
	}
	return wire.ObjectStreamMessageType
}

// appendMultiObjectHeader writes the per-object entry of a multi-object
// stream: the group (track streams only), the object ID, the length, and the
// status when there is no payload.
func appendMultiObjectHeader(buf []byte, header ObjectHeader, length uint64) []byte {
	if header.ForwardingPreference == ForwardingPreferenceTrack {
		buf = quicvarint.Append(buf, header.GroupID)
	}
	buf = quicvarint.Append(buf, header.ObjectID)
	buf = quicvarint.Append(buf, length)
	if length == 0 {
		buf = quicvarint.Append(buf, uint64(header.ObjectStatus))
	}
	return buf
}

const orderIDMask = 0x1FFFFF

// order packs the send priority of an object into a uint64 for the
// transport's stream scheduler: subscriber priority, publisher priority,
// group number (inverted for NewestFirst), object ID. Smaller is sent first.
func (s *Session) order(header ObjectHeader) uint64 {
	priority := uint8(0xff)
	groupOrder := GroupOrderOldestFirst
	if pub, ok := s.pubTracks[header.SubscribeID]; ok {
		priority = pub.priority
		groupOrder = pub.groupOrder
	}
	group := uint64(uint32(header.GroupID) & orderIDMask)
	if groupOrder == GroupOrderNewestFirst {
		group = orderIDMask - group
	}
	return uint64(priority)<<50 |
		uint64(header.PublisherPriority)<<42 |
		group<<21 |
		uint64(uint32(header.ObjectID)&orderIDMask)
}

// Order exposes the send priority the session assigns to an object.
func (s *Session) Order(header ObjectHeader) uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.order(header)
}
