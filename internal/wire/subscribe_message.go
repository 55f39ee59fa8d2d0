package wire

import (
	"fmt"

	"github.com/quic-go/quic-go/quicvarint"
)

// GroupOrder states the order in which a subscription's groups are delivered.
type GroupOrder uint8

const (
	GroupOrderDefault     GroupOrder = 0x00
	GroupOrderOldestFirst GroupOrder = 0x01
	GroupOrderNewestFirst GroupOrder = 0x02
)

func (g GroupOrder) String() string {
	switch g {
	case GroupOrderDefault:
		return "Default"
	case GroupOrderOldestFirst:
		return "OldestFirst"
	case GroupOrderNewestFirst:
		return "NewestFirst"
	}
	return fmt.Sprintf("unknown group order (%d)", uint8(g))
}

type SubscribeMessage struct {
	SubscribeID        uint64
	TrackAlias         uint64
	TrackNamespace     string
	TrackName          string
	SubscriberPriority uint8
	GroupOrder         GroupOrder
	LocationType       LocationType
	Start              Location
	End                Location
	Parameters         Parameters
}

func (m *SubscribeMessage) Type() ControlMessageType {
	return messageTypeSubscribe
}

func (m *SubscribeMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeSubscribe))
	buf = quicvarint.Append(buf, m.SubscribeID)
	buf = quicvarint.Append(buf, m.TrackAlias)
	buf = appendVarIntString(buf, m.TrackNamespace)
	buf = appendVarIntString(buf, m.TrackName)
	buf = append(buf, m.SubscriberPriority)
	buf = append(buf, byte(m.GroupOrder))
	buf = quicvarint.Append(buf, uint64(m.LocationType))
	if m.LocationType.hasStart() {
		buf = m.Start.append(buf)
	}
	if m.LocationType.hasEnd() {
		buf = m.End.append(buf)
	}
	return m.Parameters.appendNum(buf)
}

func (m *SubscribeMessage) parse(r messageReader) (err error) {
	if m.SubscribeID, err = readVarint(r); err != nil {
		return err
	}
	if m.TrackAlias, err = readVarint(r); err != nil {
		return err
	}
	if m.TrackNamespace, err = parseVarIntString(r); err != nil {
		return err
	}
	if m.TrackName, err = parseVarIntString(r); err != nil {
		return err
	}
	if m.SubscriberPriority, err = readUint8(r); err != nil {
		return err
	}
	order, err := readUint8(r)
	if err != nil {
		return err
	}
	if order > uint8(GroupOrderNewestFirst) {
		return errInvalidGroupOrder
	}
	m.GroupOrder = GroupOrder(order)
	locType, err := readVarint(r)
	if err != nil {
		return err
	}
	m.LocationType = LocationType(locType)
	if m.LocationType < LocationTypeLatestGroup || m.LocationType > LocationTypeAbsoluteRange {
		return errInvalidLocationType
	}
	if m.LocationType.hasStart() {
		if err = m.Start.parse(r); err != nil {
			return err
		}
	}
	if m.LocationType.hasEnd() {
		if err = m.End.parse(r); err != nil {
			return err
		}
	}
	m.Parameters, err = parseTrackRequestParameters(r)
	return err
}
