package wire

import (
	"fmt"

	"github.com/quic-go/quic-go/quicvarint"
)

// Location is an absolute position in a track.
type Location struct {
	Group  uint64
	Object uint64
}

func (l Location) append(buf []byte) []byte {
	buf = quicvarint.Append(buf, l.Group)
	return quicvarint.Append(buf, l.Object)
}

func (l *Location) parse(r messageReader) (err error) {
	if l.Group, err = readVarint(r); err != nil {
		return err
	}
	l.Object, err = readVarint(r)
	return err
}

// LocationType selects how a subscription's start and end are interpreted.
type LocationType uint64

const (
	LocationTypeLatestGroup   LocationType = 0x01
	LocationTypeLatestObject  LocationType = 0x02
	LocationTypeAbsoluteStart LocationType = 0x03
	LocationTypeAbsoluteRange LocationType = 0x04
)

func (t LocationType) String() string {
	switch t {
	case LocationTypeLatestGroup:
		return "LatestGroup"
	case LocationTypeLatestObject:
		return "LatestObject"
	case LocationTypeAbsoluteStart:
		return "AbsoluteStart"
	case LocationTypeAbsoluteRange:
		return "AbsoluteRange"
	}
	return fmt.Sprintf("unknown location type (%d)", uint64(t))
}

func (t LocationType) hasStart() bool {
	return t == LocationTypeAbsoluteStart || t == LocationTypeAbsoluteRange
}

func (t LocationType) hasEnd() bool {
	return t == LocationTypeAbsoluteRange
}
