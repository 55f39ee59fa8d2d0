package wire

import (
	"fmt"

	"github.com/quic-go/quic-go/quicvarint"
)

// TrackStatusCode reports the state of a track in a TRACK_STATUS message.
type TrackStatusCode uint64

const (
	TrackStatusInProgress   TrackStatusCode = 0x00
	TrackStatusDoesNotExist TrackStatusCode = 0x01
	TrackStatusNotYetBegun  TrackStatusCode = 0x02
	TrackStatusFinished     TrackStatusCode = 0x03
	TrackStatusUnknown      TrackStatusCode = 0x04
)

func (c TrackStatusCode) String() string {
	switch c {
	case TrackStatusInProgress:
		return "InProgress"
	case TrackStatusDoesNotExist:
		return "DoesNotExist"
	case TrackStatusNotYetBegun:
		return "NotYetBegun"
	case TrackStatusFinished:
		return "Finished"
	case TrackStatusUnknown:
		return "Unknown"
	}
	return fmt.Sprintf("unknown track status code (%d)", uint64(c))
}

type TrackStatusMessage struct {
	TrackNamespace string
	TrackName      string
	StatusCode     TrackStatusCode

	// Latest is encoded as (0, 0) unless StatusCode is InProgress. On
	// ingest any pair is accepted, interpretation is the caller's.
	Latest Location
}

func (m *TrackStatusMessage) Type() ControlMessageType {
	return messageTypeTrackStatus
}

func (m *TrackStatusMessage) Append(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(messageTypeTrackStatus))
	buf = appendVarIntString(buf, m.TrackNamespace)
	buf = appendVarIntString(buf, m.TrackName)
	buf = quicvarint.Append(buf, uint64(m.StatusCode))
	latest := m.Latest
	if m.StatusCode != TrackStatusInProgress {
		latest = Location{}
	}
	return latest.append(buf)
}

func (m *TrackStatusMessage) parse(r messageReader) (err error) {
	if m.TrackNamespace, err = parseVarIntString(r); err != nil {
		return err
	}
	if m.TrackName, err = parseVarIntString(r); err != nil {
		return err
	}
	code, err := readVarint(r)
	if err != nil {
		return err
	}
	m.StatusCode = TrackStatusCode(code)
	return m.Latest.parse(r)
}
