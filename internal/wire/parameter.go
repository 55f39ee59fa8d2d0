package wire

import "github.com/quic-go/quic-go/quicvarint"

// Setup parameter keys
const (
	RoleParameterKey uint64 = 0x00
	PathParameterKey uint64 = 0x01
)

// Track request parameter keys
const (
	AuthorizationParameterKey uint64 = 0x02
)

type Parameter interface {
	Key() uint64
	append([]byte) []byte
}

type Parameters map[uint64]Parameter

func (pp Parameters) appendNum(buf []byte) []byte {
	buf = quicvarint.Append(buf, uint64(len(pp)))
	for _, p := range pp {
		buf = p.append(buf)
	}
	return buf
}

// parseSetupParameters reads a parameter count followed by that many setup
// parameters. The Role key carries a length-prefixed varint payload, every
// other key is kept as an opaque string parameter.
func parseSetupParameters(r messageReader) (Parameters, error) {
	pp := Parameters{}
	num, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < num; i++ {
		key, err := readVarint(r)
		if err != nil {
			return nil, err
		}
		var p Parameter
		if key == RoleParameterKey {
			p, err = parseVarintParameter(r, key)
		} else {
			p, err = parseStringParameter(r, key)
		}
		if err != nil {
			return nil, err
		}
		pp[key] = p
	}
	return pp, nil
}

// parseTrackRequestParameters reads a parameter count followed by that many
// (key, string) pairs.
func parseTrackRequestParameters(r messageReader) (Parameters, error) {
	pp := Parameters{}
	num, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < num; i++ {
		key, err := readVarint(r)
		if err != nil {
			return nil, err
		}
		p, err := parseStringParameter(r, key)
		if err != nil {
			return nil, err
		}
		pp[key] = p
	}
	return pp, nil
}
