package wire

import (
	"fmt"

	"github.com/quic-go/quic-go/quicvarint"
)

// StringParameter is a parameter with a length-prefixed opaque payload.
type StringParameter struct {
	K uint64
	V string
}

func (p StringParameter) String() string {
	return fmt.Sprintf("key: %v, value: %v", p.K, p.V)
}

func (p StringParameter) Key() uint64 {
	return p.K
}

func (p StringParameter) append(buf []byte) []byte {
	buf = quicvarint.Append(buf, p.K)
	return appendVarIntString(buf, p.V)
}

func parseStringParameter(r messageReader, key uint64) (Parameter, error) {
	v, err := parseVarIntString(r)
	if err != nil {
		return nil, err
	}
	return StringParameter{
		K: key,
		V: v,
	}, nil
}
