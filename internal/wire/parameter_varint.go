package wire

import (
	"bytes"
	"fmt"

	"github.com/quic-go/quic-go/quicvarint"
)

// VarintParameter is a parameter whose payload is a single varint wrapped in
// a length prefix.
type VarintParameter struct {
	K uint64
	V uint64
}

func (p VarintParameter) String() string {
	return fmt.Sprintf("key: %v, value: %v", p.K, p.V)
}

func (p VarintParameter) Key() uint64 {
	return p.K
}

func (p VarintParameter) append(buf []byte) []byte {
	buf = quicvarint.Append(buf, p.K)
	buf = quicvarint.Append(buf, uint64(quicvarint.Len(p.V)))
	return quicvarint.Append(buf, p.V)
}

func parseVarintParameter(r messageReader, key uint64) (Parameter, error) {
	data, err := parseVarIntBytes(r)
	if err != nil {
		return nil, err
	}
	v, err := quicvarint.Read(bytes.NewReader(data))
	if err != nil {
		return nil, underflow(err)
	}
	return VarintParameter{
		K: key,
		V: v,
	}, nil
}
