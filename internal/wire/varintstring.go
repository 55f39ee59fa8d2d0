package wire

import (
	"errors"
	"io"

	"github.com/quic-go/quic-go/quicvarint"
)

// underflow maps the io errors produced by reading a truncated message onto
// ErrUnderflow. Other errors pass through untouched.
func underflow(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrUnderflow
	}
	return err
}

func readVarint(r messageReader) (uint64, error) {
	v, err := quicvarint.Read(r)
	if err != nil {
		return 0, underflow(err)
	}
	return v, nil
}

func readUint8(r messageReader) (uint8, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, underflow(err)
	}
	return b, nil
}

func appendVarIntString(buf []byte, s string) []byte {
	buf = quicvarint.Append(buf, uint64(len(s)))
	return append(buf, s...)
}

func parseVarIntString(r messageReader) (string, error) {
	b, err := parseVarIntBytes(r)
	return string(b), err
}

func appendVarIntBytes(buf []byte, data []byte) []byte {
	buf = quicvarint.Append(buf, uint64(len(data)))
	return append(buf, data...)
}

func parseVarIntBytes(r messageReader) ([]byte, error) {
	l, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	if l == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, l)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, underflow(err)
	}
	return buf, nil
}
