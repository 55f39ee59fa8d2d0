package moqt

import (
	"context"
	"io"
)

// Perspective tells a session which side of the connection it drives.
type Perspective int

const (
	PerspectiveClient Perspective = iota
	PerspectiveServer
)

func (p Perspective) String() string {
	switch p {
	case PerspectiveClient:
		return "client"
	case PerspectiveServer:
		return "server"
	}
	return "unknown perspective"
}

type Stream interface {
	ReceiveStream
	SendStream
}

type ReceiveStream interface {
	io.Reader
}

type SendStream interface {
	io.WriteCloser
}

// StreamPrioritizer is optionally implemented by SendStreams whose transport
// supports send scheduling. Lower values are sent first.
type StreamPrioritizer interface {
	SetPriority(uint64)
}

// Connection is the interface of the underlying WebTransport or QUIC
// connection a session runs on.
type Connection interface {
	AcceptStream(context.Context) (Stream, error)
	AcceptUniStream(context.Context) (ReceiveStream, error)
	OpenStream() (Stream, error)
	OpenStreamSync(context.Context) (Stream, error)
	OpenUniStream() (SendStream, error)
	OpenUniStreamSync(context.Context) (SendStream, error)

	SendDatagram([]byte) error
	ReceiveDatagram(context.Context) ([]byte, error)

	CloseWithError(uint64, string) error
	Context() context.Context
}
