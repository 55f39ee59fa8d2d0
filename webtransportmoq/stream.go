package webtransportmoq

import (
	"github.com/moqtools/moqt"
	"github.com/quic-go/webtransport-go"
)

var _ moqt.Stream = (*stream)(nil)

type stream struct {
	qs webtransport.Stream
}

func (s *stream) Read(p []byte) (int, error) {
	return s.qs.Read(p)
}

func (s *stream) Write(p []byte) (int, error) {
	return s.qs.Write(p)
}

func (s *stream) Close() error {
	return s.qs.Close()
}

var _ moqt.ReceiveStream = (*receiveStream)(nil)

type receiveStream struct {
	stream webtransport.ReceiveStream
}

func (s *receiveStream) Read(p []byte) (int, error) {
	return s.stream.Read(p)
}

var _ moqt.SendStream = (*sendStream)(nil)

type sendStream struct {
	stream webtransport.SendStream
}

func (s *sendStream) Write(p []byte) (int, error) {
	return s.stream.Write(p)
}

func (s *sendStream) Close() error {
	return s.stream.Close()
}
