// Package quicmoq adapts a quic-go connection to the moqt transport
// interface.
package quicmoq

import (
	"context"

	"github.com/moqtools/moqt"
	"github.com/quic-go/quic-go"
)

type connection struct {
	connection quic.Connection
}

func New(conn quic.Connection) moqt.Connection {
	return &connection{connection: conn}
}

func (c *connection) AcceptStream(ctx context.Context) (moqt.Stream, error) {
	s, err := c.connection.AcceptStream(ctx)
	if err != nil {
		return nil, err
	}
	return &stream{stream: s}, nil
}

func (c *connection) AcceptUniStream(ctx context.Context) (moqt.ReceiveStream, error) {
	s, err := c.connection.AcceptUniStream(ctx)
	if err != nil {
		return nil, err
	}
	return &receiveStream{stream: s}, nil
}

func (c *connection) OpenStream() (moqt.Stream, error) {
	s, err := c.connection.OpenStream()
	if err != nil {
		return nil, err
	}
	return &stream{stream: s}, nil
}

func (c *connection) OpenStreamSync(ctx context.Context) (moqt.Stream, error) {
	s, err := c.connection.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	return &stream{stream: s}, nil
}

func (c *connection) OpenUniStream() (moqt.SendStream, error) {
	s, err := c.connection.OpenUniStream()
	if err != nil {
		return nil, err
	}
	return &sendStream{stream: s}, nil
}

func (c *connection) OpenUniStreamSync(ctx context.Context) (moqt.SendStream, error) {
	s, err := c.connection.OpenUniStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	return &sendStream{stream: s}, nil
}

func (c *connection) SendDatagram(b []byte) error {
	return c.connection.SendDatagram(b)
}

func (c *connection) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	return c.connection.ReceiveDatagram(ctx)
}

func (c *connection) CloseWithError(e uint64, msg string) error {
	return c.connection.CloseWithError(quic.ApplicationErrorCode(e), msg)
}

func (c *connection) Context() context.Context {
	return c.connection.Context()
}
