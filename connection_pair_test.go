package moqt

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// memoryBuffer is one direction of an in-memory stream. Writes never block,
// reads block until data arrives or the buffer is closed.
type memoryBuffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    bytes.Buffer
	closed bool
}

func newMemoryBuffer() *memoryBuffer {
	b := &memoryBuffer{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *memoryBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, io.ErrClosedPipe
	}
	n, err := b.buf.Write(p)
	b.cond.Broadcast()
	return n, err
}

func (b *memoryBuffer) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.buf.Len() == 0 && !b.closed {
		b.cond.Wait()
	}
	if b.buf.Len() == 0 {
		return 0, io.EOF
	}
	return b.buf.Read(p)
}

// Close ends the stream: pending and future reads drain the buffer and then
// return io.EOF, writes fail.
func (b *memoryBuffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.cond.Broadcast()
	return nil
}

type memoryStream struct {
	read  *memoryBuffer
	write *memoryBuffer
}

func (s *memoryStream) Read(p []byte) (int, error) {
	return s.read.Read(p)
}

func (s *memoryStream) Write(p []byte) (int, error) {
	return s.write.Write(p)
}

func (s *memoryStream) Close() error {
	return s.write.Close()
}

// pipeConnection is an in-memory Connection for tests. Two of them form a
// full-duplex pair.
type pipeConnection struct {
	peer *pipeConnection

	ctx       context.Context
	cancelCtx context.CancelFunc

	bidi      chan Stream
	uni       chan ReceiveStream
	datagrams chan []byte

	mu      sync.Mutex
	buffers []*memoryBuffer
}

func newConnectionPair() (client, server *pipeConnection) {
	client = newPipeConnection()
	server = newPipeConnection()
	client.peer = server
	server.peer = client
	return client, server
}

func newPipeConnection() *pipeConnection {
	ctx, cancel := context.WithCancel(context.Background())
	return &pipeConnection{
		ctx:       ctx,
		cancelCtx: cancel,
		bidi:      make(chan Stream, 8),
		uni:       make(chan ReceiveStream, 8),
		datagrams: make(chan []byte, 64),
	}
}

func (c *pipeConnection) newBuffer() *memoryBuffer {
	b := newMemoryBuffer()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffers = append(c.buffers, b)
	return b
}

func (c *pipeConnection) AcceptStream(ctx context.Context) (Stream, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, io.ErrClosedPipe
	case s := <-c.bidi:
		return s, nil
	}
}

func (c *pipeConnection) AcceptUniStream(ctx context.Context) (ReceiveStream, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, io.ErrClosedPipe
	case s := <-c.uni:
		return s, nil
	}
}

func (c *pipeConnection) OpenStream() (Stream, error) {
	if c.ctx.Err() != nil {
		return nil, io.ErrClosedPipe
	}
	out := c.newBuffer()
	in := c.newBuffer()
	c.peer.bidi <- &memoryStream{read: out, write: in}
	return &memoryStream{read: in, write: out}, nil
}

func (c *pipeConnection) OpenStreamSync(ctx context.Context) (Stream, error) {
	return c.OpenStream()
}

func (c *pipeConnection) OpenUniStream() (SendStream, error) {
	if c.ctx.Err() != nil {
		return nil, io.ErrClosedPipe
	}
	out := c.newBuffer()
	c.peer.uni <- &memoryStream{read: out, write: newMemoryBuffer()}
	return &memoryStream{read: newMemoryBuffer(), write: out}, nil
}

func (c *pipeConnection) OpenUniStreamSync(ctx context.Context) (SendStream, error) {
	return c.OpenUniStream()
}

func (c *pipeConnection) SendDatagram(b []byte) error {
	if c.ctx.Err() != nil {
		return io.ErrClosedPipe
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	select {
	case c.peer.datagrams <- buf:
		return nil
	default:
		return nil // lossy, like the real thing
	}
}

func (c *pipeConnection) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, io.ErrClosedPipe
	case b := <-c.datagrams:
		return b, nil
	}
}

// CloseWithError tears down both directions, as closing the underlying
// connection would.
func (c *pipeConnection) CloseWithError(code uint64, msg string) error {
	c.cancelCtx()
	c.peer.cancelCtx()
	for _, conn := range []*pipeConnection{c, c.peer} {
		conn.mu.Lock()
		buffers := conn.buffers
		conn.buffers = nil
		conn.mu.Unlock()
		for _, b := range buffers {
			b.Close()
		}
	}
	return nil
}

func (c *pipeConnection) Context() context.Context {
	return c.ctx
}
