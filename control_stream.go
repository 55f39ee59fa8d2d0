package moqt

import (
	"errors"
	"io"
	"log/slog"

	"github.com/moqtools/moqt/internal/wire"
)

type parser interface {
	Parse() (wire.ControlMessage, error)
}

type messageHandler func(wire.ControlMessage) error

// controlStream serializes writes to the control stream through a send queue
// and feeds incoming messages to the session's handler in wire order.
type controlStream struct {
	logger    *slog.Logger
	stream    Stream
	handle    messageHandler
	fail      func(error)
	parser    parser
	sendQueue chan wire.ControlMessage
	closeCh   chan struct{}
}

func newControlStream(s Stream, p parser, h messageHandler, fail func(error)) *controlStream {
	cs := &controlStream{
		logger:    defaultLogger.With("component", "MOQ_CONTROL_STREAM"),
		stream:    s,
		handle:    h,
		fail:      fail,
		parser:    p,
		sendQueue: make(chan wire.ControlMessage, 64),
		closeCh:   make(chan struct{}),
	}
	go cs.readMessages()
	go cs.writeMessages()
	return cs
}

func (s *controlStream) readMessages() {
	for {
		msg, err := s.parser.Parse()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.fail(err)
			return
		}
		if err = s.handle(msg); err != nil {
			s.logger.Error("failed to handle control message", "error", err, "message", msg.Type())
			s.fail(err)
			return
		}
	}
}

func (s *controlStream) writeMessages() {
	for {
		select {
		case <-s.closeCh:
			return
		case msg := <-s.sendQueue:
			buf := make([]byte, 0, 1500)
			buf = msg.Append(buf)
			if _, err := s.stream.Write(buf); err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				s.logger.Error("failed to write to control stream", "error", err)
			}
		}
	}
}

func (s *controlStream) enqueue(m wire.ControlMessage) {
	select {
	case s.sendQueue <- m:
	case <-s.closeCh:
	}
}

func (s *controlStream) close() {
	select {
	case <-s.closeCh:
	default:
		close(s.closeCh)
	}
	s.stream.Close()
}
