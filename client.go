package moqt

import (
	"context"
	"crypto/tls"

	"github.com/moqtools/moqt/quicmoq"
	"github.com/moqtools/moqt/webtransportmoq"
	"github.com/quic-go/quic-go"
	"github.com/quic-go/webtransport-go"
)

// ALPN of MoQ Transport over raw QUIC.
const ALPN = "moq-00"

// DialQUIC connects to addr over raw QUIC and runs the client side of the
// setup handshake.
func DialQUIC(ctx context.Context, addr string, tlsConf *tls.Config, opts ...SessionOption) (*Session, error) {
	if tlsConf == nil {
		tlsConf = &tls.Config{}
	}
	if len(tlsConf.NextProtos) == 0 {
		tlsConf.NextProtos = []string{ALPN}
	}
	conn, err := quic.DialAddr(ctx, addr, tlsConf, &quic.Config{
		EnableDatagrams: true,
	})
	if err != nil {
		return nil, err
	}
	return ClientSession(ctx, quicmoq.New(conn), opts...)
}

// DialWebTransport connects to a WebTransport endpoint at url and runs the
// client side of the setup handshake.
func DialWebTransport(ctx context.Context, url string, opts ...SessionOption) (*Session, error) {
	var d webtransport.Dialer
	_, wtSession, err := d.Dial(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return ClientSession(ctx, webtransportmoq.New(wtSession), opts...)
}
