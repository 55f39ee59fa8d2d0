package moqt

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/moqtools/moqt/quicmoq"
	"github.com/moqtools/moqt/webtransportmoq"
	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
	"github.com/quic-go/webtransport-go"
	"golang.org/x/sync/errgroup"
)

// SessionHandler receives every session the server accepted and set up.
type SessionHandler interface {
	HandleSession(*Session)
}

type SessionHandlerFunc func(*Session)

func (f SessionHandlerFunc) HandleSession(s *Session) {
	f(s)
}

// Server accepts MoQ sessions over raw QUIC and WebTransport.
type Server struct {
	Handler        SessionHandler
	TLSConfig      *tls.Config
	Path           string
	SessionOptions []SessionOption
}

// ListenQUIC serves raw QUIC connections on addr until the context is
// cancelled.
func (s *Server) ListenQUIC(ctx context.Context, addr string) error {
	tlsConf := s.TLSConfig.Clone()
	if tlsConf == nil {
		tlsConf = &tls.Config{}
	}
	if len(tlsConf.NextProtos) == 0 {
		tlsConf.NextProtos = []string{ALPN}
	}
	listener, err := quic.ListenAddr(addr, tlsConf, &quic.Config{
		EnableDatagrams: true,
	})
	if err != nil {
		return err
	}
	defer listener.Close()
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gCtx.Done()
		return listener.Close()
	})
	g.Go(func() error {
		for {
			conn, err := listener.Accept(gCtx)
			if err != nil {
				return err
			}
			go s.handleConnection(gCtx, quicmoq.New(conn))
		}
	})
	return g.Wait()
}

// ListenWebTransport serves WebTransport sessions on addr at the configured
// path until the context is cancelled.
func (s *Server) ListenWebTransport(ctx context.Context, addr string) error {
	path := s.Path
	if path == "" {
		path = "/moq"
	}
	mux := http.NewServeMux()
	wt := &webtransport.Server{
		H3: http3.Server{
			Addr:      addr,
			TLSConfig: s.TLSConfig,
			Handler:   mux,
		},
	}
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		wtSession, err := wt.Upgrade(w, r)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		session := s.handleConnection(ctx, webtransportmoq.New(wtSession))
		if session == nil {
			return
		}
		// The WebTransport session lives only as long as this handler.
		<-session.Context().Done()
	})
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gCtx.Done()
		return wt.Close()
	})
	g.Go(wt.ListenAndServe)
	return g.Wait()
}

func (s *Server) handleConnection(ctx context.Context, conn Connection) *Session {
	session, err := ServerSession(ctx, conn, s.SessionOptions...)
	if err != nil {
		return nil
	}
	if s.Handler != nil {
		s.Handler.HandleSession(session)
	}
	return session
}
