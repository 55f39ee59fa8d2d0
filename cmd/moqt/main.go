// Command moqt is a small MoQ Transport endpoint for testing: it can serve
// a clock track and subscribe to tracks on a remote endpoint.
package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"time"

	"github.com/moqtools/moqt"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "moqt",
		Short:        "MoQ Transport test endpoint",
		SilenceUsage: true,
	}
	root.AddCommand(serveCommand())
	root.AddCommand(subscribeCommand())
	return root
}

func serveCommand() *cobra.Command {
	var addr string
	var namespace string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a date track over raw QUIC",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			server := &moqt.Server{
				TLSConfig: generateTLSConfig(),
				SessionOptions: []moqt.SessionOption{
					moqt.WithRole(moqt.RolePublisher),
					moqt.OnSubscription(moqt.SubscriptionHandlerFunc(
						func(s *moqt.Session, sub moqt.Subscription, w moqt.SubscriptionResponseWriter) {
							if sub.Namespace != namespace {
								w.Reject(0, "unknown namespace")
								return
							}
							if err := w.Accept(); err != nil {
								return
							}
							go serveDateTrack(ctx, s, sub)
						},
					)),
				},
			}
			slog.Info("listening", "addr", addr)
			return server.ListenQUIC(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:1909", "address to listen on")
	cmd.Flags().StringVar(&namespace, "namespace", "clock", "namespace to serve")
	return cmd
}

func serveDateTrack(ctx context.Context, s *moqt.Session, sub moqt.Subscription) {
	// One group per second, one object per group.
	var group uint64
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.Context().Done():
			return
		case now := <-ticker.C:
			err := s.Publish(moqt.ObjectHeader{
				SubscribeID:          sub.ID,
				TrackAlias:           sub.TrackAlias,
				GroupID:              group,
				ObjectID:             0,
				PublisherPriority:    128,
				ForwardingPreference: moqt.ForwardingPreferenceGroup,
			}, 0, []byte(now.Format(time.RFC3339)), true)
			if err != nil {
				slog.Error("publish failed", "error", err)
				return
			}
			group++
		}
	}
}

func subscribeCommand() *cobra.Command {
	var addr string
	var namespace string
	var trackname string
	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Subscribe to a track and print its objects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			session, err := moqt.DialQUIC(ctx, addr, &tls.Config{InsecureSkipVerify: true},
				moqt.WithRole(moqt.RoleSubscriber),
			)
			if err != nil {
				return err
			}
			defer session.Close()
			track, err := session.Subscribe(ctx, namespace, trackname)
			if err != nil {
				return err
			}
			for {
				obj, err := track.ReadObject(ctx)
				if err != nil {
					return err
				}
				payload, err := obj.ReadPayload()
				if err != nil {
					return err
				}
				fmt.Printf("group=%d object=%d payload=%q\n", obj.GroupID, obj.ObjectID, payload)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:1909", "address to connect to")
	cmd.Flags().StringVar(&namespace, "namespace", "clock", "track namespace")
	cmd.Flags().StringVar(&trackname, "track", "second", "track name")
	return cmd
}

func generateTLSConfig() *tls.Config {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		panic(err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	tlsCert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		panic(err)
	}
	return &tls.Config{Certificates: []tls.Certificate{tlsCert}}
}
