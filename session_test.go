package moqt

import (
	"context"
	"testing"
	"time"

	"github.com/moqtools/moqt/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type sessionPair struct {
	client *Session
	server *Session
}

func setupSessions(t *testing.T, clientOpts, serverOpts []SessionOption) sessionPair {
	t.Helper()
	clientConn, serverConn := newConnectionPair()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverCh := make(chan *Session, 1)
	errCh := make(chan error, 1)
	go func() {
		server, err := ServerSession(ctx, serverConn, serverOpts...)
		if err != nil {
			errCh <- err
			return
		}
		serverCh <- server
	}()
	client, err := ClientSession(ctx, clientConn, clientOpts...)
	require.NoError(t, err)
	var server *Session
	select {
	case server = <-serverCh:
	case err := <-errCh:
		t.Fatalf("server session failed: %v", err)
	case <-ctx.Done():
		t.Fatal("timed out waiting for server session")
	}
	t.Cleanup(func() {
		client.Close()
		server.Close()
		// Give the read loops a moment to drain before the leak check.
		time.Sleep(10 * time.Millisecond)
	})
	return sessionPair{client: client, server: server}
}

func TestSessionHandshake(t *testing.T) {
	p := setupSessions(t, nil, nil)
	assert.Equal(t, uint64(wire.CurrentVersion), p.client.Version())
	assert.Equal(t, uint64(wire.CurrentVersion), p.server.Version())
}

func TestSessionHandshakeTimeout(t *testing.T) {
	clientConn, _ := newConnectionPair()
	_, err := ClientSession(context.Background(), clientConn,
		WithSetupTimeout(20*time.Millisecond),
	)
	assert.ErrorIs(t, err, errSetupTimeout)
}

func TestSubscribeAccepted(t *testing.T) {
	subscribed := make(chan Subscription, 1)
	p := setupSessions(t, nil, []SessionOption{
		OnSubscription(SubscriptionHandlerFunc(
			func(s *Session, sub Subscription, w SubscriptionResponseWriter) {
				subscribed <- sub
				err := w.AcceptWithOptions(SubscribeOkOptions{
					Latest: &Location{Group: 42, Object: 3},
				})
				assert.NoError(t, err)
			},
		)),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	track, err := p.client.Subscribe(ctx, "namespace", "track",
		WithPriority(5),
		WithGroupOrder(GroupOrderOldestFirst),
	)
	require.NoError(t, err)
	sub := <-subscribed
	assert.Equal(t, "namespace", sub.Namespace)
	assert.Equal(t, "track", sub.TrackName)
	assert.Equal(t, uint8(5), sub.SubscriberPriority)
	latest, ok := track.Latest()
	assert.True(t, ok)
	assert.Equal(t, Location{Group: 42, Object: 3}, latest)
}

func TestSubscribeRejectedWithRetryAlias(t *testing.T) {
	p := setupSessions(t, nil, []SessionOption{
		OnSubscription(SubscriptionHandlerFunc(
			func(s *Session, sub Subscription, w SubscriptionResponseWriter) {
				w.Reject(wire.SubscribeErrorRetryTrackAlias, "alias")
			},
		)),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := p.client.Subscribe(ctx, "namespace", "track")
	var se *SubscribeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, wire.SubscribeErrorRetryTrackAlias, se.Code)
	assert.Equal(t, "alias", se.Reason)
	// The rejecting side echoes the alias the subscriber chose.
	assert.Equal(t, uint64(0), se.RetryTrackAlias)
}

func TestSubscribeWithoutHandlerRejected(t *testing.T) {
	p := setupSessions(t, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := p.client.Subscribe(ctx, "namespace", "track")
	var se *SubscribeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, wire.SubscribeErrorTrackNotExist, se.Code)
}

func TestSubscribeAndReceiveObjects(t *testing.T) {
	p := setupSessions(t, nil, []SessionOption{
		OnSubscription(SubscriptionHandlerFunc(
			func(s *Session, sub Subscription, w SubscriptionResponseWriter) {
				require.NoError(t, w.Accept())
				go func() {
					header := ObjectHeader{
						SubscribeID:          sub.ID,
						TrackAlias:           sub.TrackAlias,
						GroupID:              9,
						ObjectID:             0,
						PublisherPriority:    4,
						ForwardingPreference: ForwardingPreferenceGroup,
					}
					require.NoError(t, s.Publish(header, 0, []byte("hi"), true))
					header.ObjectID = 1
					header.ObjectStatus = ObjectStatusEndOfGroup
					require.NoError(t, s.PublishStatus(header))
				}()
			},
		)),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	track, err := p.client.Subscribe(ctx, "namespace", "track")
	require.NoError(t, err)

	obj, err := track.ReadObject(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), obj.GroupID)
	assert.Equal(t, uint64(0), obj.ObjectID)
	payload, err := obj.ReadPayload()
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), payload)

	obj, err = track.ReadObject(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), obj.ObjectID)
	assert.Equal(t, ObjectStatusEndOfGroup, obj.Status)
}

func TestSubscribeAndReceiveSingleObjectStream(t *testing.T) {
	p := setupSessions(t, nil, []SessionOption{
		OnSubscription(SubscriptionHandlerFunc(
			func(s *Session, sub Subscription, w SubscriptionResponseWriter) {
				require.NoError(t, w.Accept())
				go func() {
					header := ObjectHeader{
						SubscribeID:          sub.ID,
						TrackAlias:           sub.TrackAlias,
						GroupID:              5,
						ObjectID:             0,
						PublisherPriority:    128,
						ForwardingPreference: ForwardingPreferenceObject,
					}
					require.NoError(t, s.Publish(header, 0, []byte("abc"), true))
				}()
			},
		)),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	track, err := p.client.Subscribe(ctx, "namespace", "track")
	require.NoError(t, err)

	obj, err := track.ReadObject(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), obj.GroupID)
	payload, err := obj.ReadPayload()
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), payload)
}

func TestSubscribeAndReceiveDatagram(t *testing.T) {
	p := setupSessions(t, []SessionOption{WithDatagrams()}, []SessionOption{
		OnSubscription(SubscriptionHandlerFunc(
			func(s *Session, sub Subscription, w SubscriptionResponseWriter) {
				require.NoError(t, w.Accept())
				go func() {
					header := ObjectHeader{
						SubscribeID:          sub.ID,
						TrackAlias:           sub.TrackAlias,
						GroupID:              1,
						ObjectID:             2,
						ForwardingPreference: ForwardingPreferenceDatagram,
					}
					require.NoError(t, s.Publish(header, 0, []byte("dgram"), true))
				}()
			},
		)),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	track, err := p.client.Subscribe(ctx, "namespace", "track")
	require.NoError(t, err)

	obj, err := track.ReadObject(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), obj.GroupID)
	assert.Equal(t, uint64(2), obj.ObjectID)
	payload, err := obj.ReadPayload()
	require.NoError(t, err)
	assert.Equal(t, []byte("dgram"), payload)
}

func TestSubscribeDone(t *testing.T) {
	p := setupSessions(t, nil, []SessionOption{
		OnSubscription(SubscriptionHandlerFunc(
			func(s *Session, sub Subscription, w SubscriptionResponseWriter) {
				require.NoError(t, w.Accept())
				go func() {
					final := Location{Group: 10, Object: 3}
					require.NoError(t, s.SubscribeDone(sub.ID, wire.SubscribeDoneTrackEnded, "ended", &final))
				}()
			},
		)),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	track, err := p.client.Subscribe(ctx, "namespace", "track")
	require.NoError(t, err)

	_, err = track.ReadObject(ctx)
	var done *ErrSubscribeDone
	require.ErrorAs(t, err, &done)
	assert.Equal(t, wire.SubscribeDoneTrackEnded, done.StatusCode)
	final, ok := track.Final()
	assert.True(t, ok)
	assert.Equal(t, Location{Group: 10, Object: 3}, final)
}

func TestUnsubscribe(t *testing.T) {
	p := setupSessions(t, nil, []SessionOption{
		OnSubscription(SubscriptionHandlerFunc(
			func(s *Session, sub Subscription, w SubscriptionResponseWriter) {
				require.NoError(t, w.Accept())
			},
		)),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	track, err := p.client.Subscribe(ctx, "namespace", "track")
	require.NoError(t, err)
	require.NoError(t, track.Close())

	_, err = track.ReadObject(ctx)
	assert.ErrorIs(t, err, ErrUnsubscribed)
}

func TestAnnounce(t *testing.T) {
	p := setupSessions(t, nil, []SessionOption{
		OnAnnouncement(AnnouncementHandlerFunc(
			func(s *Session, a Announcement, w AnnouncementResponseWriter) {
				if a.Namespace == "good" {
					w.Accept()
					return
				}
				w.Reject(1, "unknown")
			},
		)),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.client.Announce(ctx, "good"))

	err := p.client.Announce(ctx, "bad")
	var ae *AnnounceError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, uint64(1), ae.Code)

	require.NoError(t, p.client.Unannounce("good"))
	assert.Error(t, p.client.Unannounce("never-announced"))
}

func TestTrackStatus(t *testing.T) {
	p := setupSessions(t, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		ev, err := p.server.ReadControlEvent(ctx)
		require.NoError(t, err)
		req, ok := ev.(TrackStatusRequestEvent)
		require.True(t, ok)
		require.NoError(t, p.server.SendTrackStatus(TrackStatus{
			Name:       req.Name,
			StatusCode: TrackStatusInProgress,
			Latest:     Location{Group: 7, Object: 2},
		}))
	}()

	ts, err := p.client.RequestTrackStatus(ctx, FullTrackName{Namespace: "ns", Name: "tr"})
	require.NoError(t, err)
	assert.Equal(t, TrackStatusInProgress, ts.StatusCode)
	assert.Equal(t, Location{Group: 7, Object: 2}, ts.Latest)
	<-done
}

func TestGoAway(t *testing.T) {
	p := setupSessions(t, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, p.server.GoAway("moq://elsewhere"))
	ev, err := p.client.ReadControlEvent(ctx)
	require.NoError(t, err)
	assert.Equal(t, GoAwayEvent{NewSessionURI: "moq://elsewhere"}, ev)

	// New subscribes are refused while the session drains.
	_, err = p.client.Subscribe(ctx, "namespace", "track")
	assert.ErrorIs(t, err, ErrGoingAway)
	assert.ErrorIs(t, p.client.Announce(ctx, "ns"), ErrGoingAway)
}

func TestCloseIsIdempotent(t *testing.T) {
	p := setupSessions(t, nil, nil)
	require.NoError(t, p.client.Close())
	require.NoError(t, p.client.Close())
	_, err := p.client.ReadControlEvent(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestClosedSessionCancelsPendingSubscribe(t *testing.T) {
	block := make(chan struct{})
	p := setupSessions(t, nil, []SessionOption{
		OnSubscription(SubscriptionHandlerFunc(
			func(s *Session, sub Subscription, w SubscriptionResponseWriter) {
				<-block
				w.Reject(0, "late")
			},
		)),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		_, err := p.client.Subscribe(ctx, "namespace", "track")
		errCh <- err
	}()
	time.Sleep(10 * time.Millisecond)
	p.client.Close()
	err := <-errCh
	assert.ErrorIs(t, err, ErrSessionClosed)
	close(block)
}

func TestSubscriptionExpires(t *testing.T) {
	p := setupSessions(t, nil, []SessionOption{
		OnSubscription(SubscriptionHandlerFunc(
			func(s *Session, sub Subscription, w SubscriptionResponseWriter) {
				require.NoError(t, w.AcceptWithOptions(SubscribeOkOptions{Expires: 10}))
			},
		)),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	track, err := p.client.Subscribe(ctx, "namespace", "track")
	require.NoError(t, err)

	_, err = track.ReadObject(ctx)
	assert.ErrorIs(t, err, ErrSubscriptionExpired)
}

func TestDuplicateSubscribeIDClosesSession(t *testing.T) {
	p := setupSessions(t, nil, []SessionOption{
		OnSubscription(SubscriptionHandlerFunc(
			func(s *Session, sub Subscription, w SubscriptionResponseWriter) {
				require.NoError(t, w.Accept())
			},
		)),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := p.client.Subscribe(ctx, "namespace", "track")
	require.NoError(t, err)

	// Replay the same subscribe ID directly on the control stream.
	p.client.cs.enqueue(&wire.SubscribeMessage{
		SubscribeID:    0,
		TrackAlias:     99,
		TrackNamespace: "namespace",
		TrackName:      "track",
		LocationType:   LocationTypeLatestGroup,
		Parameters:     wire.Parameters{},
	})
	select {
	case <-p.server.Context().Done():
	case <-ctx.Done():
		t.Fatal("expected server session to close on duplicate subscribe ID")
	}
	cause := context.Cause(p.server.Context())
	var pe ProtocolError
	require.ErrorAs(t, cause, &pe)
	assert.Equal(t, ErrorCodeProtocolViolation, pe.Code())
}
