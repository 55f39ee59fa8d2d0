package moqt

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type unsubscriber interface {
	unsubscribe(id uint64) error
}

// RemoteTrack is the receive side of a subscription. Objects arrive in wire
// order per data stream and are read with ReadObject.
type RemoteTrack struct {
	logger       *slog.Logger
	subscribeID  uint64
	trackAlias   uint64
	name         FullTrackName
	unsubscriber unsubscriber
	buffer       chan *Object

	doneCtx       context.Context
	doneCtxCancel context.CancelCauseFunc

	mu          sync.Mutex
	latest      Location
	hasLatest   bool
	final       Location
	hasFinal    bool
	expireTimer *time.Timer
}

func newRemoteTrack(id, alias uint64, name FullTrackName, u unsubscriber) *RemoteTrack {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &RemoteTrack{
		logger:        defaultLogger.With("component", "MOQ_REMOTE_TRACK"),
		subscribeID:   id,
		trackAlias:    alias,
		name:          name,
		unsubscriber:  u,
		buffer:        make(chan *Object, 100),
		doneCtx:       ctx,
		doneCtxCancel: cancel,
	}
}

func (t *RemoteTrack) SubscribeID() uint64 {
	return t.subscribeID
}

func (t *RemoteTrack) TrackAlias() uint64 {
	return t.trackAlias
}

func (t *RemoteTrack) Name() FullTrackName {
	return t.name
}

// Latest returns the newest location the publisher has reported for this
// track.
func (t *RemoteTrack) Latest() (Location, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest, t.hasLatest
}

// Final returns the final location reported by SUBSCRIBE_DONE.
func (t *RemoteTrack) Final() (Location, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.final, t.hasFinal
}

// ReadObject returns the next object. Objects buffered before the
// subscription ended are still delivered; afterwards the cause of the end is
// returned.
func (t *RemoteTrack) ReadObject(ctx context.Context) (*Object, error) {
	select {
	case obj := <-t.buffer:
		return obj, nil
	default:
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case obj := <-t.buffer:
		return obj, nil
	case <-t.doneCtx.Done():
		return nil, context.Cause(t.doneCtx)
	}
}

// Close unsubscribes from the track.
func (t *RemoteTrack) Close() error {
	err := t.unsubscriber.unsubscribe(t.subscribeID)
	t.done(ErrUnsubscribed)
	return err
}

func (t *RemoteTrack) push(o *Object) bool {
	select {
	case t.buffer <- o:
		return true
	default:
		t.logger.Info("buffer overflow: dropping incoming object")
		return false
	}
}

func (t *RemoteTrack) setLatest(l Location) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest = l
	t.hasLatest = true
}

func (t *RemoteTrack) setFinal(l Location) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.final = l
	t.hasFinal = true
}

func (t *RemoteTrack) armExpiry(d time.Duration, expire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expireTimer = time.AfterFunc(d, expire)
}

// done ends the read side. The first cause wins, later calls are no-ops.
func (t *RemoteTrack) done(cause error) {
	t.mu.Lock()
	if t.expireTimer != nil {
		t.expireTimer.Stop()
		t.expireTimer = nil
	}
	t.mu.Unlock()
	t.doneCtxCancel(cause)
}
