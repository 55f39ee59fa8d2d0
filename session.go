package moqt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/moqtools/moqt/internal/wire"
)

const defaultSetupTimeout = 5 * time.Second

type sessionOptions struct {
	role                Role
	path                string
	setupTimeout        time.Duration
	enableDatagrams     bool
	subscriptionHandler SubscriptionHandler
	announcementHandler AnnouncementHandler
}

type SessionOption func(*sessionOptions)

// WithRole sets the role announced in the setup parameters.
func WithRole(r Role) SessionOption {
	return func(o *sessionOptions) { o.role = r }
}

// WithPath sets the path setup parameter sent by clients on raw QUIC.
func WithPath(path string) SessionOption {
	return func(o *sessionOptions) { o.path = path }
}

// WithSetupTimeout bounds the setup handshake.
func WithSetupTimeout(d time.Duration) SessionOption {
	return func(o *sessionOptions) { o.setupTimeout = d }
}

// WithDatagrams enables receiving objects on datagrams.
func WithDatagrams() SessionOption {
	return func(o *sessionOptions) { o.enableDatagrams = true }
}

// OnSubscription installs the handler for incoming subscriptions.
func OnSubscription(h SubscriptionHandler) SessionOption {
	return func(o *sessionOptions) { o.subscriptionHandler = h }
}

// OnAnnouncement installs the handler for incoming announcements.
func OnAnnouncement(h AnnouncementHandler) SessionOption {
	return func(o *sessionOptions) { o.announcementHandler = h }
}

type pendingAnnouncement struct {
	responseCh chan error
}

// Session drives one MoQ Transport connection: the setup handshake, the
// subscribe and announce lifecycles on the control stream, and the delivery
// of objects between data streams and subscriptions.
type Session struct {
	logger      *slog.Logger
	conn        Connection
	perspective Perspective
	opts        sessionOptions

	ctx       context.Context
	cancelCtx context.CancelCauseFunc
	closeOnce sync.Once

	cs *controlStream

	version wire.Version

	controlEvents *queue[ControlEvent]

	lock                 sync.Mutex
	nextSubscribeID      uint64
	nextTrackAlias       uint64
	pendingSubscriptions map[uint64]chan wire.ControlMessage
	subscriptions        map[uint64]*RemoteTrack
	pendingAnnouncements map[string]*pendingAnnouncement
	announced            map[string]struct{}
	pendingTrackStatus   map[FullTrackName]chan *TrackStatus
	goAwayReceived       bool

	pubTracks   map[uint64]*publication
	pubAliases  map[uint64]uint64
	publishData map[publishKey]*publishData
}

// ClientSession opens the control stream on conn, performs the setup
// handshake and starts the session.
func ClientSession(ctx context.Context, conn Connection, opts ...SessionOption) (*Session, error) {
	s := newSession(conn, PerspectiveClient, opts...)
	ctrlStream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening control stream failed: %w", err)
	}
	p := wire.NewControlMessageParser(ctrlStream)
	csm := &wire.ClientSetupMessage{
		SupportedVersions: wire.SupportedVersions,
		SetupParameters:   s.setupParameters(),
	}
	if err := writeMessage(ctrlStream, csm); err != nil {
		return nil, fmt.Errorf("sending CLIENT_SETUP failed: %w", err)
	}
	msg, err := s.readSetupMessage(p)
	if err != nil {
		return nil, err
	}
	ssm, ok := msg.(*wire.ServerSetupMessage)
	if !ok {
		conn.CloseWithError(ErrorCodeProtocolViolation, "received unexpected first message on control stream")
		return nil, errUnexpectedMessage
	}
	if _, ok := wire.SelectVersion(wire.SupportedVersions, []wire.Version{ssm.SelectedVersion}); !ok {
		conn.CloseWithError(ErrorCodeProtocolViolation, "server selected unsupported version")
		return nil, errUnsupportedVersion
	}
	s.version = ssm.SelectedVersion
	s.start(ctrlStream, p)
	return s, nil
}

// ServerSession accepts the control stream on conn, performs the setup
// handshake and starts the session.
func ServerSession(ctx context.Context, conn Connection, opts ...SessionOption) (*Session, error) {
	s := newSession(conn, PerspectiveServer, opts...)
	ctrlStream, err := conn.AcceptStream(ctx)
	if err != nil {
		return nil, fmt.Errorf("accepting control stream failed: %w", err)
	}
	p := wire.NewControlMessageParser(ctrlStream)
	msg, err := s.readSetupMessage(p)
	if err != nil {
		return nil, err
	}
	csm, ok := msg.(*wire.ClientSetupMessage)
	if !ok {
		conn.CloseWithError(ErrorCodeProtocolViolation, "received unexpected first message on control stream")
		return nil, errUnexpectedMessage
	}
	version, ok := wire.SelectVersion(wire.SupportedVersions, csm.SupportedVersions)
	if !ok {
		conn.CloseWithError(ErrorCodeProtocolViolation, "no mutually supported version")
		return nil, errUnsupportedVersion
	}
	s.version = version
	ssm := &wire.ServerSetupMessage{
		SelectedVersion: version,
		SetupParameters: wire.Parameters{
			wire.RoleParameterKey: wire.VarintParameter{
				K: wire.RoleParameterKey,
				V: uint64(s.opts.role),
			},
		},
	}
	if err := writeMessage(ctrlStream, ssm); err != nil {
		return nil, fmt.Errorf("sending SERVER_SETUP failed: %w", err)
	}
	s.start(ctrlStream, p)
	return s, nil
}

func newSession(conn Connection, perspective Perspective, opts ...SessionOption) *Session {
	options := sessionOptions{
		role:         RolePubSub,
		setupTimeout: defaultSetupTimeout,
	}
	for _, o := range opts {
		o(&options)
	}
	ctx, cancelCtx := context.WithCancelCause(context.Background())
	return &Session{
		logger:               defaultLogger.With("component", "MOQ_SESSION", "perspective", perspective),
		conn:                 conn,
		perspective:          perspective,
		opts:                 options,
		ctx:                  ctx,
		cancelCtx:            cancelCtx,
		controlEvents:        newQueue[ControlEvent](64),
		pendingSubscriptions: map[uint64]chan wire.ControlMessage{},
		subscriptions:        map[uint64]*RemoteTrack{},
		pendingAnnouncements: map[string]*pendingAnnouncement{},
		announced:            map[string]struct{}{},
		pendingTrackStatus:   map[FullTrackName]chan *TrackStatus{},
		pubTracks:            map[uint64]*publication{},
		pubAliases:           map[uint64]uint64{},
		publishData:          map[publishKey]*publishData{},
	}
}

func (s *Session) setupParameters() wire.Parameters {
	params := wire.Parameters{
		wire.RoleParameterKey: wire.VarintParameter{
			K: wire.RoleParameterKey,
			V: uint64(s.opts.role),
		},
	}
	if s.opts.path != "" {
		params[wire.PathParameterKey] = wire.StringParameter{
			K: wire.PathParameterKey,
			V: s.opts.path,
		}
	}
	return params
}

// readSetupMessage reads the peer's setup message within the setup timeout.
func (s *Session) readSetupMessage(p parser) (wire.ControlMessage, error) {
	type result struct {
		msg wire.ControlMessage
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		msg, err := p.Parse()
		resultCh <- result{msg, err}
	}()
	select {
	case r := <-resultCh:
		if r.err != nil {
			s.conn.CloseWithError(ErrorCodeProtocolViolation, "setup failed")
			return nil, r.err
		}
		return r.msg, nil
	case <-time.After(s.opts.setupTimeout):
		s.conn.CloseWithError(ErrorCodeInternal, "setup timeout")
		return nil, errSetupTimeout
	}
}

func (s *Session) start(ctrlStream Stream, p parser) {
	s.cs = newControlStream(ctrlStream, p, s.handleControlMessage, s.fatal)
	go s.acceptUniStreams()
	if s.opts.enableDatagrams {
		go s.acceptDatagrams()
	}
}

// Version returns the negotiated protocol version.
func (s *Session) Version() uint64 {
	return uint64(s.version)
}

// Context is done when the session has been closed.
func (s *Session) Context() context.Context {
	return s.ctx
}

// ReadControlEvent returns the next control message the session does not
// consume itself.
func (s *Session) ReadControlEvent(ctx context.Context) (ControlEvent, error) {
	select {
	case <-s.ctx.Done():
		return nil, context.Cause(s.ctx)
	default:
	}
	return s.controlEvents.dequeue(ctx)
}

// fatal closes the session after an unrecoverable error. Protocol errors
// carry their close code, everything else is an internal error.
func (s *Session) fatal(err error) {
	code := ErrorCodeInternal
	message := "internal error"
	var pe ProtocolError
	if errors.As(err, &pe) {
		code = pe.Code()
		message = pe.Error()
	}
	s.closeWithError(code, message, err)
}

// Close tears the session down. Pending requests resolve with
// ErrSessionClosed. Close is idempotent.
func (s *Session) Close() error {
	s.closeWithError(ErrorCodeNoError, "", ErrSessionClosed)
	return nil
}

func (s *Session) closeWithError(code uint64, message string, cause error) {
	s.closeOnce.Do(func() {
		s.cancelCtx(cause)
		s.lock.Lock()
		pendingSubscriptions := s.pendingSubscriptions
		subscriptions := s.subscriptions
		pendingAnnouncements := s.pendingAnnouncements
		pendingTrackStatus := s.pendingTrackStatus
		s.pendingSubscriptions = map[uint64]chan wire.ControlMessage{}
		s.subscriptions = map[uint64]*RemoteTrack{}
		s.pendingAnnouncements = map[string]*pendingAnnouncement{}
		s.pendingTrackStatus = map[FullTrackName]chan *TrackStatus{}
		s.pubTracks = map[uint64]*publication{}
		for _, pd := range s.publishData {
			if pd.stream != nil {
				pd.stream.Close()
			}
		}
		s.publishData = map[publishKey]*publishData{}
		s.lock.Unlock()

		for _, ch := range pendingSubscriptions {
			close(ch)
		}
		for _, a := range pendingAnnouncements {
			close(a.responseCh)
		}
		for _, ch := range pendingTrackStatus {
			close(ch)
		}
		for _, sub := range subscriptions {
			sub.done(cause)
		}
		if s.cs != nil {
			s.cs.close()
		}
		s.conn.CloseWithError(code, message)
	})
}

func (s *Session) acceptUniStreams() {
	for {
		stream, err := s.conn.AcceptUniStream(s.ctx)
		if err != nil {
			return
		}
		go s.handleUniStream(stream)
	}
}

func (s *Session) acceptDatagrams() {
	for {
		dgram, err := s.conn.ReceiveDatagram(s.ctx)
		if err != nil {
			return
		}
		go s.handleDatagram(dgram)
	}
}

func (s *Session) handleUniStream(stream ReceiveStream) {
	p, err := wire.NewObjectStreamParser(stream)
	if err != nil {
		s.logger.Error("failed to parse data stream header", "error", err)
		if errors.Is(err, wire.ErrUnknownMessageType) {
			s.fatal(errUnexpectedMessage)
		}
		return
	}
	switch p.Type() {
	case wire.ObjectStreamMessageType:
		s.readSingleObjectStream(p)
	case wire.StreamHeaderTrackMessageType, wire.StreamHeaderGroupMessageType:
		s.readMultiObjectStream(p)
	default:
		s.fatal(errUnexpectedMessage)
	}
}

func (s *Session) handleDatagram(dgram []byte) {
	p, err := wire.NewObjectStreamParser(bytes.NewReader(dgram))
	if err != nil {
		s.logger.Error("failed to parse datagram", "error", err)
		return
	}
	if p.Type() != wire.ObjectDatagramMessageType {
		s.logger.Error("dropping datagram with unexpected type", "type", p.Type())
		return
	}
	hdr := p.Header()
	sub, ok := s.lookupSubscription(hdr.SubscribeID)
	if !ok {
		s.logger.Warn("dropping datagram for unknown subscription", "id", hdr.SubscribeID)
		return
	}
	payload, err := io.ReadAll(p.PayloadReader())
	if err != nil {
		return
	}
	hdr.ObjectPayload = payload
	sub.push(newObject(&hdr))
}

// readSingleObjectStream delivers the stream's one object immediately and
// streams its payload in bounded chunks until FIN.
func (s *Session) readSingleObjectStream(p *wire.ObjectStreamParser) {
	hdr := p.Header()
	sub, ok := s.lookupSubscription(hdr.SubscribeID)
	if !ok {
		s.logger.Warn("dropping object stream for unknown subscription", "id", hdr.SubscribeID)
		return
	}
	ps := newPayloadStream()
	if !sub.push(&Object{
		GroupID:           hdr.GroupID,
		ObjectID:          hdr.ObjectID,
		PublisherPriority: hdr.PublisherPriority,
		Status:            hdr.ObjectStatus,
		payload:           ps,
	}) {
		// Nobody will ever read this object, drain the stream.
		io.Copy(io.Discard, p.PayloadReader())
		return
	}
	r := p.PayloadReader()
	for {
		buf := make([]byte, 4096)
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case ps.chunks <- buf[:n]:
			case <-s.ctx.Done():
				ps.close(context.Cause(s.ctx))
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				ps.close(nil)
			} else {
				ps.close(err)
			}
			return
		}
	}
}

func (s *Session) readMultiObjectStream(p *wire.ObjectStreamParser) {
	hdr := p.Header()
	sub, ok := s.lookupSubscription(hdr.SubscribeID)
	if !ok {
		s.logger.Warn("dropping data stream for unknown subscription", "id", hdr.SubscribeID)
		return
	}
	for {
		m, err := p.Parse()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			// A broken data stream fails only the owning subscription.
			s.logger.Error("data stream failed", "error", err, "id", hdr.SubscribeID)
			sub.done(err)
			return
		}
		sub.push(newObject(m))
	}
}

func (s *Session) lookupSubscription(id uint64) (*RemoteTrack, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	sub, ok := s.subscriptions[id]
	return sub, ok
}

func (s *Session) handleControlMessage(msg wire.ControlMessage) error {
	switch m := msg.(type) {
	case *wire.ClientSetupMessage, *wire.ServerSetupMessage:
		return errUnexpectedMessage
	case *wire.SubscribeMessage:
		return s.handleSubscribe(m)
	case *wire.SubscribeUpdateMessage:
		return s.handleSubscribeUpdate(m)
	case *wire.SubscribeOkMessage:
		return s.handleSubscriptionResponse(m.SubscribeID, m)
	case *wire.SubscribeErrorMessage:
		return s.handleSubscriptionResponse(m.SubscribeID, m)
	case *wire.UnsubscribeMessage:
		return s.handleUnsubscribe(m)
	case *wire.SubscribeDoneMessage:
		return s.handleSubscribeDone(m)
	case *wire.AnnounceMessage:
		return s.handleAnnounce(m)
	case *wire.AnnounceOkMessage:
		return s.handleAnnouncementResponse(m.TrackNamespace, nil)
	case *wire.AnnounceErrorMessage:
		return s.handleAnnouncementResponse(m.TrackNamespace, &AnnounceError{
			Code:   m.ErrorCode,
			Reason: m.ReasonPhrase,
		})
	case *wire.UnannounceMessage:
		return s.controlEvents.enqueue(s.ctx, UnannounceEvent{Namespace: m.TrackNamespace})
	case *wire.AnnounceCancelMessage:
		s.lock.Lock()
		delete(s.announced, m.TrackNamespace)
		s.lock.Unlock()
		return s.controlEvents.enqueue(s.ctx, AnnounceCancelEvent{
			Namespace: m.TrackNamespace,
			ErrorCode: m.ErrorCode,
			Reason:    m.ReasonPhrase,
		})
	case *wire.TrackStatusRequestMessage:
		return s.controlEvents.enqueue(s.ctx, TrackStatusRequestEvent{
			Name: FullTrackName{Namespace: m.TrackNamespace, Name: m.TrackName},
		})
	case *wire.TrackStatusMessage:
		return s.handleTrackStatus(m)
	case *wire.GoAwayMessage:
		s.lock.Lock()
		s.goAwayReceived = true
		s.lock.Unlock()
		return s.controlEvents.enqueue(s.ctx, GoAwayEvent{NewSessionURI: m.NewSessionURI})
	}
	return errUnexpectedMessage
}

// Subscribe requests a range of a track and blocks until the peer accepts or
// rejects it. On rejection the returned error is a *SubscribeError.
func (s *Session) Subscribe(ctx context.Context, namespace, trackname string, opts ...SubscribeOption) (*RemoteTrack, error) {
	options := subscribeOptions{
		locationType: LocationTypeLatestGroup,
	}
	for _, o := range opts {
		o(&options)
	}
	s.lock.Lock()
	if s.goAwayReceived {
		s.lock.Unlock()
		return nil, ErrGoingAway
	}
	id := s.nextSubscribeID
	s.nextSubscribeID++
	alias := s.nextTrackAlias
	s.nextTrackAlias++
	responseCh := make(chan wire.ControlMessage, 1)
	s.pendingSubscriptions[id] = responseCh
	sub := newRemoteTrack(id, alias, FullTrackName{Namespace: namespace, Name: trackname}, s)
	s.subscriptions[id] = sub
	s.lock.Unlock()

	sm := &wire.SubscribeMessage{
		SubscribeID:        id,
		TrackAlias:         alias,
		TrackNamespace:     namespace,
		TrackName:          trackname,
		SubscriberPriority: options.priority,
		GroupOrder:         options.groupOrder,
		LocationType:       options.locationType,
		Start:              options.start,
		End:                options.end,
		Parameters:         wire.Parameters{},
	}
	if options.authorization != "" {
		sm.Parameters[wire.AuthorizationParameterKey] = wire.StringParameter{
			K: wire.AuthorizationParameterKey,
			V: options.authorization,
		}
	}
	s.cs.enqueue(sm)

	var resp wire.ControlMessage
	var ok bool
	select {
	case <-ctx.Done():
		s.removeSubscription(id)
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, context.Cause(s.ctx)
	case resp, ok = <-responseCh:
		if !ok {
			return nil, ErrSessionClosed
		}
	}
	switch v := resp.(type) {
	case *wire.SubscribeOkMessage:
		if v.ContentExists {
			sub.setLatest(v.Latest)
		}
		if v.Expires > 0 {
			sub.armExpiry(v.Expires, func() { s.expireSubscription(id) })
		}
		return sub, nil
	case *wire.SubscribeErrorMessage:
		s.removeSubscription(id)
		se := &SubscribeError{
			Code:   v.ErrorCode,
			Reason: v.ReasonPhrase,
		}
		if v.ErrorCode == wire.SubscribeErrorRetryTrackAlias {
			se.RetryTrackAlias = v.RetryTrackAlias
		}
		return nil, se
	}
	return nil, errUnexpectedMessage
}

// Unsubscribe ends a subscription from the subscriber side.
func (s *Session) Unsubscribe(id uint64) error {
	return s.unsubscribe(id)
}

func (s *Session) unsubscribe(id uint64) error {
	sub, ok := s.removeSubscription(id)
	if !ok {
		return errUnknownSubscribeID
	}
	s.cs.enqueue(&wire.UnsubscribeMessage{SubscribeID: id})
	sub.done(ErrUnsubscribed)
	return nil
}

// SubscribeUpdate adjusts the range and priority of an open subscription.
func (s *Session) SubscribeUpdate(id uint64, start, end Location, priority uint8) error {
	s.lock.Lock()
	_, ok := s.subscriptions[id]
	s.lock.Unlock()
	if !ok {
		return errUnknownSubscribeID
	}
	s.cs.enqueue(&wire.SubscribeUpdateMessage{
		SubscribeID:        id,
		Start:              start,
		End:                end,
		SubscriberPriority: priority,
		Parameters:         wire.Parameters{},
	})
	return nil
}

func (s *Session) expireSubscription(id uint64) {
	sub, ok := s.removeSubscription(id)
	if !ok {
		return
	}
	s.cs.enqueue(&wire.UnsubscribeMessage{SubscribeID: id})
	sub.done(ErrSubscriptionExpired)
}

func (s *Session) removeSubscription(id uint64) (*RemoteTrack, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	sub, ok := s.subscriptions[id]
	delete(s.subscriptions, id)
	delete(s.pendingSubscriptions, id)
	return sub, ok
}

func (s *Session) handleSubscriptionResponse(id uint64, msg wire.ControlMessage) error {
	s.lock.Lock()
	ch, ok := s.pendingSubscriptions[id]
	delete(s.pendingSubscriptions, id)
	s.lock.Unlock()
	if !ok {
		// The subscribe was cancelled or expired while the answer was in
		// flight.
		s.logger.Info("dropping response for unknown subscription", "id", id)
		return nil
	}
	ch <- msg
	return nil
}

func (s *Session) handleSubscribeDone(m *wire.SubscribeDoneMessage) error {
	sub, ok := s.removeSubscription(m.SubscribeID)
	if !ok {
		// Raced with a local unsubscribe, nothing left to resolve.
		return nil
	}
	if m.ContentExists {
		sub.setFinal(m.Final)
	}
	sub.done(&ErrSubscribeDone{
		StatusCode: m.StatusCode,
		Reason:     m.ReasonPhrase,
	})
	return nil
}

func (s *Session) handleSubscribe(m *wire.SubscribeMessage) error {
	s.lock.Lock()
	if _, ok := s.pubTracks[m.SubscribeID]; ok {
		s.lock.Unlock()
		return errDuplicateSubscribe
	}
	for _, alias := range s.pubAliases {
		if alias == m.TrackAlias {
			s.lock.Unlock()
			return errDuplicateTrackAlias
		}
	}
	goingAway := s.goAwayReceived
	s.lock.Unlock()

	sub := Subscription{
		ID:                 m.SubscribeID,
		TrackAlias:         m.TrackAlias,
		Namespace:          m.TrackNamespace,
		TrackName:          m.TrackName,
		SubscriberPriority: m.SubscriberPriority,
		GroupOrder:         m.GroupOrder,
		LocationType:       m.LocationType,
		Start:              m.Start,
		End:                m.End,
	}
	if p, ok := m.Parameters[wire.AuthorizationParameterKey]; ok {
		if sp, ok := p.(wire.StringParameter); ok {
			sub.Authorization = sp.V
		}
	}
	if goingAway || s.opts.subscriptionHandler == nil {
		return s.rejectSubscription(sub, wire.SubscribeErrorTrackNotExist, "track not available")
	}
	go s.opts.subscriptionHandler.HandleSubscription(s, sub, &defaultSubscriptionResponseWriter{
		subscription: sub,
		session:      s,
	})
	return nil
}

func (s *Session) acceptSubscription(sub Subscription, opts SubscribeOkOptions) error {
	order := opts.GroupOrder
	if order == GroupOrderDefault {
		order = sub.GroupOrder
	}
	if order == GroupOrderDefault {
		order = GroupOrderOldestFirst
	}
	s.lock.Lock()
	s.pubTracks[sub.ID] = &publication{
		trackAlias: sub.TrackAlias,
		priority:   sub.SubscriberPriority,
		groupOrder: order,
	}
	s.pubAliases[sub.ID] = sub.TrackAlias
	s.lock.Unlock()
	som := &wire.SubscribeOkMessage{
		SubscribeID: sub.ID,
		Expires:     time.Duration(opts.Expires) * time.Millisecond,
		GroupOrder:  order,
		Parameters:  wire.Parameters{},
	}
	if opts.Latest != nil {
		som.ContentExists = true
		som.Latest = *opts.Latest
	}
	s.cs.enqueue(som)
	return nil
}

func (s *Session) rejectSubscription(sub Subscription, code uint64, reason string) error {
	s.cs.enqueue(&wire.SubscribeErrorMessage{
		SubscribeID:     sub.ID,
		ErrorCode:       code,
		ReasonPhrase:    reason,
		RetryTrackAlias: sub.TrackAlias,
	})
	return nil
}

func (s *Session) handleSubscribeUpdate(m *wire.SubscribeUpdateMessage) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	pub, ok := s.pubTracks[m.SubscribeID]
	if !ok {
		return errUnknownSubscribeID
	}
	pub.priority = m.SubscriberPriority
	return nil
}

func (s *Session) handleUnsubscribe(m *wire.UnsubscribeMessage) error {
	s.lock.Lock()
	_, ok := s.pubTracks[m.SubscribeID]
	s.lock.Unlock()
	if !ok {
		return errUnknownSubscribeID
	}
	return s.SubscribeDone(m.SubscribeID, wire.SubscribeDoneUnsubscribed, "unsubscribed", nil)
}

// SubscribeDone ends a publication and tells the subscriber why.
func (s *Session) SubscribeDone(id uint64, statusCode uint64, reason string, final *Location) error {
	s.lock.Lock()
	delete(s.pubTracks, id)
	delete(s.pubAliases, id)
	for key, pd := range s.publishData {
		if key.subscribeID != id {
			continue
		}
		if pd.stream != nil {
			pd.stream.Close()
		}
		delete(s.publishData, key)
	}
	s.lock.Unlock()
	sdm := &wire.SubscribeDoneMessage{
		SubscribeID:  id,
		StatusCode:   statusCode,
		ReasonPhrase: reason,
	}
	if final != nil {
		sdm.ContentExists = true
		sdm.Final = *final
	}
	s.cs.enqueue(sdm)
	return nil
}

// Announce offers a namespace to the peer and blocks until it answers. On
// rejection the returned error is an *AnnounceError.
func (s *Session) Announce(ctx context.Context, namespace string) error {
	s.lock.Lock()
	if s.goAwayReceived {
		s.lock.Unlock()
		return ErrGoingAway
	}
	a := &pendingAnnouncement{responseCh: make(chan error, 1)}
	s.pendingAnnouncements[namespace] = a
	s.lock.Unlock()

	s.cs.enqueue(&wire.AnnounceMessage{
		TrackNamespace: namespace,
		Parameters:     wire.Parameters{},
	})
	select {
	case <-ctx.Done():
		s.lock.Lock()
		delete(s.pendingAnnouncements, namespace)
		s.lock.Unlock()
		return ctx.Err()
	case <-s.ctx.Done():
		return context.Cause(s.ctx)
	case err, ok := <-a.responseCh:
		if !ok {
			return ErrSessionClosed
		}
		if err != nil {
			return err
		}
	}
	s.lock.Lock()
	s.announced[namespace] = struct{}{}
	s.lock.Unlock()
	return nil
}

// Unannounce retires a previously announced namespace.
func (s *Session) Unannounce(namespace string) error {
	s.lock.Lock()
	_, ok := s.announced[namespace]
	delete(s.announced, namespace)
	s.lock.Unlock()
	if !ok {
		return errUnknownNamespace
	}
	s.cs.enqueue(&wire.UnannounceMessage{TrackNamespace: namespace})
	return nil
}

func (s *Session) handleAnnouncementResponse(namespace string, answer error) error {
	s.lock.Lock()
	a, ok := s.pendingAnnouncements[namespace]
	delete(s.pendingAnnouncements, namespace)
	s.lock.Unlock()
	if !ok {
		return ProtocolError{
			code:    ErrorCodeProtocolViolation,
			message: "received response to an unknown announcement",
		}
	}
	a.responseCh <- answer
	return nil
}

func (s *Session) handleAnnounce(m *wire.AnnounceMessage) error {
	a := Announcement{Namespace: m.TrackNamespace}
	if p, ok := m.Parameters[wire.AuthorizationParameterKey]; ok {
		if sp, ok := p.(wire.StringParameter); ok {
			a.Authorization = sp.V
		}
	}
	if s.opts.announcementHandler == nil {
		return s.rejectAnnouncement(a, ErrorCodeInternal, "no announcement handler")
	}
	go s.opts.announcementHandler.HandleAnnouncement(s, a, &defaultAnnouncementResponseWriter{
		announcement: a,
		session:      s,
	})
	return nil
}

func (s *Session) acceptAnnouncement(a Announcement) error {
	s.cs.enqueue(&wire.AnnounceOkMessage{TrackNamespace: a.Namespace})
	return nil
}

func (s *Session) rejectAnnouncement(a Announcement, code uint64, reason string) error {
	s.cs.enqueue(&wire.AnnounceErrorMessage{
		TrackNamespace: a.Namespace,
		ErrorCode:      code,
		ReasonPhrase:   reason,
	})
	return nil
}

// AnnounceCancel cancels an announcement received from the peer.
func (s *Session) AnnounceCancel(namespace string, code uint64, reason string) error {
	s.cs.enqueue(&wire.AnnounceCancelMessage{
		TrackNamespace: namespace,
		ErrorCode:      code,
		ReasonPhrase:   reason,
	})
	return nil
}

// RequestTrackStatus asks the peer for the status of a track.
func (s *Session) RequestTrackStatus(ctx context.Context, name FullTrackName) (*TrackStatus, error) {
	ch := make(chan *TrackStatus, 1)
	s.lock.Lock()
	s.pendingTrackStatus[name] = ch
	s.lock.Unlock()
	s.cs.enqueue(&wire.TrackStatusRequestMessage{
		TrackNamespace: name.Namespace,
		TrackName:      name.Name,
	})
	select {
	case <-ctx.Done():
		s.lock.Lock()
		delete(s.pendingTrackStatus, name)
		s.lock.Unlock()
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, context.Cause(s.ctx)
	case ts, ok := <-ch:
		if !ok {
			return nil, ErrSessionClosed
		}
		return ts, nil
	}
}

// SendTrackStatus answers a TrackStatusRequestEvent.
func (s *Session) SendTrackStatus(ts TrackStatus) error {
	s.cs.enqueue(&wire.TrackStatusMessage{
		TrackNamespace: ts.Name.Namespace,
		TrackName:      ts.Name.Name,
		StatusCode:     ts.StatusCode,
		Latest:         ts.Latest,
	})
	return nil
}

func (s *Session) handleTrackStatus(m *wire.TrackStatusMessage) error {
	name := FullTrackName{Namespace: m.TrackNamespace, Name: m.TrackName}
	s.lock.Lock()
	ch, ok := s.pendingTrackStatus[name]
	delete(s.pendingTrackStatus, name)
	s.lock.Unlock()
	if !ok {
		// Unsolicited track status is tolerated and dropped.
		return nil
	}
	ts := &TrackStatus{
		Name:       name,
		StatusCode: m.StatusCode,
	}
	// The latest location is only meaningful while the track is live.
	if m.StatusCode == TrackStatusInProgress {
		ts.Latest = m.Latest
	}
	ch <- ts
	return nil
}

// GoAway asks the peer to migrate to a new session.
func (s *Session) GoAway(newSessionURI string) error {
	s.cs.enqueue(&wire.GoAwayMessage{NewSessionURI: newSessionURI})
	return nil
}

func writeMessage(w io.Writer, msg wire.ControlMessage) error {
	buf := make([]byte, 0, 1500)
	buf = msg.Append(buf)
	_, err := w.Write(buf)
	return err
}
