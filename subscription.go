package moqt

// Subscription is an incoming SUBSCRIBE awaiting the application's decision.
type Subscription struct {
	ID                 uint64
	TrackAlias         uint64
	Namespace          string
	TrackName          string
	SubscriberPriority uint8
	GroupOrder         GroupOrder
	LocationType       LocationType
	Start              Location
	End                Location
	Authorization      string
}

// SubscribeOkOptions customizes the SUBSCRIBE_OK sent by Accept.
type SubscribeOkOptions struct {
	Expires    int64 // milliseconds, 0 = never
	GroupOrder GroupOrder
	Latest     *Location
}

// SubscriptionResponseWriter answers one incoming subscription. Exactly one
// of Accept or Reject must be called.
type SubscriptionResponseWriter interface {
	Accept() error
	AcceptWithOptions(SubscribeOkOptions) error
	Reject(code uint64, reason string) error
}

type defaultSubscriptionResponseWriter struct {
	subscription Subscription
	session      *Session
	handled      bool
}

func (w *defaultSubscriptionResponseWriter) Accept() error {
	return w.AcceptWithOptions(SubscribeOkOptions{})
}

func (w *defaultSubscriptionResponseWriter) AcceptWithOptions(opts SubscribeOkOptions) error {
	w.handled = true
	return w.session.acceptSubscription(w.subscription, opts)
}

func (w *defaultSubscriptionResponseWriter) Reject(code uint64, reason string) error {
	w.handled = true
	return w.session.rejectSubscription(w.subscription, code, reason)
}

// SubscriptionHandler decides whether an incoming subscription is served.
type SubscriptionHandler interface {
	HandleSubscription(*Session, Subscription, SubscriptionResponseWriter)
}

type SubscriptionHandlerFunc func(*Session, Subscription, SubscriptionResponseWriter)

func (f SubscriptionHandlerFunc) HandleSubscription(s *Session, sub Subscription, srw SubscriptionResponseWriter) {
	f(s, sub, srw)
}
