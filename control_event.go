package moqt

// ControlEvent is a control message the session surfaces to the application
// instead of consuming itself.
type ControlEvent interface {
	controlEvent()
}

// UnannounceEvent reports that the peer retired a namespace.
type UnannounceEvent struct {
	Namespace string
}

// AnnounceCancelEvent reports that the peer cancelled one of our
// announcements.
type AnnounceCancelEvent struct {
	Namespace string
	ErrorCode uint64
	Reason    string
}

// TrackStatusRequestEvent asks the application to answer with
// SendTrackStatus.
type TrackStatusRequestEvent struct {
	Name FullTrackName
}

// GoAwayEvent reports that the peer wants the session migrated.
type GoAwayEvent struct {
	NewSessionURI string
}

func (UnannounceEvent) controlEvent() {}
func (AnnounceCancelEvent) controlEvent() {}
func (TrackStatusRequestEvent) controlEvent() {}
func (GoAwayEvent) controlEvent() {}

var (
	_ ControlEvent = UnannounceEvent{}
	_ ControlEvent = AnnounceCancelEvent{}
	_ ControlEvent = TrackStatusRequestEvent{}
	_ ControlEvent = GoAwayEvent{}
)

// TrackStatus is the answer to a track status request.
type TrackStatus struct {
	Name       FullTrackName
	StatusCode TrackStatusCode
	Latest     Location
}
