package moqt

// Announcement is an incoming ANNOUNCE awaiting the application's decision.
type Announcement struct {
	Namespace     string
	Authorization string
}

// AnnouncementResponseWriter answers one incoming announcement.
type AnnouncementResponseWriter interface {
	Accept() error
	Reject(code uint64, reason string) error
}

type defaultAnnouncementResponseWriter struct {
	announcement Announcement
	session      *Session
}

func (w *defaultAnnouncementResponseWriter) Accept() error {
	return w.session.acceptAnnouncement(w.announcement)
}

func (w *defaultAnnouncementResponseWriter) Reject(code uint64, reason string) error {
	return w.session.rejectAnnouncement(w.announcement, code, reason)
}

// AnnouncementHandler decides whether an incoming announcement is accepted.
type AnnouncementHandler interface {
	HandleAnnouncement(*Session, Announcement, AnnouncementResponseWriter)
}

type AnnouncementHandlerFunc func(*Session, Announcement, AnnouncementResponseWriter)

func (f AnnouncementHandlerFunc) HandleAnnouncement(s *Session, a Announcement, arw AnnouncementResponseWriter) {
	f(s, a, arw)
}
