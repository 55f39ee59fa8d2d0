package moqt

import (
	"errors"
	"fmt"
)

// Session close error codes
const (
	ErrorCodeNoError                 uint64 = 0x00
	ErrorCodeInternal                uint64 = 0x01
	ErrorCodeUnauthorized            uint64 = 0x02
	ErrorCodeProtocolViolation       uint64 = 0x03
	ErrorCodeDuplicateTrackAlias     uint64 = 0x04
	ErrorCodeParameterLengthMismatch uint64 = 0x05
	ErrorCodeGoAwayTimeout           uint64 = 0x10
)

// ProtocolError is a violation of the MoQ Transport protocol. It carries the
// code the session is closed with.
type ProtocolError struct {
	code    uint64
	message string
}

func (e ProtocolError) Error() string {
	return fmt.Sprintf("%v: %v", e.code, e.message)
}

func (e ProtocolError) Code() uint64 {
	return e.code
}

var (
	// ErrSessionClosed is the cause of every operation cancelled by session
	// teardown.
	ErrSessionClosed = errors.New("session closed")

	// ErrGoingAway rejects new subscribes and announces after the peer sent
	// GOAWAY.
	ErrGoingAway = errors.New("session going away")

	// ErrSubscriptionExpired cancels a subscription whose expiry from
	// SUBSCRIBE_OK passed without renewal.
	ErrSubscriptionExpired = errors.New("subscription expired")

	// ErrUnsubscribed ends the local read side of an unsubscribed track.
	ErrUnsubscribed = errors.New("unsubscribed")

	errSetupTimeout        = errors.New("setup timed out")
	errUnsupportedVersion  = errors.New("no mutually supported version")
	errUnknownNamespace    = errors.New("unknown announcement namespace")
	errMidObjectPublish    = errors.New("cannot start publishing in the middle of an object")
	errLengthExceeded      = errors.New("object length exceeds header length")
	errDecreasingGroup     = errors.New("group must not decrease on a track stream")
	errDecreasingObject    = errors.New("object must increase within a group")
	errStatusWithPayload   = errors.New("status objects must not carry a payload")
	errDuplicateSubscribe  = ProtocolError{code: ErrorCodeProtocolViolation, message: "duplicate subscribe ID"}
	errDuplicateTrackAlias = ProtocolError{code: ErrorCodeDuplicateTrackAlias, message: "duplicate track alias"}
	errUnexpectedMessage   = ProtocolError{code: ErrorCodeProtocolViolation, message: "unexpected message for current session state"}
	errUnknownSubscribeID  = ProtocolError{code: ErrorCodeProtocolViolation, message: "unknown subscribe ID"}
)

// SubscribeError is the failed resolution of a subscribe request.
type SubscribeError struct {
	Code   uint64
	Reason string

	// RetryTrackAlias is set iff Code is SubscribeErrorRetryTrackAlias; the
	// application may retry the subscribe with this alias.
	RetryTrackAlias uint64
}

func (e *SubscribeError) Error() string {
	return fmt.Sprintf("subscribe error %v: %v", e.Code, e.Reason)
}

// AnnounceError is the failed resolution of an announce request.
type AnnounceError struct {
	Code   uint64
	Reason string
}

func (e *AnnounceError) Error() string {
	return fmt.Sprintf("announce error %v: %v", e.Code, e.Reason)
}

// ErrSubscribeDone reports why a publisher ended a subscription.
type ErrSubscribeDone struct {
	StatusCode uint64
	Reason     string
}

func (e *ErrSubscribeDone) Error() string {
	return fmt.Sprintf("subscribe done: status=%v, reason='%v'", e.StatusCode, e.Reason)
}
