package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so clients can branch without parsing messages.
type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "invalid_input"
	KindUnauthorized        ErrorKind = "unauthorized"
	KindNotFound            ErrorKind = "not_found"
	KindDuplicate           ErrorKind = "duplicate"
	KindAlreadyMarked       ErrorKind = "already_marked"
	KindNotRecognized       ErrorKind = "not_recognized"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindStorageUnavailable  ErrorKind = "storage_unavailable"
	KindInternal            ErrorKind = "internal"
)

// Error is a classified failure carrying a user-facing message.
// Err holds the internal cause and is never rendered to clients.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so errors.Is(err, ErrNotFound) works for
// any not_found error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds a classified error.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of err, or KindInternal when err is unclassified.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrDuplicate          = &Error{Kind: KindDuplicate, Message: "already exists"}
	ErrAlreadyMarked      = &Error{Kind: KindAlreadyMarked, Message: "Attendance already marked for today"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid credentials"}
	ErrUpstream           = &Error{Kind: KindUpstreamUnavailable, Message: "Face recognition service failed"}
	ErrStorage            = &Error{Kind: KindStorageUnavailable, Message: "storage unavailable"}
)
