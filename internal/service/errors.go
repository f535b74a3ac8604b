package service

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
	KindConflict     Kind = "conflict"
	KindPersistence  Kind = "persistence"
)

var (
	ErrInvalidSender      = errors.New("invalid sender")
	ErrChatNotFound       = errors.New("chat not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyParticipant = errors.New("already a participant")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPersistence        = errors.New("persistence failure")
)

// Error is returned by every service operation. Message is safe to show to
// callers; Err holds the underlying store error, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	sentinel error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return e.sentinel != nil && target == e.sentinel
}

func notFound(sentinel error, msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg, sentinel: sentinel}
}

func invalidInput(sentinel error, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg, sentinel: sentinel}
}

func conflict(sentinel error, msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg, sentinel: sentinel}
}

// persistence formats the message as "<prefix>: <cause>".
func persistence(prefix string, cause error) *Error {
	return &Error{
		Kind:     KindPersistence,
		Message:  fmt.Sprintf("%s: %v", prefix, cause),
		Err:      cause,
		sentinel: ErrPersistence,
	}
}

// KindOf reports the kind of a service error, or KindPersistence for any
// other non-nil error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindPersistence
}
