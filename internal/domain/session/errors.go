package session

import "errors"

var (
	// ErrSessionNotFound indicates no session exists for the date.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExists indicates a session already exists for the date.
	ErrSessionExists = errors.New("session already exists")
	// ErrUnknownAttendee indicates the attendee is not on the roster.
	ErrUnknownAttendee = errors.New("attendee not on roster")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
)
