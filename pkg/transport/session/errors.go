package session

import "errors"

// Common session errors
var (
	// ErrSessionNotFound is returned when a session cannot be found
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionAlreadyExists is returned when trying to register a session with an existing ID
	ErrSessionAlreadyExists = errors.New("session already exists")

	// ErrEmptySessionID is returned when a session is registered without an ID
	ErrEmptySessionID = errors.New("session ID cannot be empty")
)
