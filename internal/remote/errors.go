package remote

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when a sync is attempted with no credential
// present. No network call is made in that case.
var ErrUnauthenticated = errors.New("no credential present")

// TransportError is a network-level failure reaching the remote service
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is a non-2xx response from the remote service
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server rejected request with status %d", e.StatusCode)
}

// EncodingError means a payload could not be serialized. Unreachable for
// well-formed records; surfaced as its own class so it is never mistaken
// for a remote failure.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding failure: %v", e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// AuthError is a failed login: invalid credentials, transport failure, or a
// malformed response. No credential is stored when it occurs.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("login failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("login failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
