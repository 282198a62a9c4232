package handler

import (
	"errors"
	"net/http"

	"healthsync/internal/remote"
)

// ErrorResponse is the error body returned by every endpoint
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// statusForRemoteError maps the sync failure taxonomy onto response codes
func statusForRemoteError(err error) int {
	if errors.Is(err, remote.ErrUnauthenticated) {
		return http.StatusUnauthorized
	}

	var serverErr *remote.ServerError
	if errors.As(err, &serverErr) {
		return http.StatusBadGateway
	}

	var transportErr *remote.TransportError
	if errors.As(err, &transportErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
