package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// TokenStore persists the bearer credential across process restarts
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
}

// AuthSession owns the bearer credential lifecycle. At most one credential
// is held at a time; a successful login overwrites any prior one and Clear
// removes it unconditionally. Reads take a snapshot, so a send in flight
// finishes with whichever credential it captured.
type AuthSession struct {
	baseURL string
	client  *http.Client
	store   TokenStore
	logger  *zap.Logger

	mu    sync.RWMutex
	token string
}

// NewAuthSession creates a new AuthSession, restoring any persisted
// credential from the store. The store may be nil for a purely in-memory
// session.
func NewAuthSession(baseURL string, client *http.Client, store TokenStore, logger *zap.Logger) *AuthSession {
	s := &AuthSession{
		baseURL: baseURL,
		client:  client,
		store:   store,
		logger:  logger,
	}

	if store != nil {
		token, err := store.Token()
		if err != nil {
			logger.Warn("failed to restore persisted credential", zap.Error(err))
		} else {
			s.token = token
		}
	}

	return s
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login performs one credential exchange with the remote service. On a 2xx
// response carrying a token the credential is stored and returned; any
// other outcome is an AuthError and the held credential is left untouched.
func (s *AuthSession) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", &AuthError{Reason: "failed to encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", &AuthError{Reason: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("login transport failure", zap.Error(err))
		return "", &AuthError{Reason: "transport failure", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn("login rejected", zap.Int("status", resp.StatusCode))
		return "", &AuthError{Reason: fmt.Sprintf("server returned status %d", resp.StatusCode)}
	}

	var parsed loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &AuthError{Reason: "malformed response", Err: err}
	}
	if parsed.Token == "" {
		return "", &AuthError{Reason: "response carried no token"}
	}

	s.mu.Lock()
	s.token = parsed.Token
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SetToken(parsed.Token); err != nil {
			s.logger.Warn("failed to persist credential", zap.Error(err))
		}
	}

	s.logger.Info("login succeeded", zap.String("username", username))
	return parsed.Token, nil
}

// Credential returns a snapshot of the current bearer credential
func (s *AuthSession) Credential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Clear removes the credential unconditionally. Idempotent.
func (s *AuthSession) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.ClearToken(); err != nil {
			s.logger.Warn("failed to clear persisted credential", zap.Error(err))
		}
	}
}
