package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthsync/pkg/model"
)

// Client talks to the remote persistence API. Each request carries the
// bearer credential supplied by the AuthSession; there is no internal
// retry, a failed call is reported to the caller as-is.
type Client struct {
	baseURL string
	client  *http.Client
	session *AuthSession
	logger  *zap.Logger
}

// NewClient creates a new Client
func NewClient(baseURL string, timeout time.Duration, session *AuthSession, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		session: session,
		logger:  logger,
	}
}

// PersistRecord sends one daily record to the remote service with a single
// POST. Requires a credential; issues no network call without one.
func (c *Client) PersistRecord(ctx context.Context, record *model.DailyRecord) error {
	started := time.Now()

	resp, err := c.do(ctx, http.MethodPost, "/health/persist", record)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("record rejected by server",
			zap.Int("status", resp.StatusCode),
			zap.Time("record_day", record.Timestamp),
		)
		return &ServerError{StatusCode: resp.StatusCode}
	}

	c.logger.Info("record persisted",
		zap.Time("record_day", record.Timestamp),
		zap.Duration("duration", time.Since(started)),
	)
	return nil
}

// ListExercises fetches the remote exercise catalog
func (c *Client) ListExercises(ctx context.Context) ([]model.Exercise, error) {
	resp, err := c.do(ctx, http.MethodGet, "/exercises", nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}

	var exercises []model.Exercise
	if err := json.NewDecoder(resp.Body).Decode(&exercises); err != nil {
		return nil, fmt.Errorf("failed to decode exercise catalog: %w", err)
	}

	return exercises, nil
}

// CreateWorkout submits a workout to the remote service
func (c *Client) CreateWorkout(ctx context.Context, workout *model.Workout) error {
	resp, err := c.do(ctx, http.MethodPost, "/workouts", workout)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{StatusCode: resp.StatusCode}
	}

	return nil
}

// do issues one authenticated request. The credential is snapshotted once
// at call start; a concurrent login or logout does not affect a request
// already in flight.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	token, ok := c.session.Credential()
	if !ok {
		return nil, ErrUnauthenticated
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &EncodingError{Err: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &EncodingError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.New().String())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("remote request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, &TransportError{Err: err}
	}

	return resp, nil
}

// drain finishes and closes a response body so the connection can be reused
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
