package remote

import (
	"context"

	"healthsync/pkg/model"
)

// API is the remote service surface the agent depends on. Every call
// attaches the current bearer credential; ErrUnauthenticated is returned
// before any network traffic when none is present.
// The interface allows for easier testing with mock implementations.
type API interface {
	PersistRecord(ctx context.Context, record *model.DailyRecord) error
	ListExercises(ctx context.Context) ([]model.Exercise, error)
	CreateWorkout(ctx context.Context, workout *model.Workout) error
}

// Ensure Client implements the API interface
var _ API = (*Client)(nil)
