package remote

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"healthsync/pkg/model"
)

// MockAPI is an in-memory implementation of the remote API for testing
type MockAPI struct {
	mu        sync.Mutex
	Records   []*model.DailyRecord
	Workouts  []*model.Workout
	Exercises []model.Exercise

	// FailWith, when set, is returned by every call instead of recording
	FailWith error
	// Calls counts every invocation, including failed ones
	Calls int

	logger *zap.Logger
}

// Ensure MockAPI implements the API interface
var _ API = (*MockAPI)(nil)

// NewMockAPI creates a new mock remote API
func NewMockAPI(logger *zap.Logger) *MockAPI {
	return &MockAPI{logger: logger}
}

// PersistRecord records the daily record in memory
func (m *MockAPI) PersistRecord(ctx context.Context, record *model.DailyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.FailWith != nil {
		return m.FailWith
	}

	m.Records = append(m.Records, record)
	if m.logger != nil {
		m.logger.Info("mock: record persisted", zap.Time("record_day", record.Timestamp))
	}
	return nil
}

// ListExercises returns the configured catalog
func (m *MockAPI) ListExercises(ctx context.Context) ([]model.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	return m.Exercises, nil
}

// CreateWorkout records the workout in memory
func (m *MockAPI) CreateWorkout(ctx context.Context, workout *model.Workout) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.FailWith != nil {
		return m.FailWith
	}

	m.Workouts = append(m.Workouts, workout)
	return nil
}
