package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"healthsync/pkg/model"
)

// Sample is one raw reading in the local health store. Values are kept in
// the kind's native unit; unit conversion happens in the metric source.
type Sample struct {
	ID        string           `json:"id"`
	Kind      model.MetricKind `json:"kind"`
	Value     float64          `json:"value"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
}

// HealthStore reads raw metric samples from the local sample database
type HealthStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewHealthStore creates a new HealthStore
func NewHealthStore(db *pgxpool.Pool, logger *zap.Logger) *HealthStore {
	return &HealthStore{
		db:     db,
		logger: logger,
	}
}

// SumRange sums the values of all samples of the given kind whose
// [start_time, end_time) interval intersects [from, to). Returns 0 when no
// samples intersect the window.
func (r *HealthStore) SumRange(ctx context.Context, kind model.MetricKind, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(value), 0)
		FROM metric_samples
		WHERE kind = $1
		  AND start_time < $3
		  AND end_time > $2
	`

	var sum float64
	if err := r.db.QueryRow(ctx, query, string(kind), from, to).Scan(&sum); err != nil {
		r.logger.Error("failed to sum samples",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return 0, fmt.Errorf("failed to sum %s samples: %w", kind, err)
	}

	return sum, nil
}

// LatestSample returns the most recent sample of the given kind across the
// whole store (not windowed to any day), taken no later than before.
// Returns nil when no such sample exists.
func (r *HealthStore) LatestSample(ctx context.Context, kind model.MetricKind, before time.Time) (*Sample, error) {
	query := `
		SELECT id, kind, value, start_time, end_time
		FROM metric_samples
		WHERE kind = $1
		  AND end_time <= $2
		ORDER BY end_time DESC
		LIMIT 1
	`

	var s Sample
	err := r.db.QueryRow(ctx, query, string(kind), before).Scan(
		&s.ID,
		&s.Kind,
		&s.Value,
		&s.StartTime,
		&s.EndTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get latest sample",
			zap.Error(err),
			zap.String("kind", string(kind)),
		)
		return nil, fmt.Errorf("failed to get latest %s sample: %w", kind, err)
	}

	return &s, nil
}

// InsertSample stores a raw reading. An empty ID is assigned one.
func (r *HealthStore) InsertSample(ctx context.Context, s *Sample) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	query := `
		INSERT INTO metric_samples (id, kind, value, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		s.ID,
		string(s.Kind),
		s.Value,
		s.StartTime,
		s.EndTime,
	)
	if err != nil {
		r.logger.Error("failed to insert sample",
			zap.Error(err),
			zap.String("kind", string(s.Kind)),
		)
		return fmt.Errorf("failed to insert %s sample: %w", s.Kind, err)
	}

	return nil
}

// Migrate creates the sample table when it does not exist
func (r *HealthStore) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS metric_samples (
			id UUID PRIMARY KEY,
			kind VARCHAR(64) NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL
		)
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create metric_samples table: %w", err)
	}

	index := `
		CREATE INDEX IF NOT EXISTS idx_metric_samples_kind_end
		ON metric_samples (kind, end_time DESC)
	`
	if _, err := r.db.Exec(ctx, index); err != nil {
		return fmt.Errorf("failed to create metric_samples index: %w", err)
	}

	return nil
}

// Ping verifies store connectivity
func (r *HealthStore) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("health store unreachable: %w", err)
	}
	return nil
}
