package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"healthsync/pkg/model"
)

// Aggregator produces the unified record for one day
type Aggregator interface {
	Aggregate(ctx context.Context, day time.Time) *model.DailyRecord
}

// RecordSender persists one record to the remote service
type RecordSender interface {
	PersistRecord(ctx context.Context, record *model.DailyRecord) error
}

// BackfillOrchestrator walks a closed date range day by day, aggregating
// and sending each day in order. A failed day is recorded in the report and
// the walk continues; it never halts the range.
type BackfillOrchestrator struct {
	aggregator Aggregator
	sender     RecordSender
	logger     *zap.Logger
}

// NewBackfillOrchestrator creates a new BackfillOrchestrator
func NewBackfillOrchestrator(aggregator Aggregator, sender RecordSender, logger *zap.Logger) *BackfillOrchestrator {
	return &BackfillOrchestrator{
		aggregator: aggregator,
		sender:     sender,
		logger:     logger,
	}
}

// Backfill processes every calendar day from start through end inclusive,
// both truncated to local days. Days are processed strictly in order; day
// N+1 does not start before day N's outcome is recorded. A start after end
// is rejected.
func (o *BackfillOrchestrator) Backfill(ctx context.Context, start, end time.Time) (*model.BackfillReport, error) {
	startDay := startOfDay(start)
	endDay := startOfDay(end)

	if startDay.After(endDay) {
		return nil, fmt.Errorf("invalid backfill range: start %s is after end %s",
			startDay.Format("2006-01-02"), endDay.Format("2006-01-02"))
	}

	o.logger.Info("backfill started",
		zap.Time("start", startDay),
		zap.Time("end", endDay),
	)

	report := &model.BackfillReport{Success: true}
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		outcome := o.syncDay(ctx, day)
		if !outcome.Success {
			report.Success = false
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	o.logger.Info("backfill finished",
		zap.Int("days", len(report.Outcomes)),
		zap.Int("synced", report.SyncedDays()),
		zap.Bool("success", report.Success),
	)

	return report, nil
}

// SyncDay processes a single day; equivalent to a one-day backfill reduced
// to its outcome
func (o *BackfillOrchestrator) SyncDay(ctx context.Context, day time.Time) model.SyncOutcome {
	return o.syncDay(ctx, startOfDay(day))
}

// syncDay aggregates then sends one day. Aggregation cannot fail; a send
// failure is folded into the outcome so the caller can keep going.
func (o *BackfillOrchestrator) syncDay(ctx context.Context, day time.Time) model.SyncOutcome {
	record := o.aggregator.Aggregate(ctx, day)

	if err := o.sender.PersistRecord(ctx, record); err != nil {
		o.logger.Warn("day sync failed, continuing",
			zap.Time("day", day),
			zap.Error(err),
		)
		msg := err.Error()
		return model.SyncOutcome{Day: day, Success: false, Error: &msg}
	}

	return model.SyncOutcome{Day: day, Success: true}
}

// startOfDay truncates to midnight in the value's own time zone
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
