package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"healthsync/internal/repository"
	"healthsync/pkg/model"
)

// SampleReader is the slice of the local health store the metric sources read
type SampleReader interface {
	SumRange(ctx context.Context, kind model.MetricKind, from, to time.Time) (float64, error)
	LatestSample(ctx context.Context, kind model.MetricKind, before time.Time) (*repository.Sample, error)
}

// sleepWindowEndHour anchors the trailing 24h sleep window. Sleep for day d
// covers [d-1 18:00, d 18:00) local time, so sessions starting before
// midnight still count toward the morning they end on.
const sleepWindowEndHour = 18

// MetricSource fetches one metric for one calendar day from the local store
// and normalizes it to the kind's target unit. Provider failures and absent
// data both become a zero-value sample; Fetch never returns an error.
type MetricSource struct {
	store  SampleReader
	logger *zap.Logger
}

// NewMetricSource creates a new MetricSource
func NewMetricSource(store SampleReader, logger *zap.Logger) *MetricSource {
	return &MetricSource{
		store:  store,
		logger: logger,
	}
}

// Fetch returns the sample for the kind on the given day
func (s *MetricSource) Fetch(ctx context.Context, kind model.MetricKind, day time.Time) model.MetricSample {
	if kind.Cumulative() {
		return s.fetchCumulative(ctx, kind, day)
	}
	return s.fetchLatest(ctx, kind, day)
}

// fetchCumulative sums all samples intersecting the kind's day window
func (s *MetricSource) fetchCumulative(ctx context.Context, kind model.MetricKind, day time.Time) model.MetricSample {
	from, to := dayWindow(kind, day)

	raw, err := s.store.SumRange(ctx, kind, from, to)
	if err != nil {
		s.logger.Warn("metric source unavailable, substituting zero",
			zap.String("kind", string(kind)),
			zap.Time("day", day),
			zap.Error(err),
		)
		return model.MetricSample{Kind: kind}
	}

	return model.MetricSample{
		Kind:  kind,
		Value: toTargetUnit(kind, raw),
	}
}

// fetchLatest returns the most recent reading overall, capped at the end of
// the queried day, with its original sample date
func (s *MetricSource) fetchLatest(ctx context.Context, kind model.MetricKind, day time.Time) model.MetricSample {
	_, dayEnd := dayWindow(kind, day)

	sample, err := s.store.LatestSample(ctx, kind, dayEnd)
	if err != nil {
		s.logger.Warn("metric source unavailable, substituting zero",
			zap.String("kind", string(kind)),
			zap.Time("day", day),
			zap.Error(err),
		)
		return model.MetricSample{Kind: kind}
	}
	if sample == nil {
		return model.MetricSample{Kind: kind}
	}

	sampleDate := sample.EndTime
	return model.MetricSample{
		Kind:       kind,
		Value:      toTargetUnit(kind, sample.Value),
		SampleDate: &sampleDate,
	}
}

// dayWindow computes the query window for the kind on the given calendar
// day in the day's time zone
func dayWindow(kind model.MetricKind, day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())

	if kind == model.MetricSleep {
		end := start.Add(sleepWindowEndHour * time.Hour)
		return end.Add(-24 * time.Hour), end
	}

	return start, start.Add(24 * time.Hour)
}

// toTargetUnit converts a raw store value from the kind's native unit to
// the unit records are expressed in
func toTargetUnit(kind model.MetricKind, raw float64) float64 {
	switch kind {
	case model.MetricWater:
		// milliliters to liters
		return raw / 1000
	case model.MetricSleep:
		// minutes to hours
		return raw / 60
	case model.MetricBodyFat:
		// fraction to percent
		return raw * 100
	case model.MetricWaist:
		// centimeters to inches
		return raw / 2.54
	default:
		return raw
	}
}
