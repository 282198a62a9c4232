package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthsync/pkg/model"
)

// stubSource returns canned samples per kind and records which kinds were
// fetched. Optional per-kind delays let tests scramble completion order.
type stubSource struct {
	mu      sync.Mutex
	samples map[model.MetricKind]model.MetricSample
	delays  map[model.MetricKind]time.Duration
	fetched []model.MetricKind
}

func (s *stubSource) Fetch(ctx context.Context, kind model.MetricKind, day time.Time) model.MetricSample {
	if d, ok := s.delays[kind]; ok {
		time.Sleep(d)
	}

	s.mu.Lock()
	s.fetched = append(s.fetched, kind)
	s.mu.Unlock()

	if sample, ok := s.samples[kind]; ok {
		return sample
	}
	return model.MetricSample{Kind: kind}
}

func TestAggregate_EndToEndScenario(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	yesterday := day.AddDate(0, 0, -1).Add(7 * time.Hour)

	// steps recorded, no water data, weight dated yesterday; everything
	// else absent
	source := &stubSource{
		samples: map[model.MetricKind]model.MetricSample{
			model.MetricSteps:  {Kind: model.MetricSteps, Value: 8000},
			model.MetricWeight: {Kind: model.MetricWeight, Value: 70.5, SampleDate: &yesterday},
		},
	}

	aggregator := NewDayAggregator(source, zap.NewNop())
	record := aggregator.Aggregate(context.Background(), day)

	assert.Equal(t, 8000.0, record.Steps)
	assert.Zero(t, record.Water)
	assert.Equal(t, 70.5, record.Weight)
	require.NotNil(t, record.WeightDate)
	assert.True(t, record.WeightDate.Equal(yesterday))

	assert.Zero(t, record.Sleep)
	assert.Zero(t, record.Activity)
	assert.Zero(t, record.BodyFat)
	assert.Nil(t, record.BodyFatDate)
	assert.Zero(t, record.WaistCircumference)
	assert.Nil(t, record.WaistDate)
	assert.Zero(t, record.Calories)
	assert.Zero(t, record.Carbs)
	assert.Zero(t, record.Fat)
	assert.Zero(t, record.Protein)
}

func TestAggregate_FetchesEveryKindOnce(t *testing.T) {
	source := &stubSource{}
	aggregator := NewDayAggregator(source, zap.NewNop())

	aggregator.Aggregate(context.Background(), time.Now())

	require.Len(t, source.fetched, len(model.AllMetricKinds()))
	seen := make(map[model.MetricKind]int)
	for _, kind := range source.fetched {
		seen[kind]++
	}
	for _, kind := range model.AllMetricKinds() {
		assert.Equal(t, 1, seen[kind], "kind %s should be fetched exactly once", kind)
	}
}

func TestAggregate_IndependentOfCompletionOrder(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// delay early kinds so late kinds complete first
	source := &stubSource{
		samples: map[model.MetricKind]model.MetricSample{
			model.MetricSteps:   {Kind: model.MetricSteps, Value: 8000},
			model.MetricProtein: {Kind: model.MetricProtein, Value: 120},
		},
		delays: map[model.MetricKind]time.Duration{
			model.MetricSteps:    30 * time.Millisecond,
			model.MetricActivity: 20 * time.Millisecond,
			model.MetricWater:    10 * time.Millisecond,
		},
	}

	aggregator := NewDayAggregator(source, zap.NewNop())
	record := aggregator.Aggregate(context.Background(), day)

	assert.Equal(t, 8000.0, record.Steps, "values must land in their field by kind, not by completion order")
	assert.Equal(t, 120.0, record.Protein)
}

func TestAggregate_TimestampStaysInsideQueriedDay(t *testing.T) {
	source := &stubSource{}
	aggregator := NewDayAggregator(source, zap.NewNop())
	aggregator.now = func() time.Time {
		return time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)
	}

	t.Run("past day is stamped with that day", func(t *testing.T) {
		day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		record := aggregator.Aggregate(context.Background(), day)
		assert.True(t, record.Timestamp.Equal(day))
	})

	t.Run("current day is stamped with the aggregation instant", func(t *testing.T) {
		day := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
		record := aggregator.Aggregate(context.Background(), day)
		assert.Equal(t, 14, record.Timestamp.Hour())
	})
}
