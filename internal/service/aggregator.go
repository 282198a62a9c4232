package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"healthsync/pkg/model"
)

// Source fetches one metric for one day. Implementations must absorb their
// own failures and return a zero-value sample instead of erroring.
type Source interface {
	Fetch(ctx context.Context, kind model.MetricKind, day time.Time) model.MetricSample
}

// DayAggregator fans out one concurrent fetch per metric kind and joins the
// results into a single DailyRecord
type DayAggregator struct {
	source Source
	logger *zap.Logger
	now    func() time.Time
}

// NewDayAggregator creates a new DayAggregator
func NewDayAggregator(source Source, logger *zap.Logger) *DayAggregator {
	return &DayAggregator{
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Aggregate builds the unified record for one calendar day. Because sources
// never fail, the record always comes back fully populated; fields whose
// source had no data are zero.
func (a *DayAggregator) Aggregate(ctx context.Context, day time.Time) *model.DailyRecord {
	started := a.now()
	kinds := model.AllMetricKinds()

	// One pre-allocated slot per kind. Each goroutine writes only its own
	// slot, and the WaitGroup is the barrier before any slot is read.
	results := make([]model.MetricSample, len(kinds))

	var wg sync.WaitGroup
	wg.Add(len(kinds))
	for i, kind := range kinds {
		go func(i int, kind model.MetricKind) {
			defer wg.Done()
			results[i] = a.source.Fetch(ctx, kind, day)
		}(i, kind)
	}
	wg.Wait()

	record := &model.DailyRecord{Timestamp: recordTimestamp(day, started)}
	for _, sample := range results {
		applySample(record, sample)
	}

	a.logger.Debug("day aggregated",
		zap.Time("day", day),
		zap.Duration("duration", a.now().Sub(started)),
	)

	return record
}

// recordTimestamp stamps the record inside its own calendar day: the
// aggregation instant when aggregating the current day, start of day for
// any other day.
func recordTimestamp(day, now time.Time) time.Time {
	ny, nm, nd := now.In(day.Location()).Date()
	dy, dm, dd := day.Date()
	if ny == dy && nm == dm && nd == dd {
		return now
	}
	return time.Date(dy, dm, dd, 0, 0, 0, 0, day.Location())
}

// applySample writes one fetched sample into its field of the record.
// Assembly is by kind, never by completion order.
func applySample(r *model.DailyRecord, s model.MetricSample) {
	switch s.Kind {
	case model.MetricSteps:
		r.Steps = s.Value
	case model.MetricActivity:
		r.Activity = s.Value
	case model.MetricWater:
		r.Water = s.Value
	case model.MetricSleep:
		r.Sleep = s.Value
	case model.MetricWeight:
		r.Weight = s.Value
		r.WeightDate = s.SampleDate
	case model.MetricBodyFat:
		r.BodyFat = s.Value
		r.BodyFatDate = s.SampleDate
	case model.MetricWaist:
		r.WaistCircumference = s.Value
		r.WaistDate = s.SampleDate
	case model.MetricCalories:
		r.Calories = s.Value
	case model.MetricCarbs:
		r.Carbs = s.Value
	case model.MetricFat:
		r.Fat = s.Value
	case model.MetricProtein:
		r.Protein = s.Value
	}
}
