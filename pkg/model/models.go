package model

import "time"

// MetricKind identifies one tracked health or nutrition quantity
type MetricKind string

const (
	MetricSteps    MetricKind = "steps"
	MetricActivity MetricKind = "activity"
	MetricWater    MetricKind = "water"
	MetricSleep    MetricKind = "sleep"
	MetricWeight   MetricKind = "weight"
	MetricBodyFat  MetricKind = "body_fat"
	MetricWaist    MetricKind = "waist_circumference"
	MetricCalories MetricKind = "calories"
	MetricCarbs    MetricKind = "carbs"
	MetricFat      MetricKind = "fat"
	MetricProtein  MetricKind = "protein"
)

// AllMetricKinds returns the fixed set of tracked kinds. The aggregation
// fan-out launches exactly one fetch per entry.
func AllMetricKinds() []MetricKind {
	return []MetricKind{
		MetricSteps,
		MetricActivity,
		MetricWater,
		MetricSleep,
		MetricWeight,
		MetricBodyFat,
		MetricWaist,
		MetricCalories,
		MetricCarbs,
		MetricFat,
		MetricProtein,
	}
}

// Unit returns the target unit record values are expressed in for the kind
func (k MetricKind) Unit() string {
	switch k {
	case MetricSteps:
		return "count"
	case MetricActivity, MetricCalories:
		return "kcal"
	case MetricWater:
		return "L"
	case MetricSleep:
		return "h"
	case MetricWeight:
		return "kg"
	case MetricBodyFat:
		return "percent"
	case MetricWaist:
		return "in"
	case MetricCarbs, MetricFat, MetricProtein:
		return "g"
	default:
		return ""
	}
}

// Cumulative reports whether values for the kind are summed over a day
// window. Non-cumulative kinds are point-in-time readings whose most recent
// sample is carried forward regardless of the day queried.
func (k MetricKind) Cumulative() bool {
	switch k {
	case MetricWeight, MetricBodyFat, MetricWaist:
		return false
	default:
		return true
	}
}

// MetricSample is the result of fetching one metric for one day
type MetricSample struct {
	Kind  MetricKind `json:"kind"`
	Value float64    `json:"value"`
	// SampleDate is set for point-in-time kinds only and records when the
	// reading was taken, which may precede the day queried. Nil means no
	// reading has ever been recorded.
	SampleDate *time.Time `json:"sample_date,omitempty"`
}

// DailyRecord is the unified snapshot of all metrics for one calendar day.
// Every numeric field is always populated; a source that failed or had no
// data contributes 0.0. Only the companion dates may be absent.
// JSON field names follow the remote persistence contract.
type DailyRecord struct {
	Timestamp          time.Time  `json:"timestamp"`
	Steps              float64    `json:"steps"`
	Sleep              float64    `json:"sleep"`
	Activity           float64    `json:"activity"`
	Water              float64    `json:"water"`
	Weight             float64    `json:"weight"`
	WeightDate         *time.Time `json:"weightDate,omitempty"`
	BodyFat            float64    `json:"bodyFat"`
	BodyFatDate        *time.Time `json:"bodyFatDate,omitempty"`
	WaistCircumference float64    `json:"waistCircumference"`
	WaistDate          *time.Time `json:"waistDate,omitempty"`
	Calories           float64    `json:"calories"`
	Carbs              float64    `json:"carbs"`
	Fat                float64    `json:"fat"`
	Protein            float64    `json:"protein"`
}

// SyncOutcome is the result of processing a single day
type SyncOutcome struct {
	Day     time.Time `json:"day"`
	Success bool      `json:"success"`
	Error   *string   `json:"error,omitempty"`
}

// BackfillReport collects per-day outcomes for a date range, ordered by day
type BackfillReport struct {
	Outcomes []SyncOutcome `json:"outcomes"`
	Success  bool          `json:"success"`
}

// SyncedDays returns how many outcomes succeeded
func (r *BackfillReport) SyncedDays() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Success {
			n++
		}
	}
	return n
}

// Exercise is a catalog entry served by the remote API
type Exercise struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// WorkoutSet is one performed set within a workout
type WorkoutSet struct {
	ExerciseID string  `json:"exerciseId"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight,omitempty"`
}

// Workout is a training session submitted to the remote API
type Workout struct {
	Date  time.Time    `json:"date"`
	Name  string       `json:"name,omitempty"`
	Sets  []WorkoutSet `json:"sets"`
	Notes string       `json:"notes,omitempty"`
}
