// Package types contains the shared data types used by the analysis pipeline.
package types

import (
	"fmt"
	"time"
)

// Reading is a single cleaned body-temperature observation. Readings are
// produced by an external cleaning stage and consumed read-only.
type Reading struct {
	Time        time.Time
	Temperature float64
	Subject     string
}

// DerivedReading decorates a Reading with calendar fields and a smoothed
// temperature. The raw reading is never modified; derived fields are
// projections added by the preprocessor.
type DerivedReading struct {
	Reading
	Day      int
	Month    time.Month
	Year     string
	Smoothed float64
}

// MonthKey identifies a (year, month) partition of the series.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyOf returns the partition key for a timestamp.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Before reports whether k sorts before other in calendar order.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// HourlyAggregate is the trimean body temperature over one calendar hour.
type HourlyAggregate struct {
	Hour    time.Time // floored to the hour
	Trimean float64
}

// ExtremumKind distinguishes daily minima from maxima.
type ExtremumKind string

const (
	Minimum ExtremumKind = "minimum"
	Maximum ExtremumKind = "maximum"
)

// DailyExtremum records an hour at which the hourly trimean reached the
// day's minimum or maximum. Days may carry several extrema of the same kind
// when hours tie at the extreme value; ties are kept, not broken.
type DailyExtremum struct {
	Date  time.Time // midnight local to the reading
	Hour  time.Time // the hour of occurrence
	Value float64
	Kind  ExtremumKind
}

// DeltaSign labels a bin's deviation from the daily mean.
type DeltaSign string

const (
	Positive DeltaSign = "Positive"
	Negative DeltaSign = "Negative"
)

// Bin is a 30-minute-of-day aggregate within a single day. Slot runs 0..47,
// where slot 2h is the hour's :00 bin and slot 2h+1 its :30 bin.
type Bin struct {
	Date  time.Time
	Slot  int
	Mean  float64
	Delta float64 // deviation from the day's mean bin value
	Sign  DeltaSign
}

// SlotLabel renders a slot index as a clock label, e.g. 13 -> "06:30".
func SlotLabel(slot int) string {
	return fmt.Sprintf("%02d:%02d", slot/2, (slot%2)*30)
}

// SpectralEstimate is a confidence-bounded power spectrum for one partition.
// Frequencies are stored in cycles per day; presentation converts to period.
type SpectralEstimate struct {
	Frequencies []float64
	Power       []float64
	LowerCI     []float64
	UpperCI     []float64
}

// AutocorrEstimate is the sample autocorrelation of a binned series.
type AutocorrEstimate struct {
	Lags         []int
	Coefficients []float64
	Envelope     float64 // white-noise 95% bound, 1.96/sqrt(N)
	N            int
}

// Skip reasons for partitions too short for a method's minimum window.
const (
	ReasonShortSeries      = "insufficient series length"
	ReasonLagExceedsSeries = "series shorter than maximum lag"
)

// SpectralResult is the outcome for one partition: either a computed
// estimate or a skip annotation. Exactly one of the two is set.
type SpectralResult struct {
	Key      MonthKey
	Estimate *SpectralEstimate
	Skipped  string
}

// Computed reports whether the partition produced a real estimate.
func (r SpectralResult) Computed() bool { return r.Estimate != nil }

// AutocorrResult is the per-partition autocorrelation outcome, with the
// same computed-or-skipped shape as SpectralResult.
type AutocorrResult struct {
	Key      MonthKey
	Estimate *AutocorrEstimate
	Skipped  string
}

// Computed reports whether the partition produced a real estimate.
func (r AutocorrResult) Computed() bool { return r.Estimate != nil }
