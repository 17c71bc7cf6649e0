// Package report assembles the presentation-ready tables: per-day
// time-of-day traces for chronograms and actograms, and the skim-style
// console summaries.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/primatelab/circadian/internal/types"
)

// Trace is one day's time-of-day temperature profile, indexed by 30-minute
// slot. Slots with no readings hold NaN.
type Trace struct {
	Date   time.Time
	Values []float64
}

// DeviationTrace is one day's deviation-from-daily-mean profile, indexed
// by slot, NaN where the day has no bin.
type DeviationTrace struct {
	Date   time.Time
	Deltas []float64
}

// Chronograms groups binned days by year. Each year's traces overlay the
// daily profiles on a shared time-of-day axis.
func Chronograms(bins []types.Bin) map[int][]Trace {
	byDay := groupByDay(bins)

	out := make(map[int][]Trace)
	for _, day := range sortedDays(byDay) {
		values := nanSlots()
		for _, b := range byDay[day] {
			values[b.Slot] = b.Mean
		}
		year := day.Year()
		out[year] = append(out[year], Trace{Date: day, Values: values})
	}
	return out
}

// Actograms groups daily deviation profiles by (year, month) for the
// stacked per-day rendering.
func Actograms(bins []types.Bin) map[types.MonthKey][]DeviationTrace {
	byDay := groupByDay(bins)

	out := make(map[types.MonthKey][]DeviationTrace)
	for _, day := range sortedDays(byDay) {
		deltas := nanSlots()
		for _, b := range byDay[day] {
			deltas[b.Slot] = b.Delta
		}
		k := types.MonthKeyOf(day)
		out[k] = append(out[k], DeviationTrace{Date: day, Deltas: deltas})
	}
	return out
}

func groupByDay(bins []types.Bin) map[time.Time][]types.Bin {
	byDay := make(map[time.Time][]types.Bin)
	for _, b := range bins {
		byDay[b.Date] = append(byDay[b.Date], b)
	}
	return byDay
}

func sortedDays(byDay map[time.Time][]types.Bin) []time.Time {
	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func nanSlots() []float64 {
	values := make([]float64, 48)
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}
