// Package extrema locates the daily minimum and maximum of the hourly
// trimean body temperature. The trimean is used instead of the mean so a
// single aberrant sample within an hour cannot move the hour's estimate.
package extrema

import (
	"math"
	"sort"
	"time"

	"github.com/primatelab/circadian/internal/types"
)

// Trimean computes Tukey's trimean (Q25 + 2*Q50 + Q75) / 4 over values.
// NaN values are excluded before the quantiles are taken. Returns NaN when
// no finite values remain.
func Trimean(values []float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.NaN()
	}
	sort.Float64s(finite)

	q1 := quantile(finite, 0.25)
	q2 := quantile(finite, 0.50)
	q3 := quantile(finite, 0.75)
	return (q1 + 2*q2 + q3) / 4
}

// quantile interpolates the p-th quantile of a sorted sample with the
// h = (n-1)p positioning rule, so quartiles of {1..5} land exactly on the
// 2nd, 3rd and 4th order statistics.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi > n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Hourly groups readings by their floored calendar hour and returns one
// trimean aggregate per hour, in time order.
func Hourly(readings []types.DerivedReading) []types.HourlyAggregate {
	byHour := make(map[time.Time][]float64)
	for _, r := range readings {
		hour := r.Time.Truncate(time.Hour)
		byHour[hour] = append(byHour[hour], r.Temperature)
	}

	hours := make([]time.Time, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })

	aggregates := make([]types.HourlyAggregate, 0, len(hours))
	for _, h := range hours {
		aggregates = append(aggregates, types.HourlyAggregate{
			Hour:    h,
			Trimean: Trimean(byHour[h]),
		})
	}
	return aggregates
}

// DaySummary collects the extreme hours of one calendar day. A day may hold
// several minima or maxima when hours tie at the extreme value; ties are
// first-class results, not noise to be broken.
type DaySummary struct {
	Date   time.Time
	Minima []types.DailyExtremum
	Maxima []types.DailyExtremum
}

// Unique reports whether the day has exactly one minimum and one maximum,
// the precondition for the heatmap and time-between-extrema analyses.
func (d DaySummary) Unique() bool {
	return len(d.Minima) == 1 && len(d.Maxima) == 1
}

// Daily partitions the hourly aggregates by calendar day and finds, for
// each day, every hour whose trimean equals the day's minimum or maximum.
func Daily(hours []types.HourlyAggregate) []DaySummary {
	byDay := make(map[time.Time][]types.HourlyAggregate)
	for _, h := range hours {
		if math.IsNaN(h.Trimean) {
			continue
		}
		day := time.Date(h.Hour.Year(), h.Hour.Month(), h.Hour.Day(), 0, 0, 0, 0, h.Hour.Location())
		byDay[day] = append(byDay[day], h)
	}

	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	summaries := make([]DaySummary, 0, len(days))
	for _, day := range days {
		group := byDay[day]

		min, max := group[0].Trimean, group[0].Trimean
		for _, h := range group[1:] {
			if h.Trimean < min {
				min = h.Trimean
			}
			if h.Trimean > max {
				max = h.Trimean
			}
		}

		summary := DaySummary{Date: day}
		for _, h := range group {
			if h.Trimean == min {
				summary.Minima = append(summary.Minima, types.DailyExtremum{
					Date: day, Hour: h.Hour, Value: h.Trimean, Kind: types.Minimum,
				})
			}
			if h.Trimean == max {
				summary.Maxima = append(summary.Maxima, types.DailyExtremum{
					Date: day, Hour: h.Hour, Value: h.Trimean, Kind: types.Maximum,
				})
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// MultiExtremumDays returns the days carrying more than one minimum or
// more than one maximum. These are surfaced as a list and excluded from
// the unique-pair analyses.
func MultiExtremumDays(days []DaySummary) []DaySummary {
	var multi []DaySummary
	for _, d := range days {
		if len(d.Minima) > 1 || len(d.Maxima) > 1 {
			multi = append(multi, d)
		}
	}
	return multi
}

// Span is the signed duration between a day's minimum and maximum hour.
type Span struct {
	Date    time.Time
	Minutes float64
}

// Spans computes time(minimum) - time(maximum) in minutes for every day
// with a unique extremum pair. The sign is kept: subtraction is over
// absolute datetimes, not clock-of-day values, so no midnight wraparound
// is applied.
func Spans(days []DaySummary) []Span {
	var spans []Span
	for _, d := range days {
		if !d.Unique() {
			continue
		}
		delta := d.Minima[0].Hour.Sub(d.Maxima[0].Hour)
		spans = append(spans, Span{Date: d.Date, Minutes: delta.Minutes()})
	}
	return spans
}
