// Package binning aggregates readings into fixed 30-minute-of-day slots
// and partitions the series by calendar month for the spectral and
// autocorrelation estimators.
package binning

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/primatelab/circadian/internal/types"
)

// SlotOf maps a timestamp to its 30-minute-of-day slot, 0..47. The boundary
// rule is asymmetric on purpose: a minute strictly between 0 and 35 lands in
// the hour's :00 slot, while minute 0 itself and minutes 35..59 land in the
// :30 slot. Downstream numbers depend on this exact split; do not normalize
// it to an even 0-29/30-59 rule.
func SlotOf(t time.Time) int {
	m := t.Minute()
	if m > 0 && m < 35 {
		return t.Hour() * 2
	}
	return t.Hour()*2 + 1
}

// Daily groups readings into per-day slot bins, averaging the raw
// temperatures in each bin, then attaches each bin's deviation from its
// day's mean bin value and the sign of that deviation.
func Daily(readings []types.DerivedReading) []types.Bin {
	type slotKey struct {
		date time.Time
		slot int
	}
	grouped := make(map[slotKey][]float64)
	for _, r := range readings {
		day := time.Date(r.Time.Year(), r.Time.Month(), r.Time.Day(), 0, 0, 0, 0, r.Time.Location())
		k := slotKey{date: day, slot: SlotOf(r.Time)}
		grouped[k] = append(grouped[k], r.Temperature)
	}

	bins := make([]types.Bin, 0, len(grouped))
	for k, vals := range grouped {
		bins = append(bins, types.Bin{Date: k.date, Slot: k.slot, Mean: stat.Mean(vals, nil)})
	}
	sort.Slice(bins, func(i, j int) bool {
		if !bins[i].Date.Equal(bins[j].Date) {
			return bins[i].Date.Before(bins[j].Date)
		}
		return bins[i].Slot < bins[j].Slot
	})

	attachDeltas(bins)
	return bins
}

// attachDeltas computes each day's mean bin value and sets Delta and Sign
// on that day's bins. bins must be sorted by date.
func attachDeltas(bins []types.Bin) {
	for start := 0; start < len(bins); {
		end := start
		for end < len(bins) && bins[end].Date.Equal(bins[start].Date) {
			end++
		}

		sum := 0.0
		for i := start; i < end; i++ {
			sum += bins[i].Mean
		}
		dayMean := sum / float64(end-start)

		for i := start; i < end; i++ {
			bins[i].Delta = bins[i].Mean - dayMean
			if bins[i].Delta < 0 {
				bins[i].Sign = types.Negative
			} else {
				bins[i].Sign = types.Positive
			}
		}
		start = end
	}
}

// ByMonth partitions readings into (year, month) groups, preserving the
// original time order within each group.
func ByMonth(readings []types.DerivedReading) map[types.MonthKey][]types.DerivedReading {
	parts := make(map[types.MonthKey][]types.DerivedReading)
	for _, r := range readings {
		k := types.MonthKeyOf(r.Time)
		parts[k] = append(parts[k], r)
	}
	return parts
}

// BinsByMonth partitions day-ordered bins into (year, month) groups.
func BinsByMonth(bins []types.Bin) map[types.MonthKey][]types.Bin {
	parts := make(map[types.MonthKey][]types.Bin)
	for _, b := range bins {
		k := types.MonthKeyOf(b.Date)
		parts[k] = append(parts[k], b)
	}
	return parts
}

// SortedKeys returns the partition keys of m in calendar order.
func SortedKeys[T any](m map[types.MonthKey]T) []types.MonthKey {
	keys := make([]types.MonthKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

// Values extracts the day-ordered bin means of a partition, the series the
// autocorrelation estimator consumes.
func Values(bins []types.Bin) []float64 {
	vals := make([]float64, len(bins))
	for i, b := range bins {
		vals[i] = b.Mean
	}
	return vals
}
