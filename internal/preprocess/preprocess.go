// Package preprocess decorates raw readings with calendar fields and a
// smoothed temperature. All additions are projections: raw values are
// carried through untouched and later stages read them as-is.
package preprocess

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/primatelab/circadian/internal/types"
)

// ErrEmptySeries is returned when there are no readings to decorate.
var ErrEmptySeries = errors.New("preprocess: empty reading series")

// Decorate returns the input series augmented with day/month/year fields
// and a centered rolling mean of the given window size. Windows at series
// boundaries shrink to the available samples rather than padding; smoothed
// values are rounded to 2 decimal places.
func Decorate(readings []types.Reading, window int) ([]types.DerivedReading, error) {
	if len(readings) == 0 {
		return nil, ErrEmptySeries
	}

	smoothed := RollingMean(temperatures(readings), window)

	derived := make([]types.DerivedReading, len(readings))
	for i, r := range readings {
		derived[i] = types.DerivedReading{
			Reading:  r,
			Day:      r.Time.Day(),
			Month:    r.Time.Month(),
			Year:     r.Time.Format("2006"),
			Smoothed: round2(smoothed[i]),
		}
	}
	return derived, nil
}

// RollingMean computes a centered moving average. For an even window the
// span at index i is [i-window/2, i+window/2-1], clamped to the series
// bounds. Output length always equals input length.
func RollingMean(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)
	if window < 1 {
		window = 1
	}

	left := window / 2
	right := window - left - 1
	for i := 0; i < n; i++ {
		lo := i - left
		if lo < 0 {
			lo = 0
		}
		hi := i + right
		if hi > n-1 {
			hi = n - 1
		}
		out[i] = stat.Mean(values[lo:hi+1], nil)
	}
	return out
}

func temperatures(readings []types.Reading) []float64 {
	vals := make([]float64, len(readings))
	for i, r := range readings {
		vals[i] = r.Temperature
	}
	return vals
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
