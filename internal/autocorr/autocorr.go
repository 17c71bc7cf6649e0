// Package autocorr computes the sample autocorrelation of the 30-minute
// binned series for each month partition. Periodicity shows up as peaks at
// multiples of 48 bins (one day).
package autocorr

import (
	"math"

	"github.com/primatelab/circadian/internal/types"
)

// Estimate computes the biased sample autocorrelation (dividing by N, not
// N-k) of values at lags 0..maxLag, with a white-noise 95% envelope of
// 1.96/sqrt(N). Partitions shorter than maxLag are not truncated: they
// yield a skipped result annotated with the policy reason.
func Estimate(key types.MonthKey, values []float64, maxLag int) types.AutocorrResult {
	n := len(values)
	if n < maxLag {
		return types.AutocorrResult{Key: key, Skipped: types.ReasonLagExceedsSeries}
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	if variance == 0 {
		return types.AutocorrResult{Key: key, Skipped: "series variance is zero"}
	}

	lags := make([]int, maxLag+1)
	coeffs := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		lags[k] = k
		coeffs[k] = sum / variance
	}

	return types.AutocorrResult{
		Key: key,
		Estimate: &types.AutocorrEstimate{
			Lags:         lags,
			Coefficients: coeffs,
			Envelope:     1.96 / math.Sqrt(float64(n)),
			N:            n,
		},
	}
}
