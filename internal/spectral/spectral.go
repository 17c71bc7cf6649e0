// Package spectral estimates the power spectrum of each month partition
// with Thomson's multitaper method. Circadian rhythmicity shows up as a
// spectral peak near one cycle per day.
package spectral

import (
	"math"
	"math/cmplx"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/primatelab/circadian/internal/types"
)

// Params holds the multitaper configuration.
type Params struct {
	NW         float64 // time-bandwidth product
	K          int     // number of tapers
	DeltaT     float64 // sampling interval in days
	MinDays    int     // partitions spanning fewer distinct days are skipped
	Confidence float64 // jackknife confidence level, e.g. 0.95
}

// DefaultParams mirrors the standard analysis configuration: NW=4, K=7,
// 5-minute cadence, 16-day floor, 95% intervals.
func DefaultParams() Params {
	return Params{NW: 4, K: 7, DeltaT: 1.0 / 288.0, MinDays: 16, Confidence: 0.95}
}

// Estimate computes the multitaper spectrum of a partition's raw
// temperature series with jackknife confidence bounds. Partitions spanning
// fewer than MinDays distinct days are defined as unreliable and yield a
// skipped result rather than a computed-then-hidden estimate.
func Estimate(key types.MonthKey, readings []types.DerivedReading, p Params) types.SpectralResult {
	if distinctDays(readings) < p.MinDays {
		return types.SpectralResult{Key: key, Skipped: types.ReasonShortSeries}
	}
	n := len(readings)
	if n <= p.K {
		return types.SpectralResult{Key: key, Skipped: types.ReasonShortSeries}
	}

	values := make([]float64, n)
	mean := 0.0
	for i, r := range readings {
		values[i] = r.Temperature
		mean += r.Temperature
	}
	mean /= float64(n)
	for i := range values {
		values[i] -= mean
	}

	tapers, err := dpss(n, p.NW, p.K)
	if err != nil {
		return types.SpectralResult{Key: key, Skipped: err.Error()}
	}

	nfft := nextPow2(n) * 2
	fft := fourier.NewFFT(nfft)
	nfreq := nfft/2 + 1

	// Eigenspectra, one per taper.
	eigen := make([][]float64, p.K)
	tapered := make([]float64, nfft)
	for k := 0; k < p.K; k++ {
		for i := range tapered {
			tapered[i] = 0
		}
		for i := 0; i < n; i++ {
			tapered[i] = values[i] * tapers[k][i]
		}
		coeffs := fft.Coefficients(nil, tapered)

		spec := make([]float64, nfreq)
		for j, c := range coeffs {
			m := cmplx.Abs(c)
			spec[j] = p.DeltaT * m * m
		}
		eigen[k] = spec
	}

	freqs := make([]float64, nfreq)
	for j := range freqs {
		freqs[j] = float64(j) / (float64(nfft) * p.DeltaT)
	}

	power, lower, upper := jackknife(eigen, p)

	return types.SpectralResult{
		Key: key,
		Estimate: &types.SpectralEstimate{
			Frequencies: freqs,
			Power:       power,
			LowerCI:     lower,
			UpperCI:     upper,
		},
	}
}

// jackknife averages the eigenspectra and derives confidence bounds from
// the leave-one-taper-out estimates in log space, using a Student-t
// quantile with K-1 degrees of freedom.
func jackknife(eigen [][]float64, p Params) (power, lower, upper []float64) {
	k := len(eigen)
	nfreq := len(eigen[0])
	power = make([]float64, nfreq)
	lower = make([]float64, nfreq)
	upper = make([]float64, nfreq)

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(k - 1)}
	tq := tDist.Quantile(0.5 + p.Confidence/2)

	const floor = 1e-300
	loo := make([]float64, k)
	for j := 0; j < nfreq; j++ {
		sum := 0.0
		for _, spec := range eigen {
			sum += spec[j]
		}
		mean := sum / float64(k)
		power[j] = mean

		// Leave-one-out log estimates.
		logMean := 0.0
		for i, spec := range eigen {
			m := (sum - spec[j]) / float64(k-1)
			if m < floor {
				m = floor
			}
			loo[i] = math.Log(m)
			logMean += loo[i]
		}
		logMean /= float64(k)

		variance := 0.0
		for _, l := range loo {
			d := l - logMean
			variance += d * d
		}
		variance *= float64(k-1) / float64(k)

		center := mean
		if center < floor {
			center = floor
		}
		halfWidth := tq * math.Sqrt(variance)
		lower[j] = math.Exp(math.Log(center) - halfWidth)
		upper[j] = math.Exp(math.Log(center) + halfWidth)
	}
	return power, lower, upper
}

func distinctDays(readings []types.DerivedReading) int {
	days := make(map[time.Time]struct{})
	for _, r := range readings {
		day := time.Date(r.Time.Year(), r.Time.Month(), r.Time.Day(), 0, 0, 0, 0, r.Time.Location())
		days[day] = struct{}{}
	}
	return len(days)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
