package extrema

import (
	"math"

	"github.com/primatelab/circadian/internal/types"
)

// DensityPoint is one evaluation of the timing density estimate.
type DensityPoint struct {
	X     float64 // hour of day, 0..24
	Value float64
}

// TimingDensity estimates a Gaussian kernel density of the hour-of-day at
// which extrema of the given kind occur. Every observation participates,
// including the extra extrema of multi-extremum days: this analysis
// tolerates multiple observations per day. Returns nil when there are
// fewer than two observations.
func TimingDensity(days []DaySummary, kind types.ExtremumKind, gridSize int) []DensityPoint {
	var hours []float64
	for _, d := range days {
		list := d.Minima
		if kind == types.Maximum {
			list = d.Maxima
		}
		for _, e := range list {
			hours = append(hours, float64(e.Hour.Hour())+float64(e.Hour.Minute())/60)
		}
	}
	if len(hours) < 2 {
		return nil
	}

	bw := silvermanBandwidth(hours)
	if bw <= 0 {
		bw = 0.5
	}

	if gridSize < 2 {
		gridSize = 256
	}
	points := make([]DensityPoint, gridSize)
	n := float64(len(hours))
	for i := 0; i < gridSize; i++ {
		x := 24 * float64(i) / float64(gridSize-1)
		sum := 0.0
		for _, h := range hours {
			z := (x - h) / bw
			sum += math.Exp(-0.5 * z * z)
		}
		points[i] = DensityPoint{
			X:     x,
			Value: sum / (n * bw * math.Sqrt(2*math.Pi)),
		}
	}
	return points
}

// silvermanBandwidth applies Silverman's rule of thumb, 1.06*sd*n^(-1/5).
func silvermanBandwidth(xs []float64) float64 {
	n := float64(len(xs))
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= n

	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	if n < 2 {
		return 0
	}
	sd := math.Sqrt(ss / (n - 1))
	return 1.06 * sd * math.Pow(n, -0.2)
}
