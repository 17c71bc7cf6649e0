package spectral

import (
	"math"
	"testing"
	"time"

	"github.com/primatelab/circadian/internal/types"
)

var july = types.MonthKey{Year: 2019, Month: time.July}

// dailyCycle builds days of 5-minute readings riding a one-cycle-per-day
// sinusoid with a touch of deterministic jitter.
func dailyCycle(days int) []types.DerivedReading {
	start := time.Date(2019, time.July, 1, 0, 0, 0, 0, time.UTC)
	n := days * 288
	readings := make([]types.DerivedReading, n)
	for i := 0; i < n; i++ {
		phase := 2 * math.Pi * float64(i) / 288
		temp := 37.0 + 0.5*math.Cos(phase) + 0.02*math.Sin(float64(i)*1.37)
		readings[i] = types.DerivedReading{
			Reading: types.Reading{Time: start.Add(time.Duration(i) * 5 * time.Minute), Temperature: temp},
		}
	}
	return readings
}

func TestEstimateShortPartitionSkipped(t *testing.T) {
	res := Estimate(july, dailyCycle(15), DefaultParams())
	if res.Computed() {
		t.Fatal("15 days of data must yield the insufficient-length placeholder")
	}
	if res.Skipped != types.ReasonShortSeries {
		t.Errorf("skip reason = %q, want %q", res.Skipped, types.ReasonShortSeries)
	}
}

func TestEstimateSixteenDays(t *testing.T) {
	res := Estimate(july, dailyCycle(16), DefaultParams())
	if !res.Computed() {
		t.Fatalf("16 days skipped: %s", res.Skipped)
	}

	est := res.Estimate
	if len(est.Frequencies) == 0 {
		t.Fatal("empty frequency axis")
	}
	if len(est.Power) != len(est.Frequencies) ||
		len(est.LowerCI) != len(est.Frequencies) ||
		len(est.UpperCI) != len(est.Frequencies) {
		t.Errorf("array lengths differ: f=%d p=%d lo=%d hi=%d",
			len(est.Frequencies), len(est.Power), len(est.LowerCI), len(est.UpperCI))
	}
}

func TestEstimateFindsCircadianPeak(t *testing.T) {
	res := Estimate(july, dailyCycle(16), DefaultParams())
	if !res.Computed() {
		t.Fatalf("skipped: %s", res.Skipped)
	}
	est := res.Estimate

	// Locate the spectral peak away from DC.
	peak := 1
	for j := 2; j < len(est.Power); j++ {
		if est.Power[j] > est.Power[peak] {
			peak = j
		}
	}
	f := est.Frequencies[peak]
	if f < 0.7 || f > 1.3 {
		t.Errorf("dominant frequency = %v cycles/day, want near 1", f)
	}
}

func TestEstimateConfidenceBoundsBracketPower(t *testing.T) {
	res := Estimate(july, dailyCycle(16), DefaultParams())
	if !res.Computed() {
		t.Fatalf("skipped: %s", res.Skipped)
	}
	est := res.Estimate

	for j := range est.Power {
		if est.LowerCI[j] > est.Power[j] || est.UpperCI[j] < est.Power[j] {
			t.Fatalf("bounds at bin %d do not bracket the estimate: [%v, %v] vs %v",
				j, est.LowerCI[j], est.UpperCI[j], est.Power[j])
		}
		if est.LowerCI[j] < 0 {
			t.Fatalf("negative lower bound %v at bin %d", est.LowerCI[j], j)
		}
	}
}

func TestEstimateFrequencyUnits(t *testing.T) {
	res := Estimate(july, dailyCycle(16), DefaultParams())
	if !res.Computed() {
		t.Fatalf("skipped: %s", res.Skipped)
	}
	est := res.Estimate

	if est.Frequencies[0] != 0 {
		t.Errorf("first frequency = %v, want 0 (DC)", est.Frequencies[0])
	}
	// One-sided axis ends at the Nyquist frequency, 144 cycles/day at
	// a 5-minute cadence.
	last := est.Frequencies[len(est.Frequencies)-1]
	if math.Abs(last-144) > 1e-9 {
		t.Errorf("Nyquist frequency = %v, want 144 cycles/day", last)
	}
}
