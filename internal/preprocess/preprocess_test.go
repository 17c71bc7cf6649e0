package preprocess

import (
	"math"
	"testing"
	"time"

	"github.com/primatelab/circadian/internal/types"
)

func readingsAt(start time.Time, step time.Duration, temps []float64) []types.Reading {
	out := make([]types.Reading, len(temps))
	for i, v := range temps {
		out[i] = types.Reading{Time: start.Add(time.Duration(i) * step), Temperature: v, Subject: "Callie"}
	}
	return out
}

func TestRollingMeanLengthMatchesInput(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		window int
	}{
		{"shorter than window", []float64{1, 2, 3}, 12},
		{"equal to window", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, 12},
		{"longer than window", make([]float64, 100), 12},
		{"single sample", []float64{5}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RollingMean(tt.values, tt.window)
			if len(got) != len(tt.values) {
				t.Errorf("output length = %d, want %d", len(got), len(tt.values))
			}
		})
	}
}

func TestRollingMeanEdgePartialWindows(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	got := RollingMean(values, 4)

	// Window 4 centers as [i-2, i+1]. At the left edge only the available
	// samples participate.
	want := []float64{
		(1.0 + 2.0) / 2,             // [0,1]
		(1.0 + 2.0 + 3.0) / 3,       // [0,2]
		(1.0 + 2.0 + 3.0 + 4.0) / 4, // [0,3]
		(2.0 + 3.0 + 4.0 + 5.0) / 4, // [1,4]
		(3.0 + 4.0 + 5.0) / 3,       // [2,4]
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("RollingMean[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRollingMeanConstantSeries(t *testing.T) {
	values := []float64{36.8, 36.8, 36.8, 36.8, 36.8, 36.8}
	for i, v := range RollingMean(values, 12) {
		if v != 36.8 {
			t.Errorf("RollingMean[%d] = %v, want 36.8", i, v)
		}
	}
}

func TestDecorateCalendarFields(t *testing.T) {
	start := time.Date(2019, time.July, 14, 23, 55, 0, 0, time.UTC)
	readings := readingsAt(start, 5*time.Minute, []float64{36.8, 36.9, 37.0})

	derived, err := Decorate(readings, 12)
	if err != nil {
		t.Fatalf("Decorate: %v", err)
	}

	if derived[0].Day != 14 || derived[0].Month != time.July || derived[0].Year != "2019" {
		t.Errorf("first reading decorated as %d/%s/%s, want 14/July/2019", derived[0].Day, derived[0].Month, derived[0].Year)
	}
	// Second sample crosses midnight into the 15th.
	if derived[1].Day != 15 {
		t.Errorf("second reading day = %d, want 15", derived[1].Day)
	}
}

func TestDecoratePreservesRawValues(t *testing.T) {
	start := time.Date(2019, time.July, 1, 0, 0, 0, 0, time.UTC)
	temps := []float64{36.811, 36.923, 37.001, 36.875}
	readings := readingsAt(start, 5*time.Minute, temps)

	derived, err := Decorate(readings, 2)
	if err != nil {
		t.Fatalf("Decorate: %v", err)
	}

	for i, d := range derived {
		if d.Temperature != temps[i] {
			t.Errorf("raw temperature[%d] = %v, want %v", i, d.Temperature, temps[i])
		}
		if d.Smoothed != math.Round(d.Smoothed*100)/100 {
			t.Errorf("smoothed[%d] = %v, not rounded to 2 decimals", i, d.Smoothed)
		}
	}
}

func TestDecorateEmptySeries(t *testing.T) {
	if _, err := Decorate(nil, 12); err != ErrEmptySeries {
		t.Errorf("Decorate(nil) error = %v, want ErrEmptySeries", err)
	}
}
