package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/primatelab/circadian/internal/extrema"
	"github.com/primatelab/circadian/internal/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestChronogramsGroupByYear(t *testing.T) {
	bins := []types.Bin{
		{Date: day(2019, time.July, 1), Slot: 12, Mean: 36.5},
		{Date: day(2019, time.July, 2), Slot: 12, Mean: 36.6},
		{Date: day(2020, time.January, 1), Slot: 12, Mean: 36.7},
	}

	chrono := Chronograms(bins)
	if len(chrono) != 2 {
		t.Fatalf("got %d years, want 2", len(chrono))
	}
	if len(chrono[2019]) != 2 || len(chrono[2020]) != 1 {
		t.Errorf("trace counts: 2019=%d 2020=%d, want 2 and 1", len(chrono[2019]), len(chrono[2020]))
	}

	trace := chrono[2019][0]
	if trace.Values[12] != 36.5 {
		t.Errorf("slot 12 = %v, want 36.5", trace.Values[12])
	}
	if !math.IsNaN(trace.Values[13]) {
		t.Errorf("empty slot 13 = %v, want NaN", trace.Values[13])
	}
	if len(trace.Values) != 48 {
		t.Errorf("trace has %d slots, want 48", len(trace.Values))
	}
}

func TestActogramsGroupByMonth(t *testing.T) {
	bins := []types.Bin{
		{Date: day(2019, time.July, 1), Slot: 0, Delta: -0.2, Sign: types.Negative},
		{Date: day(2019, time.July, 1), Slot: 24, Delta: 0.2, Sign: types.Positive},
		{Date: day(2019, time.August, 1), Slot: 0, Delta: 0.1, Sign: types.Positive},
	}

	acto := Actograms(bins)
	julyKey := types.MonthKey{Year: 2019, Month: time.July}
	augKey := types.MonthKey{Year: 2019, Month: time.August}
	if len(acto[julyKey]) != 1 || len(acto[augKey]) != 1 {
		t.Fatalf("partition sizes: july=%d august=%d, want 1 and 1", len(acto[julyKey]), len(acto[augKey]))
	}

	july := acto[julyKey][0]
	if july.Deltas[0] != -0.2 || july.Deltas[24] != 0.2 {
		t.Errorf("deltas = %v and %v, want -0.2 and 0.2", july.Deltas[0], july.Deltas[24])
	}
}

func TestSummarize(t *testing.T) {
	readings := []types.DerivedReading{
		{Reading: types.Reading{Temperature: 36.0}, Smoothed: 36.1},
		{Reading: types.Reading{Temperature: 37.0}, Smoothed: 36.9},
		{Reading: types.Reading{Temperature: 38.0}, Smoothed: 37.7},
	}

	cols := Summarize(readings)
	if len(cols) != 2 {
		t.Fatalf("got %d columns, want 2", len(cols))
	}
	raw := cols[0]
	if raw.Name != "temperature" || raw.Count != 3 {
		t.Errorf("column = %s n=%d, want temperature n=3", raw.Name, raw.Count)
	}
	if raw.Min != 36.0 || raw.Max != 38.0 || math.Abs(raw.Mean-37.0) > 1e-12 {
		t.Errorf("min/mean/max = %v/%v/%v, want 36/37/38", raw.Min, raw.Mean, raw.Max)
	}
}

func TestWriteMultiExtremumDays(t *testing.T) {
	h := time.Date(2019, time.July, 1, 3, 0, 0, 0, time.UTC)
	days := []extrema.DaySummary{
		{
			Date: day(2019, time.July, 1),
			Minima: []types.DailyExtremum{
				{Hour: h, Kind: types.Minimum},
				{Hour: h.Add(2 * time.Hour), Kind: types.Minimum},
			},
			Maxima: []types.DailyExtremum{{Hour: h.Add(12 * time.Hour), Kind: types.Maximum}},
		},
	}

	var sb strings.Builder
	WriteMultiExtremumDays(&sb, days)
	out := sb.String()

	if !strings.Contains(out, "2019-07-01") {
		t.Errorf("output missing date:\n%s", out)
	}
	if !strings.Contains(out, "03:00, 05:00") {
		t.Errorf("output missing tied minima hours:\n%s", out)
	}
}

func TestWriteSpansEmpty(t *testing.T) {
	var sb strings.Builder
	WriteSpans(&sb, nil)
	if !strings.Contains(sb.String(), "No days") {
		t.Errorf("unexpected output: %s", sb.String())
	}
}
