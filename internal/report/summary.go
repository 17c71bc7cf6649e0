package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/primatelab/circadian/internal/extrema"
	"github.com/primatelab/circadian/internal/types"
)

// ColumnSummary is one row of the skim-style overview table.
type ColumnSummary struct {
	Name   string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Summarize produces overview rows for the raw and smoothed temperature
// columns of the derived series.
func Summarize(readings []types.DerivedReading) []ColumnSummary {
	raw := make([]float64, len(readings))
	smoothed := make([]float64, len(readings))
	for i, r := range readings {
		raw[i] = r.Temperature
		smoothed[i] = r.Smoothed
	}
	return []ColumnSummary{
		summarizeColumn("temperature", raw),
		summarizeColumn("smoothed", smoothed),
	}
}

func summarizeColumn(name string, values []float64) ColumnSummary {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return ColumnSummary{
		Name:   name,
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		Std:    stat.StdDev(values, nil),
		Min:    sorted[0],
		Q25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.50, stat.Empirical, sorted, nil),
		Q75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}

// WriteSummaries renders the overview table.
func WriteSummaries(w io.Writer, subject string, cols []ColumnSummary) {
	fmt.Fprintf(w, "Body temperature overview — %s\n", subject)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "column\tn\tmean\tsd\tmin\tq25\tmedian\tq75\tmax")
	for _, c := range cols {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			c.Name, c.Count, c.Mean, c.Std, c.Min, c.Q25, c.Median, c.Q75, c.Max)
	}
	tw.Flush()
}

// WriteMultiExtremumDays lists the days whose hourly trimean ties at its
// minimum or maximum. These days are excluded from the unique-pair
// analyses but reported rather than silently resolved.
func WriteMultiExtremumDays(w io.Writer, days []extrema.DaySummary) {
	if len(days) == 0 {
		fmt.Fprintln(w, "No days with duplicate extrema.")
		return
	}
	fmt.Fprintf(w, "Days with duplicate extrema (%d):\n", len(days))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "date\tminima\tmaxima")
	for _, d := range days {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			d.Date.Format("2006-01-02"), hoursList(d.Minima), hoursList(d.Maxima))
	}
	tw.Flush()
}

// WriteSpans summarizes the signed minimum-minus-maximum durations of the
// unique-extremum days.
func WriteSpans(w io.Writer, spans []extrema.Span) {
	if len(spans) == 0 {
		fmt.Fprintln(w, "No days with a unique extremum pair.")
		return
	}
	minutes := make([]float64, len(spans))
	for i, s := range spans {
		minutes[i] = s.Minutes
	}
	mean := stat.Mean(minutes, nil)
	sd := stat.StdDev(minutes, nil)
	fmt.Fprintf(w, "Time between extrema over %d days: mean %.1f min, sd %.1f min\n",
		len(spans), mean, sd)
}

func hoursList(list []types.DailyExtremum) string {
	out := ""
	for i, e := range list {
		if i > 0 {
			out += ", "
		}
		out += e.Hour.Format("15:04")
	}
	return out
}
