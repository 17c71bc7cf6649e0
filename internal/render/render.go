// Package render draws the PNG artifacts for each report. It is purely a
// presentation layer: every numeric series arrives fully computed and the
// renderer only lays it out.
package render

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/primatelab/circadian/internal/extrema"
	"github.com/primatelab/circadian/internal/report"
	"github.com/primatelab/circadian/internal/types"
)

// Renderer writes chart PNGs beneath OutputDir, named by subject and
// partition.
type Renderer struct {
	OutputDir string
	Subject   string
}

func lineStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{StrokeWidth: width, StrokeColor: col}
}

func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{StrokeWidth: 0, DotWidth: 2, DotColor: col}
}

// clockFormatter renders an hour-of-day axis value as a clock label.
func clockFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	slot := int(math.Round(f * 2))
	if slot < 0 || slot > 47 {
		return ""
	}
	return types.SlotLabel(slot)
}

// Chronogram overlays one faint line per day on a shared time-of-day axis.
func (r *Renderer) Chronogram(year int, traces []report.Trace) (string, error) {
	var series []chart.Series
	for _, tr := range traces {
		xs, ys := slotPoints(tr.Values)
		if len(xs) < 2 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(chart.ColorBlue.WithAlpha(40), 1.0),
		})
	}
	if len(series) == 0 {
		return "", fmt.Errorf("render: no drawable chronogram traces for %d", year)
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s — chronogram %d", r.Subject, year),
		Width:      1024,
		Height:     600,
		Background: chart.Style{Padding: chart.Box{Top: 36, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "hour of day", ValueFormatter: clockFormatter},
		YAxis:      chart.YAxis{Name: "temperature (°C)"},
		Series:     series,
	}
	return r.write(fmt.Sprintf("%s_chronogram_%d.png", r.Subject, year), ch)
}

// Actogram stacks the daily deviation profiles, one row per day, with
// positive deviations in blue and negative in gray.
func (r *Renderer) Actogram(key types.MonthKey, traces []report.DeviationTrace) (string, error) {
	maxAbs := 0.0
	for _, tr := range traces {
		for _, d := range tr.Deltas {
			if !math.IsNaN(d) && math.Abs(d) > maxAbs {
				maxAbs = math.Abs(d)
			}
		}
	}
	if maxAbs == 0 {
		maxAbs = 1
	}
	scale := 0.45 / maxAbs

	var posX, posY, negX, negY []float64
	for row, tr := range traces {
		for slot, d := range tr.Deltas {
			if math.IsNaN(d) {
				continue
			}
			x := float64(slot) / 2
			y := float64(row) + d*scale
			if d < 0 {
				negX = append(negX, x)
				negY = append(negY, y)
			} else {
				posX = append(posX, x)
				posY = append(posY, y)
			}
		}
	}
	if len(posX)+len(negX) < 2 {
		return "", fmt.Errorf("render: no drawable actogram bins for %s", key)
	}

	var series []chart.Series
	if len(posX) > 1 {
		series = append(series, chart.ContinuousSeries{
			Name: "Positive", XValues: posX, YValues: posY, Style: pointStyle(chart.ColorBlue),
		})
	}
	if len(negX) > 1 {
		series = append(series, chart.ContinuousSeries{
			Name: "Negative", XValues: negX, YValues: negY, Style: pointStyle(chart.ColorAlternateGray),
		})
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s — actogram %s", r.Subject, key),
		Width:      1024,
		Height:     768,
		Background: chart.Style{Padding: chart.Box{Top: 36, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "hour of day", ValueFormatter: clockFormatter},
		YAxis:      chart.YAxis{Name: "day of month"},
		Series:     series,
	}
	return r.write(fmt.Sprintf("%s_actogram_%s.png", r.Subject, key), ch)
}

// Periodogram plots spectral power against period (the inverted frequency
// axis), bracketed by the jackknife bounds. Skipped partitions produce no
// artifact; the caller reports the annotation instead.
func (r *Renderer) Periodogram(res types.SpectralResult) (string, error) {
	if !res.Computed() {
		return "", nil
	}
	est := res.Estimate

	// Presentation restricts to periods of at most two days; the stored
	// estimate keeps the full frequency axis.
	var periods, power, lower, upper []float64
	for j, f := range est.Frequencies {
		if f < 0.5 {
			continue
		}
		periods = append(periods, 24/f)
		power = append(power, est.Power[j])
		lower = append(lower, est.LowerCI[j])
		upper = append(upper, est.UpperCI[j])
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s — periodogram %s", r.Subject, res.Key),
		Width:      1024,
		Height:     600,
		Background: chart.Style{Padding: chart.Box{Top: 36, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "period (hours)"},
		YAxis:      chart.YAxis{Name: "power"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "power", XValues: periods, YValues: power, Style: lineStyle(chart.ColorBlue, 1.5)},
			chart.ContinuousSeries{Name: "lower 95%", XValues: periods, YValues: lower, Style: lineStyle(chart.ColorAlternateGray, 1.0)},
			chart.ContinuousSeries{Name: "upper 95%", XValues: periods, YValues: upper, Style: lineStyle(chart.ColorAlternateGray, 1.0)},
		},
	}
	return r.write(fmt.Sprintf("%s_periodogram_%s.png", r.Subject, res.Key), ch)
}

// Autocorrelation plots the lag series with its white-noise envelope.
func (r *Renderer) Autocorrelation(res types.AutocorrResult) (string, error) {
	if !res.Computed() {
		return "", nil
	}
	est := res.Estimate

	lagDays := make([]float64, len(est.Lags))
	for i, l := range est.Lags {
		lagDays[i] = float64(l) / 48
	}
	first, last := lagDays[0], lagDays[len(lagDays)-1]

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s — autocorrelation %s", r.Subject, res.Key),
		Width:      1024,
		Height:     600,
		Background: chart.Style{Padding: chart.Box{Top: 36, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "lag (days)"},
		YAxis:      chart.YAxis{Name: "autocorrelation"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "acf", XValues: lagDays, YValues: est.Coefficients, Style: lineStyle(chart.ColorBlue, 1.5)},
			chart.ContinuousSeries{XValues: []float64{first, last}, YValues: []float64{est.Envelope, est.Envelope}, Style: lineStyle(chart.ColorAlternateGray, 1.0)},
			chart.ContinuousSeries{XValues: []float64{first, last}, YValues: []float64{-est.Envelope, -est.Envelope}, Style: lineStyle(chart.ColorAlternateGray, 1.0)},
		},
	}
	return r.write(fmt.Sprintf("%s_acf_%s.png", r.Subject, res.Key), ch)
}

// ExtremaTiming scatters the hour of the daily minimum and maximum across
// the year. Only unique-pair days appear; multi-extremum days are reported
// in the console listing instead.
func (r *Renderer) ExtremaTiming(year int, days []extrema.DaySummary) (string, error) {
	var minX, minY, maxX, maxY []float64
	for _, d := range days {
		if !d.Unique() || d.Date.Year() != year {
			continue
		}
		doy := float64(d.Date.YearDay())
		minX = append(minX, doy)
		minY = append(minY, hourOfDay(d.Minima[0].Hour))
		maxX = append(maxX, doy)
		maxY = append(maxY, hourOfDay(d.Maxima[0].Hour))
	}
	if len(minX) < 2 {
		return "", fmt.Errorf("render: not enough unique-extremum days in %d", year)
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s — extrema timing %d", r.Subject, year),
		Width:      1024,
		Height:     600,
		Background: chart.Style{Padding: chart.Box{Top: 36, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "day of year"},
		YAxis:      chart.YAxis{Name: "hour of day", Range: &chart.ContinuousRange{Min: 0, Max: 24}},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "minimum", XValues: minX, YValues: minY, Style: pointStyle(chart.ColorBlue)},
			chart.ContinuousSeries{Name: "maximum", XValues: maxX, YValues: maxY, Style: pointStyle(chart.ColorRed)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return r.write(fmt.Sprintf("%s_extrema_timing_%d.png", r.Subject, year), ch)
}

// TimingDensity draws the kernel density of extremum timing. All
// observations participate, including those from multi-extremum days.
func (r *Renderer) TimingDensity(year int, minDensity, maxDensity []extrema.DensityPoint) (string, error) {
	var series []chart.Series
	if pts := densitySeries("minimum", minDensity, chart.ColorBlue); pts != nil {
		series = append(series, pts)
	}
	if pts := densitySeries("maximum", maxDensity, chart.ColorRed); pts != nil {
		series = append(series, pts)
	}
	if len(series) == 0 {
		return "", fmt.Errorf("render: no density estimates for %d", year)
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s — extrema timing density %d", r.Subject, year),
		Width:      1024,
		Height:     600,
		Background: chart.Style{Padding: chart.Box{Top: 36, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "hour of day", Range: &chart.ContinuousRange{Min: 0, Max: 24}},
		YAxis:      chart.YAxis{Name: "density"},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return r.write(fmt.Sprintf("%s_extrema_density_%d.png", r.Subject, year), ch)
}

func densitySeries(name string, pts []extrema.DensityPoint, col drawing.Color) chart.Series {
	if len(pts) < 2 {
		return nil
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.X
		ys[i] = p.Value
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: lineStyle(col, 1.5)}
}

func (r *Renderer) write(name string, ch chart.Chart) (string, error) {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("render: creating %s: %w", r.OutputDir, err)
	}
	path := filepath.Join(r.OutputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("render: creating %s: %w", path, err)
	}
	defer f.Close()

	if err := ch.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("render: drawing %s: %w", path, err)
	}
	return path, nil
}

// slotPoints converts a 48-slot trace to x/y point slices, dropping NaN
// slots so the chart library never sees them.
func slotPoints(values []float64) (xs, ys []float64) {
	for slot, v := range values {
		if math.IsNaN(v) {
			continue
		}
		xs = append(xs, float64(slot)/2)
		ys = append(ys, v)
	}
	return xs, ys
}

func hourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}
