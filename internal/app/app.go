// Package app wires the analysis pipeline together: load, preprocess,
// fan the report generators out over partitions, render, summarize.
package app

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/primatelab/circadian/internal/autocorr"
	"github.com/primatelab/circadian/internal/binning"
	"github.com/primatelab/circadian/internal/extrema"
	"github.com/primatelab/circadian/internal/loader"
	"github.com/primatelab/circadian/internal/log"
	"github.com/primatelab/circadian/internal/preprocess"
	"github.com/primatelab/circadian/internal/render"
	"github.com/primatelab/circadian/internal/report"
	"github.com/primatelab/circadian/internal/spectral"
	"github.com/primatelab/circadian/internal/types"
	"github.com/primatelab/circadian/pkg/config"
)

// Options selects the input source for one run.
type Options struct {
	InputFormat string // csv, sqlite, postgres
	InputPath   string
}

// App is the one-shot batch analysis job.
type App struct {
	cfg    *config.Data
	opts   Options
	logger *zap.SugaredLogger
}

// New creates an analysis run over the given input.
func New(cfg *config.Data, opts Options, logger *zap.SugaredLogger) *App {
	return &App{cfg: cfg, opts: opts, logger: logger}
}

// Run executes the pipeline. Precondition violations (empty or malformed
// input) abort immediately with no partial output. Failures inside one
// partition's report are logged and do not stop the other partitions.
func (a *App) Run(ctx context.Context) error {
	readings, err := loader.Load(a.opts.InputFormat, a.opts.InputPath, a.cfg.Subject)
	if err != nil {
		return fmt.Errorf("loading readings: %w", err)
	}
	subject := a.subjectName(readings)
	log.Infof("loaded %d readings for %s", len(readings), subject)

	derived, err := preprocess.Decorate(readings, a.cfg.Smoothing.WindowSamples)
	if err != nil {
		return fmt.Errorf("preprocessing: %w", err)
	}

	// Shared intermediate tables, immutable from here on.
	hours := extrema.Hourly(derived)
	days := extrema.Daily(hours)
	bins := binning.Daily(derived)
	monthReadings := binning.ByMonth(derived)
	monthBins := binning.BinsByMonth(bins)

	renderer := &render.Renderer{OutputDir: a.cfg.OutputDir, Subject: subject}
	failures := newFailureList()

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.runChronograms(renderer, bins, failures)
		return nil
	})
	g.Go(func() error {
		a.runActograms(renderer, bins, failures)
		return nil
	})
	g.Go(func() error {
		a.runExtremaTiming(renderer, days, failures)
		return nil
	})
	g.Go(func() error {
		a.runPeriodograms(renderer, monthReadings, failures)
		return nil
	})
	g.Go(func() error {
		a.runAutocorrelations(renderer, monthBins, failures)
		return nil
	})
	g.Wait()

	a.writeSummaries(subject, derived, days)

	if n := failures.len(); n > 0 {
		log.Warnf("%d report(s) failed; see log for details", n)
	}
	return nil
}

func (a *App) runChronograms(r *render.Renderer, bins []types.Bin, failures *failureList) {
	for year, traces := range report.Chronograms(bins) {
		path, err := r.Chronogram(year, traces)
		if err != nil {
			failures.add(fmt.Sprintf("chronogram %d", year), err)
			continue
		}
		log.Infof("wrote %s", path)
	}
}

func (a *App) runActograms(r *render.Renderer, bins []types.Bin, failures *failureList) {
	acto := report.Actograms(bins)
	for _, key := range binning.SortedKeys(acto) {
		path, err := r.Actogram(key, acto[key])
		if err != nil {
			failures.add(fmt.Sprintf("actogram %s", key), err)
			continue
		}
		log.Infof("wrote %s", path)
	}
}

func (a *App) runExtremaTiming(r *render.Renderer, days []extrema.DaySummary, failures *failureList) {
	years := make(map[int]bool)
	for _, d := range days {
		years[d.Date.Year()] = true
	}
	for year := range years {
		var yearDays []extrema.DaySummary
		for _, d := range days {
			if d.Date.Year() == year {
				yearDays = append(yearDays, d)
			}
		}

		if path, err := r.ExtremaTiming(year, yearDays); err != nil {
			failures.add(fmt.Sprintf("extrema timing %d", year), err)
		} else {
			log.Infof("wrote %s", path)
		}

		minDensity := extrema.TimingDensity(yearDays, types.Minimum, 256)
		maxDensity := extrema.TimingDensity(yearDays, types.Maximum, 256)
		if path, err := r.TimingDensity(year, minDensity, maxDensity); err != nil {
			failures.add(fmt.Sprintf("timing density %d", year), err)
		} else {
			log.Infof("wrote %s", path)
		}
	}
}

func (a *App) runPeriodograms(r *render.Renderer, parts map[types.MonthKey][]types.DerivedReading, failures *failureList) {
	params := spectral.Params{
		NW:         a.cfg.Spectral.TimeBandwidth,
		K:          a.cfg.Spectral.Tapers,
		DeltaT:     float64(a.cfg.Sampling.IntervalMinutes) / (24 * 60),
		MinDays:    a.cfg.Spectral.MinDays,
		Confidence: a.cfg.Spectral.Confidence,
	}

	for _, key := range binning.SortedKeys(parts) {
		res := spectral.Estimate(key, parts[key], params)
		if !res.Computed() {
			log.Infof("periodogram %s skipped: %s", key, res.Skipped)
			continue
		}
		path, err := r.Periodogram(res)
		if err != nil {
			failures.add(fmt.Sprintf("periodogram %s", key), err)
			continue
		}
		log.Infof("wrote %s", path)
	}
}

func (a *App) runAutocorrelations(r *render.Renderer, parts map[types.MonthKey][]types.Bin, failures *failureList) {
	for _, key := range binning.SortedKeys(parts) {
		res := autocorr.Estimate(key, binning.Values(parts[key]), a.cfg.Autocorr.MaxLagBins)
		if !res.Computed() {
			log.Infof("autocorrelation %s skipped: %s", key, res.Skipped)
			continue
		}
		path, err := r.Autocorrelation(res)
		if err != nil {
			failures.add(fmt.Sprintf("autocorrelation %s", key), err)
			continue
		}
		log.Infof("wrote %s", path)
	}
}

func (a *App) writeSummaries(subject string, derived []types.DerivedReading, days []extrema.DaySummary) {
	report.WriteSummaries(os.Stdout, subject, report.Summarize(derived))
	report.WriteMultiExtremumDays(os.Stdout, extrema.MultiExtremumDays(days))
	report.WriteSpans(os.Stdout, extrema.Spans(days))
}

func (a *App) subjectName(readings []types.Reading) string {
	if a.cfg.Subject != "" {
		return a.cfg.Subject
	}
	if readings[0].Subject != "" {
		return readings[0].Subject
	}
	return "subject"
}

// failureList collects per-report failures without aborting the run.
type failureList struct {
	mu   sync.Mutex
	list []string
}

func newFailureList() *failureList {
	return &failureList{}
}

func (f *failureList) add(report string, err error) {
	log.Errorf("%s: %v", report, err)
	f.mu.Lock()
	f.list = append(f.list, report)
	f.mu.Unlock()
}

func (f *failureList) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.list)
}
