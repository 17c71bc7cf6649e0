// Package config loads analysis parameters for the circadian pipeline.
package config

import "fmt"

// Data is the complete analysis configuration. Zero values are filled from
// Default() so a partial config file only overrides what it names.
type Data struct {
	Subject   string        `yaml:"subject,omitempty"`
	OutputDir string        `yaml:"output_dir,omitempty"`
	Sampling  SamplingData  `yaml:"sampling,omitempty"`
	Smoothing SmoothingData `yaml:"smoothing,omitempty"`
	Spectral  SpectralData  `yaml:"spectral,omitempty"`
	Autocorr  AutocorrData  `yaml:"autocorrelation,omitempty"`
}

// SamplingData describes the nominal cadence of the input series.
type SamplingData struct {
	IntervalMinutes int `yaml:"interval_minutes,omitempty"`
}

// SmoothingData configures the centered rolling mean.
type SmoothingData struct {
	WindowSamples int `yaml:"window_samples,omitempty"`
}

// SpectralData configures the multitaper estimator.
type SpectralData struct {
	TimeBandwidth float64 `yaml:"time_bandwidth,omitempty"`
	Tapers        int     `yaml:"tapers,omitempty"`
	MinDays       int     `yaml:"min_days,omitempty"`
	Confidence    float64 `yaml:"confidence,omitempty"`
}

// AutocorrData configures the autocorrelation estimator.
type AutocorrData struct {
	MaxLagBins int `yaml:"max_lag_bins,omitempty"`
}

// Default returns the standard analysis parameters: 5-minute cadence, a
// 12-sample smoothing window, NW=4 / K=7 multitaper with a 16-day floor,
// and a 480-bin (10-day) autocorrelation lag window.
func Default() *Data {
	return &Data{
		OutputDir: "plots",
		Sampling:  SamplingData{IntervalMinutes: 5},
		Smoothing: SmoothingData{WindowSamples: 12},
		Spectral: SpectralData{
			TimeBandwidth: 4,
			Tapers:        7,
			MinDays:       16,
			Confidence:    0.95,
		},
		Autocorr: AutocorrData{MaxLagBins: 480},
	}
}

// Validate rejects parameter combinations the estimators cannot honor.
func (d *Data) Validate() error {
	if d.Sampling.IntervalMinutes <= 0 {
		return fmt.Errorf("sampling interval must be positive, got %d", d.Sampling.IntervalMinutes)
	}
	if d.Smoothing.WindowSamples <= 0 {
		return fmt.Errorf("smoothing window must be positive, got %d", d.Smoothing.WindowSamples)
	}
	if d.Spectral.Tapers <= 0 {
		return fmt.Errorf("taper count must be positive, got %d", d.Spectral.Tapers)
	}
	if float64(d.Spectral.Tapers) > 2*d.Spectral.TimeBandwidth {
		return fmt.Errorf("taper count %d exceeds 2*NW=%g", d.Spectral.Tapers, 2*d.Spectral.TimeBandwidth)
	}
	if d.Spectral.Confidence <= 0 || d.Spectral.Confidence >= 1 {
		return fmt.Errorf("confidence level must be in (0,1), got %g", d.Spectral.Confidence)
	}
	if d.Autocorr.MaxLagBins <= 0 {
		return fmt.Errorf("autocorrelation lag window must be positive, got %d", d.Autocorr.MaxLagBins)
	}
	return nil
}

// merge fills zero-valued fields of d from def.
func (d *Data) merge(def *Data) {
	if d.OutputDir == "" {
		d.OutputDir = def.OutputDir
	}
	if d.Sampling.IntervalMinutes == 0 {
		d.Sampling.IntervalMinutes = def.Sampling.IntervalMinutes
	}
	if d.Smoothing.WindowSamples == 0 {
		d.Smoothing.WindowSamples = def.Smoothing.WindowSamples
	}
	if d.Spectral.TimeBandwidth == 0 {
		d.Spectral.TimeBandwidth = def.Spectral.TimeBandwidth
	}
	if d.Spectral.Tapers == 0 {
		d.Spectral.Tapers = def.Spectral.Tapers
	}
	if d.Spectral.MinDays == 0 {
		d.Spectral.MinDays = def.Spectral.MinDays
	}
	if d.Spectral.Confidence == 0 {
		d.Spectral.Confidence = def.Spectral.Confidence
	}
	if d.Autocorr.MaxLagBins == 0 {
		d.Autocorr.MaxLagBins = def.Autocorr.MaxLagBins
	}
}
