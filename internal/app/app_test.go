package app

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/primatelab/circadian/internal/log"
	"github.com/primatelab/circadian/pkg/config"
)

func writeFixtureCSV(t *testing.T, days int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("timestamp,temperature,subject\n")
	start := time.Date(2019, time.July, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days*288; i++ {
		ts := start.Add(time.Duration(i) * 5 * time.Minute)
		phase := 2 * math.Pi * float64(i) / 288
		temp := 37.0 + 0.6*math.Cos(phase) + 0.05*math.Sin(float64(i)*0.91)
		fmt.Fprintf(&sb, "%s,%.3f,Callie\n", ts.Format("2006-01-02 15:04:05"), temp)
	}

	path := filepath.Join(t.TempDir(), "readings.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestRunShortSeriesEndToEnd(t *testing.T) {
	if err := log.Init(true); err != nil {
		t.Fatalf("log init: %v", err)
	}

	// Three days: long enough for chronograms, actograms and extrema
	// reports, short enough that the spectral and autocorrelation
	// partitions take their placeholder paths.
	input := writeFixtureCSV(t, 3)
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()

	a := New(cfg, Options{InputFormat: "csv", InputPath: input}, log.GetSugaredLogger())
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		t.Fatalf("reading output dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	joined := strings.Join(names, " ")

	for _, want := range []string{"chronogram_2019", "actogram_2019-07", "extrema_timing_2019"} {
		if !strings.Contains(joined, want) {
			t.Errorf("output dir missing %s artifact; have: %s", want, joined)
		}
	}
	// Placeholder policies: no spectral or autocorrelation artifacts for a
	// three-day series.
	for _, banned := range []string{"periodogram", "acf"} {
		if strings.Contains(joined, banned) {
			t.Errorf("short series unexpectedly produced %s artifact; have: %s", banned, joined)
		}
	}
}

func TestRunMissingInputFails(t *testing.T) {
	if err := log.Init(true); err != nil {
		t.Fatalf("log init: %v", err)
	}

	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	a := New(cfg, Options{InputFormat: "csv", InputPath: filepath.Join(t.TempDir(), "absent.csv")}, log.GetSugaredLogger())

	if err := a.Run(context.Background()); err == nil {
		t.Fatal("Run succeeded with a missing input file")
	}
}
