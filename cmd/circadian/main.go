package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/primatelab/circadian/internal/app"
	"github.com/primatelab/circadian/internal/log"
	"github.com/primatelab/circadian/pkg/config"
)

const version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	input := flag.String("input", "readings.csv", "Path to the cleaned readings table (file path, or a connection string for -format postgres)")
	format := flag.String("format", "csv", "Input format: 'csv', 'sqlite', or 'postgres'")
	cfgFile := flag.String("config", "", "Optional YAML file with analysis parameters")
	output := flag.String("output", "", "Directory for generated plots (overrides config)")
	subject := flag.String("subject", "", "Subject identifier to analyze (overrides config)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("circadian %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load analysis parameters
	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	if *output != "" {
		cfg.OutputDir = *output
	}
	if *subject != "" {
		cfg.Subject = *subject
	}

	// Create and run the analysis
	analysis := app.New(cfg, app.Options{InputFormat: *format, InputPath: *input}, log.GetSugaredLogger())
	if err := analysis.Run(context.Background()); err != nil {
		log.Errorf("Analysis error: %v", err)
		os.Exit(1)
	}
}
