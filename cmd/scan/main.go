package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"pattern-engine/config"
	"pattern-engine/internal/candlefile"
	"pattern-engine/internal/logging"
	"pattern-engine/internal/market"
	"pattern-engine/internal/patterns"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "candle history file (json, csv, or parquet)")
		format     = flag.String("format", "", "input format; inferred from extension when empty")
		configPath = flag.String("config", "config.json", "config file path")
		topN       = flag.Int("top", 0, "max ranked signals to print (overrides config)")
		asJSON     = flag.Bool("json", false, "print results as JSON")
	)
	flag.Parse()

	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.WithComponent(logging.New(cfg.LoggingConfig.Level, cfg.LoggingConfig.JSONFormat), "scan")

	path := *inputPath
	if path == "" {
		path = cfg.InputConfig.Path
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "no input file: pass -input or set input.path in config")
		os.Exit(2)
	}

	inFormat := *format
	if inFormat == "" {
		inFormat = cfg.InputConfig.Format
	}
	if inFormat == "" {
		inFormat = candlefile.DetectFormat(path)
	}

	loader := candlefile.NewLoader(inFormat)
	if loader == nil {
		fmt.Fprintf(os.Stderr, "unsupported input format %q\n", inFormat)
		os.Exit(2)
	}

	candles, err := loader.Load(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to load candles")
		os.Exit(1)
	}
	logger.Info().Str("path", path).Str("format", inFormat).Int("candles", len(candles)).Msg("loaded candle history")

	if *topN <= 0 {
		*topN = cfg.DetectorConfig.TopN
	}

	detector := patterns.NewDetector(patterns.Options{
		SwingLookback: cfg.DetectorConfig.SwingLookback,
		TopN:          *topN,
		VolumePeriod:  cfg.DetectorConfig.VolumePeriod,
		Logger:        &logger,
	})

	detection, err := detector.DetectPatterns(candles)
	if err != nil {
		var invalid *market.InvalidInputError
		if errors.As(err, &invalid) {
			logger.Error().Int("index", invalid.Index).Str("reason", invalid.Reason).Msg("malformed candle")
		} else {
			logger.Error().Err(err).Msg("detection failed")
		}
		os.Exit(1)
	}

	signals := detector.GenerateSignals(detection)
	strength := detector.PatternStrength(detection)

	if *asJSON {
		printJSON(detection, signals, strength)
		return
	}
	printTable(detection, signals, strength)
}

func printJSON(detection *patterns.Detection, signals []patterns.PatternMatch, strength float64) {
	out := struct {
		Detection *patterns.Detection     `json:"detection"`
		Signals   []patterns.PatternMatch `json:"signals"`
		Strength  float64                 `json:"strength"`
	}{detection, signals, strength}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func printTable(detection *patterns.Detection, signals []patterns.PatternMatch, strength float64) {
	fmt.Printf("detected: %d candlestick, %d chart, %d harmonic, %d volume (overall strength %.1f)\n\n",
		len(detection.Candlestick), len(detection.Chart), len(detection.Harmonic), len(detection.Volume), strength)

	if len(signals) == 0 {
		fmt.Println("no signals above the confidence thresholds")
		return
	}

	fmt.Printf("%-26s %7s %8s %11s  %s\n", "PATTERN", "INDEX", "SIGNAL", "CONFIDENCE", "DESCRIPTION")
	for _, s := range signals {
		fmt.Printf("%-26s %7d %8s %10.1f%%  %s\n", s.Type, s.CandleIndex, s.Signal, s.Confidence, s.Description)
	}
}
