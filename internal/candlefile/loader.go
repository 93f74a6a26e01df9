// Package candlefile loads candle history files for the scan tool.
// The detection core never touches the filesystem; these loaders adapt
// already-exported market data into the in-memory candle shape.
package candlefile

import (
	"strings"

	"pattern-engine/internal/market"
)

// Loader reads one candle-file format
type Loader interface {
	Load(path string) ([]market.Candle, error)
	Extension() string
}

// NewLoader creates the loader for a format (json, csv, parquet).
// Returns nil if the format is not supported.
func NewLoader(format string) Loader {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONLoader{}
	case "csv":
		return CSVLoader{}
	case "parquet":
		return ParquetLoader{}
	default:
		return nil
	}
}

// DetectFormat guesses the format from the file extension, defaulting
// to json.
func DetectFormat(path string) string {
	switch {
	case strings.HasSuffix(path, ".csv"):
		return "csv"
	case strings.HasSuffix(path, ".parquet"):
		return "parquet"
	default:
		return "json"
	}
}
