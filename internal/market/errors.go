package market

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is the sentinel for structurally malformed candle data
var ErrInvalidInput = errors.New("invalid candle input")

// InvalidInputError reports the first malformed candle in a series
type InvalidInputError struct {
	Index  int
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid candle at index %d: %s", e.Index, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// Validate checks structural OHLCV invariants on the whole series.
// It fails fast on the first offending candle and never attempts
// partial analysis. An empty series is valid.
func Validate(candles []Candle) error {
	for i, c := range candles {
		if reason := validateCandle(c); reason != "" {
			return &InvalidInputError{Index: i, Reason: reason}
		}
	}
	return nil
}

func validateCandle(c Candle) string {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "non-finite price"
		}
	}
	if math.IsNaN(c.Volume) || math.IsInf(c.Volume, 0) {
		return "non-finite volume"
	}
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return "non-positive price"
	}
	if c.High < c.Low {
		return "high below low"
	}
	if c.Open < c.Low || c.Open > c.High {
		return "open outside high-low range"
	}
	if c.Close < c.Low || c.Close > c.High {
		return "close outside high-low range"
	}
	if c.Volume < 0 {
		return "negative volume"
	}
	return ""
}
