package analysis

import (
	"math"

	"pattern-engine/internal/market"
)

// VolumeProfile represents volume analysis results for the latest candle
type VolumeProfile struct {
	CurrentVolume  float64
	AverageVolume  float64
	VolumeRatio    float64 // Current / Average
	ZScore         float64 // Standard deviations above the rolling mean
	IsHighVolume   bool    // Volume > 2x average
	IsClimaxVolume bool    // Volume > 3x average
	OBV            float64 // On-Balance Volume
}

// VolumeAnalyzer provides volume-based analysis over candle series
type VolumeAnalyzer struct {
	avgPeriod int // Period for rolling average and deviation
}

// NewVolumeAnalyzer creates a new volume analyzer
func NewVolumeAnalyzer(avgPeriod int) *VolumeAnalyzer {
	if avgPeriod <= 0 {
		avgPeriod = 20 // Default 20-period average
	}
	return &VolumeAnalyzer{
		avgPeriod: avgPeriod,
	}
}

// AnalyzeVolume summarizes volume behavior at the end of the series.
// Returns nil on empty input.
func (va *VolumeAnalyzer) AnalyzeVolume(candles []market.Candle) *VolumeProfile {
	if len(candles) == 0 {
		return nil
	}

	currentVolume := candles[len(candles)-1].Volume
	avgVolume := va.AverageVolume(candles)

	var volumeRatio float64
	if avgVolume > 0 {
		volumeRatio = currentVolume / avgVolume
	}

	return &VolumeProfile{
		CurrentVolume:  currentVolume,
		AverageVolume:  avgVolume,
		VolumeRatio:    volumeRatio,
		ZScore:         va.ZScore(candles),
		IsHighVolume:   volumeRatio > 2.0,
		IsClimaxVolume: volumeRatio > 3.0,
		OBV:            va.OBV(candles),
	}
}

// AverageVolume calculates the rolling average volume over the configured
// period, or the whole series when shorter.
func (va *VolumeAnalyzer) AverageVolume(candles []market.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}

	period := va.avgPeriod
	if len(candles) < period {
		period = len(candles)
	}

	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Volume
	}

	return sum / float64(period)
}

// ZScore measures how many standard deviations the latest volume sits
// above the rolling mean of the candles preceding it. Flat or too-short
// histories report 0, never NaN.
func (va *VolumeAnalyzer) ZScore(candles []market.Candle) float64 {
	if len(candles) < 2 {
		return 0
	}

	period := va.avgPeriod
	if len(candles)-1 < period {
		period = len(candles) - 1
	}

	window := candles[len(candles)-1-period : len(candles)-1]

	mean := 0.0
	for _, c := range window {
		mean += c.Volume
	}
	mean /= float64(len(window))

	variance := 0.0
	for _, c := range window {
		d := c.Volume - mean
		variance += d * d
	}
	variance /= float64(len(window))

	stddev := math.Sqrt(variance)
	if stddev == 0 {
		return 0
	}

	return (candles[len(candles)-1].Volume - mean) / stddev
}

// OBV calculates On-Balance Volume over the series.
// OBV accumulates volume on up-closes and sheds it on down-closes.
func (va *VolumeAnalyzer) OBV(candles []market.Candle) float64 {
	obv := 0.0
	for i := 1; i < len(candles); i++ {
		if candles[i].Close > candles[i-1].Close {
			obv += candles[i].Volume
		} else if candles[i].Close < candles[i-1].Close {
			obv -= candles[i].Volume
		}
	}
	return obv
}

// OBVSeries returns the cumulative OBV value at every index
func (va *VolumeAnalyzer) OBVSeries(candles []market.Candle) []float64 {
	if len(candles) == 0 {
		return nil
	}

	series := make([]float64, len(candles))
	for i := 1; i < len(candles); i++ {
		series[i] = series[i-1]
		if candles[i].Close > candles[i-1].Close {
			series[i] += candles[i].Volume
		} else if candles[i].Close < candles[i-1].Close {
			series[i] -= candles[i].Volume
		}
	}
	return series
}

// IsVolumeDryUp reports consolidation with declining volume: the second
// half of the window trades materially below the first half.
func (va *VolumeAnalyzer) IsVolumeDryUp(candles []market.Candle, period int) bool {
	if period <= 1 || len(candles) < period {
		return false
	}

	recent := candles[len(candles)-period:]
	mid := period / 2

	firstHalf := 0.0
	for i := 0; i < mid; i++ {
		firstHalf += recent[i].Volume
	}
	secondHalf := 0.0
	for i := mid; i < period; i++ {
		secondHalf += recent[i].Volume
	}

	firstHalf /= float64(mid)
	secondHalf /= float64(period - mid)

	return secondHalf < firstHalf*0.7
}
