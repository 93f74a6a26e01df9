package patterns

import (
	"fmt"
	"math"

	"pattern-engine/internal/analysis"
	"pattern-engine/internal/market"
)

// VolumePatternDetector detects volume anomalies and the OBV/price
// divergence that marks accumulation or distribution phases.
type VolumePatternDetector struct {
	analyzer       *analysis.VolumeAnalyzer
	spikeZScore    float64 // Minimum z-score for a volume spike
	spikeRatio     float64 // Minimum current/average ratio for a spike
	climaxRatio    float64 // Minimum current/average ratio for a climax
	divergenceSpan int     // Window for OBV/price divergence
}

// NewVolumePatternDetector creates a detector with the standard thresholds
func NewVolumePatternDetector(avgPeriod int) *VolumePatternDetector {
	if avgPeriod <= 0 {
		avgPeriod = 20
	}
	return &VolumePatternDetector{
		analyzer:       analysis.NewVolumeAnalyzer(avgPeriod),
		spikeZScore:    3.0,
		spikeRatio:     2.0,
		climaxRatio:    3.0,
		divergenceSpan: avgPeriod * 2,
	}
}

// Detect scans for spike, climax, and accumulation/distribution patterns.
// Candles without volume data simply produce no matches.
func (vd *VolumePatternDetector) Detect(candles []market.Candle, _ []analysis.SwingPoint) []PatternMatch {
	if len(candles) < 2 {
		return nil
	}

	var matches []PatternMatch

	profile := vd.analyzer.AnalyzeVolume(candles)
	if profile == nil || profile.AverageVolume == 0 {
		return nil
	}

	last := candles[len(candles)-1]
	anchor := len(candles) - 1

	if m := vd.detectSpike(last, anchor, profile); m != nil {
		matches = append(matches, *m)
	}
	if m := vd.detectClimax(last, anchor, profile); m != nil {
		matches = append(matches, *m)
	}
	if m := vd.detectAccumulationDistribution(candles); m != nil {
		matches = append(matches, *m)
	}

	return matches
}

// detectSpike flags the latest candle when its volume sits far above the
// rolling mean by z-score. Signal follows the candle's direction.
func (vd *VolumePatternDetector) detectSpike(last market.Candle, anchor int, profile *analysis.VolumeProfile) *PatternMatch {
	if profile.ZScore < vd.spikeZScore || profile.VolumeRatio < vd.spikeRatio {
		return nil
	}

	signal := SignalNeutral
	if last.IsBullish() {
		signal = SignalBuy
	} else if last.IsBearish() {
		signal = SignalSell
	}

	strength := clamp01(profile.ZScore / 4)
	return &PatternMatch{
		Type:        VolumeSpike,
		CandleIndex: anchor,
		Time:        last.CloseTime,
		Strength:    strength,
		Signal:      signal,
		Confidence:  confidence(VolumeSpike, strength),
		Description: fmt.Sprintf("Volume spike: %.1f standard deviations above the rolling mean", profile.ZScore),
	}
}

// detectClimax flags exhaustion volume paired with a rejection wick.
// The signal runs counter to the move that produced it.
func (vd *VolumePatternDetector) detectClimax(last market.Candle, anchor int, profile *analysis.VolumeProfile) *PatternMatch {
	if profile.VolumeRatio <= vd.climaxRatio {
		return nil
	}

	body := last.Body()

	var signal Signal
	switch {
	case last.IsBullish() && last.UpperWick() > body*2:
		signal = SignalSell // Buying exhaustion rejected at the high
	case last.IsBearish() && last.LowerWick() > body*2:
		signal = SignalBuy // Selling exhaustion rejected at the low
	default:
		return nil
	}

	return &PatternMatch{
		Type:        VolumeClimax,
		CandleIndex: anchor,
		Time:        last.CloseTime,
		Strength:    0.8,
		Signal:      signal,
		Confidence:  confidence(VolumeClimax, 0.8),
		Description: fmt.Sprintf("Volume climax: %.1fx average volume with rejection wick", profile.VolumeRatio),
	}
}

// detectAccumulationDistribution compares the OBV trend against the price
// trend over the divergence window. OBV rising while price stalls marks
// accumulation; OBV falling while price holds marks distribution.
func (vd *VolumePatternDetector) detectAccumulationDistribution(candles []market.Candle) *PatternMatch {
	span := vd.divergenceSpan
	if len(candles) < span {
		return nil
	}

	window := candles[len(candles)-span:]
	obv := vd.analyzer.OBVSeries(window)

	closes := make([]float64, len(window))
	for i, c := range window {
		closes[i] = c.Close
	}

	obvUp := isRising(obv)
	obvDown := isFalling(obv)
	priceChange := (closes[len(closes)-1] - closes[0]) / closes[0]
	priceFlat := math.Abs(priceChange) < 0.01

	anchor := len(candles) - 1
	last := candles[anchor]

	if obvUp && (priceFlat || priceChange < 0) {
		return &PatternMatch{
			Type:        AccumulationDistribution,
			CandleIndex: anchor,
			Time:        last.CloseTime,
			Strength:    0.8,
			Signal:      SignalBuy,
			Confidence:  confidence(AccumulationDistribution, 0.8),
			Description: "Accumulation: on-balance volume rising while price stalls",
		}
	}
	if obvDown && (priceFlat || priceChange > 0) {
		return &PatternMatch{
			Type:        AccumulationDistribution,
			CandleIndex: anchor,
			Time:        last.CloseTime,
			Strength:    0.8,
			Signal:      SignalSell,
			Confidence:  confidence(AccumulationDistribution, 0.8),
			Description: "Distribution: on-balance volume falling while price holds",
		}
	}

	return nil
}
