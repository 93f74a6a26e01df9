package patterns

import (
	"pattern-engine/internal/analysis"
	"pattern-engine/internal/market"
)

// PatternType identifies a pattern from the closed catalogue
type PatternType string

const (
	// Candlestick patterns
	Doji         PatternType = "doji"
	Hammer       PatternType = "hammer"
	ShootingStar PatternType = "shooting_star"
	Engulfing    PatternType = "engulfing"
	MorningStar  PatternType = "morning_star"
	EveningStar  PatternType = "evening_star"

	// Chart patterns
	HeadShoulders PatternType = "head_shoulders"
	DoubleTop     PatternType = "double_top"
	DoubleBottom  PatternType = "double_bottom"
	Triangle      PatternType = "triangle"
	Wedge         PatternType = "wedge"

	// Harmonic patterns
	Gartley   PatternType = "gartley"
	Butterfly PatternType = "butterfly"
	Bat       PatternType = "bat"

	// Volume patterns
	VolumeSpike              PatternType = "volume_spike"
	VolumeClimax             PatternType = "volume_climax"
	AccumulationDistribution PatternType = "accumulation_distribution"
)

// Signal represents the trading direction implied by a pattern
type Signal string

const (
	SignalBuy     Signal = "BUY"
	SignalSell    Signal = "SELL"
	SignalNeutral Signal = "NEUTRAL"
)

// PatternMatch represents one detected pattern occurrence.
// Strength is a local 0..1 quality score; Confidence is strength scaled
// to 0..100 by the pattern weight and is used for cross-pattern ranking.
type PatternMatch struct {
	Type        PatternType           `json:"type"`
	CandleIndex int                   `json:"candleIndex"`
	Time        int64                 `json:"time"` // Close time of the anchor candle (unix ms)
	Strength    float64               `json:"strength"`
	Signal      Signal                `json:"signal"`
	Confidence  float64               `json:"confidence"`
	Description string                `json:"description"`
	Points      []analysis.SwingPoint `json:"points,omitempty"` // Chart patterns only
	Ratios      map[string]float64    `json:"ratios,omitempty"` // Harmonic patterns only
}

// FamilyDetector is implemented by each pattern family so implementations
// can be swapped without touching the aggregation logic.
type FamilyDetector interface {
	Detect(candles []market.Candle, swings []analysis.SwingPoint) []PatternMatch
}

// patternWeights scales 0..1 strength into 0..100 confidence per pattern
var patternWeights = map[PatternType]float64{
	Doji:         60,
	Hammer:       75,
	ShootingStar: 75,
	Engulfing:    80,
	MorningStar:  85,
	EveningStar:  85,

	HeadShoulders: 95,
	DoubleTop:     95,
	DoubleBottom:  95,
	Triangle:      95,
	Wedge:         95,

	Gartley:   90,
	Butterfly: 90,
	Bat:       90,

	VolumeSpike:              80,
	VolumeClimax:             80,
	AccumulationDistribution: 80,
}

// Weight returns the confidence weight for a pattern type
func Weight(t PatternType) float64 {
	return patternWeights[t]
}

// confidence converts a local strength into a ranked confidence score
func confidence(t PatternType, strength float64) float64 {
	c := strength * patternWeights[t]
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// Minimum confidence thresholds per family for signal generation
const (
	minCandlestickConfidence = 70
	minChartConfidence       = 75
	minHarmonicConfidence    = 80
	minVolumeConfidence      = 60
)

func swingHighs(swings []analysis.SwingPoint) []analysis.SwingPoint {
	var highs []analysis.SwingPoint
	for _, s := range swings {
		if s.Type == "high" {
			highs = append(highs, s)
		}
	}
	return highs
}

func swingLows(swings []analysis.SwingPoint) []analysis.SwingPoint {
	var lows []analysis.SwingPoint
	for _, s := range swings {
		if s.Type == "low" {
			lows = append(lows, s)
		}
	}
	return lows
}
