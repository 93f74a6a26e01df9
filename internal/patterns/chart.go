package patterns

import (
	"fmt"
	"math"

	"pattern-engine/internal/analysis"
	"pattern-engine/internal/market"
)

// ChartDetector detects geometric patterns over derived swing points
type ChartDetector struct {
	shoulderTolerance float64 // Max relative difference between shoulders
	doubleTolerance   float64 // Max relative difference between double tops/bottoms
	triangleWindow    int     // Candle window for triangle formation
	flatVariance      float64 // Variance ceiling (relative to price) for a flat trendline
}

// NewChartDetector creates a detector with the standard tolerances
func NewChartDetector() *ChartDetector {
	return &ChartDetector{
		shoulderTolerance: 0.05,
		doubleTolerance:   0.03,
		triangleWindow:    10,
		flatVariance:      0.02,
	}
}

// Detect scans swing structure for chart patterns
func (cd *ChartDetector) Detect(candles []market.Candle, swings []analysis.SwingPoint) []PatternMatch {
	var matches []PatternMatch

	highs := swingHighs(swings)
	lows := swingLows(swings)

	if m := cd.detectHeadShoulders(candles, highs); m != nil {
		matches = append(matches, *m)
	}
	if m := cd.detectDoubleTop(candles, highs); m != nil {
		matches = append(matches, *m)
	}
	if m := cd.detectDoubleBottom(candles, lows); m != nil {
		matches = append(matches, *m)
	}
	if m := cd.detectTriangle(candles); m != nil {
		matches = append(matches, *m)
	}
	if m := cd.detectWedge(candles, highs, lows); m != nil {
		matches = append(matches, *m)
	}

	return matches
}

// detectHeadShoulders checks the three most recent swing highs for a
// higher middle peak flanked by near-equal shoulders.
func (cd *ChartDetector) detectHeadShoulders(candles []market.Candle, highs []analysis.SwingPoint) *PatternMatch {
	if len(highs) < 3 {
		return nil
	}

	left := highs[len(highs)-3]
	head := highs[len(highs)-2]
	right := highs[len(highs)-1]

	if head.Price <= left.Price || head.Price <= right.Price {
		return nil
	}
	if !pricesWithin(left.Price, right.Price, cd.shoulderTolerance) {
		return nil
	}

	anchor := right.CandleIndex
	return &PatternMatch{
		Type:        HeadShoulders,
		CandleIndex: anchor,
		Time:        candles[anchor].CloseTime,
		Strength:    0.8,
		Signal:      SignalSell,
		Confidence:  confidence(HeadShoulders, 0.8),
		Description: "Head and shoulders: higher middle peak with matching shoulders",
		Points:      []analysis.SwingPoint{left, head, right},
	}
}

// detectDoubleTop checks the two most recent swing highs for near-equal peaks
func (cd *ChartDetector) detectDoubleTop(candles []market.Candle, highs []analysis.SwingPoint) *PatternMatch {
	if len(highs) < 2 {
		return nil
	}

	first := highs[len(highs)-2]
	second := highs[len(highs)-1]

	if !pricesWithin(first.Price, second.Price, cd.doubleTolerance) {
		return nil
	}

	anchor := second.CandleIndex
	return &PatternMatch{
		Type:        DoubleTop,
		CandleIndex: anchor,
		Time:        candles[anchor].CloseTime,
		Strength:    0.8,
		Signal:      SignalSell,
		Confidence:  confidence(DoubleTop, 0.8),
		Description: fmt.Sprintf("Double top: two peaks within %.1f%%", cd.doubleTolerance*100),
		Points:      []analysis.SwingPoint{first, second},
	}
}

// detectDoubleBottom is the bullish mirror over swing lows
func (cd *ChartDetector) detectDoubleBottom(candles []market.Candle, lows []analysis.SwingPoint) *PatternMatch {
	if len(lows) < 2 {
		return nil
	}

	first := lows[len(lows)-2]
	second := lows[len(lows)-1]

	if !pricesWithin(first.Price, second.Price, cd.doubleTolerance) {
		return nil
	}

	anchor := second.CandleIndex
	return &PatternMatch{
		Type:        DoubleBottom,
		CandleIndex: anchor,
		Time:        candles[anchor].CloseTime,
		Strength:    0.8,
		Signal:      SignalBuy,
		Confidence:  confidence(DoubleBottom, 0.8),
		Description: fmt.Sprintf("Double bottom: two troughs within %.1f%%", cd.doubleTolerance*100),
		Points:      []analysis.SwingPoint{first, second},
	}
}

// detectTriangle looks at the trailing window for an ascending triangle
// (flat highs, rising lows) or a descending one (flat lows, falling highs).
func (cd *ChartDetector) detectTriangle(candles []market.Candle) *PatternMatch {
	if len(candles) < cd.triangleWindow {
		return nil
	}

	window := candles[len(candles)-cd.triangleWindow:]
	highs := make([]float64, len(window))
	lows := make([]float64, len(window))
	for i, c := range window {
		highs[i] = c.High
		lows[i] = c.Low
	}

	anchor := len(candles) - 1

	// Ascending: resistance flat, support rising
	if variance(highs) <= mean(highs)*cd.flatVariance && isRising(lows) {
		return &PatternMatch{
			Type:        Triangle,
			CandleIndex: anchor,
			Time:        candles[anchor].CloseTime,
			Strength:    0.72,
			Signal:      SignalBuy,
			Confidence:  confidence(Triangle, 0.72),
			Description: "Ascending triangle: flat resistance with rising support",
		}
	}

	// Descending: support flat, resistance falling
	if variance(lows) <= mean(lows)*cd.flatVariance && isFalling(highs) {
		return &PatternMatch{
			Type:        Triangle,
			CandleIndex: anchor,
			Time:        candles[anchor].CloseTime,
			Strength:    0.72,
			Signal:      SignalSell,
			Confidence:  confidence(Triangle, 0.72),
			Description: "Descending triangle: flat support with falling resistance",
		}
	}

	return nil
}

// detectWedge checks the last two swing highs and lows for converging
// trendlines sloping the same way. Rising wedges resolve bearish, falling
// wedges bullish.
func (cd *ChartDetector) detectWedge(candles []market.Candle, highs, lows []analysis.SwingPoint) *PatternMatch {
	if len(highs) < 2 || len(lows) < 2 {
		return nil
	}

	h1, h2 := highs[len(highs)-2], highs[len(highs)-1]
	l1, l2 := lows[len(lows)-2], lows[len(lows)-1]
	if h2.CandleIndex == h1.CandleIndex || l2.CandleIndex == l1.CandleIndex {
		return nil
	}

	highSlope := (h2.Price - h1.Price) / float64(h2.CandleIndex-h1.CandleIndex)
	lowSlope := (l2.Price - l1.Price) / float64(l2.CandleIndex-l1.CandleIndex)

	anchor := maxInt(h2.CandleIndex, l2.CandleIndex)

	// Rising wedge: both trendlines rising, support rising faster
	if h2.Price > h1.Price && l2.Price > l1.Price && highSlope < lowSlope {
		return &PatternMatch{
			Type:        Wedge,
			CandleIndex: anchor,
			Time:        candles[anchor].CloseTime,
			Strength:    0.7,
			Signal:      SignalSell,
			Confidence:  confidence(Wedge, 0.7),
			Description: "Rising wedge: converging upward trendlines",
			Points:      []analysis.SwingPoint{h1, l1, h2, l2},
		}
	}

	// Falling wedge: both trendlines falling, resistance falling faster
	if h2.Price < h1.Price && l2.Price < l1.Price && highSlope < lowSlope {
		return &PatternMatch{
			Type:        Wedge,
			CandleIndex: anchor,
			Time:        candles[anchor].CloseTime,
			Strength:    0.7,
			Signal:      SignalBuy,
			Confidence:  confidence(Wedge, 0.7),
			Description: "Falling wedge: converging downward trendlines",
			Points:      []analysis.SwingPoint{h1, l1, h2, l2},
		}
	}

	return nil
}

func pricesWithin(p1, p2, tolerance float64) bool {
	if p1 == 0 {
		return p2 == 0
	}
	return math.Abs(p1-p2)/p1 <= tolerance
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := mean(values)
	sum := 0.0
	for _, v := range values {
		diff := v - avg
		sum += diff * diff
	}
	return sum / float64(len(values))
}

// isRising compares the means of the two window halves
func isRising(values []float64) bool {
	if len(values) < 2 {
		return false
	}
	return mean(values[len(values)/2:]) > mean(values[:len(values)/2])
}

func isFalling(values []float64) bool {
	if len(values) < 2 {
		return false
	}
	return mean(values[len(values)/2:]) < mean(values[:len(values)/2])
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
