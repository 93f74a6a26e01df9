package patterns

import (
	"fmt"
	"math"

	"pattern-engine/internal/analysis"
	"pattern-engine/internal/market"
)

// ratioWindow is one Fibonacci leg constraint. Point targets carry a
// relative tolerance; range windows accept anything inside the band.
type ratioWindow struct {
	min, max float64
	target   float64 // 0 for pure range windows
}

func pointRatio(target, tolerance float64) ratioWindow {
	return ratioWindow{min: target * (1 - tolerance), max: target * (1 + tolerance), target: target}
}

func rangeRatio(min, max float64) ratioWindow {
	return ratioWindow{min: min, max: max}
}

// harmonicSpec describes one XABCD pattern's leg ratios
type harmonicSpec struct {
	patternType PatternType
	abXA        ratioWindow
	bcAB        ratioWindow
	cdBC        ratioWindow
	adXA        ratioWindow
}

// HarmonicDetector validates the last five alternating swing points
// against standard Fibonacci retracement windows per pattern.
type HarmonicDetector struct {
	tolerance float64
	specs     []harmonicSpec
}

// NewHarmonicDetector creates a detector with a ±5% leg tolerance
func NewHarmonicDetector() *HarmonicDetector {
	const tol = 0.05
	return &HarmonicDetector{
		tolerance: tol,
		specs: []harmonicSpec{
			{
				patternType: Gartley,
				abXA:        pointRatio(0.618, tol),
				bcAB:        rangeRatio(0.382, 0.886),
				cdBC:        pointRatio(1.272, tol),
				adXA:        pointRatio(0.786, tol),
			},
			{
				patternType: Butterfly,
				abXA:        pointRatio(0.786, tol),
				bcAB:        rangeRatio(0.382, 0.886),
				cdBC:        rangeRatio(1.618, 2.24),
				adXA:        rangeRatio(1.27, 1.618),
			},
			{
				patternType: Bat,
				abXA:        rangeRatio(0.382, 0.50),
				bcAB:        rangeRatio(0.382, 0.886),
				cdBC:        rangeRatio(1.618, 2.618),
				adXA:        pointRatio(0.886, tol),
			},
		},
	}
}

// Detect requires at least five swing points with alternating type.
// The most recent qualifying XABCD sequence is validated against each
// pattern spec; the best match (lowest ratio error) wins.
func (hd *HarmonicDetector) Detect(candles []market.Candle, swings []analysis.SwingPoint) []PatternMatch {
	if len(swings) < 5 {
		return nil
	}

	pts := swings[len(swings)-5:]
	for i := 1; i < len(pts); i++ {
		if pts[i].Type == pts[i-1].Type {
			return nil // Legs must alternate between highs and lows
		}
	}

	x, a, b, c, d := pts[0], pts[1], pts[2], pts[3], pts[4]

	xa := math.Abs(a.Price - x.Price)
	ab := math.Abs(b.Price - a.Price)
	bc := math.Abs(c.Price - b.Price)
	cdl := math.Abs(d.Price - c.Price)
	ad := math.Abs(d.Price - a.Price)
	if xa == 0 || ab == 0 || bc == 0 {
		return nil
	}

	ratios := map[string]float64{
		"AB/XA": ab / xa,
		"BC/AB": bc / ab,
		"CD/BC": cdl / bc,
		"AD/XA": ad / xa,
	}

	var best *PatternMatch
	for _, spec := range hd.specs {
		strength, ok := hd.score(spec, ratios)
		if !ok {
			continue
		}

		signal := SignalSell
		direction := "bearish"
		if d.Type == "low" {
			signal = SignalBuy
			direction = "bullish"
		}

		anchor := d.CandleIndex
		m := PatternMatch{
			Type:        spec.patternType,
			CandleIndex: anchor,
			Time:        candles[anchor].CloseTime,
			Strength:    strength,
			Signal:      signal,
			Confidence:  confidence(spec.patternType, strength),
			Description: fmt.Sprintf("%s %s: XABCD legs within Fibonacci windows", direction, spec.patternType),
			Points:      []analysis.SwingPoint{x, a, b, c, d},
			Ratios:      ratios,
		}
		if best == nil || m.Strength > best.Strength {
			best = &m
		}
	}

	if best == nil {
		return nil
	}
	return []PatternMatch{*best}
}

// score validates every leg and converts the mean relative error of the
// point-target legs into a 0..1 strength.
func (hd *HarmonicDetector) score(spec harmonicSpec, ratios map[string]float64) (float64, bool) {
	legs := []struct {
		window ratioWindow
		ratio  float64
	}{
		{spec.abXA, ratios["AB/XA"]},
		{spec.bcAB, ratios["BC/AB"]},
		{spec.cdBC, ratios["CD/BC"]},
		{spec.adXA, ratios["AD/XA"]},
	}

	errSum := 0.0
	targets := 0
	for _, leg := range legs {
		if leg.ratio < leg.window.min || leg.ratio > leg.window.max {
			return 0, false
		}
		if leg.window.target > 0 {
			errSum += math.Abs(leg.ratio-leg.window.target) / leg.window.target
			targets++
		}
	}

	if targets == 0 {
		return 1, true
	}
	return clamp01(1 - errSum/float64(targets)), true
}
