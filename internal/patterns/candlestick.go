package patterns

import (
	"fmt"
	"math"

	"pattern-engine/internal/analysis"
	"pattern-engine/internal/market"
)

// CandlestickDetector detects single- to triple-candle reversal patterns
type CandlestickDetector struct {
	dojiMaxBodyRatio float64 // Body/range ceiling for doji
	wickBodyRatio    float64 // Minimum dominant-wick to body ratio
	maxOppositeWick  float64 // Maximum opposite-wick to body ratio
	maxBodyRatio     float64 // Body/range ceiling for hammer family
	starBodyRatio    float64 // Minimum body/range for star outer candles
	starMidBodyMax   float64 // Maximum middle-body to first-body ratio
}

// NewCandlestickDetector creates a detector with the standard thresholds
func NewCandlestickDetector() *CandlestickDetector {
	return &CandlestickDetector{
		dojiMaxBodyRatio: 0.10,
		wickBodyRatio:    2.0,
		maxOppositeWick:  0.5,
		maxBodyRatio:     0.30,
		starBodyRatio:    0.6,
		starMidBodyMax:   0.4,
	}
}

// Detect scans the series for all candlestick patterns
func (cd *CandlestickDetector) Detect(candles []market.Candle, _ []analysis.SwingPoint) []PatternMatch {
	var matches []PatternMatch

	for i := range candles {
		if m := cd.detectDoji(candles, i); m != nil {
			matches = append(matches, *m)
		}
		if i == 0 {
			continue
		}
		if m := cd.detectHammer(candles, i); m != nil {
			matches = append(matches, *m)
		}
		if m := cd.detectShootingStar(candles, i); m != nil {
			matches = append(matches, *m)
		}
		if m := cd.detectEngulfing(candles, i); m != nil {
			matches = append(matches, *m)
		}
		if i < 2 {
			continue
		}
		if m := cd.detectStar(candles, i); m != nil {
			matches = append(matches, *m)
		}
	}

	return matches
}

// detectDoji flags candles whose body is a sliver of the range.
// Zero-range candles are skipped so strength never divides by zero.
func (cd *CandlestickDetector) detectDoji(candles []market.Candle, i int) *PatternMatch {
	c := candles[i]
	if c.Range() == 0 {
		return nil
	}

	bodyRatio := c.BodyRatio()
	if bodyRatio > cd.dojiMaxBodyRatio {
		return nil
	}

	strength := 1 - 10*bodyRatio
	return &PatternMatch{
		Type:        Doji,
		CandleIndex: i,
		Time:        c.CloseTime,
		Strength:    strength,
		Signal:      SignalNeutral,
		Confidence:  confidence(Doji, strength),
		Description: fmt.Sprintf("Doji: body is %.1f%% of range, market indecision", bodyRatio*100),
	}
}

// detectHammer requires a long lower shadow, a trivial upper shadow, a
// small body, and a break below the previous low for downtrend context.
func (cd *CandlestickDetector) detectHammer(candles []market.Candle, i int) *PatternMatch {
	c, prev := candles[i], candles[i-1]
	body := c.Body()
	if c.Range() == 0 {
		return nil
	}

	if c.LowerWick() < body*cd.wickBodyRatio {
		return nil
	}
	if c.UpperWick() > body*cd.maxOppositeWick {
		return nil
	}
	if c.BodyRatio() > cd.maxBodyRatio {
		return nil
	}
	if c.Low >= prev.Low {
		return nil // No downtrend context
	}

	strength := 0.8*(c.LowerWick()/c.Range()) + 0.2
	return &PatternMatch{
		Type:        Hammer,
		CandleIndex: i,
		Time:        c.CloseTime,
		Strength:    clamp01(strength),
		Signal:      SignalBuy,
		Confidence:  confidence(Hammer, clamp01(strength)),
		Description: "Hammer: long lower shadow after a push below the prior low",
	}
}

// detectShootingStar is the bearish mirror of the hammer
func (cd *CandlestickDetector) detectShootingStar(candles []market.Candle, i int) *PatternMatch {
	c, prev := candles[i], candles[i-1]
	body := c.Body()
	if c.Range() == 0 {
		return nil
	}

	if c.UpperWick() < body*cd.wickBodyRatio {
		return nil
	}
	if c.LowerWick() > body*cd.maxOppositeWick {
		return nil
	}
	if c.BodyRatio() > cd.maxBodyRatio {
		return nil
	}
	if c.High <= prev.High {
		return nil // No uptrend context
	}

	strength := 0.8*(c.UpperWick()/c.Range()) + 0.2
	return &PatternMatch{
		Type:        ShootingStar,
		CandleIndex: i,
		Time:        c.CloseTime,
		Strength:    clamp01(strength),
		Signal:      SignalSell,
		Confidence:  confidence(ShootingStar, clamp01(strength)),
		Description: "Shooting star: long upper shadow after a push above the prior high",
	}
}

// detectEngulfing requires the current body to fully contain and reverse
// the previous body. Strength scales with the body-size ratio, capped at 1.
func (cd *CandlestickDetector) detectEngulfing(candles []market.Candle, i int) *PatternMatch {
	prev, c := candles[i-1], candles[i]
	prevBody := prev.Body()
	if prevBody == 0 {
		return nil
	}

	var signal Signal
	switch {
	case prev.IsBearish() && c.IsBullish() && c.Open <= prev.Close && c.Close >= prev.Open:
		signal = SignalBuy
	case prev.IsBullish() && c.IsBearish() && c.Open >= prev.Close && c.Close <= prev.Open:
		signal = SignalSell
	default:
		return nil
	}

	strength := math.Min(1.0, (c.Body()/prevBody)/2)
	direction := "bullish"
	if signal == SignalSell {
		direction = "bearish"
	}
	return &PatternMatch{
		Type:        Engulfing,
		CandleIndex: i,
		Time:        c.CloseTime,
		Strength:    strength,
		Signal:      signal,
		Confidence:  confidence(Engulfing, strength),
		Description: fmt.Sprintf("Engulfing: %s body fully engulfs the prior candle", direction),
	}
}

// detectStar finds morning and evening stars: a strong move, a small body
// gapping beyond the first close, and a close back past the first midpoint.
func (cd *CandlestickDetector) detectStar(candles []market.Candle, i int) *PatternMatch {
	c1, c2, c3 := candles[i-2], candles[i-1], candles[i]

	body1 := c1.Body()
	if c1.Range() == 0 || body1 < c1.Range()*cd.starBodyRatio {
		return nil // First candle not a strong move
	}
	if c2.Body() > body1*cd.starMidBodyMax {
		return nil // Middle candle not small
	}

	midpoint := (c1.Open + c1.Close) / 2

	// Morning star: bearish drive, gap down, bullish recovery
	if c1.IsBearish() && c3.IsBullish() &&
		math.Max(c2.Open, c2.Close) < c1.Close &&
		c3.Close > midpoint {
		return &PatternMatch{
			Type:        MorningStar,
			CandleIndex: i,
			Time:        c3.CloseTime,
			Strength:    0.8,
			Signal:      SignalBuy,
			Confidence:  confidence(MorningStar, 0.8),
			Description: "Morning star: three-candle bullish reversal",
		}
	}

	// Evening star: bullish drive, gap up, bearish rejection
	if c1.IsBullish() && c3.IsBearish() &&
		math.Min(c2.Open, c2.Close) > c1.Close &&
		c3.Close < midpoint {
		return &PatternMatch{
			Type:        EveningStar,
			CandleIndex: i,
			Time:        c3.CloseTime,
			Strength:    0.8,
			Signal:      SignalSell,
			Confidence:  confidence(EveningStar, 0.8),
			Description: "Evening star: three-candle bearish reversal",
		}
	}

	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
