package analysis

import (
	"sort"

	"pattern-engine/internal/market"
)

// TrendDirection represents market trend
type TrendDirection string

const (
	TrendBullish  TrendDirection = "bullish"
	TrendBearish  TrendDirection = "bearish"
	TrendSideways TrendDirection = "sideways"
)

// SwingPoint represents a local price extremum
type SwingPoint struct {
	Price       float64
	CandleIndex int
	Type        string // "high" or "low"
}

// MarketStructure represents analyzed swing structure
type MarketStructure struct {
	Trend         TrendDirection
	TrendStrength float64 // 0.0 to 1.0
	HigherHighs   int
	HigherLows    int
	LowerHighs    int
	LowerLows     int
	SwingHighs    []SwingPoint
	SwingLows     []SwingPoint
}

// TrendAnalyzer extracts swing points and trend structure from candles
type TrendAnalyzer struct {
	swingLookback int // Symmetric window for swing confirmation
}

// NewTrendAnalyzer creates a new trend analyzer
func NewTrendAnalyzer(swingLookback int) *TrendAnalyzer {
	if swingLookback <= 0 {
		swingLookback = 10 // Default 10-candle window
	}
	return &TrendAnalyzer{
		swingLookback: swingLookback,
	}
}

// Lookback returns the configured swing window
func (ta *TrendAnalyzer) Lookback() int {
	return ta.swingLookback
}

// FindSwingHighs identifies swing high points. A candle is a swing high
// when its high strictly exceeds every high in the symmetric window.
func (ta *TrendAnalyzer) FindSwingHighs(candles []market.Candle) []SwingPoint {
	var swingHighs []SwingPoint

	for i := ta.swingLookback; i < len(candles)-ta.swingLookback; i++ {
		isSwingHigh := true
		currentHigh := candles[i].High

		for j := i - ta.swingLookback; j <= i+ta.swingLookback; j++ {
			if j != i && candles[j].High >= currentHigh {
				isSwingHigh = false
				break
			}
		}

		if isSwingHigh {
			swingHighs = append(swingHighs, SwingPoint{
				Price:       currentHigh,
				CandleIndex: i,
				Type:        "high",
			})
		}
	}

	return swingHighs
}

// FindSwingLows identifies swing low points
func (ta *TrendAnalyzer) FindSwingLows(candles []market.Candle) []SwingPoint {
	var swingLows []SwingPoint

	for i := ta.swingLookback; i < len(candles)-ta.swingLookback; i++ {
		isSwingLow := true
		currentLow := candles[i].Low

		for j := i - ta.swingLookback; j <= i+ta.swingLookback; j++ {
			if j != i && candles[j].Low <= currentLow {
				isSwingLow = false
				break
			}
		}

		if isSwingLow {
			swingLows = append(swingLows, SwingPoint{
				Price:       currentLow,
				CandleIndex: i,
				Type:        "low",
			})
		}
	}

	return swingLows
}

// FindSwings returns all swing highs and lows ordered by candle index
func (ta *TrendAnalyzer) FindSwings(candles []market.Candle) []SwingPoint {
	swings := append(ta.FindSwingHighs(candles), ta.FindSwingLows(candles)...)
	sort.Slice(swings, func(i, j int) bool {
		return swings[i].CandleIndex < swings[j].CandleIndex
	})
	return swings
}

// AnalyzeStructure performs swing and trend analysis over the series.
// Returns nil when the series is too short for a single swing window.
func (ta *TrendAnalyzer) AnalyzeStructure(candles []market.Candle) *MarketStructure {
	if len(candles) < ta.swingLookback*2+1 {
		return nil
	}

	structure := &MarketStructure{
		SwingHighs: ta.FindSwingHighs(candles),
		SwingLows:  ta.FindSwingLows(candles),
	}

	structure.HigherHighs = countRising(structure.SwingHighs)
	structure.HigherLows = countRising(structure.SwingLows)
	structure.LowerHighs = countFalling(structure.SwingHighs)
	structure.LowerLows = countFalling(structure.SwingLows)

	structure.Trend = ta.determineTrend(structure)
	structure.TrendStrength = ta.trendStrength(structure)

	return structure
}

func countRising(swings []SwingPoint) int {
	count := 0
	for i := 1; i < len(swings); i++ {
		if swings[i].Price > swings[i-1].Price {
			count++
		}
	}
	return count
}

func countFalling(swings []SwingPoint) int {
	count := 0
	for i := 1; i < len(swings); i++ {
		if swings[i].Price < swings[i-1].Price {
			count++
		}
	}
	return count
}

func (ta *TrendAnalyzer) determineTrend(structure *MarketStructure) TrendDirection {
	// Bullish: higher highs AND higher lows dominate
	if structure.HigherHighs > 0 && structure.HigherLows > 0 {
		if structure.HigherHighs >= structure.LowerHighs &&
			structure.HigherLows >= structure.LowerLows {
			return TrendBullish
		}
	}

	// Bearish: lower highs AND lower lows dominate
	if structure.LowerHighs > 0 && structure.LowerLows > 0 {
		if structure.LowerHighs >= structure.HigherHighs &&
			structure.LowerLows >= structure.HigherLows {
			return TrendBearish
		}
	}

	return TrendSideways
}

func (ta *TrendAnalyzer) trendStrength(structure *MarketStructure) float64 {
	totalSwings := structure.HigherHighs + structure.HigherLows +
		structure.LowerHighs + structure.LowerLows

	if totalSwings == 0 {
		return 0.0
	}

	switch structure.Trend {
	case TrendBullish:
		return float64(structure.HigherHighs+structure.HigherLows) / float64(totalSwings)
	case TrendBearish:
		return float64(structure.LowerHighs+structure.LowerLows) / float64(totalSwings)
	}

	// Sideways trend has low strength
	return 0.3
}
