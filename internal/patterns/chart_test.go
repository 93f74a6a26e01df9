package patterns

import (
	"testing"

	"pattern-engine/internal/analysis"
	"pattern-engine/internal/market"
)

func flatCandles(n int, price float64) []market.Candle {
	candles := make([]market.Candle, n)
	for i := range candles {
		candles[i] = market.Candle{
			OpenTime:  int64(i) * 1000,
			CloseTime: int64(i+1) * 1000,
			Open:      price,
			High:      price + 0.5,
			Low:       price - 0.5,
			Close:     price,
		}
	}
	return candles
}

// TestDetectHeadShoulders tests the three-peak structure with matching shoulders
func TestDetectHeadShoulders(t *testing.T) {
	candles := flatCandles(30, 100)
	swings := []analysis.SwingPoint{
		{Price: 100, CandleIndex: 5, Type: "high"},
		{Price: 110, CandleIndex: 15, Type: "high"},
		{Price: 101, CandleIndex: 25, Type: "high"},
	}

	matches := NewChartDetector().Detect(candles, swings)
	hs := findByType(matches, HeadShoulders)
	if len(hs) != 1 {
		t.Fatalf("expected 1 head and shoulders, got %d", len(hs))
	}

	m := hs[0]
	if m.Signal != SignalSell {
		t.Errorf("head and shoulders should signal SELL, got %s", m.Signal)
	}
	if m.CandleIndex != 25 {
		t.Errorf("expected anchor at the right shoulder index 25, got %d", m.CandleIndex)
	}
	if len(m.Points) != 3 {
		t.Errorf("expected 3 swing points attached, got %d", len(m.Points))
	}
	if m.Confidence <= 75 {
		t.Errorf("head and shoulders should clear the chart threshold, got %f", m.Confidence)
	}
}

// TestHeadShouldersRejectsUnevenShoulders tests the shoulder tolerance
func TestHeadShouldersRejectsUnevenShoulders(t *testing.T) {
	candles := flatCandles(30, 100)
	swings := []analysis.SwingPoint{
		{Price: 100, CandleIndex: 5, Type: "high"},
		{Price: 115, CandleIndex: 15, Type: "high"},
		{Price: 108, CandleIndex: 25, Type: "high"}, // 8% above the left shoulder
	}

	matches := NewChartDetector().Detect(candles, swings)
	if got := findByType(matches, HeadShoulders); len(got) != 0 {
		t.Errorf("shoulders differ by more than 5%%, got %+v", got)
	}
}

// TestDetectDoubleTop tests two near-equal peaks
func TestDetectDoubleTop(t *testing.T) {
	candles := flatCandles(40, 100)
	swings := []analysis.SwingPoint{
		{Price: 110, CandleIndex: 10, Type: "high"},
		{Price: 110.5, CandleIndex: 30, Type: "high"},
	}

	matches := NewChartDetector().Detect(candles, swings)
	tops := findByType(matches, DoubleTop)
	if len(tops) != 1 {
		t.Fatalf("expected 1 double top, got %d", len(tops))
	}

	m := tops[0]
	if m.Signal != SignalSell {
		t.Errorf("double top should signal SELL, got %s", m.Signal)
	}
	if m.CandleIndex != 30 {
		t.Errorf("expected anchor at the second peak, got %d", m.CandleIndex)
	}
}

// TestDetectDoubleBottom tests the bullish mirror
func TestDetectDoubleBottom(t *testing.T) {
	candles := flatCandles(40, 100)
	swings := []analysis.SwingPoint{
		{Price: 90, CandleIndex: 10, Type: "low"},
		{Price: 90.2, CandleIndex: 30, Type: "low"},
	}

	matches := NewChartDetector().Detect(candles, swings)
	bottoms := findByType(matches, DoubleBottom)
	if len(bottoms) != 1 {
		t.Fatalf("expected 1 double bottom, got %d", len(bottoms))
	}
	if bottoms[0].Signal != SignalBuy {
		t.Errorf("double bottom should signal BUY, got %s", bottoms[0].Signal)
	}
}

// TestDoubleTopRejectsDistantPeaks tests the price tolerance
func TestDoubleTopRejectsDistantPeaks(t *testing.T) {
	candles := flatCandles(40, 100)
	swings := []analysis.SwingPoint{
		{Price: 110, CandleIndex: 10, Type: "high"},
		{Price: 118, CandleIndex: 30, Type: "high"}, // 7% apart
	}

	matches := NewChartDetector().Detect(candles, swings)
	if got := findByType(matches, DoubleTop); len(got) != 0 {
		t.Errorf("peaks 7%% apart should not form a double top, got %+v", got)
	}
}

// TestDetectAscendingTriangle tests flat resistance with rising support
func TestDetectAscendingTriangle(t *testing.T) {
	candles := make([]market.Candle, 12)
	for i := range candles {
		low := 90 + float64(i)*0.8
		candles[i] = market.Candle{
			CloseTime: int64(i+1) * 1000,
			Open:      low + 0.5,
			High:      100,
			Low:       low,
			Close:     low + 1,
		}
	}

	matches := NewChartDetector().Detect(candles, nil)
	triangles := findByType(matches, Triangle)
	if len(triangles) != 1 {
		t.Fatalf("expected 1 triangle, got %d", len(triangles))
	}

	m := triangles[0]
	if m.Signal != SignalBuy {
		t.Errorf("ascending triangle should signal BUY, got %s", m.Signal)
	}
	if m.CandleIndex != len(candles)-1 {
		t.Errorf("triangle should anchor on the latest candle, got %d", m.CandleIndex)
	}
}

// TestDetectDescendingTriangle tests flat support with falling resistance
func TestDetectDescendingTriangle(t *testing.T) {
	candles := make([]market.Candle, 12)
	for i := range candles {
		high := 110 - float64(i)*0.8
		candles[i] = market.Candle{
			CloseTime: int64(i+1) * 1000,
			Open:      high - 0.5,
			High:      high,
			Low:       100,
			Close:     high - 1,
		}
	}

	matches := NewChartDetector().Detect(candles, nil)
	triangles := findByType(matches, Triangle)
	if len(triangles) != 1 {
		t.Fatalf("expected 1 triangle, got %d", len(triangles))
	}
	if triangles[0].Signal != SignalSell {
		t.Errorf("descending triangle should signal SELL, got %s", triangles[0].Signal)
	}
}

// TestDetectRisingWedge tests converging upward trendlines
func TestDetectRisingWedge(t *testing.T) {
	candles := flatCandles(30, 100)
	swings := []analysis.SwingPoint{
		{Price: 100, CandleIndex: 10, Type: "high"},
		{Price: 95, CandleIndex: 12, Type: "low"},
		{Price: 101, CandleIndex: 20, Type: "high"},
		{Price: 97, CandleIndex: 22, Type: "low"},
	}

	matches := NewChartDetector().Detect(candles, swings)
	wedges := findByType(matches, Wedge)
	if len(wedges) != 1 {
		t.Fatalf("expected 1 wedge, got %d", len(wedges))
	}

	m := wedges[0]
	if m.Signal != SignalSell {
		t.Errorf("rising wedge should signal SELL, got %s", m.Signal)
	}
	if len(m.Points) != 4 {
		t.Errorf("expected 4 swing points attached, got %d", len(m.Points))
	}
}

// TestDetectFallingWedge tests the bullish mirror
func TestDetectFallingWedge(t *testing.T) {
	candles := flatCandles(30, 100)
	swings := []analysis.SwingPoint{
		{Price: 110, CandleIndex: 10, Type: "high"},
		{Price: 104, CandleIndex: 12, Type: "low"},
		{Price: 105, CandleIndex: 20, Type: "high"},
		{Price: 103, CandleIndex: 22, Type: "low"},
	}

	matches := NewChartDetector().Detect(candles, swings)
	wedges := findByType(matches, Wedge)
	if len(wedges) != 1 {
		t.Fatalf("expected 1 wedge, got %d", len(wedges))
	}
	if wedges[0].Signal != SignalBuy {
		t.Errorf("falling wedge should signal BUY, got %s", wedges[0].Signal)
	}
}

// TestChartPatternsNeedSwings tests that thin swing structure yields nothing
func TestChartPatternsNeedSwings(t *testing.T) {
	candles := flatCandles(5, 100)

	matches := NewChartDetector().Detect(candles, nil)
	if len(matches) != 0 {
		t.Errorf("expected no chart patterns on 5 flat candles, got %+v", matches)
	}
}
