package analysis

import (
	"math"
	"testing"

	"pattern-engine/internal/market"
)

func candlesWithVolumes(closes, volumes []float64) []market.Candle {
	candles := make([]market.Candle, len(closes))
	for i := range closes {
		candles[i] = market.Candle{
			Open:   closes[i],
			High:   closes[i] + 1,
			Low:    closes[i] - 1,
			Close:  closes[i],
			Volume: volumes[i],
		}
	}
	return candles
}

// TestAverageVolume tests the rolling window and the short-series fallback
func TestAverageVolume(t *testing.T) {
	candles := candlesWithVolumes(
		[]float64{100, 100, 100, 100, 100},
		[]float64{1, 2, 3, 4, 5},
	)

	va := NewVolumeAnalyzer(3)
	if got := va.AverageVolume(candles); got != 4 {
		t.Errorf("expected average of last 3 = 4, got %f", got)
	}
	if got := va.AverageVolume(candles[:2]); got != 1.5 {
		t.Errorf("short series should average everything, got %f", got)
	}
	if got := va.AverageVolume(nil); got != 0 {
		t.Errorf("empty series should average 0, got %f", got)
	}
}

// TestZScore tests deviation of the latest volume against its history
func TestZScore(t *testing.T) {
	candles := candlesWithVolumes(
		[]float64{100, 100, 100, 100, 100},
		[]float64{8, 12, 8, 12, 30},
	)

	// History mean 10, stddev 2: (30-10)/2 = 10
	got := NewVolumeAnalyzer(4).ZScore(candles)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("expected z-score 10, got %f", got)
	}
}

// TestZScoreFlatVolume tests that zero deviation reports 0, not NaN
func TestZScoreFlatVolume(t *testing.T) {
	candles := candlesWithVolumes(
		[]float64{100, 100, 100, 100},
		[]float64{1000, 1000, 1000, 5000},
	)

	got := NewVolumeAnalyzer(3).ZScore(candles)
	if got != 0 || math.IsNaN(got) {
		t.Errorf("flat history should report 0, got %f", got)
	}

	if got := NewVolumeAnalyzer(3).ZScore(candles[:1]); got != 0 {
		t.Errorf("single candle should report 0, got %f", got)
	}
}

// TestOBV tests on-balance volume accumulation
func TestOBV(t *testing.T) {
	candles := candlesWithVolumes(
		[]float64{100, 101, 100, 102},
		[]float64{5, 10, 20, 30},
	)

	va := NewVolumeAnalyzer(20)
	if got := va.OBV(candles); got != 20 {
		t.Errorf("expected OBV 10-20+30 = 20, got %f", got)
	}

	series := va.OBVSeries(candles)
	want := []float64{0, 10, -10, 20}
	for i := range want {
		if series[i] != want[i] {
			t.Errorf("OBV series[%d]: expected %f, got %f", i, want[i], series[i])
		}
	}
}

// TestOBVIgnoresFlatCloses tests that unchanged closes leave OBV untouched
func TestOBVIgnoresFlatCloses(t *testing.T) {
	candles := candlesWithVolumes(
		[]float64{100, 100, 100},
		[]float64{10, 10, 10},
	)

	if got := NewVolumeAnalyzer(20).OBV(candles); got != 0 {
		t.Errorf("flat closes should keep OBV at 0, got %f", got)
	}
}

// TestAnalyzeVolume tests the profile summary flags
func TestAnalyzeVolume(t *testing.T) {
	candles := candlesWithVolumes(
		[]float64{100, 100, 100, 100},
		[]float64{100, 100, 100, 700},
	)

	profile := NewVolumeAnalyzer(4).AnalyzeVolume(candles)
	if profile == nil {
		t.Fatal("expected a profile")
	}
	if profile.CurrentVolume != 700 {
		t.Errorf("expected current volume 700, got %f", profile.CurrentVolume)
	}
	if profile.AverageVolume != 250 {
		t.Errorf("expected average 250, got %f", profile.AverageVolume)
	}
	if !profile.IsHighVolume {
		t.Error("2.8x average should flag as high volume")
	}
	if profile.IsClimaxVolume {
		t.Error("2.8x average should not flag as climax volume")
	}

	if profile := NewVolumeAnalyzer(4).AnalyzeVolume(nil); profile != nil {
		t.Errorf("empty series should produce no profile, got %+v", profile)
	}
}

// TestIsVolumeDryUp tests declining consolidation volume
func TestIsVolumeDryUp(t *testing.T) {
	va := NewVolumeAnalyzer(20)

	drying := candlesWithVolumes(
		[]float64{100, 100, 100, 100, 100, 100},
		[]float64{1000, 1000, 1000, 500, 500, 500},
	)
	if !va.IsVolumeDryUp(drying, 6) {
		t.Error("second half at half the volume should count as dry-up")
	}

	steady := candlesWithVolumes(
		[]float64{100, 100, 100, 100, 100, 100},
		[]float64{1000, 1000, 1000, 950, 950, 950},
	)
	if va.IsVolumeDryUp(steady, 6) {
		t.Error("steady volume should not count as dry-up")
	}
}
