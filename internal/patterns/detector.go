package patterns

import (
	"sort"

	"github.com/rs/zerolog"

	"pattern-engine/internal/analysis"
	"pattern-engine/internal/market"
)

// Options configures a Detector. Zero values select the defaults.
type Options struct {
	SwingLookback int             // Symmetric swing window (default 10)
	TopN          int             // Max signals returned by GenerateSignals (default 10)
	VolumePeriod  int             // Rolling average period for volume patterns (default 20)
	Logger        *zerolog.Logger // Optional; detection is silent without it
}

// Detection holds per-family results of one detection pass
type Detection struct {
	Candlestick []PatternMatch `json:"candlestick"`
	Chart       []PatternMatch `json:"chart"`
	Harmonic    []PatternMatch `json:"harmonic"`
	Volume      []PatternMatch `json:"volume"`
}

// Detector runs all pattern families over a candle series and ranks the
// results. It holds no per-call state and is safe for concurrent use.
type Detector struct {
	trend       *analysis.TrendAnalyzer
	candlestick FamilyDetector
	chart       FamilyDetector
	harmonic    FamilyDetector
	volume      FamilyDetector
	topN        int
	logger      zerolog.Logger
}

// NewDetector creates a detector with the given options
func NewDetector(opts Options) *Detector {
	if opts.SwingLookback <= 0 {
		opts.SwingLookback = 10
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.VolumePeriod <= 0 {
		opts.VolumePeriod = 20
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Detector{
		trend:       analysis.NewTrendAnalyzer(opts.SwingLookback),
		candlestick: NewCandlestickDetector(),
		chart:       NewChartDetector(),
		harmonic:    NewHarmonicDetector(),
		volume:      NewVolumePatternDetector(opts.VolumePeriod),
		topN:        opts.TopN,
		logger:      logger,
	}
}

// DetectPatterns runs every pattern family over the series. Families
// without enough history yield empty results instead of errors; only
// structurally malformed input fails.
func (d *Detector) DetectPatterns(candles []market.Candle) (*Detection, error) {
	if err := market.Validate(candles); err != nil {
		return nil, err
	}

	det := &Detection{}
	if len(candles) == 0 {
		return det, nil
	}

	det.Candlestick = d.candlestick.Detect(candles, nil)

	// Chart and harmonic patterns need a full swing window on both
	// sides of at least one candle.
	if len(candles) >= d.trend.Lookback()*2+1 {
		swings := d.trend.FindSwings(candles)
		det.Chart = d.chart.Detect(candles, swings)
		det.Harmonic = d.harmonic.Detect(candles, swings)
	}

	if len(candles) >= 2 {
		det.Volume = d.volume.Detect(candles, nil)
	}

	d.logger.Debug().
		Int("candles", len(candles)).
		Int("candlestick", len(det.Candlestick)).
		Int("chart", len(det.Chart)).
		Int("harmonic", len(det.Harmonic)).
		Int("volume", len(det.Volume)).
		Msg("pattern detection complete")

	return det, nil
}

// GenerateSignals merges all families, drops matches below the family
// confidence threshold, and returns the top N sorted by confidence.
func (d *Detector) GenerateSignals(det *Detection) []PatternMatch {
	if det == nil {
		return nil
	}

	var signals []PatternMatch
	signals = appendAbove(signals, det.Candlestick, minCandlestickConfidence)
	signals = appendAbove(signals, det.Chart, minChartConfidence)
	signals = appendAbove(signals, det.Harmonic, minHarmonicConfidence)
	signals = appendAbove(signals, det.Volume, minVolumeConfidence)

	sortMatches(signals)

	if len(signals) > d.topN {
		signals = signals[:d.topN]
	}
	return signals
}

// PatternStrength returns the unweighted mean confidence across every
// detected pattern, or 0 when nothing was detected.
func (d *Detector) PatternStrength(det *Detection) float64 {
	if det == nil {
		return 0
	}

	sum := 0.0
	count := 0
	for _, family := range [][]PatternMatch{det.Candlestick, det.Chart, det.Harmonic, det.Volume} {
		for _, m := range family {
			sum += m.Confidence
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func appendAbove(dst []PatternMatch, src []PatternMatch, minConfidence float64) []PatternMatch {
	for _, m := range src {
		if m.Confidence > minConfidence {
			dst = append(dst, m)
		}
	}
	return dst
}

// sortMatches orders by confidence descending with a total tie-break so
// identical inputs always rank identically.
func sortMatches(matches []PatternMatch) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		if matches[i].CandleIndex != matches[j].CandleIndex {
			return matches[i].CandleIndex < matches[j].CandleIndex
		}
		return matches[i].Type < matches[j].Type
	})
}
