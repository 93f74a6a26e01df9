package candlefile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"pattern-engine/internal/market"
)

// CSVLoader reads candles from CSV (header: t,o,h,l,c,v where t is the
// candle close time in unix milliseconds).
type CSVLoader struct{}

func (CSVLoader) Extension() string { return "csv" }

func (CSVLoader) Load(path string) ([]market.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip the header row
	var candles []market.Candle
	for i, rec := range records[1:] {
		if len(rec) < 6 {
			return nil, fmt.Errorf("csv row %d: expected 6 columns, got %d", i+2, len(rec))
		}

		t, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: bad timestamp: %w", i+2, err)
		}

		var prices [5]float64
		for j := 1; j < 6; j++ {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return nil, fmt.Errorf("csv row %d column %d: %w", i+2, j+1, err)
			}
			prices[j-1] = v
		}

		candles = append(candles, market.Candle{
			CloseTime: t,
			Open:      prices[0],
			High:      prices[1],
			Low:       prices[2],
			Close:     prices[3],
			Volume:    prices[4],
		})
	}

	return candles, nil
}
