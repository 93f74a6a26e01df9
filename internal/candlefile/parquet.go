package candlefile

import (
	"github.com/parquet-go/parquet-go"

	"pattern-engine/internal/market"
)

// candleRow mirrors market.Candle with parquet column tags matching the
// exported bar format.
type candleRow struct {
	OpenTime  int64   `parquet:"ot,optional"`
	CloseTime int64   `parquet:"t"`
	Open      float64 `parquet:"o"`
	High      float64 `parquet:"h"`
	Low       float64 `parquet:"l"`
	Close     float64 `parquet:"c"`
	Volume    float64 `parquet:"v"`
}

// ParquetLoader reads candles from a parquet file
type ParquetLoader struct{}

func (ParquetLoader) Extension() string { return "parquet" }

func (ParquetLoader) Load(path string) ([]market.Candle, error) {
	rows, err := parquet.ReadFile[candleRow](path)
	if err != nil {
		return nil, err
	}

	candles := make([]market.Candle, len(rows))
	for i, r := range rows {
		candles[i] = market.Candle{
			OpenTime:  r.OpenTime,
			CloseTime: r.CloseTime,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		}
	}
	return candles, nil
}
