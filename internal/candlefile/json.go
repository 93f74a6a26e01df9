package candlefile

import (
	"encoding/json"
	"os"

	"pattern-engine/internal/market"
)

// JSONLoader reads a JSON array of candles
type JSONLoader struct{}

func (JSONLoader) Extension() string { return "json" }

func (JSONLoader) Load(path string) ([]market.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var candles []market.Candle
	if err := json.NewDecoder(f).Decode(&candles); err != nil {
		return nil, err
	}
	return candles, nil
}
