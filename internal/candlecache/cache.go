// Package candlecache provides read access to the time-series candle cache.
//
// Every implementation returns candles flattened into one []float64 of
// model.RecordWidth values per candle, ordered oldest to newest.
package candlecache

import (
	"context"
	"errors"
	"fmt"

	"symbolstats/internal/model"
)

// ErrInvalidQuery is returned for queries that can never match.
var ErrInvalidQuery = errors.New("invalid candle query")

// Query selects the newest Count candles of one symbol and timeframe.
type Query struct {
	Symbol    string
	Timeframe model.Timeframe
	Count     int
}

// Validate rejects empty symbols and non-positive counts.
func (q Query) Validate() error {
	if q.Symbol == "" {
		return fmt.Errorf("%w: empty symbol", ErrInvalidQuery)
	}
	if q.Count < 1 {
		return fmt.Errorf("%w: count %d", ErrInvalidQuery, q.Count)
	}
	switch q.Timeframe {
	case model.M1, model.H1, model.D:
	default:
		return fmt.Errorf("%w: timeframe %q", ErrInvalidQuery, q.Timeframe)
	}
	return nil
}

// Querier is the read side of the candle cache. Find returns at most
// RecordWidth*Count values and an empty sequence when no data exists.
type Querier interface {
	Find(ctx context.Context, q Query) ([]float64, error)
}
