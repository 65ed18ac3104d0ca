package collector

import (
	"context"
	"fmt"

	"symbolstats/internal/candlecache"
	"symbolstats/internal/model"
)

// fetch queries the cache and decodes the flattened result.
func (c *Collector) fetch(ctx context.Context, symbol string, tf model.Timeframe, count int) ([]model.Candle, error) {
	if c.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.QueryTimeout)
		defer cancel()
	}
	seq, err := c.Cache.Find(ctx, candlecache.Query{Symbol: symbol, Timeframe: tf, Count: count})
	if err != nil {
		return nil, fmt.Errorf("find %s %s: %w", symbol, tf, err)
	}
	candles, err := model.DecodeCandles(seq)
	if err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", symbol, tf, err)
	}
	return candles, nil
}
