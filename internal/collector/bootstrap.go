package collector

import (
	"context"

	"symbolstats/internal/model"
)

// BootstrapResult counts what Bootstrap did per symbol.
type BootstrapResult struct {
	Priced  int // bid set from the latest candle
	Kept    int // already had a bid
	Missing int // no candle in the cache
	Failed  int // cache query failed
}

// Bootstrap visits every registered symbol once and fills an unknown bid
// from the close of its newest minute candle. Per-symbol failures are
// logged and skipped; only context cancellation stops the loop.
func (c *Collector) Bootstrap(ctx context.Context) (BootstrapResult, error) {
	var res BootstrapResult
	for _, name := range c.Registry.Names() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		candles, err := c.fetch(ctx, name, model.M1, 1)
		if err != nil {
			c.log.Warn().Err(err).Str("symbol", name).Msg("bootstrap: price lookup failed")
			res.Failed++
			continue
		}
		if len(candles) == 0 {
			display := name
			if sym, ok := c.Registry.Get(name); ok {
				display = sym.DisplayName
			}
			c.log.Warn().Str("symbol", display).Msg("bootstrap: unknown symbol, no candle data")
			res.Missing++
			continue
		}

		price := candles[len(candles)-1].CloseBid
		priced := false
		err = c.Registry.Update(name, func(s model.Stats) model.Stats {
			if s.Bid == nil {
				s.Bid = model.Float(price)
				priced = true
			}
			return s
		})
		if err != nil {
			c.log.Warn().Err(err).Str("symbol", name).Msg("bootstrap: update failed")
			res.Failed++
			continue
		}
		if priced {
			res.Priced++
		} else {
			res.Kept++
		}
	}

	c.log.Info().
		Int("priced", res.Priced).
		Int("kept", res.Kept).
		Int("missing", res.Missing).
		Int("failed", res.Failed).
		Msg("bootstrap complete")
	return res, nil
}
