package collector

import (
	"context"
	"fmt"

	"symbolstats/internal/calculator"
	"symbolstats/internal/model"
)

// ScanDay fetches one day of minute candles and overwrites the symbol's
// daily aggregates. An empty window leaves the symbol untouched.
func (c *Collector) ScanDay(ctx context.Context, name string) error {
	candles, err := c.fetch(ctx, name, model.M1, calculator.DayWindow)
	if err != nil {
		return fmt.Errorf("scan day: %w", err)
	}
	sum, ok := calculator.SummarizeDay(candles)
	if !ok {
		return nil
	}
	return c.Registry.Update(name, func(s model.Stats) model.Stats {
		return applyDay(s, sum)
	})
}

func applyDay(s model.Stats, sum calculator.DaySummary) model.Stats {
	if s.Bid == nil {
		s.Bid = model.Float(sum.LastClose)
	}
	s.Volume = sum.Volume
	s.HighD = sum.High
	s.LowD = sum.Low
	s.HighM = sum.LastHigh
	s.LowM = sum.LastLow
	s.Scanned = true
	return s
}
