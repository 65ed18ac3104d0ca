package collector

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"symbolstats/internal/model"
)

// ResolveAnchors fetches the newest H1 and D candle and stores their time
// and opening price as the hour and day marks. Nothing is written unless
// both fetches succeed. A timeframe without data keeps its previous mark.
func (c *Collector) ResolveAnchors(ctx context.Context, name string) error {
	var hour, day []model.Candle

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		hour, err = c.fetch(gctx, name, model.H1, 1)
		return err
	})
	g.Go(func() (err error) {
		day, err = c.fetch(gctx, name, model.D, 1)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("resolve anchors: %w", err)
	}

	return c.Registry.Update(name, func(s model.Stats) model.Stats {
		return applyAnchors(s, hour, day)
	})
}

func applyAnchors(s model.Stats, hour, day []model.Candle) model.Stats {
	if s.Marks == nil {
		s.Marks = make(map[string]model.Mark, 2)
	}
	if m, ok := anchorOf(hour); ok {
		s.Marks[model.MarkHour] = m
	}
	if m, ok := anchorOf(day); ok {
		s.Marks[model.MarkDay] = m
	}
	return s
}

func anchorOf(candles []model.Candle) (model.Mark, bool) {
	if len(candles) == 0 {
		return model.Mark{}, false
	}
	c := candles[len(candles)-1]
	return model.Mark{Time: c.Time, Price: c.OpenBid}, true
}
