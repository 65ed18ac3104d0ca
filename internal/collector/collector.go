// Package collector derives per-symbol statistics from the candle cache and
// writes them into the symbol registry.
package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"symbolstats/internal/candlecache"
	"symbolstats/internal/registry"
)

// Collector orchestrates cache queries and statistics updates.
type Collector struct {
	Cache    candlecache.Querier
	Registry *registry.Registry

	// Workers bounds concurrent symbol updates in UpdateAll.
	Workers int
	// QueryTimeout bounds each cache query; zero means no extra deadline.
	QueryTimeout time.Duration

	log zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(cache candlecache.Querier, reg *registry.Registry, log zerolog.Logger) *Collector {
	return &Collector{
		Cache:    cache,
		Registry: reg,
		Workers:  1,
		log:      log.With().Str("component", "collector").Logger(),
	}
}

// UpdateSymbol refreshes anchors and daily aggregates for one symbol. Both
// run concurrently and both run to completion; the first error is returned.
func (c *Collector) UpdateSymbol(ctx context.Context, name string) error {
	if _, ok := c.Registry.Get(name); !ok {
		return fmt.Errorf("update %s: %w", name, registry.ErrUnknownSymbol)
	}

	var g errgroup.Group
	g.Go(func() error { return c.ResolveAnchors(ctx, name) })
	g.Go(func() error { return c.ScanDay(ctx, name) })
	return g.Wait()
}

// UpdateAll runs UpdateSymbol for every registered symbol. A failing symbol
// does not stop the others; all failures are joined into the result.
func (c *Collector) UpdateAll(ctx context.Context) error {
	start := time.Now()
	names := c.Registry.Names()

	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(workers)
	for _, name := range names {
		g.Go(func() error {
			if err := c.UpdateSymbol(ctx, name); err != nil {
				c.log.Warn().Err(err).Str("symbol", name).Msg("symbol update failed")
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	c.log.Debug().
		Int("symbols", len(names)).
		Int("failed", len(errs)).
		Dur("elapsed", time.Since(start)).
		Msg("update cycle complete")
	return errors.Join(errs...)
}
