package candlecache

import (
	"context"
	"sort"
	"sync"

	"symbolstats/internal/model"
)

type seriesKey struct {
	symbol string
	tf     model.Timeframe
}

// Memory is an in-process candle cache, used for tests and local runs.
type Memory struct {
	mu     sync.RWMutex
	series map[seriesKey][]model.Candle
	err    error
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{series: make(map[seriesKey][]model.Candle)}
}

// Put stores candles, keeping each series sorted by time. A candle with the
// same time as an existing one replaces it.
func (m *Memory) Put(symbol string, tf model.Timeframe, candles ...model.Candle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := seriesKey{symbol, tf}
	byTime := make(map[int64]model.Candle, len(m.series[key])+len(candles))
	for _, c := range m.series[key] {
		byTime[c.Time.UnixMilli()] = c
	}
	for _, c := range candles {
		byTime[c.Time.UnixMilli()] = c
	}
	merged := make([]model.Candle, 0, len(byTime))
	for _, c := range byTime {
		merged = append(merged, c)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Time.Before(merged[j].Time) })
	m.series[key] = merged
}

// FailWith makes every subsequent Find return err. nil clears it.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Find implements Querier.
func (m *Memory) Find(ctx context.Context, q Query) ([]float64, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	candles := m.series[seriesKey{q.Symbol, q.Timeframe}]
	if len(candles) > q.Count {
		candles = candles[len(candles)-q.Count:]
	}
	return model.EncodeCandles(candles), nil
}
