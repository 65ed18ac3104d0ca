package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbolstats/internal/model"
)

func TestParse(t *testing.T) {
	r, err := Parse([]byte(`[
		{"name": "EUR_USD", "displayName": "EUR/USD", "type": "forex"},
		{"name": "XAU_USD"}
	]`))
	require.NoError(t, err)

	assert.Equal(t, []string{"EUR_USD", "XAU_USD"}, r.Names())

	gold, ok := r.Get("XAU_USD")
	require.True(t, ok)
	assert.Equal(t, "XAU_USD", gold.DisplayName)
	assert.Equal(t, DefaultType, gold.Type)
	assert.False(t, gold.Stats.HasBid())
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte(`[{"name": "A"}, {"name": "A"}]`))
	assert.ErrorIs(t, err, ErrDuplicateSymbol)

	_, err = Parse([]byte(`[{"displayName": "nameless"}]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"EUR_USD"}]`), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestUpdate_UnknownSymbol(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	err = r.Update("NOPE", func(s model.Stats) model.Stats { return s })
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestGet_ReturnsCopy(t *testing.T) {
	r, err := New([]model.Symbol{{Name: "EUR_USD"}})
	require.NoError(t, err)

	require.NoError(t, r.Update("EUR_USD", func(s model.Stats) model.Stats {
		s.Bid = model.Float(1.1)
		s.Marks = map[string]model.Mark{model.MarkHour: {Price: 1.05}}
		return s
	}))

	got, _ := r.Get("EUR_USD")
	*got.Stats.Bid = 99
	got.Stats.Marks[model.MarkHour] = model.Mark{Price: 99}

	again, _ := r.Get("EUR_USD")
	assert.Equal(t, 1.1, *again.Stats.Bid)
	assert.Equal(t, 1.05, again.Stats.Marks[model.MarkHour].Price)
	assert.False(t, again.Stats.UpdatedAt.IsZero())
}

func TestUpdate_ConcurrentPerSymbol(t *testing.T) {
	var symbols []model.Symbol
	for i := 0; i < 4; i++ {
		symbols = append(symbols, model.Symbol{Name: fmt.Sprintf("S%d", i)})
	}
	r, err := New(symbols)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, name := range r.Names() {
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				_ = r.Update(name, func(s model.Stats) model.Stats {
					s.Volume++
					return s
				})
			}(name)
		}
	}
	wg.Wait()

	for _, s := range r.Snapshot() {
		assert.Equal(t, 100.0, s.Stats.Volume, s.Name)
	}
}

func TestUpdate_NoChangeKeepsUpdatedAt(t *testing.T) {
	r, err := New([]model.Symbol{{Name: "EUR_USD"}})
	require.NoError(t, err)
	first := time.Unix(1_700_000_000, 0)
	r.nowFunc = func() time.Time { return first }

	require.NoError(t, r.Update("EUR_USD", func(s model.Stats) model.Stats {
		s.Bid = model.Float(1.1)
		return s
	}))

	r.nowFunc = func() time.Time { return first.Add(time.Minute) }
	require.NoError(t, r.Update("EUR_USD", func(s model.Stats) model.Stats { return s }))
	require.NoError(t, r.Update("EUR_USD", func(s model.Stats) model.Stats {
		if s.Marks == nil {
			s.Marks = map[string]model.Mark{}
		}
		return s
	}))

	got, _ := r.Get("EUR_USD")
	assert.True(t, got.Stats.UpdatedAt.Equal(first))
	assert.Nil(t, got.Stats.Marks)

	require.NoError(t, r.Update("EUR_USD", func(s model.Stats) model.Stats {
		s.Bid = model.Float(1.2)
		return s
	}))
	got, _ = r.Get("EUR_USD")
	assert.True(t, got.Stats.UpdatedAt.Equal(first.Add(time.Minute)))
}
