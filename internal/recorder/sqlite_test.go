package recorder

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbolstats/internal/model"
)

func TestSQLiteRecorder_RecordStats(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "stats.db"), zerolog.Nop())
	require.NoError(t, err)
	defer rec.Close()
	rec.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	markTime := time.UnixMilli(1_699_999_200_000)
	symbols := []model.Symbol{
		{
			Name: "EUR_USD",
			Stats: model.Stats{
				Bid:     model.Float(1.0842),
				Marks:   map[string]model.Mark{model.MarkHour: {Time: markTime, Price: 1.0831}},
				Volume:  1200,
				HighD:   1.09,
				LowD:    1.08,
				HighM:   1.0845,
				LowM:    1.0840,
				Scanned: true,
			},
		},
		{Name: "NO_DATA"},
	}
	require.NoError(t, rec.RecordStats(symbols))

	var count int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM symbol_stats`).Scan(&count))
	assert.Equal(t, 1, count)

	var (
		ts        int64
		symbol    string
		bid       float64
		volume    float64
		hTime     sql.NullInt64
		hPrice    sql.NullFloat64
		dTime     sql.NullInt64
		dPriceNul sql.NullFloat64
	)
	require.NoError(t, rec.db.QueryRow(`SELECT timestamp, symbol, bid, volume,
		mark_h_time, mark_h_price, mark_d_time, mark_d_price FROM symbol_stats`).
		Scan(&ts, &symbol, &bid, &volume, &hTime, &hPrice, &dTime, &dPriceNul))

	assert.Equal(t, int64(1_700_000_000), ts)
	assert.Equal(t, "EUR_USD", symbol)
	assert.Equal(t, 1.0842, bid)
	assert.Equal(t, 1200.0, volume)
	assert.Equal(t, markTime.UnixMilli(), hTime.Int64)
	assert.Equal(t, 1.0831, hPrice.Float64)
	assert.False(t, dTime.Valid)
	assert.False(t, dPriceNul.Valid)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordStats([]model.Symbol{{Name: "X"}}))
	assert.NoError(t, r.Close())
}

func TestSQLiteRecorder_UnscannedAggregatesAreNull(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "stats.db"), zerolog.Nop())
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, rec.RecordStats([]model.Symbol{
		{Name: "BOOT", Stats: model.Stats{Bid: model.Float(1.1)}},
		{Name: "ZERO", Stats: model.Stats{Bid: model.Float(0.5), Scanned: true}},
	}))

	rows, err := rec.db.Query(`SELECT symbol, bid, volume, high_d, low_d, high_m, low_m
		FROM symbol_stats ORDER BY symbol`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		symbol string
		bid    float64
		agg    [5]sql.NullFloat64
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.symbol, &r.bid, &r.agg[0], &r.agg[1], &r.agg[2], &r.agg[3], &r.agg[4]))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)

	assert.Equal(t, "BOOT", got[0].symbol)
	assert.Equal(t, 1.1, got[0].bid)
	for i, c := range got[0].agg {
		assert.False(t, c.Valid, "column %d should be NULL before a scan", i)
	}

	// a scanned zero range is a real value
	assert.Equal(t, "ZERO", got[1].symbol)
	for i, c := range got[1].agg {
		assert.True(t, c.Valid, "column %d", i)
		assert.Equal(t, 0.0, c.Float64)
	}
}
