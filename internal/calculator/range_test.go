package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbolstats/internal/model"
)

func TestSummarizeDay_Empty(t *testing.T) {
	_, ok := SummarizeDay(nil)
	assert.False(t, ok)
}

func TestSummarizeDay_FullDayScenario(t *testing.T) {
	candles := make([]model.Candle, DayWindow)
	for i := range candles {
		candles[i] = model.Candle{
			Time:     time.UnixMilli(int64(i) * 60_000),
			HighBid:  100 + float64(i),
			LowBid:   50 - float64(i),
			CloseBid: 75,
			Volume:   1,
		}
	}

	sum, ok := SummarizeDay(candles)
	require.True(t, ok)
	assert.Equal(t, 1539.0, sum.High)
	assert.Equal(t, -1389.0, sum.Low)
	assert.Equal(t, 1440.0, sum.Volume)
	assert.Equal(t, 1539.0, sum.LastHigh)
	assert.Equal(t, -1389.0, sum.LastLow)
	assert.Equal(t, 75.0, sum.LastClose)
}

func TestSummarizeDay_ZeroLowIsKept(t *testing.T) {
	candles := []model.Candle{
		{HighBid: 2, LowBid: 0, Volume: 1},
		{HighBid: 3, LowBid: 1, Volume: 2},
	}
	sum, ok := SummarizeDay(candles)
	require.True(t, ok)
	assert.Equal(t, 0.0, sum.Low)
	assert.Equal(t, 3.0, sum.High)
	assert.Equal(t, 3.0, sum.Volume)
	assert.Equal(t, 1.0, sum.LastLow)
}

func TestSummarizeDay_UnorderedExtremes(t *testing.T) {
	candles := []model.Candle{
		{HighBid: 1.10, LowBid: 1.05},
		{HighBid: 1.30, LowBid: 1.01},
		{HighBid: 1.20, LowBid: 1.08},
	}
	sum, _ := SummarizeDay(candles)
	assert.Equal(t, 1.30, sum.High)
	assert.Equal(t, 1.01, sum.Low)
	assert.Equal(t, 1.20, sum.LastHigh)
	assert.Equal(t, 1.08, sum.LastLow)
}

func TestPercentChange(t *testing.T) {
	got, err := PercentChange(110, 100)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-9)

	got, err = PercentChange(1.0845, 1.0850)
	require.NoError(t, err)
	assert.InDelta(t, -0.046082949, got, 1e-6)

	_, err = PercentChange(1, 0)
	assert.Error(t, err)
}
