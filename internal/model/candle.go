package model

import (
	"errors"
	"fmt"
	"time"
)

// RecordWidth is the number of numeric fields one candle occupies in a
// flattened cache sequence.
const RecordWidth = 10

// Field offsets within a flattened candle record.
const (
	offTime = iota
	offOpenBid
	offOpenAsk
	offHighBid
	offHighAsk
	offLowBid
	offLowAsk
	offCloseBid
	offCloseAsk
	offVolume
)

// ErrMalformedSequence is returned when a flattened sequence does not hold a
// whole number of records.
var ErrMalformedSequence = errors.New("flattened candle sequence length is not a multiple of record width")

// Timeframe is the bucket granularity of a candle series.
type Timeframe string

const (
	M1 Timeframe = "M1"
	H1 Timeframe = "H1"
	D  Timeframe = "D"
)

// Candle is one decoded cache record. Prices are bid/ask pairs.
type Candle struct {
	Time     time.Time
	OpenBid  float64
	OpenAsk  float64
	HighBid  float64
	HighAsk  float64
	LowBid   float64
	LowAsk   float64
	CloseBid float64
	CloseAsk float64
	Volume   float64
}

// DecodeCandles maps a flattened cache sequence to typed candles, preserving
// order (oldest first). An empty sequence yields an empty slice.
func DecodeCandles(seq []float64) ([]Candle, error) {
	if len(seq)%RecordWidth != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrMalformedSequence, len(seq))
	}
	candles := make([]Candle, 0, len(seq)/RecordWidth)
	for i := 0; i < len(seq); i += RecordWidth {
		candles = append(candles, DecodeCandle(seq[i:i+RecordWidth]))
	}
	return candles, nil
}

// DecodeCandle decodes a single record. rec must hold RecordWidth values.
func DecodeCandle(rec []float64) Candle {
	_ = rec[offVolume]
	return Candle{
		Time:     time.UnixMilli(int64(rec[offTime])),
		OpenBid:  rec[offOpenBid],
		OpenAsk:  rec[offOpenAsk],
		HighBid:  rec[offHighBid],
		HighAsk:  rec[offHighAsk],
		LowBid:   rec[offLowBid],
		LowAsk:   rec[offLowAsk],
		CloseBid: rec[offCloseBid],
		CloseAsk: rec[offCloseAsk],
		Volume:   rec[offVolume],
	}
}

// Record returns the candle in cache wire layout.
func (c Candle) Record() [RecordWidth]float64 {
	var rec [RecordWidth]float64
	rec[offTime] = float64(c.Time.UnixMilli())
	rec[offOpenBid] = c.OpenBid
	rec[offOpenAsk] = c.OpenAsk
	rec[offHighBid] = c.HighBid
	rec[offHighAsk] = c.HighAsk
	rec[offLowBid] = c.LowBid
	rec[offLowAsk] = c.LowAsk
	rec[offCloseBid] = c.CloseBid
	rec[offCloseAsk] = c.CloseAsk
	rec[offVolume] = c.Volume
	return rec
}

// EncodeCandles flattens candles into cache wire layout.
func EncodeCandles(candles []Candle) []float64 {
	seq := make([]float64, 0, len(candles)*RecordWidth)
	for _, c := range candles {
		rec := c.Record()
		seq = append(seq, rec[:]...)
	}
	return seq
}
