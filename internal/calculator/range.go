package calculator

import (
	"errors"

	"symbolstats/internal/model"
)

// DayWindow is the number of M1 candles in one trading day.
const DayWindow = 60 * 24

// DaySummary is the result of one pass over a day of minute candles.
type DaySummary struct {
	High      float64 // highest high bid over the window
	Low       float64 // lowest low bid over the window
	Volume    float64 // summed over every record
	LastHigh  float64 // high bid of the newest candle
	LastLow   float64 // low bid of the newest candle
	LastClose float64 // close bid of the newest candle
}

// SummarizeDay scans candles (oldest first) once. ok is false when there
// are no candles. The first candle seeds the running high and low, so a
// genuine zero or negative value is never mistaken for "unset".
func SummarizeDay(candles []model.Candle) (sum DaySummary, ok bool) {
	if len(candles) == 0 {
		return DaySummary{}, false
	}
	seeded := false
	for _, c := range candles {
		sum.Volume += c.Volume
		if !seeded {
			sum.High, sum.Low = c.HighBid, c.LowBid
			seeded = true
			continue
		}
		if c.HighBid > sum.High {
			sum.High = c.HighBid
		}
		if c.LowBid < sum.Low {
			sum.Low = c.LowBid
		}
	}
	last := candles[len(candles)-1]
	sum.LastHigh = last.HighBid
	sum.LastLow = last.LowBid
	sum.LastClose = last.CloseBid
	return sum, true
}

// PercentChange returns the change from base to current in percent.
func PercentChange(current, base float64) (float64, error) {
	if base == 0 {
		return 0, errors.New("base price must be non-zero")
	}
	return (current - base) / base * 100, nil
}
