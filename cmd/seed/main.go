// Command seed writes candles from a JSON file into the Redis candle cache,
// for local development against a cache without a live writer.
//
// Input format:
//
//	{"EUR_USD": {"M1": [[time, openBid, openAsk, highBid, highAsk, lowBid, lowAsk, closeBid, closeAsk, volume], ...]}}
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"symbolstats/internal/candlecache"
	"symbolstats/internal/config"
	"symbolstats/internal/logging"
	"symbolstats/internal/model"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "config file")
	input := flag.String("input", "", "candles JSON file")
	flag.Parse()

	log := logging.New("info", "console")
	if *input == "" {
		log.Fatal().Msg("-input is required")
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatal().Err(err).Msg("read input")
	}
	var series map[string]map[model.Timeframe][][]float64
	if err := json.Unmarshal(data, &series); err != nil {
		log.Fatal().Err(err).Msg("parse input")
	}

	ctx := context.Background()
	cache, err := candlecache.NewRedis(ctx, candlecache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect candle cache")
	}
	defer cache.Close()

	for symbol, byTF := range series {
		for tf, records := range byTF {
			candles := make([]model.Candle, 0, len(records))
			for _, rec := range records {
				if len(rec) != model.RecordWidth {
					log.Fatal().Str("symbol", symbol).Str("tf", string(tf)).Int("fields", len(rec)).Msg("bad record width")
				}
				candles = append(candles, model.DecodeCandle(rec))
			}
			if err := cache.Append(ctx, symbol, tf, candles...); err != nil {
				log.Fatal().Err(err).Msg("append candles")
			}
			log.Info().Str("symbol", symbol).Str("tf", string(tf)).Int("candles", len(candles)).Msg("seeded")
		}
	}
}
