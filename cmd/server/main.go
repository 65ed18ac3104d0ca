package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"symbolstats/internal/candlecache"
	"symbolstats/internal/collector"
	"symbolstats/internal/config"
	"symbolstats/internal/feed"
	"symbolstats/internal/logging"
	"symbolstats/internal/recorder"
	"symbolstats/internal/registry"
	"symbolstats/internal/scheduler"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog := logging.New("info", "console")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Msg("symbolstats starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init symbol registry
	reg, err := registry.Load(cfg.Registry.SymbolsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load symbol registry")
	}
	log.Info().Int("symbols", reg.Len()).Str("file", cfg.Registry.SymbolsFile).Msg("registry loaded")

	// Init candle cache
	cache, err := candlecache.NewRedis(ctx, candlecache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect candle cache")
	}
	defer cache.Close()

	// Init collector
	col := collector.NewCollector(cache, reg, log)
	col.Workers = cfg.Engine.Workers
	col.QueryTimeout = cfg.Engine.QueryTimeout

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.Path != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.Path, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Init feed
	hub := feed.NewHub(log)
	srv := feed.NewServer(cfg.Feed.Addr, reg, hub, log)
	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("feed server stopped")
			stop()
		}
	}()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, rec, hub, log)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("start scheduler")
	}

	// Optional: refresh immediately instead of waiting for the first tick
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, refreshing now")
		go sched.RunNow()
	}

	log.Info().Msg("symbolstats is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Info().Msg("shutdown signal received, stopping...")
	sched.Stop()
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Warn().Err(err).Msg("feed server shutdown")
	}
	log.Info().Msg("symbolstats stopped")
}
