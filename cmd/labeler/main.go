package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"TrendLabeler/internal/collector"
	"TrendLabeler/internal/config"
	"TrendLabeler/internal/dataset"
	"TrendLabeler/internal/logger"
	"TrendLabeler/internal/notifier"
	"TrendLabeler/internal/recorder"
	"TrendLabeler/internal/scheduler"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.InitLogger(cfg.LoggerOptions(), "trend-labeler")
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Str("config", cfgPath).Msg("TrendLabeler starting...")

	start, end, err := cfg.ParseDates()
	if err != nil {
		log.Fatal().Err(err).Msg("parse dates")
	}

	// Init fetcher
	fetcher, err := collector.NewFetcher(cfg.FetcherConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("init fetcher")
	}
	fetcher = collector.NewCachedFetcher(fetcher, cfg.DataSource.Market, cfg.DataSource.CacheDir)
	log.Info().Str("source", fetcher.Name()).Str("market", cfg.DataSource.Market).Msg("data source ready")

	// Init recorder
	rec, err := recorder.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Warn().Err(err).Msg("init recorder failed, using noop")
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	builder := dataset.NewBuilder(collector.NewCollector(fetcher), cfg.Sampler(), rec, dataset.Options{
		Market:     cfg.DataSource.Market,
		Codes:      cfg.DataSource.Codes,
		Start:      start,
		End:        end,
		TrainRatio: cfg.Dataset.TrainRatio,
		Seed:       cfg.Dataset.Seed,
		OutputDir:  cfg.Dataset.OutputDir,
	})
	notify := notifier.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, builder, notify)

	if cfg.Schedule.BuildCron == "" {
		if _, err := sched.RunNow(); err != nil {
			rec.Close()
			if errors.Is(err, context.Canceled) {
				log.Warn().Msg("build interrupted")
			}
			os.Exit(1)
		}
		return
	}

	if err := sched.Register(cfg.Schedule.BuildCron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn, ok := notify.(*notifier.TelegramNotifier); ok {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, building now")
		go sched.RunNow()
	}

	log.Info().Str("cron", cfg.Schedule.BuildCron).Msg("TrendLabeler is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")
}
