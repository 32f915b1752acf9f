package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Krishnakumar40/ai-investment-system/internal/collector"
	"github.com/Krishnakumar40/ai-investment-system/internal/config"
	"github.com/Krishnakumar40/ai-investment-system/internal/metrics"
	"github.com/Krishnakumar40/ai-investment-system/internal/notifier"
	"github.com/Krishnakumar40/ai-investment-system/internal/recorder"
	"github.com/Krishnakumar40/ai-investment-system/internal/scheduler"
	"github.com/Krishnakumar40/ai-investment-system/internal/store"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	setupLogging(cfg)
	log.Info().Str("config", cfgPath).Msg("investment advisor starting")

	st, err := store.Open(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	var rec recorder.Recorder
	if sr, err := recorder.NewSQLiteRecorder(st.DB()); err != nil {
		log.Warn().Err(err).Msg("history recorder unavailable, continuing without")
		rec = recorder.NewNoopRecorder()
	} else {
		rec = sr
	}

	tn, err := notifier.NewTelegram(cfg.Telegram.BotToken, st)
	if err != nil {
		log.Fatal().Err(err).Msg("init telegram")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := collector.NewYahooFetcher()
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	orch := scheduler.NewOrchestrator(ctx, cfg, fetcher, st, tn, rec)
	tn.SetTrigger(orch)

	sched, err := scheduler.New(cfg, orch)
	if err != nil {
		log.Fatal().Err(err).Msg("init scheduler")
	}
	sched.Start()
	defer sched.Stop()

	go tn.Start()
	defer tn.Stop()

	if cfg.Metrics.Enabled {
		go metrics.Serve(cfg.Metrics.Addr)
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing pre-market cycle now")
		go orch.PreMarketCycle()
	}

	log.Info().Msg("investment advisor is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
