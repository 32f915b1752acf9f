package scheduler

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/Krishnakumar40/ai-investment-system/internal/config"
	"github.com/Krishnakumar40/ai-investment-system/internal/metrics"
)

// Scheduler owns the cron instance and guards each cadence against
// overlapping runs.
type Scheduler struct {
	cron *cron.Cron
	orch *Orchestrator
}

func New(cfg *config.Config, orch *Orchestrator) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	s := &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		orch: orch,
	}

	entries := []struct {
		name string
		spec string
		task func()
	}{
		{cadencePreMarket, cfg.Schedule.PreMarketCron, orch.PreMarketCycle},
		{cadenceIntraday, cfg.Schedule.IntradayCron, orch.IntradayCycle},
		{cadenceMonthly, cfg.Schedule.MonthlyCron, orch.MonthlyCycle},
		{cadenceSnapshot, cfg.Schedule.SnapshotCron, orch.SnapshotCycle},
		{"eod", cfg.Schedule.EODCron, orch.EODCycle},
	}
	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, nonOverlapping(e.name, e.task)); err != nil {
			return nil, fmt.Errorf("register %s task: %w", e.name, err)
		}
	}
	return s, nil
}

// nonOverlapping wraps a cycle so a slow run never stacks on itself. A
// skipped tick is counted, not queued.
func nonOverlapping(name string, task func()) func() {
	var running atomic.Bool
	return func() {
		if !running.CompareAndSwap(false, true) {
			log.Warn().Str("cadence", name).Msg("previous run still active, skipping tick")
			metrics.CyclesSkipped.WithLabelValues(name).Inc()
			return
		}
		defer running.Store(false)

		log.Info().Str("cadence", name).Msg("cycle starting")
		task()
		log.Info().Str("cadence", name).Msg("cycle finished")
	}
}

// Start begins cron dispatch.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop halts dispatch and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("scheduler stopped")
}
