// Package scheduler runs the decision cycles on their cron cadences and
// orchestrates scan, score, advise and notify for every registered user.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Krishnakumar40/ai-investment-system/internal/advisor"
	"github.com/Krishnakumar40/ai-investment-system/internal/collector"
	"github.com/Krishnakumar40/ai-investment-system/internal/config"
	"github.com/Krishnakumar40/ai-investment-system/internal/metrics"
	"github.com/Krishnakumar40/ai-investment-system/internal/model"
	"github.com/Krishnakumar40/ai-investment-system/internal/notifier"
	"github.com/Krishnakumar40/ai-investment-system/internal/recorder"
	"github.com/Krishnakumar40/ai-investment-system/internal/store"
)

// Intraday alert thresholds.
const (
	globalWeaknessMaxScore = 40.0
	crashMaxScore          = 35.0
	opportunityMinScore    = 85.0
	opportunityMinCash     = 500.0
)

// snapshotWindow is how far back the monthly review compares net worth.
const snapshotWindow = 30 * 24 * time.Hour

// Cadence labels used in logs, metrics and recorded history.
const (
	cadencePreMarket = "pre_market"
	cadenceIntraday  = "intraday"
	cadenceMonthly   = "monthly"
	cadenceSnapshot  = "snapshot"
)

// Orchestrator drives one full decision cycle per invocation. It holds no
// cross-cycle state besides what lives in the store.
type Orchestrator struct {
	cfg      *config.Config
	fetcher  collector.Fetcher
	store    *store.Store
	notifier notifier.Notifier
	recorder recorder.Recorder
	loc      *time.Location
	ctx      context.Context
}

func NewOrchestrator(ctx context.Context, cfg *config.Config, fetcher collector.Fetcher,
	st *store.Store, n notifier.Notifier, rec recorder.Recorder) *Orchestrator {

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		// Config validation already checked this; fall back defensively.
		loc = time.UTC
	}
	return &Orchestrator{
		cfg:      cfg,
		fetcher:  fetcher,
		store:    st,
		notifier: n,
		recorder: rec,
		loc:      loc,
		ctx:      ctx,
	}
}

// TriggerPreMarket runs the pre-market cycle outside its schedule (the /scan
// command).
func (o *Orchestrator) TriggerPreMarket() {
	o.PreMarketCycle()
}

// TriggerMonthlyFor runs the monthly review for a single user (the
// /rebalance command).
func (o *Orchestrator) TriggerMonthlyFor(chatID int64) {
	ctx, cancel := context.WithTimeout(o.ctx, o.cfg.Scan.CycleTimeout)
	defer cancel()

	user, err := o.store.GetUser(chatID)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("monthly trigger: load user")
		return
	}
	results := o.scan(ctx, watchlist(nil, []*model.User{user}), cadenceMonthly)
	o.monthlyReviewFor(user, results)
}

// PreMarketCycle scans the full universe plus holdings, scores everything
// once, then produces a personal report and allocation plan per user.
func (o *Orchestrator) PreMarketCycle() {
	ctx, cancel := context.WithTimeout(o.ctx, o.cfg.Scan.CycleTimeout)
	defer cancel()
	defer o.observeDuration(cadencePreMarket)()

	users, err := o.store.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("pre-market: list users")
		return
	}
	if len(users) == 0 {
		log.Info().Msg("pre-market: no registered users, skipping")
		return
	}

	symbols := watchlist(o.cfg.Market.Universe, users,
		o.cfg.Market.Benchmark, o.cfg.Market.ParkingSymbol)
	log.Info().Int("symbols", len(symbols)).Int("users", len(users)).Msg("pre-market cycle starting")

	results := o.scan(ctx, symbols, cadencePreMarket)
	parking := results[o.cfg.Market.ParkingSymbol]

	ranked := advisor.Rank(o.universeCandidates(results), o.cfg.Scan.MinScore)

	for _, user := range users {
		o.preMarketFor(user, results, ranked, parking)
	}
}

// universeCandidates picks the configured universe's results in configured
// order. Held symbols outside the universe are scanned for portfolio updates
// but never become buy candidates, and the slice order keeps ranking ties
// deterministic.
func (o *Orchestrator) universeCandidates(results map[string]*model.ScoreResult) []*model.ScoreResult {
	candidates := make([]*model.ScoreResult, 0, len(o.cfg.Market.Universe))
	for _, symbol := range o.cfg.Market.Universe {
		if symbol == o.cfg.Market.Benchmark {
			continue
		}
		if res := results[symbol]; res != nil {
			candidates = append(candidates, res)
		}
	}
	return candidates
}

func (o *Orchestrator) preMarketFor(user *model.User, results map[string]*model.ScoreResult,
	ranked []*model.ScoreResult, parking *model.ScoreResult) {

	var held []*model.ScoreResult
	for _, h := range user.Holdings {
		if res := results[h.Symbol]; res != nil {
			held = append(held, res)
		}
	}

	// Cash balance wins; budget is the fallback for users who only set one
	// number.
	cash := user.CashBalance
	if cash <= 0 {
		cash = user.Budget
	}

	plan := advisor.Allocate(ranked, cash, parking)

	msg := notifier.FormatPreMarketReport(user, held, plan)
	if err := o.notifier.Notify(user.ChatID, msg); err != nil {
		log.Error().Err(err).Int64("chat_id", user.ChatID).Msg("pre-market: notify")
	}

	for _, p := range plan.Purchases {
		if err := o.recorder.RecordDecision(&recorder.Decision{
			ChatID:    user.ChatID,
			Cadence:   cadencePreMarket,
			Symbol:    p.Symbol,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
			Cost:      p.Cost,
			Score:     p.Score,
			Reasons:   p.Reasons,
		}); err != nil {
			log.Error().Err(err).Msg("pre-market: record decision")
		}
	}
}

// IntradayCycle watches the fast list for crashes in held positions, sudden
// strong-buy setups, and benchmark weakness.
func (o *Orchestrator) IntradayCycle() {
	ctx, cancel := context.WithTimeout(o.ctx, o.cfg.Scan.CycleTimeout)
	defer cancel()
	defer o.observeDuration(cadenceIntraday)()

	users, err := o.store.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("intraday: list users")
		return
	}
	if len(users) == 0 {
		return
	}

	symbols := watchlist(o.cfg.Market.IntradayUniverse, users, o.cfg.Market.Benchmark)
	results := o.scan(ctx, symbols, cadenceIntraday)

	var alerts []model.Alert
	if a := o.benchmarkAlert(results); a != nil {
		alerts = append(alerts, *a)
	}

	for _, user := range users {
		o.intradayFor(user, results, alerts)
	}
}

// benchmarkAlert checks the index score for broad market weakness.
func (o *Orchestrator) benchmarkAlert(results map[string]*model.ScoreResult) *model.Alert {
	bench := results[o.cfg.Market.Benchmark]
	if bench == nil || bench.Score >= globalWeaknessMaxScore {
		return nil
	}
	return &model.Alert{
		Kind:    model.AlertGlobalWeakness,
		Symbol:  bench.Symbol,
		Score:   bench.Score,
		Message: notifier.GlobalWeaknessMessage(bench.Symbol, bench.Score),
	}
}

func (o *Orchestrator) intradayFor(user *model.User, results map[string]*model.ScoreResult, global []model.Alert) {
	alerts := append([]model.Alert(nil), global...)

	for _, h := range user.Holdings {
		res := results[h.Symbol]
		if res == nil {
			continue
		}
		if res.Score < crashMaxScore && res.Recommendation == model.Sell {
			alerts = append(alerts, model.Alert{
				Kind:    model.AlertPortfolioCrash,
				Symbol:  res.Symbol,
				Score:   res.Score,
				Price:   res.Price,
				Message: notifier.CrashMessage(res.Symbol, res.Score),
			})
		}
	}

	// Opportunities come from the configured universe only, in its order:
	// symbols watched solely because some user holds them never become buy
	// suggestions, and the alert order is reproducible.
	if user.CashBalance > opportunityMinCash {
		for _, symbol := range o.cfg.Market.IntradayUniverse {
			res := results[symbol]
			if res == nil || user.Holds(symbol) {
				continue
			}
			affordable := user.Budget <= 0 || res.Price <= user.Budget
			if res.Score >= opportunityMinScore && affordable {
				alerts = append(alerts, model.Alert{
					Kind:    model.AlertBuyOpportunity,
					Symbol:  res.Symbol,
					Score:   res.Score,
					Price:   res.Price,
					Message: notifier.OpportunityMessage(res.Symbol, res.Score, res.Price),
				})
			}
		}
	}

	for _, a := range alerts {
		metrics.AlertsSent.WithLabelValues(string(a.Kind)).Inc()
		if err := o.notifier.Notify(user.ChatID, a.Message); err != nil {
			log.Error().Err(err).Int64("chat_id", user.ChatID).Msg("intraday: notify")
		}
		if err := o.recorder.RecordAlert(&recorder.AlertRecord{
			ChatID:  user.ChatID,
			Kind:    a.Kind,
			Symbol:  a.Symbol,
			Score:   a.Score,
			Message: a.Message,
		}); err != nil {
			log.Error().Err(err).Msg("intraday: record alert")
		}
	}
}

// MonthlyCycle sends every user a wealth review with rebalance advice.
func (o *Orchestrator) MonthlyCycle() {
	ctx, cancel := context.WithTimeout(o.ctx, o.cfg.Scan.CycleTimeout)
	defer cancel()
	defer o.observeDuration(cadenceMonthly)()

	users, err := o.store.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("monthly: list users")
		return
	}
	if len(users) == 0 {
		return
	}

	results := o.scan(ctx, watchlist(nil, users), cadenceMonthly)
	for _, user := range users {
		o.monthlyReviewFor(user, results)
	}
}

func (o *Orchestrator) monthlyReviewFor(user *model.User, results map[string]*model.ScoreResult) {
	since := time.Now().In(o.loc).Add(-snapshotWindow).Format("2006-01-02")
	snaps, err := o.store.SnapshotsSince(user.ChatID, since)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", user.ChatID).Msg("monthly: load snapshots")
		return
	}

	perf, ok := advisor.PerformanceChange(snaps)
	if !ok {
		if err := o.notifier.Notify(user.ChatID, notifier.NotEnoughHistoryMessage); err != nil {
			log.Error().Err(err).Int64("chat_id", user.ChatID).Msg("monthly: notify")
		}
		return
	}

	total := user.CashBalance
	for _, h := range user.Holdings {
		if res := results[h.Symbol]; res != nil && res.Price > 0 {
			total += float64(h.Quantity) * res.Price
		} else {
			total += float64(h.Quantity) * h.AveragePrice
		}
	}

	var advices []*advisor.RebalanceAdvice
	for _, h := range user.Holdings {
		if a := advisor.HoldingAdvice(h, results[h.Symbol], total); a != nil {
			advices = append(advices, a)
		}
	}

	msg := notifier.FormatMonthlyReview(perf, advices)
	if err := o.notifier.Notify(user.ChatID, msg); err != nil {
		log.Error().Err(err).Int64("chat_id", user.ChatID).Msg("monthly: notify")
	}

	for _, a := range advices {
		res := results[a.Symbol]
		var price float64
		if res != nil {
			price = res.Price
		}
		if err := o.recorder.RecordDecision(&recorder.Decision{
			ChatID:    user.ChatID,
			Cadence:   cadenceMonthly,
			Symbol:    a.Symbol,
			UnitPrice: price,
			Score:     a.Score,
		}); err != nil {
			log.Error().Err(err).Msg("monthly: record decision")
		}
	}
}

// SnapshotCycle persists every user's end-of-day net worth. The monthly
// review needs at least two of these to measure growth.
func (o *Orchestrator) SnapshotCycle() {
	ctx, cancel := context.WithTimeout(o.ctx, o.cfg.Scan.CycleTimeout)
	defer cancel()
	defer o.observeDuration(cadenceSnapshot)()

	users, err := o.store.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("snapshot: list users")
		return
	}
	if len(users) == 0 {
		return
	}

	results := o.scan(ctx, watchlist(nil, users), cadenceSnapshot)
	date := time.Now().In(o.loc).Format("2006-01-02")

	for _, user := range users {
		var invested, market float64
		for _, h := range user.Holdings {
			invested += float64(h.Quantity) * h.AveragePrice
			if res := results[h.Symbol]; res != nil && res.Price > 0 {
				market += float64(h.Quantity) * res.Price
			} else {
				market += float64(h.Quantity) * h.AveragePrice
			}
		}
		snap := model.NetWorthSnapshot{
			Date:             date,
			TotalInvested:    invested,
			TotalMarketValue: market,
			CashBalance:      user.CashBalance,
		}
		if err := o.store.SaveSnapshot(user.ChatID, snap); err != nil {
			log.Error().Err(err).Int64("chat_id", user.ChatID).Msg("snapshot: save")
		}
	}
	log.Info().Int("users", len(users)).Str("date", date).Msg("net-worth snapshots saved")
}

// EODCycle sends the closing note to every user.
func (o *Orchestrator) EODCycle() {
	users, err := o.store.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("eod: list users")
		return
	}
	for _, user := range users {
		if err := o.notifier.Notify(user.ChatID, notifier.EODMessage); err != nil {
			log.Error().Err(err).Int64("chat_id", user.ChatID).Msg("eod: notify")
		}
	}
}

func (o *Orchestrator) observeDuration(cadence string) func() {
	start := time.Now()
	return func() {
		metrics.CycleDuration.WithLabelValues(cadence).Observe(time.Since(start).Seconds())
	}
}
