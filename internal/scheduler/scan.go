package scheduler

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Krishnakumar40/ai-investment-system/internal/metrics"
	"github.com/Krishnakumar40/ai-investment-system/internal/model"
	"github.com/Krishnakumar40/ai-investment-system/internal/scoring"
)

// scan fetches and scores every symbol concurrently with a bounded worker
// pool. A symbol whose fetch fails degrades to a scan-error result so the
// rest of the cycle proceeds. Each symbol is scored exactly once; the map is
// complete when scan returns.
func (o *Orchestrator) scan(ctx context.Context, symbols []string, cadence string) map[string]*model.ScoreResult {
	results := make(map[string]*model.ScoreResult, len(symbols))
	var mu sync.Mutex

	jobs := make(chan string)
	var wg sync.WaitGroup

	workers := o.cfg.Scan.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				res := o.scoreSymbol(ctx, symbol, cadence)
				mu.Lock()
				results[symbol] = res
				mu.Unlock()
			}
		}()
	}

	for _, symbol := range symbols {
		jobs <- symbol
	}
	close(jobs)
	wg.Wait()

	return results
}

func (o *Orchestrator) scoreSymbol(ctx context.Context, symbol, cadence string) *model.ScoreResult {
	fetchCtx, cancel := context.WithTimeout(ctx, o.cfg.Scan.FetchTimeout)
	defer cancel()

	metrics.SymbolsScanned.WithLabelValues(cadence).Inc()

	series, err := o.fetcher.FetchSeries(fetchCtx, symbol)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Str("cadence", cadence).Msg("fetch failed")
		metrics.ScanErrors.WithLabelValues(cadence).Inc()
		return scoring.ScanErrorResult(symbol)
	}
	return scoring.Score(symbol, series)
}

// watchlist builds the deduplicated scan list: the base universe in config
// order, then any held symbols not already present, then the extras.
func watchlist(base []string, users []*model.User, extras ...string) []string {
	seen := make(map[string]struct{}, len(base))
	var list []string
	add := func(symbol string) {
		if symbol == "" {
			return
		}
		if _, ok := seen[symbol]; ok {
			return
		}
		seen[symbol] = struct{}{}
		list = append(list, symbol)
	}

	for _, s := range base {
		add(s)
	}
	for _, u := range users {
		for _, h := range u.Holdings {
			add(h.Symbol)
		}
	}
	for _, s := range extras {
		add(s)
	}
	return list
}
