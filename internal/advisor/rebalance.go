package advisor

import "github.com/Krishnakumar40/ai-investment-system/internal/model"

// Monthly rebalance thresholds.
const (
	trimMaxScore          = 40.0
	trimMinAllocation     = 15.0
	concentrationMaxAlloc = 25.0
	averageDownMinScore   = 80.0
)

// Performance summarizes net-worth change across a snapshot window.
type Performance struct {
	StartTotal       float64
	LastTotal        float64
	PercentageChange float64
	Days             int
}

// PerformanceChange computes the percentage change between the oldest and
// newest snapshot. Snapshots must be ordered by date ascending. Returns
// ok=false when fewer than two snapshots exist.
func PerformanceChange(snapshots []model.NetWorthSnapshot) (Performance, bool) {
	if len(snapshots) < 2 {
		return Performance{}, false
	}
	start := snapshots[0].Total()
	last := snapshots[len(snapshots)-1].Total()

	var pct float64
	if start > 0 {
		pct = (last - start) / start * 100
	}
	return Performance{
		StartTotal:       start,
		LastTotal:        last,
		PercentageChange: pct,
		Days:             len(snapshots),
	}, true
}

// AdviceKind classifies a rebalance recommendation for one holding.
type AdviceKind string

const (
	AdviceTrim          AdviceKind = "TRIM"
	AdviceConcentration AdviceKind = "CONCENTRATION"
	AdviceAverageDown   AdviceKind = "AVERAGE_DOWN"
)

// RebalanceAdvice is one per-holding recommendation from the monthly review.
type RebalanceAdvice struct {
	Kind       AdviceKind
	Symbol     string
	Score      float64
	Allocation float64 // percent of total portfolio value
}

// HoldingAdvice evaluates one holding against its live score. portfolioTotal
// is the user's latest total net worth (market value + cash). Returns nil
// when the position needs no action.
func HoldingAdvice(h model.Holding, res *model.ScoreResult, portfolioTotal float64) *RebalanceAdvice {
	if res == nil || portfolioTotal <= 0 {
		return nil
	}
	currentValue := float64(h.Quantity) * res.Price
	allocation := currentValue / portfolioTotal * 100

	switch {
	case res.Score < trimMaxScore && allocation > trimMinAllocation:
		return &RebalanceAdvice{Kind: AdviceTrim, Symbol: h.Symbol, Score: res.Score, Allocation: allocation}
	case allocation > concentrationMaxAlloc:
		return &RebalanceAdvice{Kind: AdviceConcentration, Symbol: h.Symbol, Score: res.Score, Allocation: allocation}
	case res.Score > averageDownMinScore && res.Price < h.AveragePrice:
		return &RebalanceAdvice{Kind: AdviceAverageDown, Symbol: h.Symbol, Score: res.Score, Allocation: allocation}
	}
	return nil
}
