package advisor

import (
	"math"

	"github.com/Krishnakumar40/ai-investment-system/internal/model"
)

const (
	// leftoverAdviceFloor is the leftover cash below which the plan only
	// emits a low-activity advisory.
	leftoverAdviceFloor = 50.0
	// saveForMinScore is the quality bar for surfacing a skipped opportunity
	// as save-for-next-time guidance.
	saveForMinScore = 70.0
)

// Allocate greedily spends availableCash across ranked opportunities,
// best-score-first, buying floor(cash/price) whole units per pick and
// skipping anything unaffordable. Single pass, no backtracking; the result
// is deterministic for identical inputs.
//
// parking is the score result for the configured low-volatility parking
// instrument, or nil when it was not scanned this cycle.
func Allocate(ranked []*model.ScoreResult, availableCash float64, parking *model.ScoreResult) *model.AllocationPlan {
	plan := &model.AllocationPlan{
		CashAvailable: availableCash,
		CashRemaining: availableCash,
	}

	if len(ranked) == 0 {
		plan.NoOpportunity = true
		return plan
	}

	cash := availableCash
	for _, opp := range ranked {
		if opp.Price <= 0 || cash < opp.Price {
			continue
		}
		qty := int64(math.Floor(cash / opp.Price))
		cost := float64(qty) * opp.Price
		cash -= cost
		plan.Purchases = append(plan.Purchases, model.Purchase{
			Symbol:    opp.Symbol,
			Quantity:  qty,
			UnitPrice: opp.Price,
			Cost:      cost,
			Reasons:   opp.Reasons,
			Score:     opp.Score,
		})
	}

	plan.CashConsumed = availableCash - cash
	plan.CashRemaining = cash

	if availableCash > 0 {
		plan.LeftoverAdvice = leftoverAdvice(ranked, cash, parking)
	}
	return plan
}

func leftoverAdvice(ranked []*model.ScoreResult, leftover float64, parking *model.ScoreResult) *model.LeftoverAdvice {
	advice := &model.LeftoverAdvice{}

	if leftover <= leftoverAdviceFloor {
		advice.LowActivity = true
		return advice
	}

	if parking != nil && parking.Price > 0 && leftover >= parking.Price {
		qty := int64(math.Floor(leftover / parking.Price))
		advice.ParkSymbol = parking.Symbol
		advice.ParkQuantity = qty
		advice.ParkAmount = float64(qty) * parking.Price
	}

	for _, opp := range ranked {
		if opp.Price > leftover && opp.Score > saveForMinScore {
			advice.SaveForSymbol = opp.Symbol
			advice.SaveForPrice = opp.Price
			break
		}
	}

	return advice
}
