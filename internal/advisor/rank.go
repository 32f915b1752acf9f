// Package advisor turns scored symbols into ranked opportunities, greedy
// allocation plans, and monthly rebalance advice.
package advisor

import (
	"sort"

	"github.com/Krishnakumar40/ai-investment-system/internal/model"
)

// DefaultMinScore is the quality floor for ranked opportunities.
const DefaultMinScore = 55.0

// Rank filters results to actionable buy opportunities (score above minScore
// and a BUY-class recommendation) and sorts them best-score-first. The sort is
// stable so equal scores keep their original scan order.
func Rank(results []*model.ScoreResult, minScore float64) []*model.ScoreResult {
	var opportunities []*model.ScoreResult
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Score > minScore && r.Recommendation.IsBuy() {
			opportunities = append(opportunities, r)
		}
	}
	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Score > opportunities[j].Score
	})
	return opportunities
}
