package advisor

import (
	"reflect"
	"testing"

	"github.com/Krishnakumar40/ai-investment-system/internal/model"
)

func result(symbol string, score, price float64, rec model.Recommendation) *model.ScoreResult {
	return &model.ScoreResult{Symbol: symbol, Score: score, Price: price, Recommendation: rec}
}

func TestRank_FiltersAndSorts(t *testing.T) {
	results := []*model.ScoreResult{
		result("LOW", 40, 100, model.Hold),
		result("B", 80, 50, model.Buy),
		result("SELLER", 90, 10, model.Sell), // high score but not a buy signal
		result("A", 90, 100, model.StrongBuy),
		result("EDGE", 55, 20, model.Buy), // score must be strictly above the floor
		nil,
	}
	ranked := Rank(results, DefaultMinScore)
	got := make([]string, len(ranked))
	for i, r := range ranked {
		got[i] = r.Symbol
	}
	want := []string{"A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRank_StableTies(t *testing.T) {
	results := []*model.ScoreResult{
		result("FIRST", 75, 10, model.Buy),
		result("SECOND", 75, 20, model.Buy),
		result("THIRD", 75, 30, model.Buy),
	}
	ranked := Rank(results, DefaultMinScore)
	got := make([]string, len(ranked))
	for i, r := range ranked {
		got[i] = r.Symbol
	}
	want := []string{"FIRST", "SECOND", "THIRD"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tied scores must keep scan order: expected %v, got %v", want, got)
	}
}

func TestAllocate_SmallLeftoverIsLowActivity(t *testing.T) {
	ranked := []*model.ScoreResult{
		result("A", 90, 100, model.StrongBuy),
		result("B", 80, 50, model.Buy),
	}
	plan := Allocate(ranked, 120, nil)

	if len(plan.Purchases) != 1 {
		t.Fatalf("expected 1 purchase, got %d", len(plan.Purchases))
	}
	p := plan.Purchases[0]
	if p.Symbol != "A" || p.Quantity != 1 || p.Cost != 100 {
		t.Errorf("expected 1xA for 100, got %+v", p)
	}
	if plan.CashRemaining != 20 {
		t.Errorf("expected leftover 20, got %.2f", plan.CashRemaining)
	}
	if plan.LeftoverAdvice == nil || !plan.LeftoverAdvice.LowActivity {
		t.Errorf("expected low-activity advisory for leftover <= 50, got %+v", plan.LeftoverAdvice)
	}
	if plan.LeftoverAdvice.ParkSymbol != "" {
		t.Error("parking must not trigger when leftover is below the advice floor")
	}
}

func TestAllocate_BestOpportunityConsumesCash(t *testing.T) {
	ranked := []*model.ScoreResult{
		result("A", 90, 100, model.StrongBuy),
		result("B", 80, 50, model.Buy),
	}
	plan := Allocate(ranked, 300, nil)

	// Greedy all-in on the best pick: floor(300/100) = 3 units of A.
	if len(plan.Purchases) != 1 {
		t.Fatalf("expected 1 purchase, got %d: %+v", len(plan.Purchases), plan.Purchases)
	}
	p := plan.Purchases[0]
	if p.Symbol != "A" || p.Quantity != 3 || p.Cost != 300 {
		t.Errorf("expected 3xA for 300, got %+v", p)
	}
	if plan.CashRemaining != 0 || plan.CashConsumed != 300 {
		t.Errorf("expected full consumption, got remaining=%.2f consumed=%.2f",
			plan.CashRemaining, plan.CashConsumed)
	}
}

func TestAllocate_SkipsUnaffordableThenFills(t *testing.T) {
	ranked := []*model.ScoreResult{
		result("A", 90, 500, model.StrongBuy), // unaffordable, skipped
		result("B", 80, 40, model.Buy),
	}
	plan := Allocate(ranked, 120, nil)
	if len(plan.Purchases) != 1 || plan.Purchases[0].Symbol != "B" {
		t.Fatalf("expected only B purchased, got %+v", plan.Purchases)
	}
	if plan.Purchases[0].Quantity != 3 || plan.CashRemaining != 0 {
		t.Errorf("expected 3xB and zero leftover, got %+v remaining=%.2f",
			plan.Purchases[0], plan.CashRemaining)
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	ranked := []*model.ScoreResult{
		result("A", 90, 101, model.StrongBuy),
		result("B", 80, 47, model.Buy),
	}
	first := Allocate(ranked, 1000, result("GOLDBEES.NS", 60, 55, model.Hold))
	second := Allocate(ranked, 1000, result("GOLDBEES.NS", 60, 55, model.Hold))
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce identical plans")
	}
}

func TestAllocate_EmptyRanked(t *testing.T) {
	plan := Allocate(nil, 1000, nil)
	if !plan.NoOpportunity {
		t.Error("expected no-opportunities marker")
	}
	if len(plan.Purchases) != 0 || plan.CashRemaining != 1000 {
		t.Errorf("expected untouched cash, got %+v", plan)
	}
	if plan.LeftoverAdvice != nil {
		t.Error("no leftover advice when there were no opportunities")
	}
}

func TestAllocate_ParkingAndSaveFor(t *testing.T) {
	ranked := []*model.ScoreResult{
		result("A", 90, 400, model.StrongBuy),
	}
	parking := result("GOLDBEES.NS", 55, 60, model.Hold)
	plan := Allocate(ranked, 1000, parking)

	// floor(1000/400)=2 units, leftover 200.
	if plan.CashRemaining != 200 {
		t.Fatalf("expected leftover 200, got %.2f", plan.CashRemaining)
	}
	advice := plan.LeftoverAdvice
	if advice == nil {
		t.Fatal("expected leftover advice")
	}
	if advice.ParkSymbol != "GOLDBEES.NS" || advice.ParkQuantity != 3 || advice.ParkAmount != 180 {
		t.Errorf("expected 3 units parked for 180, got %+v", advice)
	}
	// A costs 400 > 200 leftover and scores above 70: save-for guidance.
	if advice.SaveForSymbol != "A" || advice.SaveForPrice != 400 {
		t.Errorf("expected save-for A at 400, got %+v", advice)
	}
	if advice.LowActivity {
		t.Error("low-activity must not fire alongside parking advice")
	}
}

func TestAllocate_ParkingSkippedWhenUnavailable(t *testing.T) {
	ranked := []*model.ScoreResult{
		result("A", 90, 400, model.StrongBuy),
	}
	plan := Allocate(ranked, 1000, nil)
	advice := plan.LeftoverAdvice
	if advice == nil {
		t.Fatal("expected leftover advice")
	}
	if advice.ParkSymbol != "" {
		t.Error("parking advice must be skipped when the parking instrument was not scanned")
	}
	if advice.SaveForSymbol != "A" {
		t.Errorf("save-for guidance should still fire, got %+v", advice)
	}
}

func TestAllocate_ZeroPriceGuard(t *testing.T) {
	ranked := []*model.ScoreResult{
		result("BROKEN", 95, 0, model.StrongBuy),
		result("B", 80, 50, model.Buy),
	}
	plan := Allocate(ranked, 100, nil)
	if len(plan.Purchases) != 1 || plan.Purchases[0].Symbol != "B" {
		t.Errorf("zero-price results must be skipped, got %+v", plan.Purchases)
	}
}

func TestPerformanceChange(t *testing.T) {
	snaps := []model.NetWorthSnapshot{
		{Date: "2026-08-01", TotalMarketValue: 800, CashBalance: 200},
		{Date: "2026-08-30", TotalMarketValue: 900, CashBalance: 200},
	}
	perf, ok := PerformanceChange(snaps)
	if !ok {
		t.Fatal("expected performance with 2 snapshots")
	}
	if perf.PercentageChange != 10 {
		t.Errorf("expected 10.00%% change, got %.2f%%", perf.PercentageChange)
	}
	if perf.StartTotal != 1000 || perf.LastTotal != 1100 {
		t.Errorf("unexpected totals: %+v", perf)
	}
}

func TestPerformanceChange_NotEnoughData(t *testing.T) {
	if _, ok := PerformanceChange([]model.NetWorthSnapshot{{Date: "2026-08-01"}}); ok {
		t.Error("expected ok=false with a single snapshot")
	}
	if _, ok := PerformanceChange(nil); ok {
		t.Error("expected ok=false with no snapshots")
	}
}

func TestHoldingAdvice(t *testing.T) {
	holding := model.Holding{Symbol: "TATASTEEL", Quantity: 10, AveragePrice: 150}
	tests := []struct {
		name  string
		score float64
		price float64
		total float64
		want  AdviceKind
	}{
		{"trim weak oversized position", 35, 200, 10000, AdviceTrim},             // alloc 20%
		{"concentration", 60, 300, 10000, AdviceConcentration},                   // alloc 30%
		{"average down strong dip", 85, 100, 10000, AdviceAverageDown},           // below avg cost
		{"trim beats concentration when both fire", 35, 300, 10000, AdviceTrim},  // alloc 30%, score 35
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := result("TATASTEEL", tt.score, tt.price, model.Hold)
			advice := HoldingAdvice(holding, res, tt.total)
			if advice == nil {
				t.Fatal("expected advice")
			}
			if advice.Kind != tt.want {
				t.Errorf("expected %s, got %s", tt.want, advice.Kind)
			}
		})
	}
}

func TestHoldingAdvice_Balanced(t *testing.T) {
	holding := model.Holding{Symbol: "INFY", Quantity: 2, AveragePrice: 1400}
	res := result("INFY", 60, 1500, model.Hold)
	if advice := HoldingAdvice(holding, res, 100000); advice != nil {
		t.Errorf("expected no advice for a balanced position, got %+v", advice)
	}
	if advice := HoldingAdvice(holding, nil, 100000); advice != nil {
		t.Error("expected no advice without a score result")
	}
}
