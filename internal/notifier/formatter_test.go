package notifier

import (
	"strings"
	"testing"

	"github.com/Krishnakumar40/ai-investment-system/internal/advisor"
	"github.com/Krishnakumar40/ai-investment-system/internal/model"
)

func TestDescribeReason(t *testing.T) {
	tests := []struct {
		reason model.Reason
		want   string
	}{
		{model.Reason{Tag: model.ReasonStrongUptrend}, "Strong Secular Uptrend"},
		{model.Reason{Tag: model.ReasonHeavyBuying, Detail: "2.5x"}, "Heavy Institutional Buying (2.5x Vol)"},
		{model.Reason{Tag: model.ReasonScanError}, "Scan Error"},
		{model.Reason{Tag: "UNKNOWN_TAG"}, "UNKNOWN_TAG"},
	}
	for _, tt := range tests {
		if got := DescribeReason(tt.reason); got != tt.want {
			t.Errorf("DescribeReason(%v) = %q, want %q", tt.reason, got, tt.want)
		}
	}
}

func TestSimplifyReasons(t *testing.T) {
	tests := []struct {
		name    string
		reasons []model.Reason
		want    string
	}{
		{
			"momentum wins over value",
			[]model.Reason{{Tag: model.ReasonOversold}, {Tag: model.ReasonBullishMACD}},
			"Positive Momentum Signal",
		},
		{
			"value wins over trend",
			[]model.Reason{{Tag: model.ReasonHealthyUptrend}, {Tag: model.ReasonPositiveFlow}},
			"Good Buying Zone",
		},
		{
			"trend alone",
			[]model.Reason{{Tag: model.ReasonStrongUptrend}},
			"Strong Uptrend",
		},
		{
			"falls back to first reason",
			[]model.Reason{{Tag: model.ReasonLowerBandBounce}},
			"Lower BB Support Bounce",
		},
		{
			"empty",
			nil,
			"No strong signals",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SimplifyReasons(tt.reasons); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatPreMarketReportNoOpportunity(t *testing.T) {
	user := &model.User{ChatID: 1}
	plan := &model.AllocationPlan{NoOpportunity: true, CashAvailable: 100, CashRemaining: 100}

	got := FormatPreMarketReport(user, nil, plan)
	if !strings.Contains(got, "No high-confidence buying opportunities") {
		t.Errorf("missing no-opportunity line:\n%s", got)
	}
}

func TestFormatPreMarketReportWithPlan(t *testing.T) {
	user := &model.User{ChatID: 1}
	held := []*model.ScoreResult{
		{Symbol: "AAA", Score: 20, Recommendation: model.Sell,
			Reasons: []model.Reason{{Tag: model.ReasonBearishTrend}}},
	}
	plan := &model.AllocationPlan{
		CashAvailable: 10000,
		CashConsumed:  9265.68,
		CashRemaining: 734.32,
		Purchases: []model.Purchase{
			{Symbol: "BBB", Quantity: 4, UnitPrice: 2316.42, Cost: 9265.68,
				Score: 88, Reasons: []model.Reason{{Tag: model.ReasonBullishMACD}}},
		},
		LeftoverAdvice: &model.LeftoverAdvice{
			ParkSymbol: "GOLDBEES.NS", ParkQuantity: 9, ParkAmount: 729,
		},
	}

	got := FormatPreMarketReport(user, held, plan)

	for _, want := range []string{
		"🔴 *AAA*",
		"4 Qty",
		"Rs. 2,316.42",
		"Positive Momentum Signal",
		"Park Rs. 729 in *GOLDBEES.NS*",
		"Keep the remaining as cash",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestFormatMonthlyReview(t *testing.T) {
	perf := advisor.Performance{StartTotal: 1000, LastTotal: 1100, PercentageChange: 10, Days: 5}

	got := FormatMonthlyReview(perf, nil)
	if !strings.Contains(got, "well-balanced") {
		t.Errorf("empty advice should render balanced note:\n%s", got)
	}
	if !strings.Contains(got, "10.00%") {
		t.Errorf("growth missing:\n%s", got)
	}

	advices := []*advisor.RebalanceAdvice{
		{Kind: advisor.AdviceTrim, Symbol: "AAA", Score: 30, Allocation: 40},
		{Kind: advisor.AdviceConcentration, Symbol: "BBB", Score: 60, Allocation: 30},
		{Kind: advisor.AdviceAverageDown, Symbol: "CCC", Score: 85, Allocation: 10},
	}
	got = FormatMonthlyReview(perf, advices)
	for _, want := range []string{"Trim AAA", "Concentration", "Average Down CCC"} {
		if !strings.Contains(got, want) {
			t.Errorf("review missing %q:\n%s", want, got)
		}
	}
}

func TestFormatPortfolio(t *testing.T) {
	empty := &model.User{ChatID: 1}
	if got := FormatPortfolio(empty); !strings.Contains(got, "empty") {
		t.Errorf("empty portfolio message: %q", got)
	}

	user := &model.User{
		ChatID:      1,
		CashBalance: 500,
		Holdings: []model.Holding{
			{Symbol: "AAA", Quantity: 10, AveragePrice: 150},
		},
	}
	got := FormatPortfolio(user)
	for _, want := range []string{"AAA", "Rs. 1,500", "Rs. 500"} {
		if !strings.Contains(got, want) {
			t.Errorf("portfolio missing %q:\n%s", want, got)
		}
	}
}
