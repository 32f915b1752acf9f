package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Krishnakumar40/ai-investment-system/internal/advisor"
	"github.com/Krishnakumar40/ai-investment-system/internal/model"
)

// reasonText maps semantic reason tags to display wording. This is the only
// place scoring rationale becomes user-facing text.
var reasonText = map[model.ReasonTag]string{
	model.ReasonInsufficientData: "Insufficient Data",
	model.ReasonScanError:        "Scan Error",
	model.ReasonStrongUptrend:    "Strong Secular Uptrend",
	model.ReasonHealthyUptrend:   "Healthy Uptrend",
	model.ReasonBearishTrend:     "Bearish Trend Configuration",
	model.ReasonOversold:         "Super Oversold (Value Buy)",
	model.ReasonOverbought:       "Overbought / Exhaustion Zone",
	model.ReasonPositiveFlow:     "Positive Price Flow",
	model.ReasonBullishMACD:      "Bullish MACD Cross",
	model.ReasonBearishMACD:      "Bearish Momentum Shift",
	model.ReasonLowerBandBounce:  "Lower BB Support Bounce",
	model.ReasonHeavyBuying:      "Heavy Institutional Buying",
	model.ReasonVolumeDivergence: "Positive Volume Divergence",
	model.ReasonLowVolume:        "Declining Interest (Low Volume)",
}

// DescribeReason renders one reason for display.
func DescribeReason(r model.Reason) string {
	text, ok := reasonText[r.Tag]
	if !ok {
		text = string(r.Tag)
	}
	if r.Detail != "" {
		return fmt.Sprintf("%s (%s Vol)", text, r.Detail)
	}
	return text
}

// SimplifyReasons collapses a reason list into one plain-language line for
// users who don't read indicator jargon.
func SimplifyReasons(reasons []model.Reason) string {
	has := func(tags ...model.ReasonTag) bool {
		for _, r := range reasons {
			for _, tag := range tags {
				if r.Tag == tag {
					return true
				}
			}
		}
		return false
	}

	switch {
	case has(model.ReasonBullishMACD, model.ReasonBearishMACD):
		return "Positive Momentum Signal"
	case has(model.ReasonOversold, model.ReasonPositiveFlow):
		return "Good Buying Zone"
	case has(model.ReasonStrongUptrend, model.ReasonHealthyUptrend):
		return "Strong Uptrend"
	}
	if len(reasons) > 0 {
		return DescribeReason(reasons[0])
	}
	return "No strong signals"
}

func money(v float64) string {
	return "Rs. " + humanize.CommafWithDigits(v, 2)
}

func actionIcon(rec model.Recommendation) string {
	switch {
	case rec.IsBuy():
		return "🟢"
	case rec == model.Sell:
		return "🔴"
	default:
		return "🟡"
	}
}

// FormatPreMarketReport renders the daily insights message: portfolio updates
// for held symbols, then the allocation plan and leftover advice.
func FormatPreMarketReport(user *model.User, held []*model.ScoreResult, plan *model.AllocationPlan) string {
	var b strings.Builder
	b.WriteString("🌅 *Daily Market Insights*\n\n")

	if len(held) > 0 {
		b.WriteString("💼 *Your Portfolio Updates:*\n")
		for _, res := range held {
			b.WriteString(fmt.Sprintf("%s *%s*\n   Action: %s\n   Why: %s\n\n",
				actionIcon(res.Recommendation), res.Symbol, res.Recommendation, SimplifyReasons(res.Reasons)))
		}
		b.WriteString("-----------------------------\n\n")
	}

	b.WriteString("🚀 *Smart Action Plan:*\n")
	if plan.NoOpportunity {
		b.WriteString("No high-confidence buying opportunities found today. 📉\n")
		return b.String()
	}

	for _, p := range plan.Purchases {
		b.WriteString(fmt.Sprintf("✅ *%s*\n", p.Symbol))
		b.WriteString(fmt.Sprintf("   🛒 Buy: *%d Qty* @ %s\n", p.Quantity, money(p.UnitPrice)))
		b.WriteString(fmt.Sprintf("   💡 Why: %s\n\n", SimplifyReasons(p.Reasons)))
	}

	if plan.CashAvailable > 0 {
		b.WriteString("-----------------------------\n")
		b.WriteString(fmt.Sprintf("💰 *Available Cash*: %s\n", money(plan.CashAvailable)))
		b.WriteString(fmt.Sprintf("📉 *Leftover*: %s\n\n", money(plan.CashRemaining)))
		b.WriteString("💡 *Leftover Advice*:\n")
		b.WriteString(formatLeftoverAdvice(plan.LeftoverAdvice))
	}
	return b.String()
}

func formatLeftoverAdvice(advice *model.LeftoverAdvice) string {
	if advice == nil {
		return ""
	}
	if advice.LowActivity {
		return "• Not enough left for extra shares. Stay calm and hold.\n"
	}

	var b strings.Builder
	if advice.ParkSymbol != "" {
		b.WriteString(fmt.Sprintf("• Park %s in *%s* to keep your money growing.\n",
			money(advice.ParkAmount), advice.ParkSymbol))
	}
	if advice.SaveForSymbol != "" {
		b.WriteString(fmt.Sprintf("• Save the rest for *%s*. Current price is %s, but it's a high-quality pick.\n",
			advice.SaveForSymbol, money(advice.SaveForPrice)))
	} else {
		b.WriteString("• Keep the remaining as cash for a lower entry in your favorite stocks.\n")
	}
	return b.String()
}

// GlobalWeaknessMessage renders a benchmark-weakness alert.
func GlobalWeaknessMessage(benchmark string, score float64) string {
	return fmt.Sprintf("📉 *Global Alert*: Market (%s) is weak! Confidence Score: %.0f. Be careful.",
		benchmark, score)
}

// CrashMessage renders a held-position breakdown alert.
func CrashMessage(symbol string, score float64) string {
	return fmt.Sprintf("🚨 *Portfolio Crash*: *%s* is showing signs of breakdown! Score dropped to %.0f. Consider protecting capital.",
		symbol, score)
}

// OpportunityMessage renders a strong-buy alert for an unheld symbol.
func OpportunityMessage(symbol string, score, price float64) string {
	return fmt.Sprintf("🚀 *Buy Opportunity!*: *%s* just triggered a Strong Buy signal (Score: %.0f) at %s. It fits your budget!",
		symbol, score, money(price))
}

// FormatMonthlyReview renders the monthly wealth review with per-holding
// rebalance advice.
func FormatMonthlyReview(perf advisor.Performance, advices []*advisor.RebalanceAdvice) string {
	var b strings.Builder
	b.WriteString("📅 *Monthly Wealth Review*\n\n")

	arrow := "📈"
	if perf.PercentageChange < 0 {
		arrow = "📉"
	}
	b.WriteString(fmt.Sprintf("📊 *Growth*: %s *%.2f%%* this month.\n", arrow, perf.PercentageChange))
	b.WriteString(fmt.Sprintf("💰 *Total Assets*: %s\n\n", money(perf.LastTotal)))

	b.WriteString("⚖️ *AI Rebalance Advice:*\n")
	if len(advices) == 0 {
		b.WriteString("✅ Your portfolio is well-balanced. No major changes needed.\n")
	}
	for _, a := range advices {
		switch a.Kind {
		case advisor.AdviceTrim:
			b.WriteString(fmt.Sprintf("• 🔴 *Trim %s*: Stock score is low (%.0f). Sell 20%% to lock profit.\n",
				a.Symbol, a.Score))
		case advisor.AdviceConcentration:
			b.WriteString(fmt.Sprintf("• ⚠️ *Concentration*: %s is %.1f%% of your portfolio. Consider diversifying.\n",
				a.Symbol, a.Allocation))
		case advisor.AdviceAverageDown:
			b.WriteString(fmt.Sprintf("• 🟢 *Average Down %s*: Currently below buy price but score is strong (%.0f).\n",
				a.Symbol, a.Score))
		}
	}

	b.WriteString("\n_Continue scanning daily for short-term opportunities._")
	return b.String()
}

// NotEnoughHistoryMessage is the monthly review fallback when fewer than two
// snapshots exist in the trailing window.
const NotEnoughHistoryMessage = "⚠️ Not enough historical data yet. I need at least 2 daily snapshots to compare."

// EODMessage is the end-of-day closing note.
const EODMessage = "📊 EOD Analysis: Market closing. Review your positions."

// FormatStatus renders the /status reply.
func FormatStatus(user *model.User) string {
	var b strings.Builder
	b.WriteString("System Status: 🟢 Online\n")
	if user != nil {
		b.WriteString(fmt.Sprintf("💰 *Available Cash*: %s\n", money(user.CashBalance)))
		b.WriteString(fmt.Sprintf("🎯 *Budget Filter*: %s\n", money(user.Budget)))
	}
	return b.String()
}

// FormatPortfolio renders the /portfolio reply.
func FormatPortfolio(user *model.User) string {
	if len(user.Holdings) == 0 {
		return "Your portfolio is empty. Use /buy or /add to track positions."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("💼 *Portfolio* | %s\n\n", time.Now().Format("2006-01-02")))
	var invested float64
	for _, h := range user.Holdings {
		cost := float64(h.Quantity) * h.AveragePrice
		invested += cost
		b.WriteString(fmt.Sprintf("• *%s*: %d @ %s (cost %s)\n",
			h.Symbol, h.Quantity, money(h.AveragePrice), money(cost)))
	}
	b.WriteString(fmt.Sprintf("\nInvested: %s | Cash: %s\n", money(invested), money(user.CashBalance)))
	return b.String()
}
