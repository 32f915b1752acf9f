// Package scoring fuses trend, momentum, volatility and volume signals into a
// single 0-100 confidence score with a deterministic reason list.
package scoring

import (
	"fmt"

	"github.com/Krishnakumar40/ai-investment-system/internal/indicator"
	"github.com/Krishnakumar40/ai-investment-system/internal/model"
)

// MinScoreableCloses is the minimum number of valid closes a series needs
// before scoring produces anything other than the insufficient-data result.
const MinScoreableCloses = 50

const baseline = 50.0

// Recommendation thresholds, applied after clamping.
const (
	strongBuyThreshold = 85.0
	buyThreshold       = 70.0
	sellThreshold      = 30.0
)

// Score evaluates one symbol's price series. Pure: no network, no persistence.
func Score(symbol string, series *model.PriceSeries) *model.ScoreResult {
	price := 0.0
	if series != nil {
		price = series.CurrentPrice
	}

	if series == nil || len(series.Bars) < MinScoreableCloses {
		return &model.ScoreResult{
			Symbol:         symbol,
			Price:          price,
			Score:          0,
			Recommendation: model.Hold,
			Reasons:        []model.Reason{{Tag: model.ReasonInsufficientData}},
		}
	}

	snap := indicator.Snapshot(series)
	score, reasons := scoreIndicators(price, snap)
	score = clamp(score)

	return &model.ScoreResult{
		Symbol:         symbol,
		Price:          price,
		Score:          score,
		Recommendation: recommendationFor(score),
		Reasons:        reasons,
	}
}

// ScanErrorResult is the degraded result for a symbol whose data could not be
// sourced this cycle. Terminal and symbol-local; the cycle carries on.
func ScanErrorResult(symbol string) *model.ScoreResult {
	return &model.ScoreResult{
		Symbol:         symbol,
		Price:          0,
		Score:          0,
		Recommendation: model.Hold,
		Reasons:        []model.Reason{{Tag: model.ReasonScanError}},
	}
}

// scoreIndicators applies the four additive components to the neutral baseline.
// Rule order fixes the reason order: trend, RSI, MACD, volatility, volume.
func scoreIndicators(price float64, snap *model.IndicatorSnapshot) (float64, []model.Reason) {
	score := baseline
	var reasons []model.Reason

	// Trend: needs both EMAs. Uptrend iff price > EMA50 > EMA200; ADX grades
	// its strength. Below the short-term average is bearish.
	if snap.EMA50 != nil && snap.EMA200 != nil {
		uptrend := price > *snap.EMA50 && *snap.EMA50 > *snap.EMA200
		adx := 0.0
		if snap.ADX14 != nil {
			adx = *snap.ADX14
		}
		switch {
		case uptrend && adx > 25:
			score += 40
			reasons = append(reasons, model.Reason{Tag: model.ReasonStrongUptrend})
		case uptrend:
			score += 20
			reasons = append(reasons, model.Reason{Tag: model.ReasonHealthyUptrend})
		case price < *snap.EMA50:
			score -= 30
			reasons = append(reasons, model.Reason{Tag: model.ReasonBearishTrend})
		}
	}

	// Momentum, part 1: RSI zones.
	if snap.RSI14 != nil {
		rsi := *snap.RSI14
		switch {
		case rsi < 30:
			score += 25
			reasons = append(reasons, model.Reason{Tag: model.ReasonOversold})
		case rsi > 75:
			score -= 20
			reasons = append(reasons, model.Reason{Tag: model.ReasonOverbought})
		case rsi > 55 && rsi < 70:
			score += 10
			reasons = append(reasons, model.Reason{Tag: model.ReasonPositiveFlow})
		}
	}

	// Momentum, part 2: MACD line/signal crossover across consecutive bars.
	// All four values must be defined; an already-crossed state is no signal.
	if snap.MACD != nil && snap.MACDSignal != nil && snap.PrevMACD != nil && snap.PrevSignal != nil {
		if *snap.MACD > *snap.MACDSignal && *snap.PrevMACD <= *snap.PrevSignal {
			score += 20
			reasons = append(reasons, model.Reason{Tag: model.ReasonBullishMACD})
		} else if *snap.MACD < *snap.MACDSignal && *snap.PrevMACD >= *snap.PrevSignal {
			score -= 25
			reasons = append(reasons, model.Reason{Tag: model.ReasonBearishMACD})
		}
	}

	// Volatility/support: price under the lower Bollinger band.
	if snap.BBLower != nil && price < *snap.BBLower {
		score += 15
		reasons = append(reasons, model.Reason{Tag: model.ReasonLowerBandBounce})
	}

	// Volume: surge ratio against the 20-bar average. Zero average volume
	// means no surge signal.
	if snap.AvgVolume20 > 0 {
		ratio := snap.LatestVolume / snap.AvgVolume20
		switch {
		case ratio > 2.0:
			score += 15
			reasons = append(reasons, model.Reason{
				Tag:    model.ReasonHeavyBuying,
				Detail: fmt.Sprintf("%.1fx", ratio),
			})
		case ratio > 1.2:
			score += 5
			reasons = append(reasons, model.Reason{Tag: model.ReasonVolumeDivergence})
		case ratio < 0.4:
			score -= 10
			reasons = append(reasons, model.Reason{Tag: model.ReasonLowVolume})
		}
	}

	return score, reasons
}

func recommendationFor(score float64) model.Recommendation {
	switch {
	case score >= strongBuyThreshold:
		return model.StrongBuy
	case score >= buyThreshold:
		return model.Buy
	case score <= sellThreshold:
		return model.Sell
	default:
		return model.Hold
	}
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
