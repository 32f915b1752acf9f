package model

// Recommendation is the final action derived from a confidence score.
type Recommendation string

const (
	StrongBuy Recommendation = "STRONG_BUY"
	Buy       Recommendation = "BUY"
	Hold      Recommendation = "HOLD"
	Sell      Recommendation = "SELL"
)

// IsBuy reports whether the recommendation is a buy signal of any strength.
func (r Recommendation) IsBuy() bool {
	return r == Buy || r == StrongBuy
}

// ReasonTag identifies which scoring rule fired. Tags stay semantic inside the
// core; translation to display text happens at the presentation boundary.
type ReasonTag string

const (
	ReasonInsufficientData ReasonTag = "INSUFFICIENT_DATA"
	ReasonScanError        ReasonTag = "SCAN_ERROR"
	ReasonStrongUptrend    ReasonTag = "STRONG_UPTREND"
	ReasonHealthyUptrend   ReasonTag = "HEALTHY_UPTREND"
	ReasonBearishTrend     ReasonTag = "BEARISH_TREND"
	ReasonOversold         ReasonTag = "OVERSOLD"
	ReasonOverbought       ReasonTag = "OVERBOUGHT"
	ReasonPositiveFlow     ReasonTag = "POSITIVE_FLOW"
	ReasonBullishMACD      ReasonTag = "BULLISH_MACD_CROSS"
	ReasonBearishMACD      ReasonTag = "BEARISH_MACD_SHIFT"
	ReasonLowerBandBounce  ReasonTag = "LOWER_BAND_BOUNCE"
	ReasonHeavyBuying      ReasonTag = "HEAVY_BUYING"
	ReasonVolumeDivergence ReasonTag = "VOLUME_DIVERGENCE"
	ReasonLowVolume        ReasonTag = "LOW_VOLUME"
)

// Reason is a single fired scoring rule with an optional detail annotation
// (e.g. the volume surge ratio for HEAVY_BUYING).
type Reason struct {
	Tag    ReasonTag
	Detail string
}

// ScoreResult is the immutable output of scoring one symbol in one cycle.
type ScoreResult struct {
	Symbol         string
	Price          float64
	Score          float64 // clamped to [0,100]
	Recommendation Recommendation
	Reasons        []Reason // in rule-firing order: trend, RSI, MACD, volatility, volume
}
