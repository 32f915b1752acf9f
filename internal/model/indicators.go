package model

// IndicatorSnapshot holds the last computed value of each technical indicator
// for a price series as of its most recent bar. Fields are nil when the series
// is too short for that indicator; consumers must treat nil as "no signal".
type IndicatorSnapshot struct {
	EMA50      *float64
	EMA200     *float64
	ADX14      *float64
	RSI14      *float64
	MACD       *float64 // MACD line, latest bar
	MACDSignal *float64 // signal line, latest bar
	PrevMACD   *float64 // MACD line, prior bar
	PrevSignal *float64 // signal line, prior bar
	BBLower    *float64 // lower Bollinger band (20, 2)

	AvgVolume20  float64
	LatestVolume float64
}
