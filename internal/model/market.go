package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds cleaned daily price data for one symbol, oldest bar first.
// Null bars from the upstream feed are already removed.
type PriceSeries struct {
	Symbol       string
	Bars         []OHLCV
	CurrentPrice float64 // live regular-market price, else previous close, else 0
	FetchedAt    time.Time
}

// Closes returns the close column of the series.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Highs returns the high column of the series.
func (s *PriceSeries) Highs() []float64 {
	highs := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		highs[i] = b.High
	}
	return highs
}

// Lows returns the low column of the series.
func (s *PriceSeries) Lows() []float64 {
	lows := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		lows[i] = b.Low
	}
	return lows
}

// Volumes returns the volume column of the series.
func (s *PriceSeries) Volumes() []float64 {
	vols := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		vols[i] = b.Volume
	}
	return vols
}
