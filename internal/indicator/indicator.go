// Package indicator computes point-in-time technical indicator values for a
// price series. The math itself comes from go-talib; this package only decides
// which indicators have enough history to be trusted.
package indicator

import (
	talib "github.com/markcheno/go-talib"

	"github.com/Krishnakumar40/ai-investment-system/internal/model"
)

const (
	emaFastPeriod = 50
	emaSlowPeriod = 200
	rsiPeriod     = 14
	adxPeriod     = 14
	macdFast      = 12
	macdSlow      = 26
	macdSignal    = 9
	bbPeriod      = 20
	bbStdDev      = 2.0
	volumeWindow  = 20
	macdMinBars   = macdSlow + macdSignal // prev+current MACD both defined
)

// Snapshot computes the latest indicator values for the series. Indicators
// without enough history are left nil.
func Snapshot(series *model.PriceSeries) *model.IndicatorSnapshot {
	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	volumes := series.Volumes()

	snap := &model.IndicatorSnapshot{}

	if len(closes) >= emaFastPeriod {
		snap.EMA50 = lastOf(talib.Ema(closes, emaFastPeriod))
	}
	if len(closes) >= emaSlowPeriod {
		snap.EMA200 = lastOf(talib.Ema(closes, emaSlowPeriod))
	}
	if len(closes) >= 2*adxPeriod {
		snap.ADX14 = lastOf(talib.Adx(highs, lows, closes, adxPeriod))
	}
	if len(closes) > rsiPeriod {
		snap.RSI14 = lastOf(talib.Rsi(closes, rsiPeriod))
	}
	if len(closes) >= macdMinBars {
		macd, signal, _ := talib.Macd(closes, macdFast, macdSlow, macdSignal)
		snap.MACD = lastOf(macd)
		snap.MACDSignal = lastOf(signal)
		snap.PrevMACD = prevOf(macd)
		snap.PrevSignal = prevOf(signal)
	}
	if len(closes) >= bbPeriod {
		_, _, lower := talib.BBands(closes, bbPeriod, bbStdDev, bbStdDev, talib.SMA)
		snap.BBLower = lastOf(lower)
	}

	if n := len(volumes); n > 0 {
		start := n - volumeWindow
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, v := range volumes[start:] {
			sum += v
		}
		snap.AvgVolume20 = sum / float64(volumeWindow)
		snap.LatestVolume = volumes[n-1]
	}

	return snap
}

func lastOf(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	v := xs[len(xs)-1]
	return &v
}

func prevOf(xs []float64) *float64 {
	if len(xs) < 2 {
		return nil
	}
	v := xs[len(xs)-2]
	return &v
}
