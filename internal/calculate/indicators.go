// Package calculate derives technical indicator columns from a price series.
// Indicators never error on short input: rows whose lookback window is unmet
// carry NaN and callers must check validity before use.
package calculate

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// Standard lookback windows
const (
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
	RSIPeriod        = 14
	BBPeriod         = 20
	BBStdDev         = 2.0
	SMAShortPeriod   = 50
	SMALongPeriod    = 200
	VolumeSMAPeriod  = 20
)

// Enrich computes all indicator columns over the series. It never fails: if
// anything goes wrong mid-computation the frame is returned with the raw
// series only, so the pipeline degrades instead of aborting.
func Enrich(series models.PriceSeries) (frame *models.IndicatorFrame) {
	frame = &models.IndicatorFrame{PriceSeries: series}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("symbol", series.Symbol).
				Msg("Indicator computation failed, returning raw series")
			*frame = models.IndicatorFrame{PriceSeries: series}
		}
	}()

	closes := series.Closes()
	volumes := make([]float64, len(series.Candles))
	for i, c := range series.Candles {
		volumes[i] = float64(c.Volume)
	}

	frame.MACD, frame.MACDSignal, frame.MACDHist =
		macdSeries(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	frame.RSI = rsiSeries(closes, RSIPeriod)
	frame.BBUpper, frame.BBMiddle, frame.BBLower = bollingerSeries(closes, BBPeriod, BBStdDev)
	frame.SMA50 = smaSeries(closes, SMAShortPeriod)
	frame.SMA200 = smaSeries(closes, SMALongPeriod)
	frame.VolumeSMA20 = smaSeries(volumes, VolumeSMAPeriod)
	frame.ChangePct = changePctSeries(closes)

	return frame
}

// changePctSeries computes the day-over-day percent change of closes.
// The first row has no prior close and is absent.
func changePctSeries(closes []float64) []float64 {
	out := nanSeries(len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			out[i] = (closes[i] - closes[i-1]) / closes[i-1] * 100
		}
	}
	return out
}

func isValid(v float64) bool {
	return !math.IsNaN(v)
}
