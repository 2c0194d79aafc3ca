package tools

import (
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// TrendText classifies the move over the last five closes
func TrendText(candles []models.Candle) string {
	if len(candles) < 5 {
		return "INSUFFICIENT_DATA"
	}

	window := candles[len(candles)-5:]
	first, last := window[0].Close, window[len(window)-1].Close
	if first == 0 {
		return "INSUFFICIENT_DATA"
	}
	change := (last - first) / first * 100

	switch {
	case change > 5:
		return "STRONG_UPTREND"
	case change > 2:
		return "UPTREND"
	case change < -5:
		return "STRONG_DOWNTREND"
	case change < -2:
		return "DOWNTREND"
	default:
		return "SIDEWAYS"
	}
}

// VolumeText classifies recent volume against the whole series
func VolumeText(candles []models.Candle) string {
	if len(candles) < 5 {
		return "INSUFFICIENT_DATA"
	}

	var total float64
	for _, c := range candles {
		total += float64(c.Volume)
	}
	avg := total / float64(len(candles))
	if avg == 0 {
		return "INSUFFICIENT_DATA"
	}

	recent := candles[len(candles)-3:]
	var recentTotal float64
	for _, c := range recent {
		recentTotal += float64(c.Volume)
	}
	ratio := recentTotal / float64(len(recent)) / avg

	switch {
	case ratio > 2:
		return "HIGH_VOLUME"
	case ratio > 1.5:
		return "ELEVATED_VOLUME"
	case ratio < 0.5:
		return "LOW_VOLUME"
	default:
		return "NORMAL_VOLUME"
	}
}
