package models

// PeriodDays converts a fetch period string to a calendar day count.
// Unknown periods fall back to one month.
func PeriodDays(period string) int {
	switch period {
	case "1d":
		return 1
	case "2d":
		return 2
	case "5d":
		return 5
	case "1mo":
		return 30
	case "3mo":
		return 90
	case "6mo":
		return 180
	case "1y":
		return 365
	case "2y":
		return 730
	default:
		return 30
	}
}

// TradingDays estimates how many weekday candles a period covers at a daily
// interval. Used to size synthetic fallback series.
func TradingDays(period string) int {
	days := PeriodDays(period) * 5 / 7
	if days < 1 {
		days = 1
	}
	return days
}

// SupportedPeriods lists the fetch periods accepted by the API surface
var SupportedPeriods = []string{"1d", "2d", "5d", "1mo", "3mo", "6mo", "1y", "2y"}

// SupportedIntervals lists the candle intervals accepted by the API surface
var SupportedIntervals = []string{"1m", "5m", "15m", "30m", "1h", "1d", "1wk"}
