package data

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// basePrices anchors synthetic series near plausible levels for the demo
// symbols. Unknown symbols start at 100.
var basePrices = map[string]float64{
	"AAPL":  150,
	"MSFT":  280,
	"GOOGL": 2500,
	"AMZN":  3000,
	"TSLA":  200,
	"META":  200,
	"NVDA":  400,
	"NFLX":  400,
	"DIS":   100,
	"BA":    200,
	"JPM":   150,
	"JNJ":   160,
	"V":     250,
	"WMT":   140,
	"PG":    150,
}

// Synthetic generates a deterministic daily price series for symbol covering
// the last days weekdays. The same symbol always yields the same series, so
// the teaching demo stays reproducible without a data source.
func Synthetic(symbol string, days int) models.PriceSeries {
	if days < 1 {
		days = 1
	}

	symbol = strings.ToUpper(symbol)
	rng := rand.New(rand.NewSource(seedFor(symbol)))

	base, ok := basePrices[symbol]
	if !ok {
		base = 100
	}

	dates := weekdaysBack(time.Now().UTC(), days)
	candles := make([]models.Candle, 0, days)
	price := base
	for i, date := range dates {
		trend := 0.0005 * (float64(i) - float64(days)/2)
		shock := rng.NormFloat64() * 0.02
		price *= 1 + trend + shock
		if price < 1 {
			price = 1
		}

		open := price * (1 + rng.NormFloat64()*0.005)
		high := price * (1 + math.Abs(rng.NormFloat64())*0.015)
		low := price * (1 - math.Abs(rng.NormFloat64())*0.015)
		if high < math.Max(open, price) {
			high = math.Max(open, price)
		}
		if low > math.Min(open, price) {
			low = math.Min(open, price)
		}

		volume := 1e6 * (1 + 5*math.Abs(trend+shock)) * (0.5 + rng.Float64()*1.5)

		candles = append(candles, models.Candle{
			Timestamp: date,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     price,
			Volume:    int64(volume),
		})
	}

	return models.PriceSeries{Symbol: symbol, Candles: candles, Synthetic: true}
}

// seedFor hashes the symbol into a stable RNG seed
func seedFor(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64() % (1<<31 - 1))
}

// weekdaysBack returns the last n weekdays ending today, oldest first
func weekdaysBack(now time.Time, n int) []time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 0, n)
	for len(dates) < n {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, -1)
	}
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}
	return dates
}
