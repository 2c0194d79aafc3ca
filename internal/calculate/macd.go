package calculate

// macdSeries computes the MACD line, signal line and histogram.
// MACD = EMA(fast) - EMA(slow), signal = EMA(signalPeriod) over the valid
// MACD region. MACD is absent before the slow window is met; the signal and
// histogram additionally wait for the signal window.
func macdSeries(closes []float64, fast, slow, signal int) (macd, signalLine, hist []float64) {
	n := len(closes)
	macd, signalLine, hist = nanSeries(n), nanSeries(n), nanSeries(n)
	if n < slow {
		return macd, signalLine, hist
	}

	fastEMA := emaSeries(closes, fast)
	slowEMA := emaSeries(closes, slow)

	valid := make([]float64, 0, n-slow+1)
	for i := slow - 1; i < n; i++ {
		macd[i] = fastEMA[i] - slowEMA[i]
		valid = append(valid, macd[i])
	}

	if len(valid) < signal {
		return macd, signalLine, hist
	}

	signalEMA := emaSeries(valid, signal)
	for j := signal - 1; j < len(valid); j++ {
		i := slow - 1 + j
		signalLine[i] = signalEMA[j]
		hist[i] = macd[i] - signalLine[i]
	}
	return macd, signalLine, hist
}
