package calculate

// bollingerSeries computes Bollinger Bands: SMA(period) +/- stdDev sample
// standard deviations. All three bands are absent until the window is met.
func bollingerSeries(closes []float64, period int, stdDev float64) (upper, middle, lower []float64) {
	middle = smaSeries(closes, period)
	sd := stdevSeries(closes, period)

	upper = nanSeries(len(closes))
	lower = nanSeries(len(closes))
	for i := range closes {
		if isValid(middle[i]) && isValid(sd[i]) {
			upper[i] = middle[i] + stdDev*sd[i]
			lower[i] = middle[i] - stdDev*sd[i]
		}
	}
	return upper, middle, lower
}
