package calculate

import "math"

// smaSeries computes a simple moving average. Values before the lookback
// window is met are NaN.
func smaSeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// stdevSeries computes a rolling sample standard deviation (n-1 divisor).
// Values before the lookback window is met are NaN.
func stdevSeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 1 || len(values) < period {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]

		var mean float64
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)

		var variance float64
		for _, v := range window {
			variance += (v - mean) * (v - mean)
		}
		out[i] = math.Sqrt(variance / float64(period-1))
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
