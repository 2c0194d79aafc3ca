package calculate

// emaSeries computes a recursive EMA over values, seeded with the first
// value, alpha = 2/(span+1). Defined for every index; callers that need a
// warm-up window mask the head themselves.
func emaSeries(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
