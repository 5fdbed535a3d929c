package indicators

// EMASeries computes an exponential moving average over the full series
// with alpha = 2/(period+1), seeded with the first value. The seed choice
// matters for short series and is relied on by the signal rules.
func EMASeries(values []float64, period int) []float64 {
	if len(values) == 0 || period <= 0 {
		return nil
	}

	alpha := 2.0 / float64(period+1)
	result := make([]float64, len(values))
	result[0] = values[0]
	for i := 1; i < len(values); i++ {
		result[i] = alpha*values[i] + (1-alpha)*result[i-1]
	}
	return result
}

// EMA returns the latest EMA value.
func EMA(values []float64, period int) float64 {
	series := EMASeries(values, period)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// MACD computes the latest MACD line and its signal line. The signal is
// EMA(9) over the whole MACD series, not over a truncated tail.
func MACD(closes []float64, fast, slow, signal int) (macd, signalLine float64) {
	if len(closes) == 0 {
		return 0, 0
	}

	fastSeries := EMASeries(closes, fast)
	slowSeries := EMASeries(closes, slow)

	macdSeries := make([]float64, len(closes))
	for i := range closes {
		macdSeries[i] = fastSeries[i] - slowSeries[i]
	}

	signalSeries := EMASeries(macdSeries, signal)
	last := len(closes) - 1
	return macdSeries[last], signalSeries[last]
}
