package indicators

// RSI computes the relative strength index over the trailing window using
// simple rolling means of gains and losses. Returns 100 when the window has
// no losses at all.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return 0
	}

	gains := make([]float64, 0, period)
	losses := make([]float64, 0, period)
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains = append(gains, delta)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -delta)
		}
	}

	avgGain := mean(gains)
	avgLoss := mean(losses)
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
