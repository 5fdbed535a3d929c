package indicators

import (
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// Bollinger computes the latest Bollinger bands: SMA(period) of closes with
// width·(sample stdev) above and below.
func Bollinger(closes []float64, period int, width float64) (upper, middle, lower float64) {
	if len(closes) < period || period <= 0 {
		return 0, 0, 0
	}

	window := closes[len(closes)-period:]
	middle = mean(window)
	sd := sampleStdDev(window)
	return middle + width*sd, middle, middle - width*sd
}

// ATR computes the average true range as a simple rolling mean of the true
// range series. The first bar's true range is just high−low since there is
// no previous close.
func ATR(candles []models.Candle, period int) float64 {
	if len(candles) < period+1 || period <= 0 {
		return 0
	}

	tr := make([]float64, len(candles))
	tr[0] = candles[0].High - candles[0].Low
	for i := 1; i < len(candles); i++ {
		prevClose := candles[i-1].Close
		hl := candles[i].High - candles[i].Low
		hc := absFloat(candles[i].High - prevClose)
		lc := absFloat(candles[i].Low - prevClose)
		tr[i] = maxFloat(hl, maxFloat(hc, lc))
	}

	return mean(tr[len(tr)-period:])
}
