package indicators

import (
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// Levels returns naive support/resistance: the extreme low and high over
// the trailing window.
func Levels(candles []models.Candle, window int) (support, resistance float64) {
	if len(candles) == 0 || window <= 0 {
		return 0, 0
	}
	if window > len(candles) {
		window = len(candles)
	}

	tail := candles[len(candles)-window:]
	support = tail[0].Low
	resistance = tail[0].High
	for _, c := range tail[1:] {
		if c.Low < support {
			support = c.Low
		}
		if c.High > resistance {
			resistance = c.High
		}
	}
	return support, resistance
}
