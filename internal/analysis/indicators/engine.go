// Package indicators computes technical indicators over OHLC series.
package indicators

import (
	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// MinBars is the shortest series Compute accepts. Shorter windows would
// leave the 20-period indicators undefined, so they are rejected outright
// rather than padded.
const MinBars = 20

const (
	rsiPeriod    = 14
	atrPeriod    = 14
	bbPeriod     = 20
	bbWidth      = 2.0
	macdFast     = 12
	macdSlow     = 26
	macdSignal   = 9
	levelsWindow = 20

	directionalConfidence = 0.75
	neutralConfidence     = 0.5
)

// Compute derives the full indicator set from a chronological OHLC series.
// Pure: no I/O, no shared state, safe to call concurrently.
func Compute(candles []models.Candle) (models.IndicatorSet, error) {
	if len(candles) < MinBars {
		return models.IndicatorSet{}, apperrors.Wrapf(apperrors.ErrInsufficientData, "need %d bars, got %d", MinBars, len(candles))
	}

	closes := closePrices(candles)

	set := models.IndicatorSet{
		EMA5:  EMA(closes, 5),
		EMA20: EMA(closes, 20),
		EMA50: EMA(closes, 50),
		RSI:   RSI(closes, rsiPeriod),
		ATR:   ATR(candles, atrPeriod),
	}
	set.MACD, set.MACDSignal = MACD(closes, macdFast, macdSlow, macdSignal)
	set.BBUpper, set.BBMiddle, set.BBLower = Bollinger(closes, bbPeriod, bbWidth)
	set.Support, set.Resistance = Levels(candles, levelsWindow)

	set.Trend = classifyTrend(set.EMA5, set.EMA20)
	set.Signal, set.Confidence = classifySignal(set)
	return set, nil
}

func classifyTrend(ema5, ema20 float64) models.Trend {
	switch {
	case ema5 > ema20:
		return models.TrendBullish
	case ema5 < ema20:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}

// classifySignal applies the fixed rule set. Confidence is a stated
// constant per outcome, not a fitted score.
func classifySignal(set models.IndicatorSet) (models.Trend, float64) {
	switch {
	case set.Trend == models.TrendBullish && set.RSI < 70 && set.MACD > set.MACDSignal:
		return models.TrendBullish, directionalConfidence
	case set.Trend == models.TrendBearish && set.RSI > 30 && set.MACD < set.MACDSignal:
		return models.TrendBearish, directionalConfidence
	default:
		return models.TrendNeutral, neutralConfidence
	}
}
