// Package backtest replays option strategies over historical closes and
// aggregates deterministic performance statistics.
package backtest

import (
	"math"

	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// MinBars is the shortest series Run accepts.
const MinBars = 10

// Run replays strategyKind over consecutive close pairs of the series:
// trade i enters at close[i] and exits at close[i+1] with intrinsic-value
// settlement against the strike. Per-trade P&L is scaled by lotSize. Pure
// and deterministic.
func Run(strategy models.StrategyKind, series []models.Candle, strike, premium float64, lotSize int) (models.BacktestResult, error) {
	if len(series) < MinBars {
		return models.BacktestResult{}, apperrors.Wrapf(apperrors.ErrInsufficientData, "need %d bars, got %d", MinBars, len(series))
	}
	payoff, err := payoffFunc(strategy)
	if err != nil {
		return models.BacktestResult{}, err
	}

	pnls := make([]float64, 0, len(series)-1)
	for i := 0; i+1 < len(series); i++ {
		exit := series[i+1].Close
		pnls = append(pnls, payoff(exit, strike, premium)*float64(lotSize))
	}

	return aggregate(strategy, pnls), nil
}

// RunCloses is Run over a bare close series, for callers that never had
// full bars to begin with.
func RunCloses(strategy models.StrategyKind, closes []float64, strike, premium float64, lotSize int) (models.BacktestResult, error) {
	series := make([]models.Candle, len(closes))
	for i, c := range closes {
		series[i].Close = c
	}
	return Run(strategy, series, strike, premium, lotSize)
}

func payoffFunc(strategy models.StrategyKind) (func(exit, strike, premium float64) float64, error) {
	switch strategy {
	case models.LongCall:
		return func(exit, strike, premium float64) float64 {
			return math.Max(0, exit-strike) - premium
		}, nil
	case models.LongPut:
		return func(exit, strike, premium float64) float64 {
			return math.Max(0, strike-exit) - premium
		}, nil
	case models.ShortCall:
		return func(exit, strike, premium float64) float64 {
			return premium - math.Max(0, exit-strike)
		}, nil
	case models.ShortPut:
		return func(exit, strike, premium float64) float64 {
			return premium - math.Max(0, strike-exit)
		}, nil
	case models.Straddle:
		return func(exit, strike, premium float64) float64 {
			return math.Max(0, exit-strike) + math.Max(0, strike-exit) - 2*premium
		}, nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrUnknownStrategy, "%q", strategy)
	}
}

func aggregate(strategy models.StrategyKind, pnls []float64) models.BacktestResult {
	result := models.BacktestResult{
		Strategy:    strategy,
		TotalTrades: len(pnls),
		TradePnls:   pnls,
	}

	var cumulative, peak, maxDrawdown float64
	for _, pnl := range pnls {
		// Breakeven counts as a loss: a trade wins only on strictly
		// positive P&L.
		if pnl > 0 {
			result.Wins++
		} else {
			result.Losses++
		}
		result.TotalPnl += pnl

		cumulative += pnl
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	result.MaxDrawdown = maxDrawdown

	if result.TotalTrades > 0 {
		result.WinRate = float64(result.Wins) / float64(result.TotalTrades)
		result.AveragePnl = result.TotalPnl / float64(result.TotalTrades)
	}
	result.SharpeLike = sharpeLike(pnls, result.AveragePnl)
	return result
}

// sharpeLike is mean over population standard deviation, forced to 0 when
// the deviation vanishes so the ratio is never NaN or infinite.
func sharpeLike(pnls []float64, avg float64) float64 {
	if len(pnls) == 0 {
		return 0
	}
	var ss float64
	for _, pnl := range pnls {
		d := pnl - avg
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(len(pnls)))
	if sd == 0 {
		return 0
	}
	return avg / sd
}
