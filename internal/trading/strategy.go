// Package trading builds option strategies from snapshots and stubs order
// placement.
package trading

import (
	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// BuildStrategy assembles the legs for a strategy kind at the snapshot's
// ATM strike, pricing each leg from the snapshot's quotes. Premiums paid
// count positive in NetPremium, premiums received negative.
func BuildStrategy(kind models.StrategyKind, snap models.PriceSnapshot) (models.OptionStrategy, error) {
	strategy := models.OptionStrategy{
		Kind:   kind,
		Expiry: snap.Expiry,
		Spot:   snap.Spot,
	}

	switch kind {
	case models.LongCall:
		strategy.Legs = []models.OptionLeg{leg("BUY", snap, models.Call)}
	case models.LongPut:
		strategy.Legs = []models.OptionLeg{leg("BUY", snap, models.Put)}
	case models.ShortCall:
		strategy.Legs = []models.OptionLeg{leg("SELL", snap, models.Call)}
	case models.ShortPut:
		strategy.Legs = []models.OptionLeg{leg("SELL", snap, models.Put)}
	case models.Straddle:
		strategy.Legs = []models.OptionLeg{
			leg("BUY", snap, models.Call),
			leg("BUY", snap, models.Put),
		}
	default:
		return models.OptionStrategy{}, apperrors.Wrapf(apperrors.ErrUnknownStrategy, "%q", kind)
	}

	for _, l := range strategy.Legs {
		if l.Side == "BUY" {
			strategy.NetPremium += l.Premium
		} else {
			strategy.NetPremium -= l.Premium
		}
	}
	return strategy, nil
}

// SelectStrategy maps an analysis signal to a candidate strategy kind.
func SelectStrategy(signal models.Trend) models.StrategyKind {
	switch signal {
	case models.TrendBullish:
		return models.LongCall
	case models.TrendBearish:
		return models.LongPut
	default:
		return models.Straddle
	}
}

// leg picks the ATM contract of the given right from the snapshot. A
// missing quote yields a zero-premium leg rather than failing the build.
func leg(side string, snap models.PriceSnapshot, right models.OptionRight) models.OptionLeg {
	l := models.OptionLeg{
		Side:   side,
		Strike: snap.ATMStrike,
		Right:  right,
	}
	for _, sl := range snap.Legs {
		if sl.Strike == snap.ATMStrike && sl.Right == right {
			l.Premium = sl.LastPrice
			break
		}
	}
	return l
}
