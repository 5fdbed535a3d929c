// Package pricing implements closed-form option pricing sensitivities.
package pricing

import (
	"math"
	"time"

	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

const daysPerYear = 365.0

// CalendarDaysToExpiry counts whole calendar days between now and expiry,
// comparing dates only.
func CalendarDaysToExpiry(now, expiry time.Time) int {
	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	expDate := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	return int(expDate.Sub(nowDate).Hours() / 24)
}

// Greeks computes Black-Scholes-Merton sensitivities for a European option.
// Time to expiry is clamped to at least one calendar day so same-day
// contracts never divide by zero. Theta is per calendar day; vega and rho
// are per one percentage point. Pure and deterministic.
func Greeks(spot, strike float64, right models.OptionRight, daysToExpiry int, vol, riskFree float64) (models.GreeksResult, error) {
	if spot <= 0 || strike <= 0 {
		return models.GreeksResult{}, apperrors.Wrapf(apperrors.ErrConfigInvalid, "spot and strike must be positive (spot=%v strike=%v)", spot, strike)
	}
	if vol <= 0 {
		return models.GreeksResult{}, apperrors.Wrapf(apperrors.ErrConfigInvalid, "volatility must be positive, got %v", vol)
	}

	if daysToExpiry < 1 {
		daysToExpiry = 1
	}
	t := float64(daysToExpiry) / daysPerYear
	sqrtT := math.Sqrt(t)

	d1 := (math.Log(spot/strike) + (riskFree+vol*vol/2)*t) / (vol * sqrtT)
	d2 := d1 - vol*sqrtT
	discount := math.Exp(-riskFree * t)

	result := models.GreeksResult{
		Strike:       strike,
		Right:        right,
		Gamma:        normPDF(d1) / (spot * vol * sqrtT),
		Vega:         spot * normPDF(d1) * sqrtT / 100,
		Volatility:   vol,
		DaysToExpiry: daysToExpiry,
	}

	decay := -spot * normPDF(d1) * vol / (2 * sqrtT)
	switch right {
	case models.Call:
		result.Delta = normCDF(d1)
		result.Theta = (decay - riskFree*strike*discount*normCDF(d2)) / daysPerYear
		result.Rho = strike * t * discount * normCDF(d2) / 100
	case models.Put:
		result.Delta = -normCDF(-d1)
		result.Theta = (decay + riskFree*strike*discount*normCDF(-d2)) / daysPerYear
		result.Rho = -strike * t * discount * normCDF(-d2) / 100
	default:
		return models.GreeksResult{}, apperrors.Wrapf(apperrors.ErrConfigInvalid, "unknown option right %q", right)
	}

	return result, nil
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}
