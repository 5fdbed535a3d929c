package market

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/config"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/logging"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// Simulated chain shape. Ten strikes either side of ATM with flat synthetic
// quotes keeps every downstream stage runnable without a live session.
const (
	simLadderHalf = 10
	simPrice      = 100.0
	simVolume     = 1000
	simOI         = 50000
	simIV         = 0.18
)

// SessionSource yields a usable broker session.
type SessionSource interface {
	Acquire(ctx context.Context) (models.Session, error)
}

// Quoter serves live prices.
type Quoter interface {
	LTP(ctx context.Context, session models.Session, exchange, symbol, token string) (float64, error)
	BatchLTP(ctx context.Context, session models.Session, exchange string, tokens []string) (map[string]float64, error)
}

// OptionResolver maps an expiry and strike band to concrete contracts.
type OptionResolver interface {
	Resolve(ctx context.Context, expiry time.Time, center, band float64) (map[string]models.ResolvedOption, error)
}

// Fetcher assembles point-in-time price snapshots. Fetch never returns an
// error: any live-path failure degrades to a clearly tagged simulated
// snapshot so analytics stay runnable.
type Fetcher struct {
	sessions SessionSource
	quoter   Quoter
	resolver OptionResolver
	cfg      config.MarketConfig
	now      func() time.Time
	logger   zerolog.Logger
}

// NewFetcher creates a snapshot fetcher.
func NewFetcher(sessions SessionSource, quoter Quoter, resolver OptionResolver, cfg config.MarketConfig, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		sessions: sessions,
		quoter:   quoter,
		resolver: resolver,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
}

// Fetch returns a snapshot of spot and the option chain around ATM for the
// given expiry. The Source tag tells callers whether the data is live.
func (f *Fetcher) Fetch(ctx context.Context, expiry time.Time) models.PriceSnapshot {
	session, err := f.sessions.Acquire(ctx)
	if err != nil {
		return f.simulated(expiry, f.cfg.DefaultSpot, "session unavailable: "+err.Error())
	}

	spot, err := f.quoter.LTP(ctx, session, string(f.cfg.SpotExchange), f.cfg.SpotSymbol, f.cfg.SpotToken)
	if err != nil {
		return f.simulated(expiry, f.cfg.DefaultSpot, "spot quote failed: "+err.Error())
	}
	if spot <= 0 {
		return f.simulated(expiry, f.cfg.DefaultSpot, "spot quote returned zero")
	}

	atm := f.atmStrike(spot)
	resolved, err := f.resolver.Resolve(ctx, expiry, atm, f.cfg.ResolveBand)
	if err != nil {
		return f.simulated(expiry, spot, "option resolution failed: "+err.Error())
	}
	if len(resolved) == 0 {
		return f.simulated(expiry, spot, "no contracts resolved for expiry")
	}

	tokens := make([]string, 0, len(resolved))
	for token := range resolved {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	prices, err := f.quoter.BatchLTP(ctx, session, string(f.cfg.ChainExchange), tokens)
	if err != nil {
		return f.simulated(expiry, spot, "chain quotes failed: "+err.Error())
	}

	legs := make([]models.SnapshotLeg, 0, len(prices))
	for _, token := range tokens {
		price, ok := prices[token]
		if !ok {
			continue
		}
		opt := resolved[token]
		legs = append(legs, models.SnapshotLeg{
			Strike:    opt.Strike,
			Right:     opt.Right,
			Symbol:    opt.Symbol,
			LastPrice: price,
		})
	}
	if len(legs) == 0 {
		return f.simulated(expiry, spot, "chain quotes returned no prices")
	}
	sortLegs(legs)

	snap := models.PriceSnapshot{
		Timestamp: f.now(),
		Expiry:    expiry,
		Spot:      spot,
		ATMStrike: atm,
		Legs:      legs,
		Source:    models.SourceLive,
	}
	logging.LogSnapshot(f.logger, string(snap.Source), len(snap.Legs), snap.Spot, snap.Warning)
	return snap
}

// simulated builds a synthetic chain: a flat ladder of strikes around ATM
// with both rights per strike. Tagged loudly so nothing downstream can
// mistake it for live data.
func (f *Fetcher) simulated(expiry time.Time, spot float64, reason string) models.PriceSnapshot {
	if spot <= 0 {
		spot = f.cfg.DefaultSpot
	}
	atm := f.atmStrike(spot)
	step := f.cfg.StrikeStep

	legs := make([]models.SnapshotLeg, 0, (2*simLadderHalf+1)*2)
	for i := -simLadderHalf; i <= simLadderHalf; i++ {
		strike := atm + float64(i)*step
		for _, right := range []models.OptionRight{models.Call, models.Put} {
			legs = append(legs, models.SnapshotLeg{
				Strike:       strike,
				Right:        right,
				LastPrice:    simPrice,
				Volume:       simVolume,
				OpenInterest: simOI,
				IV:           simIV,
			})
		}
	}

	snap := models.PriceSnapshot{
		Timestamp: f.now(),
		Expiry:    expiry,
		Spot:      spot,
		ATMStrike: atm,
		Legs:      legs,
		Source:    models.SourceSimulated,
		Warning:   true,
		Reason:    reason,
	}
	logging.LogSnapshot(f.logger, string(snap.Source), len(snap.Legs), snap.Spot, snap.Warning)
	return snap
}

// atmStrike rounds spot to the nearest strike step.
func (f *Fetcher) atmStrike(spot float64) float64 {
	step := f.cfg.StrikeStep
	if step <= 0 {
		step = 50
	}
	return math.Round(spot/step) * step
}

func sortLegs(legs []models.SnapshotLeg) {
	sort.Slice(legs, func(i, j int) bool {
		if legs[i].Strike != legs[j].Strike {
			return legs[i].Strike < legs[j].Strike
		}
		return legs[i].Right < legs[j].Right
	})
}
