// Package market implements instrument resolution, price snapshots and
// historical data on top of the SmartAPI transport.
package market

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/config"
	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/smartapi"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/store"
)

// masterExpiryLayout parses the scrip master's "05FEB2026" form after the
// month is title-cased.
const masterExpiryLayout = "02Jan2006"

// strikeScaleThreshold detects minor-unit strikes. The master serves index
// option strikes multiplied by 100; no index strike comes near this raw.
const strikeScaleThreshold = 50000.0

// MasterFetcher downloads the bulk instrument master.
type MasterFetcher interface {
	ScripMaster(ctx context.Context) ([]smartapi.ScripRecord, error)
}

// Resolver maps (expiry, strike band) requests onto concrete option
// contracts from the cached instrument master.
type Resolver struct {
	fetcher MasterFetcher
	store   store.InstrumentStore
	cfg     config.MarketConfig
	logger  zerolog.Logger
}

// NewResolver creates a resolver backed by the given master source and cache.
func NewResolver(fetcher MasterFetcher, st store.InstrumentStore, cfg config.MarketConfig, logger zerolog.Logger) *Resolver {
	return &Resolver{fetcher: fetcher, store: st, cfg: cfg, logger: logger}
}

// EnsureMaster refreshes the cached instrument master when it is older than
// maxAge. The master is a multi-megabyte download, so the cache matters.
func (r *Resolver) EnsureMaster(ctx context.Context, maxAge time.Duration) error {
	synced, err := r.store.Freshness(ctx)
	if err != nil {
		return apperrors.Wrap(err, "reading cache freshness")
	}
	if !synced.IsZero() && time.Since(synced) < maxAge {
		return nil
	}

	records, err := r.fetcher.ScripMaster(ctx)
	if err != nil {
		return err
	}

	instruments := make([]models.Instrument, 0, len(records))
	for _, rec := range records {
		inst, ok := convertScrip(rec)
		if !ok {
			continue
		}
		instruments = append(instruments, inst)
	}

	r.logger.Info().
		Int("records", len(records)).
		Int("kept", len(instruments)).
		Msg("instrument master refreshed")
	return r.store.ReplaceInstruments(ctx, instruments)
}

// convertScrip normalizes one raw master record. Records with unparseable
// numeric fields are dropped rather than failing the whole load.
func convertScrip(rec smartapi.ScripRecord) (models.Instrument, bool) {
	strike, err := strconv.ParseFloat(rec.Strike, 64)
	if err != nil {
		strike = 0
	}
	if strike > strikeScaleThreshold {
		strike /= 100
	}

	lotSize, err := strconv.Atoi(rec.LotSize)
	if err != nil {
		lotSize = 1
	}

	var expiry time.Time
	if rec.Expiry != "" {
		expiry, err = ParseMasterExpiry(rec.Expiry)
		if err != nil {
			return models.Instrument{}, false
		}
	}

	return models.Instrument{
		Token:     rec.Token,
		Symbol:    rec.Symbol,
		Name:      rec.Name,
		Exchange:  models.Exchange(rec.ExchSeg),
		InstrType: rec.InstrType,
		Strike:    strike,
		Expiry:    expiry,
		LotSize:   lotSize,
	}, true
}

// ParseMasterExpiry parses the master's all-caps "05FEB2026" expiry form.
func ParseMasterExpiry(raw string) (time.Time, error) {
	if len(raw) != 9 {
		return time.Time{}, apperrors.Wrapf(apperrors.ErrConfigInvalid, "expiry %q has unexpected length", raw)
	}
	// Title-case the month so the stdlib layout matches: 05FEB2026 -> 05Feb2026.
	normalized := raw[:3] + strings.ToLower(raw[3:5]) + raw[5:]
	return time.Parse(masterExpiryLayout, normalized)
}

// Resolve returns every option contract of the configured underlying that
// expires on the given date and whose strike falls within [center-band,
// center+band]. An empty result is not an error; the caller decides whether
// a bare chain is acceptable.
func (r *Resolver) Resolve(ctx context.Context, expiry time.Time, center, band float64) (map[string]models.ResolvedOption, error) {
	instruments, err := r.store.GetInstruments(ctx, r.cfg.Underlying)
	if err != nil {
		return nil, apperrors.Wrap(err, "reading instrument cache")
	}

	lo, hi := center-band, center+band
	resolved := make(map[string]models.ResolvedOption)
	for _, inst := range instruments {
		if inst.InstrType != "OPTIDX" {
			continue
		}
		if !sameDate(inst.Expiry, expiry) {
			continue
		}
		if inst.Strike < lo || inst.Strike > hi {
			continue
		}
		right, ok := rightFromSymbol(inst.Symbol)
		if !ok {
			continue
		}
		resolved[inst.Token] = models.ResolvedOption{
			Symbol: inst.Symbol,
			Strike: inst.Strike,
			Right:  right,
		}
	}

	r.logger.Debug().
		Time("expiry", expiry).
		Float64("center", center).
		Int("contracts", len(resolved)).
		Msg("resolved option band")
	return resolved, nil
}

// rightFromSymbol reads the CE/PE suffix of a trading symbol.
func rightFromSymbol(symbol string) (models.OptionRight, bool) {
	switch {
	case strings.HasSuffix(symbol, "CE"):
		return models.Call, true
	case strings.HasSuffix(symbol, "PE"):
		return models.Put, true
	default:
		return "", false
	}
}

// sameDate compares two instants by calendar date only. Expiry matching
// ignores the time-of-day component entirely.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
