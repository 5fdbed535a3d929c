package market

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/config"
	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// NSE cash session bounds.
const (
	marketOpenHour    = 9
	marketOpenMinute  = 15
	marketCloseHour   = 15
	marketCloseMinute = 30
)

// CandleSource serves historical bars and full quotes.
type CandleSource interface {
	Candles(ctx context.Context, session models.Session, exchange, token, interval string, from, to time.Time) ([]models.Candle, error)
	Quote(ctx context.Context, session models.Session, exchange, token string) (*models.Quote, error)
}

// History fetches historical spot data for the configured underlying.
type History struct {
	sessions SessionSource
	source   CandleSource
	cfg      config.MarketConfig
	now      func() time.Time
	logger   zerolog.Logger
}

// NewHistory creates a history service.
func NewHistory(sessions SessionSource, source CandleSource, cfg config.MarketConfig, logger zerolog.Logger) *History {
	return &History{
		sessions: sessions,
		source:   source,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
}

// DailyCandles returns up to the last `days` daily bars for the spot index.
// The request window is clamped to session hours; the API rejects ranges
// that start before the open.
func (h *History) DailyCandles(ctx context.Context, days int) ([]models.Candle, error) {
	if days <= 0 {
		return nil, apperrors.Wrapf(apperrors.ErrConfigInvalid, "history window must be positive, got %d", days)
	}

	session, err := h.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	now := h.now()
	from := clampToOpen(now.AddDate(0, 0, -days))
	to := clampToClose(now)

	candles, err := h.source.Candles(ctx, session, string(h.cfg.SpotExchange), h.cfg.SpotToken, "ONE_DAY", from, to)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, apperrors.NewDataError("history", h.cfg.SpotSymbol, "no candles in range", nil)
	}

	h.logger.Debug().
		Int("days", days).
		Int("candles", len(candles)).
		Msg("daily history fetched")
	return candles, nil
}

// SpotQuote returns the full current quote for the spot index.
func (h *History) SpotQuote(ctx context.Context) (*models.Quote, error) {
	session, err := h.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return h.source.Quote(ctx, session, string(h.cfg.SpotExchange), h.cfg.SpotToken)
}

func clampToOpen(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), marketOpenHour, marketOpenMinute, 0, 0, t.Location())
}

func clampToClose(t time.Time) time.Time {
	sessionClose := time.Date(t.Year(), t.Month(), t.Day(), marketCloseHour, marketCloseMinute, 0, 0, t.Location())
	if t.Before(sessionClose) {
		return t
	}
	return sessionClose
}
