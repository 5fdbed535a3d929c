package trading

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// OrderPlacer places option orders. The only implementation simulates
// placement; nothing is routed to an exchange.
type OrderPlacer interface {
	PlaceOptionOrder(strategy models.OptionStrategy, lotSize int) (models.OrderResult, error)
}

// SimulatedPlacer acknowledges orders without routing them.
type SimulatedPlacer struct {
	seq    atomic.Int64
	logger zerolog.Logger
}

// NewSimulatedPlacer creates a simulated order placer.
func NewSimulatedPlacer(logger zerolog.Logger) *SimulatedPlacer {
	return &SimulatedPlacer{logger: logger}
}

// PlaceOptionOrder records the order and returns a synthetic id. The
// SIMULATED status is explicit so no caller mistakes this for a fill.
func (p *SimulatedPlacer) PlaceOptionOrder(strategy models.OptionStrategy, lotSize int) (models.OrderResult, error) {
	id := fmt.Sprintf("SIM-%d-%d", time.Now().Unix(), p.seq.Add(1))

	p.logger.Info().
		Str("order_id", id).
		Str("strategy", string(strategy.Kind)).
		Float64("net_premium", strategy.NetPremium).
		Int("lot_size", lotSize).
		Msg("simulated order placed")

	return models.OrderResult{
		OrderID: id,
		Status:  "SIMULATED",
		Message: fmt.Sprintf("%s x%d lots acknowledged (not routed)", strategy.Kind, lotSize),
	}, nil
}
