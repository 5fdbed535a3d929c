package trading

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

func testSnapshot() models.PriceSnapshot {
	return models.PriceSnapshot{
		Timestamp: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC),
		Expiry:    time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC),
		Spot:      24012.5,
		ATMStrike: 24000,
		Legs: []models.SnapshotLeg{
			{Strike: 23950, Right: models.Call, LastPrice: 180},
			{Strike: 24000, Right: models.Call, LastPrice: 145.2},
			{Strike: 24000, Right: models.Put, LastPrice: 132.8},
			{Strike: 24050, Right: models.Put, LastPrice: 160},
		},
		Source: models.SourceLive,
	}
}

func TestBuildStraddle(t *testing.T) {
	strategy, err := BuildStrategy(models.Straddle, testSnapshot())
	if err != nil {
		t.Fatalf("BuildStrategy() error = %v", err)
	}

	if len(strategy.Legs) != 2 {
		t.Fatalf("legs = %d, want 2", len(strategy.Legs))
	}
	if strategy.Legs[0].Right != models.Call || strategy.Legs[1].Right != models.Put {
		t.Errorf("legs = %+v, want ATM call then ATM put", strategy.Legs)
	}
	for _, leg := range strategy.Legs {
		if leg.Strike != 24000 {
			t.Errorf("leg strike = %v, want ATM 24000", leg.Strike)
		}
		if leg.Side != "BUY" {
			t.Errorf("leg side = %s, want BUY", leg.Side)
		}
	}
	if strategy.NetPremium != 145.2+132.8 {
		t.Errorf("NetPremium = %v, want %v", strategy.NetPremium, 145.2+132.8)
	}
}

func TestBuildShortCallNetsPremiumReceived(t *testing.T) {
	strategy, err := BuildStrategy(models.ShortCall, testSnapshot())
	if err != nil {
		t.Fatalf("BuildStrategy() error = %v", err)
	}
	if strategy.NetPremium != -145.2 {
		t.Errorf("NetPremium = %v, want -145.2 (received)", strategy.NetPremium)
	}
}

func TestBuildUnknownStrategy(t *testing.T) {
	_, err := BuildStrategy("butterfly", testSnapshot())
	if !apperrors.Is(err, apperrors.ErrUnknownStrategy) {
		t.Errorf("error = %v, want ErrUnknownStrategy", err)
	}
}

func TestSelectStrategy(t *testing.T) {
	cases := map[models.Trend]models.StrategyKind{
		models.TrendBullish: models.LongCall,
		models.TrendBearish: models.LongPut,
		models.TrendNeutral: models.Straddle,
	}
	for signal, want := range cases {
		if got := SelectStrategy(signal); got != want {
			t.Errorf("SelectStrategy(%s) = %s, want %s", signal, got, want)
		}
	}
}

func TestSimulatedPlacerNeverRoutes(t *testing.T) {
	placer := NewSimulatedPlacer(zerolog.Nop())
	strategy, err := BuildStrategy(models.LongCall, testSnapshot())
	if err != nil {
		t.Fatalf("BuildStrategy() error = %v", err)
	}

	first, err := placer.PlaceOptionOrder(strategy, 50)
	if err != nil {
		t.Fatalf("PlaceOptionOrder() error = %v", err)
	}
	second, err := placer.PlaceOptionOrder(strategy, 50)
	if err != nil {
		t.Fatalf("PlaceOptionOrder() error = %v", err)
	}

	if first.Status != "SIMULATED" {
		t.Errorf("Status = %s, want SIMULATED", first.Status)
	}
	if first.OrderID == second.OrderID {
		t.Errorf("order ids not unique: %s", first.OrderID)
	}
}
