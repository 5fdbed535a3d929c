package backtest

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

func TestRunRejectsShortSeries(t *testing.T) {
	_, err := RunCloses(models.LongCall, []float64{100, 110, 90, 130}, 105, 5, 1)
	if !apperrors.Is(err, apperrors.ErrInsufficientData) {
		t.Errorf("Run(4 bars) error = %v, want ErrInsufficientData", err)
	}
}

func TestRunRejectsUnknownStrategy(t *testing.T) {
	closes := make([]float64, 10)
	_, err := RunCloses("iron_condor", closes, 100, 5, 1)
	if !apperrors.Is(err, apperrors.ErrUnknownStrategy) {
		t.Errorf("error = %v, want ErrUnknownStrategy", err)
	}
}

// The canonical long-call example: entry/exit pairs (100,110), (110,90),
// (90,130) against strike 105 at premium 5 give per-trade P&L [0, -5, 20].
// The zero-P&L trade counts as a loss under the strict-positivity rule.
func TestLongCallExampleSemantics(t *testing.T) {
	pnls := []float64{0, -5, 20}
	result := aggregate(models.LongCall, pnls)

	if result.TotalTrades != 3 {
		t.Fatalf("TotalTrades = %d, want 3", result.TotalTrades)
	}
	if result.Wins != 1 || result.Losses != 2 {
		t.Errorf("wins/losses = %d/%d, want 1/2 (breakeven is a loss)", result.Wins, result.Losses)
	}
	if math.Abs(result.WinRate-1.0/3.0) > 1e-12 {
		t.Errorf("WinRate = %v, want 1/3", result.WinRate)
	}
	if result.TotalPnl != 15 || result.AveragePnl != 5 {
		t.Errorf("total/avg = %v/%v, want 15/5", result.TotalPnl, result.AveragePnl)
	}
	// Cumulative curve 0, -5, 15: deepest fall from peak is 5.
	if result.MaxDrawdown != 5 {
		t.Errorf("MaxDrawdown = %v, want 5", result.MaxDrawdown)
	}
	if math.Abs(result.SharpeLike-0.462910049886) > 1e-9 {
		t.Errorf("SharpeLike = %.12f, want 0.462910049886", result.SharpeLike)
	}
}

func TestLongCallPayoffPairs(t *testing.T) {
	// Pad with flat closes so only the tail pairs produce nonzero P&L
	// relative to the premium.
	closes := []float64{105, 105, 105, 105, 105, 105, 100, 110, 90, 130}
	result, err := RunCloses(models.LongCall, closes, 105, 5, 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.TotalTrades != 9 {
		t.Fatalf("TotalTrades = %d, want 9", result.TotalTrades)
	}
	tail := result.TradePnls[len(result.TradePnls)-3:]
	want := []float64{0, -5, 20}
	for i := range want {
		if tail[i] != want[i] {
			t.Errorf("tail P&L[%d] = %v, want %v", i, tail[i], want[i])
		}
	}
}

func TestStraddlePayoff(t *testing.T) {
	// Exit 130 against strike 105: call leg 25, put leg 0, premium 5 each.
	closes := []float64{105, 105, 105, 105, 105, 105, 105, 105, 105, 130}
	result, err := RunCloses(models.Straddle, closes, 105, 5, 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	last := result.TradePnls[len(result.TradePnls)-1]
	if last != 15 {
		t.Errorf("straddle P&L = %v, want 15 (25 intrinsic - 10 premium)", last)
	}
}

func TestLotSizeScaling(t *testing.T) {
	closes := []float64{105, 105, 105, 105, 105, 105, 105, 105, 100, 130}
	result, err := RunCloses(models.LongCall, closes, 105, 5, 50)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	last := result.TradePnls[len(result.TradePnls)-1]
	if last != 1000 {
		t.Errorf("scaled P&L = %v, want (25-5)*50 = 1000", last)
	}
}

func TestSharpeZeroWhenFlat(t *testing.T) {
	closes := make([]float64, 12)
	for i := range closes {
		closes[i] = 100
	}
	result, err := RunCloses(models.LongCall, closes, 105, 5, 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// Every trade loses exactly the premium, so the deviation is zero.
	if result.SharpeLike != 0 {
		t.Errorf("SharpeLike = %v, want 0 (never NaN/Inf)", result.SharpeLike)
	}
	if math.IsNaN(result.SharpeLike) || math.IsInf(result.SharpeLike, 0) {
		t.Errorf("SharpeLike = %v, must be finite", result.SharpeLike)
	}
}

// Property: short strategies mirror long strategies trade for trade.
func TestShortMirrorsLongProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	closesGen := gen.SliceOfN(15, gen.Float64Range(50, 500))

	pairs := []struct {
		long, short models.StrategyKind
	}{
		{models.LongCall, models.ShortCall},
		{models.LongPut, models.ShortPut},
	}

	properties.Property("short P&L is the negation of long P&L", prop.ForAll(
		func(closes []float64, strike, premium float64, pairIdx int) bool {
			pair := pairs[pairIdx]
			long, err := RunCloses(pair.long, closes, strike, premium, 1)
			if err != nil {
				return false
			}
			short, err := RunCloses(pair.short, closes, strike, premium, 1)
			if err != nil {
				return false
			}

			for i := range long.TradePnls {
				if math.Abs(long.TradePnls[i]+short.TradePnls[i]) > 1e-9 {
					return false
				}
			}
			return math.Abs(long.TotalPnl+short.TotalPnl) < 1e-6
		},
		closesGen,
		gen.Float64Range(50, 500),
		gen.Float64Range(0, 50),
		gen.IntRange(0, len(pairs)-1),
	))

	properties.TestingRun(t)
}
