package models

import "time"

// GreeksResult holds Black-Scholes-Merton sensitivities for one contract.
// Volatility echoes the input volatility the model was priced with; it is
// not a market-implied value.
type GreeksResult struct {
	Strike       float64     `json:"strike"`
	Right        OptionRight `json:"right"`
	Delta        float64     `json:"delta"`
	Gamma        float64     `json:"gamma"`
	Theta        float64     `json:"theta"` // per calendar day
	Vega         float64     `json:"vega"`  // per 1% vol move
	Rho          float64     `json:"rho"`   // per 1% rate move
	Volatility   float64     `json:"volatility"`
	DaysToExpiry int         `json:"days_to_expiry"`
}

// StrategyKind names a supported single- or two-leg option strategy.
type StrategyKind string

const (
	LongCall  StrategyKind = "long_call"
	LongPut   StrategyKind = "long_put"
	ShortCall StrategyKind = "short_call"
	ShortPut  StrategyKind = "short_put"
	Straddle  StrategyKind = "straddle"
)

// BacktestResult aggregates per-trade P&L statistics.
type BacktestResult struct {
	Strategy    StrategyKind `json:"strategy"`
	TotalTrades int          `json:"total_trades"`
	Wins        int          `json:"wins"`
	Losses      int          `json:"losses"`
	WinRate     float64      `json:"win_rate"`
	AveragePnl  float64      `json:"avg_pnl"`
	TotalPnl    float64      `json:"total_pnl"`
	MaxDrawdown float64      `json:"max_drawdown"`
	SharpeLike  float64      `json:"sharpe"`
	TradePnls   []float64    `json:"-"`
}

// OptionLeg represents one leg of a multi-leg strategy.
type OptionLeg struct {
	Side    string      `json:"side"` // BUY, SELL
	Strike  float64     `json:"strike"`
	Right   OptionRight `json:"right"`
	Premium float64     `json:"premium"`
}

// OptionStrategy is a named combination of legs for one expiry.
type OptionStrategy struct {
	Kind       StrategyKind `json:"strategy"`
	Expiry     time.Time    `json:"expiry"`
	Spot       float64      `json:"spot"`
	Legs       []OptionLeg  `json:"legs"`
	NetPremium float64      `json:"net_premium"`
}

// OrderResult is the outcome of an order placement. Execution is stubbed:
// orders are simulated, never routed.
type OrderResult struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
