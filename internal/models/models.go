// Package models provides domain models for the analytics core.
package models

import (
	"time"
)

// Exchange represents a stock exchange segment.
type Exchange string

const (
	NSE Exchange = "NSE"
	BSE Exchange = "BSE"
	NFO Exchange = "NFO" // F&O
)

// OptionRight represents the right conferred by an option contract.
type OptionRight string

const (
	Call OptionRight = "CALL"
	Put  OptionRight = "PUT"
)

// SourceKind tags where a snapshot's data came from. A SIMULATED snapshot
// must never be treated as LIVE downstream; the tag is part of the contract.
type SourceKind string

const (
	SourceLive      SourceKind = "LIVE"
	SourceSimulated SourceKind = "SIMULATED"
)

// SessionStatus represents the lifecycle state of a broker session.
type SessionStatus string

const (
	SessionUnauthenticated SessionStatus = "unauthenticated"
	SessionValid           SessionStatus = "valid"
	SessionExpired         SessionStatus = "expired"
	SessionFailed          SessionStatus = "failed"
)

// Session holds one broker session and its validity window. Sessions are
// replaced wholesale on refresh, never mutated field by field.
type Session struct {
	Handle       string // JWT access token
	FeedToken    string
	RefreshToken string
	IssuedAt     time.Time
	ValidUntil   time.Time
	Status       SessionStatus
}

// Valid reports whether the session is usable at the given instant.
func (s Session) Valid(now time.Time) bool {
	return s.Status == SessionValid && now.Before(s.ValidUntil)
}

// Candle represents one period's OHLCV bar. Chronological, immutable once
// fetched.
type Candle struct {
	Timestamp time.Time `json:"date" csv:"date"`
	Open      float64   `json:"open" csv:"open"`
	High      float64   `json:"high" csv:"high"`
	Low       float64   `json:"low" csv:"low"`
	Close     float64   `json:"close" csv:"close"`
	Volume    int64     `json:"volume" csv:"volume"`
}

// Instrument is one record from the bulk scrip master. Immutable once
// loaded; Strike is already normalized to rupees.
type Instrument struct {
	Token     string
	Symbol    string
	Name      string
	Exchange  Exchange
	InstrType string // OPTIDX, FUTIDX, EQ, ...
	Strike    float64
	Expiry    time.Time
	LotSize   int
}

// ResolvedOption is the resolver's view of one option contract within the
// requested strike band.
type ResolvedOption struct {
	Symbol string
	Strike float64
	Right  OptionRight
}

// SnapshotLeg is one option contract's quote inside a snapshot.
type SnapshotLeg struct {
	Strike       float64     `json:"strike"`
	Right        OptionRight `json:"right"`
	Symbol       string      `json:"symbol,omitempty"`
	LastPrice    float64     `json:"last_price"`
	Volume       int64       `json:"volume"`
	OpenInterest int64       `json:"oi"`
	IV           float64     `json:"iv,omitempty"`
}

// PriceSnapshot is a point-in-time view of spot and the option chain around
// the ATM strike.
type PriceSnapshot struct {
	Timestamp time.Time     `json:"timestamp"`
	Expiry    time.Time     `json:"expiry"`
	Spot      float64       `json:"spot"`
	ATMStrike float64       `json:"atm_strike"`
	Legs      []SnapshotLeg `json:"legs"`
	Source    SourceKind    `json:"source"`
	Warning   bool          `json:"warning"`
	Reason    string        `json:"reason,omitempty"` // why simulated data was used
}

// Simulated reports whether this snapshot carries synthetic data.
func (p PriceSnapshot) Simulated() bool {
	return p.Source == SourceSimulated
}

// Quote represents a full spot quote.
type Quote struct {
	Symbol    string
	LTP       float64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	Timestamp time.Time
}

// Trend classifies the prevailing direction of a series.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// IndicatorSet holds one technical-analysis pass over an OHLC series.
type IndicatorSet struct {
	EMA5       float64 `json:"ema_5"`
	EMA20      float64 `json:"ema_20"`
	EMA50      float64 `json:"ema_50"`
	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	BBUpper    float64 `json:"bb_upper"`
	BBMiddle   float64 `json:"bb_middle"`
	BBLower    float64 `json:"bb_lower"`
	ATR        float64 `json:"atr"`

	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`

	Trend      Trend   `json:"trend"`
	Signal     Trend   `json:"signal"`
	Confidence float64 `json:"confidence"`
}

// SentimentResult classifies free text as bullish/bearish/neutral using
// keyword counts.
type SentimentResult struct {
	Score      float64 `json:"sentiment_score"`
	Sentiment  Trend   `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Positive   int     `json:"positive_indicators"`
	Negative   int     `json:"negative_indicators"`
}
