package market

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/config"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/smartapi"
)

// memoryStore is an in-memory InstrumentStore for tests.
type memoryStore struct {
	instruments []models.Instrument
	synced      time.Time
}

func (m *memoryStore) ReplaceInstruments(_ context.Context, instruments []models.Instrument) error {
	m.instruments = instruments
	m.synced = time.Now()
	return nil
}

func (m *memoryStore) GetInstruments(_ context.Context, underlying string) ([]models.Instrument, error) {
	var out []models.Instrument
	for _, inst := range m.instruments {
		if inst.Name == underlying {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (m *memoryStore) Freshness(_ context.Context) (time.Time, error) {
	return m.synced, nil
}

func (m *memoryStore) Close() error { return nil }

type staticMaster struct {
	records []smartapi.ScripRecord
	calls   int
}

func (s *staticMaster) ScripMaster(_ context.Context) ([]smartapi.ScripRecord, error) {
	s.calls++
	return s.records, nil
}

func testMarketConfig() config.MarketConfig {
	return config.MarketConfig{
		Underlying:    "NIFTY",
		SpotSymbol:    "Nifty 50",
		SpotToken:     "99926000",
		SpotExchange:  "NSE",
		ChainExchange: "NFO",
		StrikeStep:    50,
		ResolveBand:   500,
		DefaultSpot:   24000,
		LotSize:       50,
		SessionTTL:    time.Hour,
	}
}

func expiryDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixtureInstruments() []models.Instrument {
	expiry := expiryDate(2026, 2, 5)
	other := expiryDate(2026, 2, 12)
	return []models.Instrument{
		{Token: "1001", Symbol: "NIFTY05FEB2623500CE", Name: "NIFTY", InstrType: "OPTIDX", Strike: 23500, Expiry: expiry},
		{Token: "1002", Symbol: "NIFTY05FEB2623500PE", Name: "NIFTY", InstrType: "OPTIDX", Strike: 23500, Expiry: expiry},
		{Token: "1003", Symbol: "NIFTY05FEB2624000CE", Name: "NIFTY", InstrType: "OPTIDX", Strike: 24000, Expiry: expiry},
		{Token: "1004", Symbol: "NIFTY05FEB2624500PE", Name: "NIFTY", InstrType: "OPTIDX", Strike: 24500, Expiry: expiry},
		// Outside the band
		{Token: "1005", Symbol: "NIFTY05FEB2623450CE", Name: "NIFTY", InstrType: "OPTIDX", Strike: 23450, Expiry: expiry},
		{Token: "1006", Symbol: "NIFTY05FEB2624550PE", Name: "NIFTY", InstrType: "OPTIDX", Strike: 24550, Expiry: expiry},
		// Wrong expiry
		{Token: "1007", Symbol: "NIFTY12FEB2624000CE", Name: "NIFTY", InstrType: "OPTIDX", Strike: 24000, Expiry: other},
		// Wrong type
		{Token: "1008", Symbol: "NIFTY26FEBFUT", Name: "NIFTY", InstrType: "FUTIDX", Strike: 0, Expiry: expiry},
		// Wrong underlying
		{Token: "1009", Symbol: "BANKNIFTY05FEB2624000CE", Name: "BANKNIFTY", InstrType: "OPTIDX", Strike: 24000, Expiry: expiry},
	}
}

func TestResolveBandAndExpiry(t *testing.T) {
	st := &memoryStore{instruments: fixtureInstruments()}
	r := NewResolver(&staticMaster{}, st, testMarketConfig(), zerolog.Nop())

	resolved, err := r.Resolve(context.Background(), expiryDate(2026, 2, 5), 24000, 500)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := map[string]models.ResolvedOption{
		"1001": {Symbol: "NIFTY05FEB2623500CE", Strike: 23500, Right: models.Call},
		"1002": {Symbol: "NIFTY05FEB2623500PE", Strike: 23500, Right: models.Put},
		"1003": {Symbol: "NIFTY05FEB2624000CE", Strike: 24000, Right: models.Call},
		"1004": {Symbol: "NIFTY05FEB2624500PE", Strike: 24500, Right: models.Put},
	}
	if len(resolved) != len(want) {
		t.Fatalf("resolved %d contracts, want %d: %+v", len(resolved), len(want), resolved)
	}
	for token, opt := range want {
		got, ok := resolved[token]
		if !ok {
			t.Errorf("token %s missing from result", token)
			continue
		}
		if got != opt {
			t.Errorf("token %s = %+v, want %+v", token, got, opt)
		}
	}
	for token, opt := range resolved {
		if opt.Strike < 23500 || opt.Strike > 24500 {
			t.Errorf("token %s strike %.0f outside [23500, 24500]", token, opt.Strike)
		}
	}
}

func TestResolveIgnoresTimeOfDayOnExpiry(t *testing.T) {
	st := &memoryStore{instruments: fixtureInstruments()}
	r := NewResolver(&staticMaster{}, st, testMarketConfig(), zerolog.Nop())

	// Same calendar date, different clock time and zone offset handling.
	expiry := time.Date(2026, 2, 5, 15, 30, 0, 0, time.UTC)
	resolved, err := r.Resolve(context.Background(), expiry, 24000, 500)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(resolved) != 4 {
		t.Errorf("resolved %d contracts, want 4", len(resolved))
	}
}

func TestResolveEmptyIsNotError(t *testing.T) {
	st := &memoryStore{instruments: fixtureInstruments()}
	r := NewResolver(&staticMaster{}, st, testMarketConfig(), zerolog.Nop())

	resolved, err := r.Resolve(context.Background(), expiryDate(2027, 1, 7), 24000, 500)
	if err != nil {
		t.Fatalf("Resolve() error = %v, want nil for empty result", err)
	}
	if len(resolved) != 0 {
		t.Errorf("resolved %d contracts, want 0", len(resolved))
	}
}

func TestConvertScripNormalizesStrikeScale(t *testing.T) {
	rec := smartapi.ScripRecord{
		Token:     "42",
		Symbol:    "NIFTY05FEB2624000CE",
		Name:      "NIFTY",
		Expiry:    "05FEB2026",
		Strike:    "2400000.000000", // minor-unit scaled
		LotSize:   "50",
		InstrType: "OPTIDX",
		ExchSeg:   "NFO",
	}

	inst, ok := convertScrip(rec)
	if !ok {
		t.Fatal("convertScrip() ok = false")
	}
	if inst.Strike != 24000 {
		t.Errorf("Strike = %v, want 24000", inst.Strike)
	}
	if !inst.Expiry.Equal(expiryDate(2026, 2, 5)) {
		t.Errorf("Expiry = %v, want 2026-02-05", inst.Expiry)
	}
	if inst.LotSize != 50 {
		t.Errorf("LotSize = %d, want 50", inst.LotSize)
	}
}

func TestConvertScripKeepsUnscaledStrike(t *testing.T) {
	rec := smartapi.ScripRecord{
		Token: "43", Symbol: "X", Name: "X", Strike: "24000", LotSize: "50",
	}
	inst, ok := convertScrip(rec)
	if !ok {
		t.Fatal("convertScrip() ok = false")
	}
	if inst.Strike != 24000 {
		t.Errorf("Strike = %v, want 24000 (no rescale below threshold)", inst.Strike)
	}
}

func TestParseMasterExpiry(t *testing.T) {
	got, err := ParseMasterExpiry("05FEB2026")
	if err != nil {
		t.Fatalf("ParseMasterExpiry() error = %v", err)
	}
	if !got.Equal(expiryDate(2026, 2, 5)) {
		t.Errorf("ParseMasterExpiry() = %v, want 2026-02-05", got)
	}

	if _, err := ParseMasterExpiry("garbage"); err == nil {
		t.Error("ParseMasterExpiry(garbage) error = nil, want error")
	}
}

func TestEnsureMasterSkipsFreshCache(t *testing.T) {
	master := &staticMaster{records: []smartapi.ScripRecord{
		{Token: "1", Symbol: "NIFTY05FEB2624000CE", Name: "NIFTY", Expiry: "05FEB2026", Strike: "2400000", LotSize: "50", InstrType: "OPTIDX", ExchSeg: "NFO"},
	}}
	st := &memoryStore{}
	r := NewResolver(master, st, testMarketConfig(), zerolog.Nop())

	if err := r.EnsureMaster(context.Background(), 24*time.Hour); err != nil {
		t.Fatalf("first EnsureMaster() error = %v", err)
	}
	if err := r.EnsureMaster(context.Background(), 24*time.Hour); err != nil {
		t.Fatalf("second EnsureMaster() error = %v", err)
	}

	if master.calls != 1 {
		t.Errorf("master downloads = %d, want 1 (fresh cache reused)", master.calls)
	}
	if len(st.instruments) != 1 {
		t.Errorf("cached instruments = %d, want 1", len(st.instruments))
	}
}
