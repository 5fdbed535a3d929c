package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testInstruments() []models.Instrument {
	expiry := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)
	return []models.Instrument{
		{Token: "1001", Symbol: "NIFTY05FEB2624000CE", Name: "NIFTY", Exchange: models.NFO, InstrType: "OPTIDX", Strike: 24000, Expiry: expiry, LotSize: 50},
		{Token: "1002", Symbol: "NIFTY05FEB2624000PE", Name: "NIFTY", Exchange: models.NFO, InstrType: "OPTIDX", Strike: 24000, Expiry: expiry, LotSize: 50},
		{Token: "2001", Symbol: "BANKNIFTY05FEB2652000CE", Name: "BANKNIFTY", Exchange: models.NFO, InstrType: "OPTIDX", Strike: 52000, Expiry: expiry, LotSize: 15},
	}
}

func TestReplaceAndGetInstruments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceInstruments(ctx, testInstruments()); err != nil {
		t.Fatalf("ReplaceInstruments() error = %v", err)
	}

	got, err := s.GetInstruments(ctx, "NIFTY")
	if err != nil {
		t.Fatalf("GetInstruments() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d instruments, want 2", len(got))
	}
	for _, inst := range got {
		if inst.Name != "NIFTY" {
			t.Errorf("instrument %s has name %s, want NIFTY", inst.Token, inst.Name)
		}
		if inst.LotSize != 50 {
			t.Errorf("instrument %s lot size = %d, want 50", inst.Token, inst.LotSize)
		}
	}
}

func TestReplaceSwapsWholeSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceInstruments(ctx, testInstruments()); err != nil {
		t.Fatalf("first ReplaceInstruments() error = %v", err)
	}

	replacement := []models.Instrument{
		{Token: "3001", Symbol: "NIFTY12FEB2624000CE", Name: "NIFTY", Exchange: models.NFO, InstrType: "OPTIDX", Strike: 24000, Expiry: time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC), LotSize: 50},
	}
	if err := s.ReplaceInstruments(ctx, replacement); err != nil {
		t.Fatalf("second ReplaceInstruments() error = %v", err)
	}

	got, err := s.GetInstruments(ctx, "NIFTY")
	if err != nil {
		t.Fatalf("GetInstruments() error = %v", err)
	}
	if len(got) != 1 || got[0].Token != "3001" {
		t.Errorf("got %+v, want only the replacement record", got)
	}
}

func TestFreshness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	synced, err := s.Freshness(ctx)
	if err != nil {
		t.Fatalf("Freshness() error = %v", err)
	}
	if !synced.IsZero() {
		t.Errorf("Freshness before any load = %v, want zero", synced)
	}

	if err := s.ReplaceInstruments(ctx, testInstruments()); err != nil {
		t.Fatalf("ReplaceInstruments() error = %v", err)
	}

	synced, err = s.Freshness(ctx)
	if err != nil {
		t.Fatalf("Freshness() error = %v", err)
	}
	if synced.IsZero() {
		t.Error("Freshness after load is zero, want recent timestamp")
	}
	if time.Since(synced) > time.Minute {
		t.Errorf("Freshness = %v, want recent", synced)
	}
}

func TestGetInstrumentsUnknownUnderlying(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetInstruments(context.Background(), "SENSEX")
	if err != nil {
		t.Fatalf("GetInstruments() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d instruments, want 0", len(got))
	}
}
