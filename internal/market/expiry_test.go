package market

import (
	"testing"
	"time"
)

func TestNextExpiriesFromMidweek(t *testing.T) {
	// Wednesday 2026-08-19; the following Thursday is 2026-08-20.
	now := time.Date(2026, 8, 19, 11, 0, 0, 0, time.UTC)

	expiries := NextExpiries(now, 3)
	want := []time.Time{
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
	}

	if len(expiries) != len(want) {
		t.Fatalf("got %d expiries, want %d", len(expiries), len(want))
	}
	for i := range want {
		if !expiries[i].Equal(want[i]) {
			t.Errorf("expiry %d = %v, want %v", i, expiries[i], want[i])
		}
		if expiries[i].Weekday() != time.Thursday {
			t.Errorf("expiry %d is a %s, want Thursday", i, expiries[i].Weekday())
		}
	}
}

func TestNextExpiryOnThursdayBeforeCutoff(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	got := NextExpiry(now)
	if !got.Equal(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("NextExpiry = %v, want same-day expiry before cutoff", got)
	}
}

func TestNextExpiryOnThursdayAfterCutoff(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)
	got := NextExpiry(now)
	if !got.Equal(time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("NextExpiry = %v, want next week's expiry after cutoff", got)
	}
}

func TestNextExpiriesZeroCount(t *testing.T) {
	if got := NextExpiries(time.Now(), 0); got != nil {
		t.Errorf("NextExpiries(0) = %v, want nil", got)
	}
}
