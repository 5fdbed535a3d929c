// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// InstrumentStore caches the bulk instrument master between runs. Records
// are treated as immutable once loaded; a refresh replaces the whole set.
type InstrumentStore interface {
	// ReplaceInstruments swaps the cached master for the given set.
	ReplaceInstruments(ctx context.Context, instruments []models.Instrument) error

	// GetInstruments returns all cached records for an underlying name.
	GetInstruments(ctx context.Context, underlying string) ([]models.Instrument, error)

	// Freshness returns when the cache was last replaced (zero if never).
	Freshness(ctx context.Context) (time.Time, error)

	// Lifecycle
	Close() error
}
