package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// SQLiteStore implements InstrumentStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed instrument cache.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Cached bulk instrument master, strike already normalized to rupees
	CREATE TABLE IF NOT EXISTS instruments (
		token TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		exchange TEXT NOT NULL,
		instr_type TEXT NOT NULL,
		strike REAL NOT NULL,
		expiry DATETIME,
		lot_size INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_instruments_name ON instruments(name);
	CREATE INDEX IF NOT EXISTS idx_instruments_expiry ON instruments(expiry);

	-- Refresh bookkeeping
	CREATE TABLE IF NOT EXISTS sync_times (
		data_type TEXT PRIMARY KEY,
		synced_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ReplaceInstruments swaps the cached master inside one transaction.
func (s *SQLiteStore) ReplaceInstruments(ctx context.Context, instruments []models.Instrument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM instruments`); err != nil {
		return fmt.Errorf("clearing instruments: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO instruments (token, symbol, name, exchange, instr_type, strike, expiry, lot_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, inst := range instruments {
		if _, err := stmt.ExecContext(ctx,
			inst.Token, inst.Symbol, inst.Name, string(inst.Exchange),
			inst.InstrType, inst.Strike, inst.Expiry, inst.LotSize,
		); err != nil {
			return fmt.Errorf("inserting instrument %s: %w", inst.Token, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sync_times (data_type, synced_at) VALUES ('instruments', ?)
		ON CONFLICT(data_type) DO UPDATE SET synced_at = excluded.synced_at`,
		time.Now(),
	); err != nil {
		return fmt.Errorf("recording sync time: %w", err)
	}

	return tx.Commit()
}

// GetInstruments returns all cached records whose name matches the
// underlying.
func (s *SQLiteStore) GetInstruments(ctx context.Context, underlying string) ([]models.Instrument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, symbol, name, exchange, instr_type, strike, expiry, lot_size
		FROM instruments
		WHERE name = ?
		ORDER BY expiry, strike`, underlying)
	if err != nil {
		return nil, fmt.Errorf("querying instruments: %w", err)
	}
	defer rows.Close()

	var result []models.Instrument
	for rows.Next() {
		var inst models.Instrument
		var exchange string
		var expiry sql.NullTime
		if err := rows.Scan(&inst.Token, &inst.Symbol, &inst.Name, &exchange,
			&inst.InstrType, &inst.Strike, &expiry, &inst.LotSize); err != nil {
			return nil, fmt.Errorf("scanning instrument: %w", err)
		}
		inst.Exchange = models.Exchange(exchange)
		if expiry.Valid {
			inst.Expiry = expiry.Time
		}
		result = append(result, inst)
	}
	return result, rows.Err()
}

// Freshness returns the last time the instrument cache was replaced.
func (s *SQLiteStore) Freshness(ctx context.Context) (time.Time, error) {
	var t time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT synced_at FROM sync_times WHERE data_type = 'instruments'`).Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("querying freshness: %w", err)
	}
	return t, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ InstrumentStore = (*SQLiteStore)(nil)
