// Package report serializes run outputs to named artifact files.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// Artifact file names, one per pipeline stage.
const (
	MarketDataFile  = "market_data.json"
	TechnicalFile   = "technical_analysis.json"
	GreeksFile      = "greeks_volatility.json"
	BacktestFile    = "backtest_results.json"
	CandleCSVFile   = "ohlc_history.csv"
	RecommendedFile = "recommendation.json"
)

// Writer persists run artifacts under one directory.
type Writer struct {
	dir    string
	logger zerolog.Logger
}

// NewWriter creates an artifact writer rooted at dir, creating it if
// needed.
func NewWriter(dir string, logger zerolog.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(err, "creating artifact directory")
	}
	return &Writer{dir: dir, logger: logger}, nil
}

// Dir returns the artifact directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteSnapshot persists the market data snapshot.
func (w *Writer) WriteSnapshot(snap models.PriceSnapshot) error {
	return w.writeJSON(MarketDataFile, snap)
}

// WriteIndicators persists the technical analysis result.
func (w *Writer) WriteIndicators(set models.IndicatorSet) error {
	return w.writeJSON(TechnicalFile, set)
}

// WriteGreeks persists the per-contract Greeks.
func (w *Writer) WriteGreeks(greeks []models.GreeksResult) error {
	return w.writeJSON(GreeksFile, greeks)
}

// WriteBacktests persists one result per strategy evaluated.
func (w *Writer) WriteBacktests(results []models.BacktestResult) error {
	return w.writeJSON(BacktestFile, results)
}

// Recommendation ties the run's outputs into one record.
type Recommendation struct {
	Signal     models.Trend          `json:"signal"`
	Confidence float64               `json:"confidence"`
	Strategy   models.OptionStrategy `json:"strategy"`
	Simulated  bool                  `json:"simulated_data"`
	Reason     string                `json:"reason,omitempty"`
}

// WriteRecommendation persists the final recommendation.
func (w *Writer) WriteRecommendation(rec Recommendation) error {
	return w.writeJSON(RecommendedFile, rec)
}

// WriteCandlesCSV exports the OHLC history for spreadsheet use.
func (w *Writer) WriteCandlesCSV(candles []models.Candle) error {
	path := filepath.Join(w.dir, CandleCSVFile)
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(err, "creating candle export")
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&candles, f); err != nil {
		return apperrors.Wrap(err, "writing candle export")
	}
	w.logger.Debug().Str("path", path).Int("candles", len(candles)).Msg("candle history exported")
	return nil
}

func (w *Writer) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.Wrapf(err, "encoding %s", name)
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.Wrapf(err, "writing %s", name)
	}
	w.logger.Debug().Str("path", path).Msg("artifact written")
	return nil
}
