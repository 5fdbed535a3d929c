package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/config"
	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/market"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/report"
)

// masterMaxAge is how stale the instrument cache may get before a refresh.
const masterMaxAge = 24 * time.Hour

// addMarketCommands adds market data commands.
func addMarketCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSnapshotCmd(app))
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newInstrumentsCmd(app))
	rootCmd.AddCommand(newExpiriesCmd(app))
}

func newSnapshotCmd(app *App) *cobra.Command {
	var expiryFlag string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch an option chain snapshot around ATM",
		Long: `Fetch spot and the option chain around the ATM strike for one expiry.

Falls back to simulated data whenever the live path fails; simulated
snapshots are flagged prominently and must not be traded on.`,
		Example: `  optitrade snapshot
  optitrade snapshot --expiry 2026-02-05`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd, app.Config.Output.ColorEnabled)

			expiry, err := resolveExpiry(expiryFlag)
			if err != nil {
				return err
			}
			if app.Resolver != nil {
				if err := app.Resolver.EnsureMaster(cmd.Context(), masterMaxAge); err != nil {
					app.Logger.Warn().Err(err).Msg("instrument master refresh failed")
				}
			}

			snap := app.Fetcher.Fetch(cmd.Context(), expiry)
			if out.IsJSON() {
				return out.JSON(snap)
			}

			if snap.Simulated() {
				out.SimulatedBanner(snap.Reason)
			}
			out.Bold("%s  spot %.2f  ATM %.0f  expiry %s",
				app.Config.Market.Underlying, snap.Spot, snap.ATMStrike,
				snap.Expiry.Format(app.Config.Output.DateFormat))
			out.Printf("%8s  %-4s  %10s  %10s  %10s\n", "STRIKE", "TYPE", "LTP", "VOLUME", "OI")
			for _, leg := range snap.Legs {
				out.Printf("%8.0f  %-4s  %10.2f  %10d  %10d\n",
					leg.Strike, leg.Right, leg.LastPrice, leg.Volume, leg.OpenInterest)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&expiryFlag, "expiry", "", "expiry date (YYYY-MM-DD, default: next weekly)")
	return cmd
}

func newQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quote",
		Short: "Fetch the full spot quote",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd, app.Config.Output.ColorEnabled)

			quote, err := app.History.SpotQuote(cmd.Context())
			if err != nil {
				return err
			}
			if out.IsJSON() {
				return out.JSON(quote)
			}

			out.Bold("%s", app.Config.Market.SpotSymbol)
			out.Printf("  LTP    %.2f\n", quote.LTP)
			out.Printf("  Open   %.2f   High %.2f   Low %.2f   Close %.2f\n",
				quote.Open, quote.High, quote.Low, quote.Close)
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var days int
	var csvOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Fetch daily OHLC history for the spot index",
		Example: `  optitrade history --days 60
  optitrade history --days 90 --csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd, app.Config.Output.ColorEnabled)

			candles, err := app.History.DailyCandles(cmd.Context(), days)
			if err != nil {
				return err
			}
			if csvOut {
				return writeHistoryCSV(app, candles, out)
			}
			if out.IsJSON() {
				return out.JSON(candles)
			}

			out.Printf("%-12s  %10s  %10s  %10s  %10s  %12s\n",
				"DATE", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME")
			for _, c := range candles {
				out.Printf("%-12s  %10.2f  %10.2f  %10.2f  %10.2f  %12d\n",
					c.Timestamp.Format("2006-01-02"), c.Open, c.High, c.Low, c.Close, c.Volume)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 60, "history window in calendar days")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "export to the artifact directory as CSV")
	return cmd
}

func newInstrumentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instruments",
		Short: "Refresh the cached instrument master",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd, app.Config.Output.ColorEnabled)
			if app.Resolver == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "instrument cache unavailable")
			}

			// Force a refresh regardless of cache age.
			if err := app.Resolver.EnsureMaster(cmd.Context(), 0); err != nil {
				return err
			}
			out.Success("✓ Instrument master refreshed")
			return nil
		},
	}
	return cmd
}

func newExpiriesCmd(app *App) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "expiries",
		Short: "List upcoming weekly expiries",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd, app.Config.Output.ColorEnabled)

			expiries := market.NextExpiries(time.Now(), count)
			if out.IsJSON() {
				return out.JSON(expiries)
			}
			for _, e := range expiries {
				out.Println(e.Format(app.Config.Output.DateFormat))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 4, "number of expiries to list")
	return cmd
}

func writeHistoryCSV(app *App, candles []models.Candle, out *Output) error {
	writer, err := report.NewWriter(artifactDir(app), app.Logger)
	if err != nil {
		return err
	}
	if err := writer.WriteCandlesCSV(candles); err != nil {
		return err
	}
	out.Success("✓ History exported to %s", writer.Dir())
	return nil
}

// artifactDir resolves the artifact directory, defaulting under the config
// directory.
func artifactDir(app *App) string {
	if app.Config.Output.ArtifactDir != "" {
		return app.Config.Output.ArtifactDir
	}
	return filepath.Join(config.DefaultConfigDir(), "artifacts")
}

// resolveExpiry parses an explicit expiry flag or defaults to the next
// weekly expiry.
func resolveExpiry(flag string) (time.Time, error) {
	if flag == "" {
		return market.NextExpiry(time.Now()), nil
	}
	expiry, err := time.Parse("2006-01-02", flag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiry %q, expected YYYY-MM-DD: %w", flag, err)
	}
	return expiry, nil
}
