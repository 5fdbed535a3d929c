// Package cli provides the command-line interface for the analytics
// application.
package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/config"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/logging"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/market"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/smartapi"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Client   *smartapi.Client
	Sessions *smartapi.Manager
	Store    store.InstrumentStore
	Resolver *market.Resolver
	Fetcher  *market.Fetcher
	History  *market.History
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Client = smartapi.NewClient(cfg.Credentials.Angel.APIKey, logger)
	app.Sessions = smartapi.NewManager(app.Client, cfg.Credentials.Angel, cfg.Market.SessionTTL, logger)

	dbPath := filepath.Join(config.DefaultConfigDir(), "instruments.db")
	instrumentStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("instrument cache unavailable, resolution will use simulated data")
	} else {
		app.Store = instrumentStore
		app.Resolver = market.NewResolver(app.Client, instrumentStore, cfg.Market, logger)
	}

	app.Fetcher = market.NewFetcher(app.Sessions, app.Client, resolverOrEmpty(app), cfg.Market, logger)
	app.History = market.NewHistory(app.Sessions, app.Client, cfg.Market, logger)

	rootCmd := &cobra.Command{
		Use:   "optitrade",
		Short: "OptiTrade - index options market data and analytics CLI",
		Long: `OptiTrade fetches index option chains from Angel One SmartAPI, computes
technical indicators and Black-Scholes Greeks, and backtests candidate
option strategies.

When live data is unavailable it falls back to clearly flagged simulated
data so the full analysis pipeline stays runnable.

Use 'optitrade help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/optitrade)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addAuthCommands(rootCmd, app)
	addMarketCommands(rootCmd, app)
	addAnalysisCommands(rootCmd, app)

	return rootCmd
}

func resolverOrEmpty(app *App) market.OptionResolver {
	if app.Resolver != nil {
		return app.Resolver
	}
	return emptyResolver{}
}

// emptyResolver satisfies the fetcher when the instrument cache could not
// be opened; every resolution comes back empty, which pushes the fetcher
// onto its simulated path.
type emptyResolver struct{}

func (emptyResolver) Resolve(_ context.Context, _ time.Time, _, _ float64) (map[string]models.ResolvedOption, error) {
	return nil, nil
}
