// Package config provides configuration management for the analytics application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Market      MarketConfig `mapstructure:"market"`
	Model       ModelConfig  `mapstructure:"model"`
	Output      OutputConfig `mapstructure:"output"`
	Credentials Credentials  `mapstructure:"-"` // Loaded separately
}

// MarketConfig holds the market parameters for the tracked underlying.
type MarketConfig struct {
	Underlying    string        `mapstructure:"underlying"`     // e.g. "NIFTY"
	SpotSymbol    string        `mapstructure:"spot_symbol"`    // e.g. "Nifty 50"
	SpotToken     string        `mapstructure:"spot_token"`     // NSE index token
	SpotExchange  string        `mapstructure:"spot_exchange"`  // NSE
	ChainExchange string        `mapstructure:"chain_exchange"` // NFO
	StrikeStep    float64       `mapstructure:"strike_step"`
	ResolveBand   float64       `mapstructure:"resolve_band"`
	DefaultSpot   float64       `mapstructure:"default_spot"` // fallback when spot fetch fails
	LotSize       int           `mapstructure:"lot_size"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
}

// ModelConfig holds pricing and backtest defaults.
type ModelConfig struct {
	Volatility   float64 `mapstructure:"volatility"`     // input vol, not market-implied
	RiskFreeRate float64 `mapstructure:"risk_free_rate"` // annual, continuous compounding
}

// OutputConfig holds artifact and rendering configuration.
type OutputConfig struct {
	ArtifactDir  string `mapstructure:"artifact_dir"`
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Credentials holds API credentials.
type Credentials struct {
	Angel AngelCredentials `mapstructure:"angel"`
}

// AngelCredentials holds Angel One SmartAPI credentials.
type AngelCredentials struct {
	APIKey     string `mapstructure:"api_key"`
	ClientID   string `mapstructure:"client_id"`
	MPIN       string `mapstructure:"mpin"`
	TOTPSecret string `mapstructure:"totp_secret"`
}

// Complete reports whether all four credential fields are present.
func (c AngelCredentials) Complete() bool {
	return c.APIKey != "" && c.ClientID != "" && c.MPIN != "" && c.TOTPSecret != ""
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/optitrade"
	}
	return filepath.Join(home, ".config", "optitrade")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	// Load main config
	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// Load credentials
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setMarketDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template and continue with defaults
			if terr := createTemplateConfig(configDir); terr != nil {
				return terr
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setMarketDefaults(v *viper.Viper) {
	v.SetDefault("market.underlying", "NIFTY")
	v.SetDefault("market.spot_symbol", "Nifty 50")
	v.SetDefault("market.spot_token", "99926000")
	v.SetDefault("market.spot_exchange", "NSE")
	v.SetDefault("market.chain_exchange", "NFO")
	v.SetDefault("market.strike_step", 50.0)
	v.SetDefault("market.resolve_band", 500.0)
	v.SetDefault("market.default_spot", 24000.0)
	v.SetDefault("market.lot_size", 50)
	v.SetDefault("market.session_ttl", time.Hour)
	v.SetDefault("model.volatility", 0.18)
	v.SetDefault("model.risk_free_rate", 0.065)
	v.SetDefault("output.artifact_dir", "")
	v.SetDefault("output.color_enabled", true)
	v.SetDefault("output.date_format", "02-Jan-2006")
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ANGEL_API_KEY"); v != "" {
		cfg.Credentials.Angel.APIKey = v
	}
	if v := os.Getenv("ANGEL_CLIENT_ID"); v != "" {
		cfg.Credentials.Angel.ClientID = v
	}
	if v := os.Getenv("ANGEL_MPIN"); v != "" {
		cfg.Credentials.Angel.MPIN = v
	}
	if v := os.Getenv("ANGEL_TOTP_SECRET"); v != "" {
		cfg.Credentials.Angel.TOTPSecret = v
	}
	if v := os.Getenv("OPTITRADE_ARTIFACT_DIR"); v != "" {
		cfg.Output.ArtifactDir = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Market.StrikeStep <= 0 {
		return fmt.Errorf("strike_step must be positive")
	}
	if c.Market.ResolveBand <= 0 {
		return fmt.Errorf("resolve_band must be positive")
	}
	if c.Market.DefaultSpot <= 0 {
		return fmt.Errorf("default_spot must be positive")
	}
	if c.Market.LotSize <= 0 {
		return fmt.Errorf("lot_size must be positive")
	}
	if c.Market.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.Model.Volatility <= 0 || c.Model.Volatility >= 2 {
		return fmt.Errorf("volatility must be in (0, 2)")
	}
	if c.Model.RiskFreeRate < 0 || c.Model.RiskFreeRate >= 1 {
		return fmt.Errorf("risk_free_rate must be in [0, 1)")
	}
	return nil
}
