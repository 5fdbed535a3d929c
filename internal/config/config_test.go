package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCreatesTemplatesAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Market.Underlying != "NIFTY" {
		t.Errorf("Underlying = %s, want NIFTY", cfg.Market.Underlying)
	}
	if cfg.Market.StrikeStep != 50 {
		t.Errorf("StrikeStep = %v, want 50", cfg.Market.StrikeStep)
	}
	if cfg.Market.ResolveBand != 500 {
		t.Errorf("ResolveBand = %v, want 500", cfg.Market.ResolveBand)
	}
	if cfg.Market.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h", cfg.Market.SessionTTL)
	}
	if cfg.Model.Volatility != 0.18 || cfg.Model.RiskFreeRate != 0.065 {
		t.Errorf("model defaults = %v/%v, want 0.18/0.065", cfg.Model.Volatility, cfg.Model.RiskFreeRate)
	}

	for _, name := range []string{"config.toml", "credentials.toml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("template %s not created: %v", name, err)
		}
	}
}

func TestEnvOverridesCredentials(t *testing.T) {
	t.Setenv("ANGEL_API_KEY", "env-key")
	t.Setenv("ANGEL_CLIENT_ID", "A999")
	t.Setenv("ANGEL_MPIN", "0000")
	t.Setenv("ANGEL_TOTP_SECRET", "SEED")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Credentials.Angel.APIKey != "env-key" {
		t.Errorf("APIKey = %s, want env-key", cfg.Credentials.Angel.APIKey)
	}
	if !cfg.Credentials.Angel.Complete() {
		t.Error("Complete() = false with all env vars set")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			Market: MarketConfig{
				StrikeStep: 50, ResolveBand: 500, DefaultSpot: 24000,
				LotSize: 50, SessionTTL: time.Hour,
			},
			Model: ModelConfig{Volatility: 0.18, RiskFreeRate: 0.065},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	mutations := []func(*Config){
		func(c *Config) { c.Market.StrikeStep = 0 },
		func(c *Config) { c.Market.ResolveBand = -1 },
		func(c *Config) { c.Market.DefaultSpot = 0 },
		func(c *Config) { c.Market.LotSize = 0 },
		func(c *Config) { c.Market.SessionTTL = 0 },
		func(c *Config) { c.Model.Volatility = 0 },
		func(c *Config) { c.Model.RiskFreeRate = 1.5 },
	}
	for i, mutate := range mutations {
		cfg := base()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("mutation %d accepted, want validation error", i)
		}
	}
}

func TestCompleteRequiresAllFields(t *testing.T) {
	creds := AngelCredentials{APIKey: "k", ClientID: "c", MPIN: "m", TOTPSecret: "s"}
	if !creds.Complete() {
		t.Error("Complete() = false for full credentials")
	}
	creds.TOTPSecret = ""
	if creds.Complete() {
		t.Error("Complete() = true with missing TOTP secret")
	}
}
