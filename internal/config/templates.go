package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# OptiTrade Configuration

[market]
# Tracked underlying and its NSE index token
underlying = "NIFTY"
spot_symbol = "Nifty 50"
spot_token = "99926000"
spot_exchange = "NSE"
chain_exchange = "NFO"
# Strike increment of the option chain
strike_step = 50.0
# Half-width of the strike band resolved around ATM
resolve_band = 500.0
# Spot used when the live fetch fails
default_spot = 24000.0
# Contract lot size
lot_size = 50
# Broker session validity window
session_ttl = "1h"

[model]
# Input volatility for pricing (not market-implied)
volatility = 0.18
# Annual risk-free rate, continuous compounding
risk_free_rate = 0.065

[output]
# Directory for per-run JSON/CSV artifacts ("" = ./runs)
artifact_dir = ""
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
`

const credentialsTemplate = `# OptiTrade Credentials
# Keep this file private (chmod 600).

[angel]
api_key = ""
client_id = ""
mpin = ""
totp_secret = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Restricted permissions, the file will hold secrets
	return os.WriteFile(path, []byte(credentialsTemplate), 0600)
}
