// Package config loads and validates the session configuration from a
// YAML or JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"papertrader/market"
)

// Config represents the complete session configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Trading TradingConfig `json:"trading" yaml:"trading"`
	Gateway GatewayConfig `json:"gateway" yaml:"gateway"`
	Journal JournalConfig `json:"journal" yaml:"journal"`

	// Universe is the list of tradable tickers offered by the CLI.
	Universe []string `json:"universe" yaml:"universe"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Capital  float64 `json:"capital" yaml:"capital"`
}

// TradingConfig contains the sizing and cost rules.
type TradingConfig struct {
	InvestFraction float64 `json:"invest_fraction" yaml:"invest_fraction"`
	Commission     float64 `json:"commission" yaml:"commission"`
	MinNotional    float64 `json:"min_notional" yaml:"min_notional"`
}

// GatewayConfig points at the price feed service.
type GatewayConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	Timeout string `json:"timeout" yaml:"timeout"` // e.g. "30s"
}

// ParseTimeout converts the timeout string to a time.Duration.
func (g GatewayConfig) ParseTimeout() (time.Duration, error) {
	if g.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(g.Timeout)
}

// JournalConfig selects the checkpoint store.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite" or "none"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", jsonErr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML or JSON by extension).
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Capital <= 0 {
		return fmt.Errorf("account.capital must be positive")
	}
	if c.Trading.InvestFraction <= 0 || c.Trading.InvestFraction > 1 {
		return fmt.Errorf("trading.invest_fraction must be in (0, 1]")
	}
	if c.Trading.Commission < 0 {
		return fmt.Errorf("trading.commission must not be negative")
	}
	if c.Trading.MinNotional <= 0 {
		return fmt.Errorf("trading.min_notional must be positive")
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url is required")
	}
	if _, err := c.Gateway.ParseTimeout(); err != nil {
		return fmt.Errorf("gateway.timeout: %w", err)
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'sqlite' or 'none'")
	}
	if len(c.Universe) == 0 {
		return fmt.Errorf("universe must list at least one ticker")
	}
	return nil
}

// Default returns a configuration with the reference account defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "PAPER-001",
			Currency: "INR",
			Capital:  100000,
		},
		Trading: TradingConfig{
			InvestFraction: 0.20,
			Commission:     20,
			MinNotional:    1000,
		},
		Gateway: GatewayConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: "30s",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./papertrader.db",
		},
		Universe: market.NiftyFifty,
		LogLevel: "info",
	}
}
