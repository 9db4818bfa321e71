package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"papertrader/config"
	"papertrader/gateway"
	"papertrader/journal"
	"papertrader/ledger"
	"papertrader/session"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "papertrader",
	Short: "A virtual equities trading account with signal-driven paper trades",
	Long: `Papertrader simulates a single-user virtual equities trading account.

It fetches price snapshots (close, moving average, RSI) from a quote
service, derives buy/sell signals, executes simulated trades against a
virtual cash balance, and tracks positions, trade history, and
performance metrics.

Commands:
  quote      - Fetch a snapshot and show its signal
  buy        - Buy an instrument when its signal allows it
  exit       - Close an open position
  portfolio  - Show open positions
  history    - Show the trade log
  metrics    - Show portfolio performance metrics
  export     - Export portfolio, history, or metrics as CSV`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./papertrader.yaml)")
}

// loadConfig reads the configured file, falling back to defaults when
// no file is present and none was requested explicitly.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = "./papertrader.yaml"
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.LoadFromFile(path)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
}

// newSession wires gateway, ledger, and journal from the config. The
// returned closer flushes the journal.
func newSession() (*session.Session, *config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	log := newLogger(cfg.LogLevel)

	timeout, err := cfg.Gateway.ParseTimeout()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("gateway timeout: %w", err)
	}
	feed := gateway.NewClient(cfg.Gateway.BaseURL, timeout, log)

	var j journal.Journal
	switch cfg.Journal.Type {
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open journal: %w", err)
		}
	default:
		j = journal.NewMemory()
	}

	led := ledger.New(ledger.Params{
		InvestFraction: decimal.NewFromFloat(cfg.Trading.InvestFraction),
		Commission:     decimal.NewFromFloat(cfg.Trading.Commission),
		MinNotional:    decimal.NewFromFloat(cfg.Trading.MinNotional),
	})

	sess, err := session.New(decimal.NewFromFloat(cfg.Account.Capital), led, feed, j, log)
	if err != nil {
		j.Close()
		return nil, nil, nil, err
	}

	return sess, cfg, func() { _ = j.Close() }, nil
}
