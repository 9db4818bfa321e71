// Package gateway is the HTTP client for the external price feed. It
// supplies single-instrument snapshots and batch live quotes; it never
// touches ledger state, so a feed outage degrades the quote map instead
// of corrupting the session.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"papertrader/market"
)

// ErrUnavailable wraps any network, HTTP, or payload failure from the
// price feed. Callers match it with errors.Is and decide whether to
// keep serving stale quotes.
var ErrUnavailable = errors.New("price feed unavailable")

// DefaultBaseURL points at the local quote service the reference
// deployment runs alongside the account.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Client talks to the quote service's /get_prices endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a price feed client. An empty baseURL falls back to
// DefaultBaseURL; a zero timeout falls back to 30s.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// snapshotPayload is the feed's snapshot shape for a single ticker.
type snapshotPayload struct {
	Ticker string   `json:"ticker"`
	Close  *float64 `json:"close"`
	MA     *float64 `json:"ma"`
	RSI    *float64 `json:"rsi"`
}

// GetSnapshot fetches the latest close, moving average, and RSI for one
// ticker. Every failure mode maps to ErrUnavailable.
func (c *Client) GetSnapshot(ctx context.Context, ticker string) (market.Snapshot, error) {
	if ticker == "" {
		return market.Snapshot{}, fmt.Errorf("get snapshot: ticker is required")
	}

	var payload snapshotPayload
	if err := c.getPrices(ctx, []string{ticker}, &payload); err != nil {
		return market.Snapshot{}, fmt.Errorf("get snapshot %s: %w", ticker, err)
	}
	if payload.Close == nil || payload.MA == nil || payload.RSI == nil {
		c.log.Warn().Str("ticker", ticker).Msg("price feed returned incomplete snapshot")
		return market.Snapshot{}, fmt.Errorf("get snapshot %s: incomplete payload: %w", ticker, ErrUnavailable)
	}

	snap := market.Snapshot{
		Ticker: ticker,
		Close:  decimal.NewFromFloat(*payload.Close),
		MA:     decimal.NewFromFloat(*payload.MA),
		RSI:    decimal.NewFromFloat(*payload.RSI),
	}
	if payload.Ticker != "" {
		snap.Ticker = payload.Ticker
	}
	return snap, nil
}

// GetBatchQuotes fetches live prices for the given tickers. The result
// may be partial: tickers the feed does not know are simply absent from
// the map, they are never reported as zero.
func (c *Client) GetBatchQuotes(ctx context.Context, tickers []string) (market.QuoteMap, error) {
	if len(tickers) == 0 {
		return market.QuoteMap{}, nil
	}

	var payload map[string]float64
	if err := c.getPrices(ctx, tickers, &payload); err != nil {
		return nil, fmt.Errorf("get batch quotes: %w", err)
	}

	quotes := make(market.QuoteMap, len(payload))
	for ticker, price := range payload {
		quotes[ticker] = decimal.NewFromFloat(price)
	}
	return quotes, nil
}

func (c *Client) getPrices(ctx context.Context, tickers []string, out any) error {
	params := url.Values{}
	params.Set("tickers", strings.Join(tickers, ","))
	apiURL := fmt.Sprintf("%s/get_prices?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("price feed request failed")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("price feed returned error status")
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}
