package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zerolog.Nop())
}

func TestGetSnapshot(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_prices", r.URL.Path)
		assert.Equal(t, "RELIANCE.NS", r.URL.Query().Get("tickers"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ticker":"RELIANCE.NS","close":2850.5,"ma":2800.25,"rsi":28.4}`))
	})

	snap, err := c.GetSnapshot(context.Background(), "RELIANCE.NS")
	require.NoError(t, err)

	assert.Equal(t, "RELIANCE.NS", snap.Ticker)
	assert.True(t, snap.Close.Equal(decimal.NewFromFloat(2850.5)))
	assert.True(t, snap.MA.Equal(decimal.NewFromFloat(2800.25)))
	assert.True(t, snap.RSI.Equal(decimal.NewFromFloat(28.4)))
}

func TestGetSnapshotServerError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.GetSnapshot(context.Background(), "RELIANCE.NS")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetSnapshotIncompletePayload(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ticker":"RELIANCE.NS"}`))
	})

	_, err := c.GetSnapshot(context.Background(), "RELIANCE.NS")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetSnapshotNetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // connection refused from here on

	c := NewClient(url, time.Second, zerolog.Nop())
	_, err := c.GetSnapshot(context.Background(), "RELIANCE.NS")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetBatchQuotes(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "INFY.NS,TCS.NS", r.URL.Query().Get("tickers"))
		// Partial result: TCS.NS is unknown to the feed.
		w.Write([]byte(`{"INFY.NS":1520.75}`))
	})

	quotes, err := c.GetBatchQuotes(context.Background(), []string{"INFY.NS", "TCS.NS"})
	require.NoError(t, err)

	price, ok := quotes.Get("INFY.NS")
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromFloat(1520.75)))

	_, ok = quotes.Get("TCS.NS")
	assert.False(t, ok, "missing ticker must stay absent, not zero")
}

func TestGetBatchQuotesEmptyInput(t *testing.T) {
	t.Parallel()

	c := NewClient("http://127.0.0.1:1", time.Second, zerolog.Nop())
	quotes, err := c.GetBatchQuotes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}
