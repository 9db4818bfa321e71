package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrader/analytics"
	"papertrader/ledger"
	"papertrader/market"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func readCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWritePortfolio(t *testing.T) {
	t.Parallel()

	openedAt := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	now := openedAt.Add(72 * time.Hour)

	state := ledger.NewState(dec("79980"))
	state.Positions["TICKER.NS"] = ledger.Position{
		Ticker:   "TICKER.NS",
		Qty:      40,
		AvgPrice: dec("500"),
		OpenedAt: openedAt,
	}
	quotes := market.QuoteMap{"TICKER.NS": dec("550")}

	var buf bytes.Buffer
	require.NoError(t, WritePortfolio(&buf, state, quotes, now))

	rows := readCSV(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"Ticker", "Quantity", "Average Price", "Current Price", "P&L", "Return %", "Days Held",
	}, rows[0])
	assert.Equal(t, []string{
		"TICKER.NS", "40", "500.00", "550.00", "2000.00", "10.00", "3",
	}, rows[1])
}

func TestWritePortfolioMissingQuoteFallsBack(t *testing.T) {
	t.Parallel()

	state := ledger.NewState(dec("80000"))
	state.Positions["A.NS"] = ledger.Position{
		Ticker:   "A.NS",
		Qty:      10,
		AvgPrice: dec("100"),
		OpenedAt: time.Now(),
	}

	var buf bytes.Buffer
	require.NoError(t, WritePortfolio(&buf, state, market.QuoteMap{}, time.Now()))

	rows := readCSV(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, "100.00", rows[1][3], "current price falls back to avg")
	assert.Equal(t, "0.00", rows[1][4])
}

func TestWriteTradeHistory(t *testing.T) {
	t.Parallel()

	pnl := dec("3980")
	history := []ledger.Record{
		{
			Time:       time.Date(2025, 6, 2, 9, 31, 0, 0, time.UTC),
			Ticker:     "TICKER.NS",
			Action:     ledger.ActionBuy,
			Qty:        40,
			Price:      dec("500"),
			Commission: dec("20"),
			Signal:     "BUY",
			Notes:      "Bought based on signal",
		},
		{
			Time:       time.Date(2025, 6, 3, 9, 31, 0, 0, time.UTC),
			Ticker:     "TICKER.NS",
			Action:     ledger.ActionExit,
			Qty:        40,
			Price:      dec("600"),
			Commission: dec("20"),
			Signal:     "SELL",
			PnL:        &pnl,
			Notes:      "Exited manually",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTradeHistory(&buf, history))

	rows := readCSV(t, &buf)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"Date", "Ticker", "Action", "Quantity", "Price", "Commission", "Signal", "P&L", "Notes",
	}, rows[0])
	assert.Equal(t, "-", rows[1][7], "buy rows have no P&L")
	assert.Equal(t, "3980.00", rows[2][7])
}

func TestWriteMetrics(t *testing.T) {
	t.Parallel()

	sum := analytics.Summary{
		TotalValue:    dec("103960"),
		RealizedPnL:   dec("3980"),
		UnrealizedPnL: dec("0"),
		WinRate:       100,
		HasWinRate:    true,
		MaxDrawdown:   20.02,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMetrics(&buf, sum))

	rows := readCSV(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, "103960.00", rows[1][0])
	assert.Equal(t, "100.00%", rows[1][3])
	assert.Equal(t, "-", rows[1][4], "sharpe undefined")
	assert.Equal(t, "20.02%", rows[1][5])
	assert.Equal(t, "-", rows[1][6], "no open positions")
}
