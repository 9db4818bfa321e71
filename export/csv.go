// Package export renders read-only views of the session as CSV: the
// open portfolio, the trade history, and the metrics summary. It only
// formats; all numbers are computed by the ledger and analytics
// packages.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"papertrader/analytics"
	"papertrader/ledger"
	"papertrader/market"
)

const undefined = "-"

// WritePortfolio writes one row per open position: current price falls
// back to the average price when no live quote is known, and days held
// counts from the position's OpenedAt (which top-up buys reset).
func WritePortfolio(w io.Writer, state ledger.State, quotes market.QuoteMap, now time.Time) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{
		"Ticker", "Quantity", "Average Price", "Current Price", "P&L", "Return %", "Days Held",
	}); err != nil {
		return err
	}

	tickers := state.Tickers()
	sort.Strings(tickers)

	for _, ticker := range tickers {
		pos := state.Positions[ticker]
		price, ok := quotes.Get(ticker)
		if !ok {
			price = pos.AvgPrice
		}

		qty := decimal.NewFromInt(pos.Qty)
		pnl := price.Sub(pos.AvgPrice).Mul(qty)
		ret := price.Sub(pos.AvgPrice).Div(pos.AvgPrice).Mul(decimal.NewFromInt(100))
		days := int(now.Sub(pos.OpenedAt).Hours() / 24)

		if err := cw.Write([]string{
			pos.Ticker,
			strconv.FormatInt(pos.Qty, 10),
			pos.AvgPrice.StringFixed(2),
			price.StringFixed(2),
			pnl.StringFixed(2),
			ret.StringFixed(2),
			strconv.Itoa(days),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTradeHistory writes the full trade log in order of occurrence.
func WriteTradeHistory(w io.Writer, history []ledger.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{
		"Date", "Ticker", "Action", "Quantity", "Price", "Commission", "Signal", "P&L", "Notes",
	}); err != nil {
		return err
	}

	for _, rec := range history {
		pnl := undefined
		if rec.PnL != nil {
			pnl = rec.PnL.StringFixed(2)
		}
		if err := cw.Write([]string{
			rec.Time.Format(time.RFC3339),
			rec.Ticker,
			string(rec.Action),
			strconv.FormatInt(rec.Qty, 10),
			rec.Price.StringFixed(2),
			rec.Commission.StringFixed(2),
			rec.Signal,
			pnl,
			rec.Notes,
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMetrics writes the metrics summary as a single CSV row.
// Undefined metrics render as "-".
func WriteMetrics(w io.Writer, sum analytics.Summary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{
		"Total Portfolio Value", "Realized P&L", "Unrealized P&L",
		"Win Rate", "Sharpe Ratio", "Max Drawdown", "Best Stock", "Worst Stock",
	}); err != nil {
		return err
	}

	if err := cw.Write([]string{
		sum.TotalValue.StringFixed(2),
		sum.RealizedPnL.StringFixed(2),
		sum.UnrealizedPnL.StringFixed(2),
		FormatPercent(sum.WinRate, sum.HasWinRate),
		FormatRatio(sum.Sharpe, sum.HasSharpe),
		FormatPercent(sum.MaxDrawdown, true),
		FormatStock(sum.Best, sum.HasBest),
		FormatStock(sum.Worst, sum.HasWorst),
	}); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// FormatPercent renders a percentage metric, "-" when undefined.
func FormatPercent(v float64, ok bool) string {
	if !ok {
		return undefined
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatRatio renders a bare ratio metric, "-" when undefined.
func FormatRatio(v float64, ok bool) string {
	if !ok {
		return undefined
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatStock renders a best/worst entry as "TICKER (pnl)".
func FormatStock(s analytics.StockPnL, ok bool) string {
	if !ok {
		return undefined
	}
	return fmt.Sprintf("%s (%s)", s.Ticker, s.PnL.StringFixed(2))
}
