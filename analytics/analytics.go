// Package analytics computes portfolio metrics from ledger state and a
// live-quote map. Every function is pure: state is read, never mutated,
// and recomputing any metric without an intervening trade yields the
// same value.
package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"papertrader/ledger"
	"papertrader/market"
)

// UnrealizedPnL sums (livePrice-avgPrice)*qty over the open positions.
// A position whose ticker has no live quote contributes zero rather
// than being marked at its average price; stale data shows up as a flat
// contribution instead of being silently hidden.
func UnrealizedPnL(state ledger.State, quotes market.QuoteMap) decimal.Decimal {
	total := decimal.Zero
	for _, pos := range state.Positions {
		price, ok := quotes.Get(pos.Ticker)
		if !ok {
			continue
		}
		total = total.Add(price.Sub(pos.AvgPrice).Mul(decimal.NewFromInt(pos.Qty)))
	}
	return total
}

// RealizedPnL sums the recorded P&L of every exit in the history.
func RealizedPnL(state ledger.State) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range state.History {
		if rec.Action == ledger.ActionExit && rec.PnL != nil {
			total = total.Add(*rec.PnL)
		}
	}
	return total
}

// TotalPortfolioValue is cash plus unrealized P&L.
func TotalPortfolioValue(state ledger.State, quotes market.QuoteMap) decimal.Decimal {
	return state.Cash.Add(UnrealizedPnL(state, quotes))
}

// StockPnL pairs an open position with its mark-to-market P&L.
type StockPnL struct {
	Ticker string
	PnL    decimal.Decimal
}

// BestStock returns the open position with the highest unrealized P&L.
// Positions without a live quote are marked at their average price,
// contributing zero. The second return is false when no positions are
// open.
func BestStock(state ledger.State, quotes market.QuoteMap) (StockPnL, bool) {
	return extremeStock(state, quotes, func(candidate, current decimal.Decimal) bool {
		return candidate.GreaterThan(current)
	})
}

// WorstStock returns the open position with the lowest unrealized P&L,
// with the same quote fallback as BestStock.
func WorstStock(state ledger.State, quotes market.QuoteMap) (StockPnL, bool) {
	return extremeStock(state, quotes, func(candidate, current decimal.Decimal) bool {
		return candidate.LessThan(current)
	})
}

func extremeStock(state ledger.State, quotes market.QuoteMap, better func(candidate, current decimal.Decimal) bool) (StockPnL, bool) {
	var best StockPnL
	found := false
	for _, pos := range state.Positions {
		price, ok := quotes.Get(pos.Ticker)
		if !ok {
			price = pos.AvgPrice
		}
		pnl := price.Sub(pos.AvgPrice).Mul(decimal.NewFromInt(pos.Qty))
		if !found || better(pnl, best.PnL) {
			best = StockPnL{Ticker: pos.Ticker, PnL: pnl}
			found = true
		}
	}
	return best, found
}

// exitPnLs collects the realized P&L of each exit, in history order.
func exitPnLs(state ledger.State) []float64 {
	var out []float64
	for _, rec := range state.History {
		if rec.Action == ledger.ActionExit && rec.PnL != nil {
			out = append(out, rec.PnL.InexactFloat64())
		}
	}
	return out
}

// SharpeRatio is mean(exit P&Ls) / sample stdev(exit P&Ls), using the
// n-1 divisor. It is undefined (ok=false) with fewer than two exits or
// a zero standard deviation.
func SharpeRatio(state ledger.State) (float64, bool) {
	pnls := exitPnLs(state)
	if len(pnls) < 2 {
		return 0, false
	}

	mean := 0.0
	for _, p := range pnls {
		mean += p
	}
	mean /= float64(len(pnls))

	variance := 0.0
	for _, p := range pnls {
		d := p - mean
		variance += d * d
	}
	variance /= float64(len(pnls) - 1)

	std := math.Sqrt(variance)
	if std == 0 {
		return 0, false
	}
	return mean / std, true
}

// WinRate is the percentage of exits with positive P&L. It is undefined
// (ok=false) when there are no exits.
func WinRate(state ledger.State) (float64, bool) {
	exits, wins := 0, 0
	for _, rec := range state.History {
		if rec.Action != ledger.ActionExit || rec.PnL == nil {
			continue
		}
		exits++
		if rec.PnL.IsPositive() {
			wins++
		}
	}
	if exits == 0 {
		return 0, false
	}
	return float64(wins) / float64(exits) * 100, true
}

// MaxDrawdown replays the trade history from the initial capital,
// debiting qty*price+commission per buy and crediting
// qty*price-commission per exit, and returns the largest peak-to-trough
// decline of that capital trajectory as a percentage.
//
// The replay is independent of the live cash balance: it must start
// from the same initial capital the ledger was created with, or the
// trajectory would not line up with the recorded trades. An empty
// history yields 0.
func MaxDrawdown(state ledger.State, initialCapital decimal.Decimal) float64 {
	current := initialCapital
	peak := initialCapital
	maxDD := 0.0

	for _, rec := range state.History {
		qty := decimal.NewFromInt(rec.Qty)
		if rec.Action == ledger.ActionBuy {
			current = current.Sub(rec.Price.Mul(qty).Add(rec.Commission))
		} else {
			current = current.Add(rec.Price.Mul(qty).Sub(rec.Commission))
		}
		if current.GreaterThan(peak) {
			peak = current
		}
		if peak.IsPositive() {
			dd, _ := peak.Sub(current).Div(peak).Float64()
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD * 100
}
