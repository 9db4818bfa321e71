package analytics

import (
	"github.com/shopspring/decimal"

	"papertrader/ledger"
	"papertrader/market"
)

// Summary bundles every portfolio metric computed from one consistent
// view of the ledger and quote map. Metrics that can be undefined carry
// a companion Has flag; presentation layers decide how to render the
// undefined case.
type Summary struct {
	TotalValue    decimal.Decimal
	RealizedPnL   decimal.Decimal
	UnrealizedPnL decimal.Decimal

	WinRate    float64
	HasWinRate bool

	Sharpe    float64
	HasSharpe bool

	MaxDrawdown float64

	Best     StockPnL
	HasBest  bool
	Worst    StockPnL
	HasWorst bool
}

// Summarize computes all metrics in one pass-shaped call.
func Summarize(state ledger.State, quotes market.QuoteMap, initialCapital decimal.Decimal) Summary {
	sum := Summary{
		RealizedPnL:   RealizedPnL(state),
		UnrealizedPnL: UnrealizedPnL(state, quotes),
		MaxDrawdown:   MaxDrawdown(state, initialCapital),
	}
	sum.TotalValue = state.Cash.Add(sum.UnrealizedPnL)
	sum.WinRate, sum.HasWinRate = WinRate(state)
	sum.Sharpe, sum.HasSharpe = SharpeRatio(state)
	sum.Best, sum.HasBest = BestStock(state, quotes)
	sum.Worst, sum.HasWorst = WorstStock(state, quotes)
	return sum
}
