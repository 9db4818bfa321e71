// Package signal derives a trade verdict from a price snapshot.
//
// The rule combines a momentum trigger (RSI) with a trend trigger
// (close vs. moving average). Buy is checked before Sell, so a snapshot
// that satisfies both resolves to Buy. Boundary values fire nothing:
// RSI of exactly 30 or 70 and close equal to the moving average are
// deliberately neutral.
package signal

import (
	"github.com/shopspring/decimal"

	"papertrader/market"
)

// Signal is the verdict for a single snapshot.
type Signal int

const (
	None Signal = iota
	Buy
	Sell
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "NONE"
	}
}

var (
	oversold   = decimal.NewFromInt(30)
	overbought = decimal.NewFromInt(70)
)

// Evaluate maps a snapshot to a Signal. It is a pure function: no state,
// no side effects.
func Evaluate(snap market.Snapshot) Signal {
	switch {
	case snap.RSI.LessThan(oversold) || snap.Close.GreaterThan(snap.MA):
		return Buy
	case snap.RSI.GreaterThan(overbought) || snap.Close.LessThan(snap.MA):
		return Sell
	}
	return None
}
