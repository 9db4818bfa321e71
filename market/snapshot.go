// Package market defines the quoted-price types shared by the signal,
// ledger, and gateway packages.
package market

import (
	"github.com/shopspring/decimal"
)

// Snapshot is a single quoted view of an instrument as returned by the
// price feed: last close, its 9-day moving average, and 14-day RSI.
// Snapshots are immutable; one is produced per quote request.
type Snapshot struct {
	Ticker string          `json:"ticker"`
	Close  decimal.Decimal `json:"close"`
	MA     decimal.Decimal `json:"ma"`
	RSI    decimal.Decimal `json:"rsi"`
}

// QuoteMap maps ticker -> last traded price. Tickers absent from the map
// are unknown, not zero-priced.
type QuoteMap map[string]decimal.Decimal

// Get returns the live price for ticker and whether one is known.
func (q QuoteMap) Get(ticker string) (decimal.Decimal, bool) {
	p, ok := q[ticker]
	return p, ok
}

// Clone returns an independent copy of the quote map.
func (q QuoteMap) Clone() QuoteMap {
	out := make(QuoteMap, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}
