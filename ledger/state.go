// Package ledger is the bookkeeping core: it owns the virtual cash
// balance, the open-position set, and the append-only trade history, and
// applies buy/exit transitions against them.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action marks a trade record as an entry or a whole-position exit.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionExit Action = "Exit"
)

// Position is one open holding. At most one Position per ticker exists;
// repeat buys merge into it at weighted-average cost.
type Position struct {
	Ticker   string
	Qty      int64
	AvgPrice decimal.Decimal
	OpenedAt time.Time
}

// Record is one immutable entry in the trade history. PnL is nil for
// buys and set for exits. Records are appended in order of occurrence
// and never mutated afterwards.
type Record struct {
	ID         string
	Time       time.Time
	Ticker     string
	Action     Action
	Qty        int64
	Price      decimal.Decimal
	Commission decimal.Decimal
	Signal     string
	PnL        *decimal.Decimal
	Notes      string
}

// State is the full ledger state for one session. It is a value: the
// Buy and Exit operations return a new State and never mutate their
// input, so a rejected operation leaves the caller's copy untouched.
type State struct {
	Cash      decimal.Decimal
	Positions map[string]Position
	History   []Record
}

// NewState returns an empty ledger holding the starting capital.
func NewState(capital decimal.Decimal) State {
	return State{
		Cash:      capital,
		Positions: make(map[string]Position),
		History:   nil,
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	positions := make(map[string]Position, len(s.Positions))
	for k, v := range s.Positions {
		positions[k] = v
	}
	history := make([]Record, len(s.History))
	copy(history, s.History)
	return State{Cash: s.Cash, Positions: positions, History: history}
}

// Position returns the open position for ticker, if any.
func (s State) Position(ticker string) (Position, bool) {
	p, ok := s.Positions[ticker]
	return p, ok
}

// Tickers lists the tickers with an open position.
func (s State) Tickers() []string {
	out := make([]string, 0, len(s.Positions))
	for t := range s.Positions {
		out = append(out, t)
	}
	return out
}
