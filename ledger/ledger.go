package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"papertrader/market"
	"papertrader/pkg/id"
)

// Params configure the sizing and cost rules applied to every trade.
type Params struct {
	// InvestFraction is the share of current cash deployed per buy.
	InvestFraction decimal.Decimal
	// Commission is the flat fee charged on every trade.
	Commission decimal.Decimal
	// MinNotional is the smallest allowed quantity*price per buy.
	MinNotional decimal.Decimal
}

// DefaultParams mirrors the reference account rules: 20% of cash per
// buy, flat 20 commission, 1000 minimum notional.
func DefaultParams() Params {
	return Params{
		InvestFraction: decimal.NewFromFloat(0.20),
		Commission:     decimal.NewFromInt(20),
		MinNotional:    decimal.NewFromInt(1000),
	}
}

// Ledger applies buy and exit transitions to a State under a fixed set
// of Params. It holds no session state itself.
type Ledger struct {
	params Params
	now    func() time.Time
	newID  func() string
}

// Option overrides a Ledger collaborator, mainly for tests.
type Option func(*Ledger)

// WithClock substitutes the wall clock used to stamp positions and
// records.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDSource substitutes the trade record ID generator.
func WithIDSource(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

func New(params Params, opts ...Option) *Ledger {
	l := &Ledger{
		params: params,
		now:    time.Now,
		newID:  id.New,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Params returns the sizing rules the ledger was built with.
func (l *Ledger) Params() Params { return l.params }

// Buy sizes and executes a simulated buy of snap.Ticker at snap.Close.
//
// The investable amount is InvestFraction of current cash; quantity is
// the floor of investable/close. The buy is rejected with
// ErrInsufficientSize when quantity*close is under MinNotional and with
// ErrInsufficientCapital when quantity*close+commission exceeds cash.
// On rejection the input state is returned unchanged.
//
// A buy into an existing position merges at weighted-average cost and
// refreshes OpenedAt to the time of this buy, restarting holding-period
// tracking on every top-up. That matches the reference account and is
// intentional.
//
// Callers are expected to invoke Buy only when the snapshot evaluates
// to a buy signal; Buy itself does not re-check the verdict.
func (l *Ledger) Buy(state State, snap market.Snapshot) (State, Record, error) {
	investable := state.Cash.Mul(l.params.InvestFraction)
	qty := investable.Div(snap.Close).IntPart()
	notional := snap.Close.Mul(decimal.NewFromInt(qty))

	if notional.LessThan(l.params.MinNotional) {
		return state, Record{}, ErrInsufficientSize
	}

	cost := notional.Add(l.params.Commission)
	if cost.GreaterThan(state.Cash) {
		return state, Record{}, ErrInsufficientCapital
	}

	now := l.now()
	next := state.Clone()

	if pos, ok := next.Positions[snap.Ticker]; ok {
		mergedQty := pos.Qty + qty
		totalCost := pos.AvgPrice.Mul(decimal.NewFromInt(pos.Qty)).Add(notional)
		pos.Qty = mergedQty
		pos.AvgPrice = totalCost.Div(decimal.NewFromInt(mergedQty))
		pos.OpenedAt = now
		next.Positions[snap.Ticker] = pos
	} else {
		next.Positions[snap.Ticker] = Position{
			Ticker:   snap.Ticker,
			Qty:      qty,
			AvgPrice: snap.Close,
			OpenedAt: now,
		}
	}

	next.Cash = next.Cash.Sub(cost)

	rec := Record{
		ID:         l.newID(),
		Time:       now,
		Ticker:     snap.Ticker,
		Action:     ActionBuy,
		Qty:        qty,
		Price:      snap.Close,
		Commission: l.params.Commission,
		Signal:     "BUY",
		Notes:      "Bought based on signal",
	}
	next.History = append(next.History, rec)

	return next, rec, nil
}

// Exit closes the whole position for ticker at the given price. The
// price must be a quote for this ticker supplied explicitly by the
// caller; Exit never reads an ambient "last fetched" snapshot, so an
// exit can never settle against another instrument's price.
//
// Realized P&L is (price-avgPrice)*qty-commission and the cash balance
// is credited price*qty-commission. Partial exits are not supported.
// ErrNoSuchPosition is returned, with the state unchanged, when no
// position is open for ticker.
func (l *Ledger) Exit(state State, ticker string, price decimal.Decimal) (State, Record, error) {
	pos, ok := state.Positions[ticker]
	if !ok {
		return state, Record{}, ErrNoSuchPosition
	}

	qty := decimal.NewFromInt(pos.Qty)
	pnl := price.Sub(pos.AvgPrice).Mul(qty).Sub(l.params.Commission)
	credit := price.Mul(qty).Sub(l.params.Commission)

	next := state.Clone()
	next.Cash = next.Cash.Add(credit)
	delete(next.Positions, ticker)

	rec := Record{
		ID:         l.newID(),
		Time:       l.now(),
		Ticker:     ticker,
		Action:     ActionExit,
		Qty:        pos.Qty,
		Price:      price,
		Commission: l.params.Commission,
		Signal:     "SELL",
		PnL:        &pnl,
		Notes:      "Exited manually",
	}
	next.History = append(next.History, rec)

	return next, rec, nil
}
