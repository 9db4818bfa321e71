// Package session wires the price feed, ledger, and journal into one
// single-user trading session. Every buy/exit is a single atomic state
// transition; checkpointing and quote refresh are best-effort side
// channels that can fail without disturbing the ledger.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"papertrader/analytics"
	"papertrader/journal"
	"papertrader/ledger"
	"papertrader/market"
	"papertrader/signal"
)

// ErrNoBuySignal rejects a buy attempted against a snapshot whose
// verdict is not Buy.
var ErrNoBuySignal = errors.New("snapshot does not signal a buy")

// PriceFeed supplies snapshots and batch live quotes. The gateway
// package provides the HTTP implementation.
type PriceFeed interface {
	GetSnapshot(ctx context.Context, ticker string) (market.Snapshot, error)
	GetBatchQuotes(ctx context.Context, tickers []string) (market.QuoteMap, error)
}

// Session owns one ledger state and the latest live-quote map.
type Session struct {
	mu      sync.Mutex
	ledger  *ledger.Ledger
	state   ledger.State
	quotes  market.QuoteMap
	feed    PriceFeed
	journal journal.Journal
	initial decimal.Decimal
	log     zerolog.Logger
}

// New builds a session with the given starting capital, restoring the
// journal's last checkpoint when one exists. The initial capital is
// remembered independently of any restored cash balance; drawdown
// replay depends on it.
func New(capital decimal.Decimal, l *ledger.Ledger, feed PriceFeed, j journal.Journal, log zerolog.Logger) (*Session, error) {
	state := ledger.NewState(capital)

	if j != nil {
		restored, ok, err := j.Load()
		if err != nil {
			return nil, fmt.Errorf("restore session: %w", err)
		}
		if ok {
			state = restored
			log.Info().
				Str("cash", state.Cash.String()).
				Int("positions", len(state.Positions)).
				Int("trades", len(state.History)).
				Msg("restored session checkpoint")
		}
	}

	return &Session{
		ledger:  l,
		state:   state,
		quotes:  market.QuoteMap{},
		feed:    feed,
		journal: j,
		initial: capital,
		log:     log,
	}, nil
}

// Quote fetches a snapshot for ticker and evaluates its signal.
func (s *Session) Quote(ctx context.Context, ticker string) (market.Snapshot, signal.Signal, error) {
	snap, err := s.feed.GetSnapshot(ctx, ticker)
	if err != nil {
		return market.Snapshot{}, signal.None, err
	}
	return snap, signal.Evaluate(snap), nil
}

// Buy executes a buy against the given snapshot. The snapshot must
// evaluate to a buy signal; otherwise the session rejects the order
// before it reaches the ledger.
func (s *Session) Buy(ctx context.Context, snap market.Snapshot) (ledger.Record, error) {
	if signal.Evaluate(snap) != signal.Buy {
		return ledger.Record{}, fmt.Errorf("buy %s: %w", snap.Ticker, ErrNoBuySignal)
	}

	s.mu.Lock()
	next, rec, err := s.ledger.Buy(s.state, snap)
	if err != nil {
		s.mu.Unlock()
		return ledger.Record{}, fmt.Errorf("buy %s: %w", snap.Ticker, err)
	}
	s.state = next
	s.mu.Unlock()

	s.log.Info().
		Str("ticker", rec.Ticker).
		Int64("qty", rec.Qty).
		Str("price", rec.Price.String()).
		Msg("bought")

	s.checkpoint()
	s.refreshQuotes(ctx)
	return rec, nil
}

// Exit closes the whole position for ticker at the explicitly supplied
// price.
func (s *Session) Exit(ctx context.Context, ticker string, price decimal.Decimal) (ledger.Record, error) {
	s.mu.Lock()
	next, rec, err := s.ledger.Exit(s.state, ticker, price)
	if err != nil {
		s.mu.Unlock()
		return ledger.Record{}, fmt.Errorf("exit %s: %w", ticker, err)
	}
	s.state = next
	s.mu.Unlock()

	s.log.Info().
		Str("ticker", rec.Ticker).
		Int64("qty", rec.Qty).
		Str("price", rec.Price.String()).
		Str("pnl", rec.PnL.String()).
		Msg("exited")

	s.checkpoint()
	s.refreshQuotes(ctx)
	return rec, nil
}

// ExitAtMarket fetches a fresh snapshot for ticker and exits at its
// close, so the settle price always belongs to the instrument being
// exited.
func (s *Session) ExitAtMarket(ctx context.Context, ticker string) (ledger.Record, error) {
	snap, err := s.feed.GetSnapshot(ctx, ticker)
	if err != nil {
		return ledger.Record{}, fmt.Errorf("exit %s: %w", ticker, err)
	}
	return s.Exit(ctx, ticker, snap.Close)
}

// RefreshQuotes fetches live prices for every open position. On failure
// the previous quote map stays in place and the error is returned.
func (s *Session) RefreshQuotes(ctx context.Context) error {
	s.mu.Lock()
	tickers := s.state.Tickers()
	s.mu.Unlock()

	if len(tickers) == 0 {
		return nil
	}

	quotes, err := s.feed.GetBatchQuotes(ctx, tickers)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.quotes = quotes
	s.mu.Unlock()
	return nil
}

// refreshQuotes is the best-effort variant used after a mutation.
func (s *Session) refreshQuotes(ctx context.Context) {
	if err := s.RefreshQuotes(ctx); err != nil {
		s.log.Warn().Err(err).Msg("quote refresh failed, keeping previous prices")
	}
}

// checkpoint saves the current state. A failed save is logged and
// swallowed: persistence never blocks or fails the in-memory
// transition.
func (s *Session) checkpoint() {
	if s.journal == nil {
		return
	}
	s.mu.Lock()
	state := s.state.Clone()
	s.mu.Unlock()

	if err := s.journal.Save(state); err != nil {
		s.log.Warn().Err(err).Msg("checkpoint failed")
	}
}

// State returns a copy of the current ledger state.
func (s *Session) State() ledger.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Quotes returns a copy of the latest live-quote map.
func (s *Session) Quotes() market.QuoteMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quotes.Clone()
}

// InitialCapital returns the capital the session was configured with.
func (s *Session) InitialCapital() decimal.Decimal {
	return s.initial
}

// Metrics computes the analytics summary over the current state and
// quote map.
func (s *Session) Metrics() analytics.Summary {
	s.mu.Lock()
	state := s.state.Clone()
	quotes := s.quotes.Clone()
	s.mu.Unlock()
	return analytics.Summarize(state, quotes, s.initial)
}
