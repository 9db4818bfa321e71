package ledger

import "errors"

// Rejection errors. All are recoverable: the operation reports the
// rejection and returns the input state unchanged.
var (
	// ErrInsufficientSize rejects a buy whose notional falls below the
	// configured minimum per trade.
	ErrInsufficientSize = errors.New("trade notional below minimum")

	// ErrInsufficientCapital rejects a buy whose total cost, commission
	// included, exceeds the cash balance.
	ErrInsufficientCapital = errors.New("insufficient capital")

	// ErrNoSuchPosition rejects an exit on a ticker with no open position.
	ErrNoSuchPosition = errors.New("no open position for ticker")
)
