// Package journal checkpoints ledger state to a durable store. Saves
// are best effort: the session applies the in-memory transition first
// and a failed checkpoint is logged, never propagated into the ledger.
package journal

import (
	"papertrader/ledger"
)

// Journal persists and restores a session's ledger state.
type Journal interface {
	// Save checkpoints the full state: cash, open positions, history.
	Save(state ledger.State) error
	// Load restores the last checkpoint. ok is false when the store
	// holds no session yet.
	Load() (state ledger.State, ok bool, err error)
	Close() error
}

// Memory is an in-process Journal used for tests and for sessions run
// with persistence disabled.
type Memory struct {
	state ledger.State
	saved bool
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Save(state ledger.State) error {
	m.state = state.Clone()
	m.saved = true
	return nil
}

func (m *Memory) Load() (ledger.State, bool, error) {
	if !m.saved {
		return ledger.State{}, false, nil
	}
	return m.state.Clone(), true, nil
}

func (m *Memory) Close() error { return nil }
