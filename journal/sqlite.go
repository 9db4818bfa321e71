package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"papertrader/ledger"
)

// SQLite stores the session checkpoint in a single-file database.
// Monetary values are stored as decimal strings, never as REAL, so a
// checkpoint round-trip is exact.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) Save(state ledger.State) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO session (id, cash) VALUES (1, ?)`,
		state.Cash.String(),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM positions`); err != nil {
		return err
	}
	for _, pos := range state.Positions {
		if _, err := tx.Exec(`
			INSERT INTO positions (ticker, qty, avg_price, opened_at)
			VALUES (?, ?, ?, ?)`,
			pos.Ticker, pos.Qty, pos.AvgPrice.String(), pos.OpenedAt.UTC(),
		); err != nil {
			return err
		}
	}

	// History is append-only, so replacing by trade ID is idempotent.
	for _, rec := range state.History {
		var pnl any
		if rec.PnL != nil {
			pnl = rec.PnL.String()
		}
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO trades
			(trade_id, time, ticker, action, qty, price, commission, signal, pnl, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Time.UTC(), rec.Ticker, string(rec.Action), rec.Qty,
			rec.Price.String(), rec.Commission.String(), rec.Signal, pnl, rec.Notes,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (j *SQLite) Load() (ledger.State, bool, error) {
	var cashStr string
	err := j.db.QueryRow(`SELECT cash FROM session WHERE id = 1`).Scan(&cashStr)
	if err == sql.ErrNoRows {
		return ledger.State{}, false, nil
	}
	if err != nil {
		return ledger.State{}, false, err
	}

	cash, err := decimal.NewFromString(cashStr)
	if err != nil {
		return ledger.State{}, false, fmt.Errorf("load session cash: %w", err)
	}

	state := ledger.NewState(cash)

	if err := j.loadPositions(&state); err != nil {
		return ledger.State{}, false, err
	}
	if err := j.loadTrades(&state); err != nil {
		return ledger.State{}, false, err
	}
	return state, true, nil
}

func (j *SQLite) loadPositions(state *ledger.State) error {
	rows, err := j.db.Query(`SELECT ticker, qty, avg_price, opened_at FROM positions`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pos      ledger.Position
			avgStr   string
			openedAt time.Time
		)
		if err := rows.Scan(&pos.Ticker, &pos.Qty, &avgStr, &openedAt); err != nil {
			return err
		}
		if pos.AvgPrice, err = decimal.NewFromString(avgStr); err != nil {
			return fmt.Errorf("load position %s: %w", pos.Ticker, err)
		}
		pos.OpenedAt = openedAt
		state.Positions[pos.Ticker] = pos
	}
	return rows.Err()
}

func (j *SQLite) loadTrades(state *ledger.State) error {
	// ULIDs sort by creation time, so trade_id order is history order.
	rows, err := j.db.Query(`
		SELECT trade_id, time, ticker, action, qty, price, commission, signal, pnl, notes
		FROM trades
		ORDER BY trade_id ASC`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec                     ledger.Record
			action                  string
			priceStr, commissionStr string
			pnlStr                  sql.NullString
		)
		if err := rows.Scan(
			&rec.ID, &rec.Time, &rec.Ticker, &action, &rec.Qty,
			&priceStr, &commissionStr, &rec.Signal, &pnlStr, &rec.Notes,
		); err != nil {
			return err
		}
		rec.Action = ledger.Action(action)
		if rec.Price, err = decimal.NewFromString(priceStr); err != nil {
			return fmt.Errorf("load trade %s price: %w", rec.ID, err)
		}
		if rec.Commission, err = decimal.NewFromString(commissionStr); err != nil {
			return fmt.Errorf("load trade %s commission: %w", rec.ID, err)
		}
		if pnlStr.Valid {
			pnl, err := decimal.NewFromString(pnlStr.String)
			if err != nil {
				return fmt.Errorf("load trade %s pnl: %w", rec.ID, err)
			}
			rec.PnL = &pnl
		}
		state.History = append(state.History, rec)
	}
	return rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
