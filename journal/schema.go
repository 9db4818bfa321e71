// journal/schema.go
package journal

const schema = `
CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	cash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS positions (
	ticker TEXT PRIMARY KEY,
	qty INTEGER NOT NULL,
	avg_price TEXT NOT NULL,
	opened_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	ticker TEXT NOT NULL,
	action TEXT NOT NULL,
	qty INTEGER NOT NULL,
	price TEXT NOT NULL,
	commission TEXT NOT NULL,
	signal TEXT NOT NULL,
	pnl TEXT,
	notes TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);
`
