// market/schema.go
package market

const Schema = `
CREATE TABLE IF NOT EXISTS instruments (
	symbol TEXT PRIMARY KEY,
	pip_value REAL NOT NULL CHECK (pip_value > 0),
	average_monthly_range REAL NOT NULL DEFAULT 0,
	quote_currency TEXT NOT NULL DEFAULT '',
	price_pip_factor REAL NOT NULL DEFAULT 0,
	live_symbol TEXT NOT NULL DEFAULT ''
);
`
