package market

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store keeps an instrument table in SQLite so a desk can maintain its own
// pip values and ranges. The table is read once into a Catalog at startup.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Save upserts every instrument of the catalog in a single transaction.
func (s *Store) Save(c *Catalog) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO instruments
		(symbol, pip_value, average_monthly_range, quote_currency, price_pip_factor, live_symbol)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			pip_value = excluded.pip_value,
			average_monthly_range = excluded.average_monthly_range,
			quote_currency = excluded.quote_currency,
			price_pip_factor = excluded.price_pip_factor,
			live_symbol = excluded.live_symbol`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, in := range c.Instruments() {
		if _, err := stmt.Exec(in.Symbol, in.PipValue, in.AverageMonthlyRange,
			in.QuoteCurrency, in.PricePipFactor, in.LiveSymbol); err != nil {
			tx.Rollback()
			return fmt.Errorf("save %s: %w", in.Symbol, err)
		}
	}
	return tx.Commit()
}

// Load reads the whole table and validates it into a Catalog.
func (s *Store) Load() (*Catalog, error) {
	rows, err := s.db.Query(`
		SELECT symbol, pip_value, average_monthly_range, quote_currency, price_pip_factor, live_symbol
		FROM instruments
		ORDER BY symbol ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Instrument
	for rows.Next() {
		var in Instrument
		if err := rows.Scan(
			&in.Symbol,
			&in.PipValue,
			&in.AverageMonthlyRange,
			&in.QuoteCurrency,
			&in.PricePipFactor,
			&in.LiveSymbol,
		); err != nil {
			return nil, err
		}
		list = append(list, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("instrument store is empty")
	}
	return NewCatalog(list)
}

func (s *Store) Close() error {
	return s.db.Close()
}
