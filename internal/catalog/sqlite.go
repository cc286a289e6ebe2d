package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the catalog in a local SQLite file, like the
// productos.db this assistant grew out of.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the catalog database under dataDir and
// ensures the schema exists. Pass ":memory:" for an in-memory database
// (used by tests).
func OpenSQLite(dataDir string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if dataDir != ":memory:" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "catalog.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Single connection avoids "database is locked" errors.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		currency    TEXT NOT NULL DEFAULT 'PEN',
		price       REAL NOT NULL DEFAULT 0,
		family      TEXT NOT NULL DEFAULT '',
		subfamily   TEXT NOT NULL DEFAULT '',
		min_stock   INTEGER NOT NULL DEFAULT 0,
		active      INTEGER NOT NULL DEFAULT 1,
		photo_url   TEXT NOT NULL DEFAULT ''
	)`)
	return err
}

// Search implements Store.
func (s *SQLiteStore) Search(ctx context.Context, term string, limit int) ([]Product, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, currency, price, family, subfamily, min_stock, active, photo_url
		FROM products
		WHERE active = 1
		  AND (
		        lower(name)        LIKE ?
		     OR lower(description) LIKE ?
		     OR lower(family)      LIKE ?
		     OR lower(subfamily)   LIKE ?
		  )
		ORDER BY name
		LIMIT ?`, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Insert adds or replaces one product row. Only the seeder and tests write
// the catalog; the assistant itself never does.
func (s *SQLiteStore) Insert(ctx context.Context, p Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products(id, name, description, currency, price, family, subfamily, min_stock, active, photo_url)
		VALUES(?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, description=excluded.description, currency=excluded.currency,
			price=excluded.price, family=excluded.family, subfamily=excluded.subfamily,
			min_stock=excluded.min_stock, active=excluded.active, photo_url=excluded.photo_url`,
		p.ID, p.Name, p.Description, p.Currency, p.Price, p.Family, p.Subfamily, p.MinStock, p.Active, p.PhotoURL)
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Currency, &p.Price,
			&p.Family, &p.Subfamily, &p.MinStock, &p.Active, &p.PhotoURL); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
