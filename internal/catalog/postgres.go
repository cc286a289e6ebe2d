package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore serves the catalog from Postgres for deployments that
// already keep product data there.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to the given DSN and ensures the schema exists.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		currency    TEXT NOT NULL DEFAULT 'PEN',
		price       DOUBLE PRECISION NOT NULL DEFAULT 0,
		family      TEXT NOT NULL DEFAULT '',
		subfamily   TEXT NOT NULL DEFAULT '',
		min_stock   INT NOT NULL DEFAULT 0,
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		photo_url   TEXT NOT NULL DEFAULT ''
	)`)
	return err
}

// Search implements Store.
func (s *PostgresStore) Search(ctx context.Context, term string, limit int) ([]Product, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, currency, price, family, subfamily, min_stock, active, photo_url
		FROM products
		WHERE active
		  AND (
		        lower(name)        LIKE $1
		     OR lower(description) LIKE $1
		     OR lower(family)      LIKE $1
		     OR lower(subfamily)   LIKE $1
		  )
		ORDER BY name
		LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Insert adds or replaces one product row.
func (s *PostgresStore) Insert(ctx context.Context, p Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products(id, name, description, currency, price, family, subfamily, min_stock, active, photo_url)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			name=excluded.name, description=excluded.description, currency=excluded.currency,
			price=excluded.price, family=excluded.family, subfamily=excluded.subfamily,
			min_stock=excluded.min_stock, active=excluded.active, photo_url=excluded.photo_url`,
		p.ID, p.Name, p.Description, p.Currency, p.Price, p.Family, p.Subfamily, p.MinStock, p.Active, p.PhotoURL)
	return err
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
