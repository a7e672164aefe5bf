package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoji/autoji/internal/models"
	"github.com/autoji/autoji/internal/storage"
)

const productsSchema = `
	CREATE TABLE IF NOT EXISTS products (
		asin         TEXT PRIMARY KEY,
		record       JSONB NOT NULL,
		extracted_at TIMESTAMPTZ NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

// ProductStore is the Postgres-backed implementation of
// storage.ProductStore. The full record is stored as JSONB so the schema
// follows the extractor without migrations; ASIN stays a real column for
// the upsert key.
type ProductStore struct {
	db *DB
}

func NewProductStore(db *DB) *ProductStore {
	return &ProductStore{db: db}
}

// Migrate creates the products table if it does not exist.
func (s *ProductStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, productsSchema); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

func (s *ProductStore) Add(ctx context.Context, p *models.Product) (int, error) {
	if p.ASIN == "" {
		return 0, storage.ErrMissingASIN
	}

	record, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal product: %w", err)
	}

	query := `
		INSERT INTO products (asin, record, extracted_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (asin) DO UPDATE SET
			record = EXCLUDED.record,
			extracted_at = EXCLUDED.extracted_at,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := s.db.Exec(ctx, query, p.ASIN, record, p.ExtractedAt); err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

func (s *ProductStore) List(ctx context.Context) ([]*models.Product, error) {
	rows, err := s.db.Query(ctx, `SELECT record FROM products ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		p := &models.Product{}
		if err := json.Unmarshal(record, p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (s *ProductStore) Remove(ctx context.Context, asin string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE asin = $1`, asin)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, asin)
	}
	return nil
}

func (s *ProductStore) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	return nil
}
