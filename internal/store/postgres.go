package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/zag-shortener/internal/shortener"
)

// PoolProvider hands out the shared connection pool once it is available.
// Errors from Pool are already *shortener.StoreError values.
type PoolProvider interface {
	Pool() (*pgxpool.Pool, error)
}

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	db PoolProvider
}

// NewPostgresStore creates a new PostgreSQL-backed mapping store.
func NewPostgresStore(db PoolProvider) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Save(ctx context.Context, mapping *shortener.Mapping) error {
	pool, err := p.db.Pool()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO short_urls (code, original_url, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO NOTHING
	`

	tag, err := pool.Exec(ctx, query,
		string(mapping.Code),
		mapping.OriginalURL,
		mapping.CreatedAt,
	)
	if err != nil {
		return shortener.NewStoreError("save", err)
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrCodeTaken
	}

	return nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	pool, err := p.db.Pool()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT code, original_url, created_at
		FROM short_urls
		WHERE code = $1
	`

	var mapping shortener.Mapping

	err = pool.QueryRow(ctx, query, string(code)).Scan(
		&mapping.Code,
		&mapping.OriginalURL,
		&mapping.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, shortener.NewStoreError("get", err)
	}

	return &mapping, nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
