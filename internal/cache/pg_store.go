package cache

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"zh-extractor/internal/textutil"
)

const createTable = `
CREATE TABLE IF NOT EXISTS key_name_cache (
	hash       TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	name       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertName = `
INSERT INTO key_name_cache (hash, source, name)
VALUES ($1, $2, $3)
ON CONFLICT (hash) DO UPDATE SET name = EXCLUDED.name, updated_at = now()`

// PGStore keeps names in PostgreSQL so several checkouts can share them.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates the cache table if needed.
func NewPGStore(ctx context.Context, pool *pgxpool.Pool) (*PGStore, error) {
	if _, err := pool.Exec(ctx, createTable); err != nil {
		return nil, fmt.Errorf("create cache table: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) Load(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT source, name FROM key_name_cache`)
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var source, name string
		if err := rows.Scan(&source, &name); err != nil {
			return nil, fmt.Errorf("scan cache row: %w", err)
		}
		entries[source] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read cache rows: %w", err)
	}
	return entries, nil
}

func (s *PGStore) Put(ctx context.Context, key, name string) error {
	if _, err := s.pool.Exec(ctx, upsertName, textutil.Hash(key), key, name); err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

// Flush is a no-op; every Put is written immediately.
func (s *PGStore) Flush(context.Context) error {
	return nil
}
