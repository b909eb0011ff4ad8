package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a Postgres-backed ports.KeyValueStore. Every row is scoped so
// session state and shared state live in the same table without colliding.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Postgres KV store on the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get returns the value for key within scope and whether it exists.
func (s *Store) Get(ctx context.Context, scope, key string) (string, bool, error) {
	query := `
		SELECT value
		FROM currency_kv_store
		WHERE scope = $1 AND key = $2;
	`
	var value string
	err := s.pool.QueryRow(ctx, query, scope, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key %s/%s: %w", scope, key, err)
	}
	return value, true, nil
}

// Set upserts the value for key within scope.
func (s *Store) Set(ctx context.Context, scope, key, value string) error {
	query := `
		INSERT INTO currency_kv_store (scope, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scope, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;
	`
	_, err := s.pool.Exec(ctx, query, scope, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write key %s/%s: %w", scope, key, err)
	}
	return nil
}

// Remove deletes the key within scope. Removing an absent key is a no-op.
func (s *Store) Remove(ctx context.Context, scope, key string) error {
	query := `
		DELETE FROM currency_kv_store
		WHERE scope = $1 AND key = $2;
	`
	_, err := s.pool.Exec(ctx, query, scope, key)
	if err != nil {
		return fmt.Errorf("failed to remove key %s/%s: %w", scope, key, err)
	}
	return nil
}
