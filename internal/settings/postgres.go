package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garrettladley/cheevo/internal/migrations"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore stages writes and applies them as one pgx batch inside a transaction.
type PostgresStore struct {
	pool *pgxpool.Pool

	mu      sync.Mutex
	pending staged
}

func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := migrations.ApplyPostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, section string, key string) (string, error) {
	s.mu.Lock()
	c, ok := s.pending.get(section, key)
	s.mu.Unlock()
	if ok {
		if c.deleted {
			return "", ErrNotFound
		}
		return c.value, nil
	}

	var value string
	err := s.pool.QueryRow(ctx, "SELECT value FROM settings WHERE section = $1 AND key = $2", section, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s/%s: %w", section, key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(_ context.Context, section string, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.put(change{section: section, key: key, value: value})
	return nil
}

func (s *PostgresStore) Delete(_ context.Context, section string, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.put(change{section: section, key: key, deleted: true})
	return nil
}

func (s *PostgresStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	changes := s.pending.drain()
	s.mu.Unlock()
	if len(changes) == 0 {
		return nil
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, c := range changes {
			if c.deleted {
				batch.Queue("DELETE FROM settings WHERE section = $1 AND key = $2", c.section, c.key)
				continue
			}
			batch.Queue(`
				INSERT INTO settings (section, key, value, updated_at) VALUES ($1, $2, $3, NOW())
				ON CONFLICT (section, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
				c.section, c.key, c.value)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		s.mu.Lock()
		s.pending.restore(changes)
		s.mu.Unlock()
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
