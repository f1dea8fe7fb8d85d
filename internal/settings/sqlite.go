package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/garrettladley/cheevo/internal/migrations"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore stages writes in memory and applies them in one transaction on Commit.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	pending staged
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := migrations.ApplySQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, section string, key string) (string, error) {
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
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE section = ? AND key = ?", section, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s/%s: %w", section, key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(_ context.Context, section string, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.put(change{section: section, key: key, value: value})
	return nil
}

func (s *SQLiteStore) Delete(_ context.Context, section string, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.put(change{section: section, key: key, deleted: true})
	return nil
}

func (s *SQLiteStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	changes := s.pending.drain()
	s.mu.Unlock()
	if len(changes) == 0 {
		return nil
	}

	if err := s.apply(ctx, changes); err != nil {
		s.mu.Lock()
		s.pending.restore(changes)
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *SQLiteStore) apply(ctx context.Context, changes []change) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range changes {
		if c.deleted {
			_, err = tx.ExecContext(ctx, "DELETE FROM settings WHERE section = ? AND key = ?", c.section, c.key)
		} else {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO settings (section, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
				ON CONFLICT (section, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				c.section, c.key, c.value)
		}
		if err != nil {
			return fmt.Errorf("writing setting %s/%s: %w", c.section, c.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
