package migrations

import (
	"context"
	"database/sql"
)

var sqliteDialect = dialect{
	dir: "sql/sqlite",
	historyTable: `
		CREATE TABLE IF NOT EXISTS migrations_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	placeholder: "?",
}

type sqlExecutor struct{ db *sql.DB }

func (e sqlExecutor) exec(ctx context.Context, query string, args ...any) error {
	_, err := e.db.ExecContext(ctx, query, args...)
	return err
}

func (e sqlExecutor) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := e.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// ApplySQLite brings a sqlite database up to the latest schema.
func ApplySQLite(ctx context.Context, db *sql.DB) error {
	return apply(ctx, sqliteDialect, sqlExecutor{db: db})
}
