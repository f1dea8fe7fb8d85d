package migrations

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresDialect = dialect{
	dir: "sql/postgres",
	historyTable: `
		CREATE TABLE IF NOT EXISTS migrations_history (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	placeholder: "$1",
}

type pgxExecutor struct{ pool *pgxpool.Pool }

func (e pgxExecutor) exec(ctx context.Context, query string, args ...any) error {
	_, err := e.pool.Exec(ctx, query, args...)
	return err
}

func (e pgxExecutor) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := e.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func ApplyPostgres(ctx context.Context, pool *pgxpool.Pool) error {
	return apply(ctx, postgresDialect, pgxExecutor{pool: pool})
}
