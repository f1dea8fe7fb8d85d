package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed sql/sqlite/*.sql sql/postgres/*.sql
var migrationsFS embed.FS

// executor abstracts the two drivers. Queries use the dialect's placeholder.
type executor interface {
	exec(ctx context.Context, query string, args ...any) error
	count(ctx context.Context, query string, args ...any) (int, error)
}

type dialect struct {
	dir          string
	historyTable string
	placeholder  string
}

func apply(ctx context.Context, d dialect, ex executor) error {
	if err := ex.exec(ctx, d.historyTable); err != nil {
		return fmt.Errorf("creating migrations history table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, d.dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	upFiles := make([]string, 0, len(entries))
	for _, entry := range entries {
		upFiles = append(upFiles, entry.Name())
	}
	sort.Strings(upFiles)

	for _, filename := range upFiles {
		n, err := ex.count(ctx, "SELECT COUNT(*) FROM migrations_history WHERE name = "+d.placeholder, filename)
		if err != nil {
			return fmt.Errorf("checking if migration applied: %w", err)
		}
		if n > 0 {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, d.dir+"/"+filename)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		for stmt := range strings.SplitSeq(string(content), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if err := ex.exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", filename, err)
			}
		}

		if err := ex.exec(ctx, "INSERT INTO migrations_history (name) VALUES ("+d.placeholder+")", filename); err != nil {
			return fmt.Errorf("recording migration: %w", err)
		}
	}

	return nil
}
