package db

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"sort"

	"order-tracker/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migrate applies every *.sql file in fsys that has not been recorded yet,
// in lexical order, each inside its own transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) ([]string, error) {
	if _, err := pool.Exec(ctx, createMigrationsTable); err != nil {
		return nil, errs.Wrap(err, "failed to create schema_migrations")
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, errs.Wrap(err, "failed to list migrations")
	}
	sort.Strings(files)

	var applied []string
	for _, file := range files {
		version := path.Base(file)
		done, err := migrateOne(ctx, pool, fsys, file, version)
		if err != nil {
			return applied, err
		}
		if done {
			applied = append(applied, version)
			slog.Info("migration applied", "version", version)
		}
	}
	return applied, nil
}

func migrateOne(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, file, version string) (bool, error) {
	sql, err := fs.ReadFile(fsys, file)
	if err != nil {
		return false, errs.Wrapf(err, "failed to read migration %s", file)
	}

	applied := false
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT DO NOTHING`, version)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, errs.Wrapf(err, "failed to apply migration %s", version)
	}
	return applied, nil
}
