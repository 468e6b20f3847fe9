// Package store opens the scheduler database for the configured driver and
// brings its schema up to date.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vaxscheduler/internal/dbx"
	"github.com/dmitrijs2005/vaxscheduler/internal/filex"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/repomanager"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store is an open, migrated database together with the repositories for
// its dialect.
type Store struct {
	DB    *sqlx.DB
	Repos repomanager.RepositoryManager
}

// Open connects with driver ("pgx", "postgres" or "sqlite") and runs the
// migrations.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	dialect, err := dbx.DialectFor(driver)
	if err != nil {
		return nil, err
	}

	rm, err := repomanager.NewRepositoryManager(dialect)
	if err != nil {
		return nil, err
	}

	if path, ok := sqliteFile(dialect, dsn); ok {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("db directory error: %w", err)
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if dialect == dbx.DialectSQLite {
		// one writer per process; other processes are handled by busy retries
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	return &Store{DB: db, Repos: rm}, nil
}

// sqliteFile returns the file behind a plain-path SQLite DSN. URIs and
// in-memory databases are left alone.
func sqliteFile(d dbx.Dialect, dsn string) (string, bool) {
	if d != dbx.DialectSQLite || dsn == "" || strings.HasPrefix(dsn, "file:") || strings.HasPrefix(dsn, ":memory:") {
		return "", false
	}
	return dsn, true
}

func (s *Store) Close() error {
	return s.DB.Close()
}
