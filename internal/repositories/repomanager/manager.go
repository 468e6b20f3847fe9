// Package repomanager vends the ledger repositories for a SQL dialect,
// bound to either the connection pool or a transaction, and runs the
// dialect's goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/vaxscheduler/internal/dbx"
	"github.com/dmitrijs2005/vaxscheduler/internal/logging"
	"github.com/dmitrijs2005/vaxscheduler/internal/migrations"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/availabilities"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/credentials"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/reservations"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/vaccines"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	Dialect() dbx.Dialect
	RunMigrations(context.Context, *sql.DB) error
	Credentials(db dbx.DBTX) credentials.Repository
	Vaccines(db dbx.DBTX) vaccines.Repository
	Availabilities(db dbx.DBTX) availabilities.Repository
	Reservations(db dbx.DBTX) reservations.Repository
}

// NewRepositoryManager returns the manager for dialect d.
func NewRepositoryManager(d dbx.Dialect) (RepositoryManager, error) {
	switch d {
	case dbx.DialectPostgres:
		return &PostgresRepositoryManager{}, nil
	case dbx.DialectSQLite:
		return &SQLiteRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("no repositories for dialect %q", d)
	}
}

// SetLogger routes goose's migration output through l.
func SetLogger(l logging.Logger) {
	goose.SetLogger(logging.NewPrintfLogger(l.With("component", "migrations")))
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// runMigrations applies the embedded migrations in dir with the given goose
// dialect. goose keeps this state globally, so migrations must not run
// concurrently.
func runMigrations(ctx context.Context, db *sql.DB, gooseDialect, dir string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, dir)
}
