package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vaxscheduler/internal/dbx"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/availabilities"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/credentials"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/reservations"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/vaccines"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Dialect() dbx.Dialect { return dbx.DialectSQLite }

func (m *SQLiteRepositoryManager) Credentials(db dbx.DBTX) credentials.Repository {
	return credentials.NewRepository(db)
}

func (m *SQLiteRepositoryManager) Vaccines(db dbx.DBTX) vaccines.Repository {
	return vaccines.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Availabilities(db dbx.DBTX) availabilities.Repository {
	return availabilities.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Reservations(db dbx.DBTX) reservations.Repository {
	return reservations.NewSQLiteRepository(db)
}

// RunMigrations applies migrations/sqlite.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", "sqlite")
}
