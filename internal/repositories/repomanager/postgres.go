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

// PostgresRepositoryManager vends PostgreSQL-backed repositories. It serves
// both the pgx and lib/pq drivers.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Dialect() dbx.Dialect { return dbx.DialectPostgres }

func (m *PostgresRepositoryManager) Credentials(db dbx.DBTX) credentials.Repository {
	return credentials.NewRepository(db)
}

func (m *PostgresRepositoryManager) Vaccines(db dbx.DBTX) vaccines.Repository {
	return vaccines.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Availabilities(db dbx.DBTX) availabilities.Repository {
	return availabilities.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Reservations(db dbx.DBTX) reservations.Repository {
	return reservations.NewPostgresRepository(db)
}

// RunMigrations applies migrations/postgres.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "postgres", "postgres")
}
