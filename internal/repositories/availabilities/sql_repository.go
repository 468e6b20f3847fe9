package availabilities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaxscheduler/internal/common"
	"github.com/dmitrijs2005/vaxscheduler/internal/dbx"
	"github.com/dmitrijs2005/vaxscheduler/internal/models"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	db         dbx.DBTX
	lockSuffix string
}

// NewPostgresRepository locks the candidate slot it selects, skipping slots
// already claimed by a concurrent reservation.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, lockSuffix: " FOR UPDATE SKIP LOCKED"}
}

func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Add(ctx context.Context, username string, date models.Date) (bool, error) {
	query :=
		`INSERT INTO availabilities (username, available_date)
		 VALUES (?, ?)
		 ON CONFLICT (username, available_date) DO NOTHING`

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), username, date)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) EarliestCandidate(ctx context.Context, date models.Date) (string, error) {
	query :=
		`SELECT username FROM availabilities
		 WHERE available_date = ?
		 ORDER BY username
		 LIMIT 1` + r.lockSuffix

	var username string
	err := sqlx.GetContext(ctx, r.db, &username, r.db.Rebind(query), date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return username, nil
}

func (r *SQLRepository) Remove(ctx context.Context, username string, date models.Date) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM availabilities WHERE username = ? AND available_date = ?`),
		username, date)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("slot %s/%s already taken: %w", username, date, common.ErrConflict)
	}
	return nil
}

func (r *SQLRepository) ListCaregivers(ctx context.Context, date models.Date) ([]string, error) {
	var out []string
	err := sqlx.SelectContext(ctx, r.db, &out,
		r.db.Rebind(`SELECT username FROM availabilities WHERE available_date = ? ORDER BY username`), date)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
