package vaccines

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

// NewPostgresRepository locks vaccine rows read with GetForUpdate.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, lockSuffix: " FOR UPDATE"}
}

// NewSQLiteRepository relies on SQLite's database-level write lock.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

const selectVaccine = `SELECT name, doses FROM vaccines WHERE name = ?`

func (r *SQLRepository) get(ctx context.Context, query, name string) (*models.Vaccine, error) {
	v := &models.Vaccine{}
	err := sqlx.GetContext(ctx, r.db, v, r.db.Rebind(query), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *SQLRepository) Get(ctx context.Context, name string) (*models.Vaccine, error) {
	return r.get(ctx, selectVaccine, name)
}

func (r *SQLRepository) GetForUpdate(ctx context.Context, name string) (*models.Vaccine, error) {
	return r.get(ctx, selectVaccine+r.lockSuffix, name)
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Vaccine, error) {
	var out []models.Vaccine
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT name, doses FROM vaccines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Create inserts a new vaccine; a concurrent insert of the same name yields
// common.ErrAlreadyExists.
func (r *SQLRepository) Create(ctx context.Context, name string, doses int64) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO vaccines (name, doses) VALUES (?, ?)`), name, doses)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Increase(ctx context.Context, name string, delta int64) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE vaccines SET doses = doses + ? WHERE name = ?`), delta, name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, common.ErrorNotFound)
}

func (r *SQLRepository) Decrement(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE vaccines SET doses = doses - 1 WHERE name = ? AND doses >= 1`), name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, common.ErrInsufficientDoses)
}

func (r *SQLRepository) HasSufficient(ctx context.Context, name string, n int64) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count,
		r.db.Rebind(`SELECT COUNT(*) FROM vaccines WHERE name = ? AND doses >= ?`), name, n)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return count > 0, nil
}

func expectOneRow(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return none
	}
	return nil
}
