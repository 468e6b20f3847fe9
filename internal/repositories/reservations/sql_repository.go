package reservations

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
	db          dbx.DBTX
	nextIDQuery string
	lockSuffix  string
}

// NewPostgresRepository draws ids from the reservation_id_seq sequence.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{
		db:          db,
		nextIDQuery: `SELECT nextval('reservation_id_seq')`,
		lockSuffix:  " FOR UPDATE",
	}
}

// NewSQLiteRepository draws ids from the one-row counter in sequences.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{
		db:          db,
		nextIDQuery: `UPDATE sequences SET value = value + 1 WHERE name = 'reservations' RETURNING value`,
	}
}

const reservationColumns = `id, patient_username, caregiver_username, vaccine_name, appointment_date`

func (r *SQLRepository) NextID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.db.QueryRowxContext(ctx, r.nextIDQuery).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *SQLRepository) Create(ctx context.Context, res *models.Reservation) error {
	query :=
		`INSERT INTO reservations (` + reservationColumns + `)
		 VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		res.ID, res.PatientUsername, res.CaregiverUsername, res.VaccineName, res.Date)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?` + r.lockSuffix

	res := &models.Reservation{}
	err := sqlx.GetContext(ctx, r.db, res, r.db.Rebind(query), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM reservations WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

var partyColumn = map[models.Role]string{
	models.RolePatient:   "patient_username",
	models.RoleCaregiver: "caregiver_username",
}

func (r *SQLRepository) ListFor(ctx context.Context, role models.Role, username string) ([]models.Reservation, error) {
	column, ok := partyColumn[role]
	if !ok {
		return nil, fmt.Errorf("unknown role %q: %w", role, common.ErrValidation)
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE ` + column + ` = ? ORDER BY id`

	var out []models.Reservation
	if err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(query), username); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
