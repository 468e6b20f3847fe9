package credentials

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

// SQLRepository works unchanged on every supported dialect.
type SQLRepository struct {
	db dbx.DBTX
}

func NewRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create stores a new identity. An existing (role, username) pair yields
// common.ErrUsernameTaken.
func (r *SQLRepository) Create(ctx context.Context, user *models.Identity) error {
	query :=
		`INSERT INTO users (role, username, salt, password_hash)
		 VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		user.Role, user.Username, user.Salt, user.PasswordHash)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrUsernameTaken
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Get(ctx context.Context, role models.Role, username string) (*models.Identity, error) {
	query :=
		`SELECT role, username, salt, password_hash FROM users
		 WHERE role = ? AND username = ?`

	user := &models.Identity{}
	err := sqlx.GetContext(ctx, r.db, user, r.db.Rebind(query), role, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
