// Package services contains the scheduler's business logic on top of the
// ledger repositories. This file implements UserService, which registers and
// authenticates patients and caregivers.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaxscheduler/internal/common"
	"github.com/dmitrijs2005/vaxscheduler/internal/cryptox"
	"github.com/dmitrijs2005/vaxscheduler/internal/models"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/repomanager"
	"github.com/jmoiron/sqlx"
)

// UserService is the credential store of both roles.
type UserService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
}

// NewUserService constructs a UserService over db.
func NewUserService(db *sqlx.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// Register stores a new identity with a fresh salt. A username already used
// in the same role yields common.ErrUsernameTaken.
func (s *UserService) Register(ctx context.Context, role models.Role, username, password string) (*models.Identity, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, common.ErrValidation)
	}
	if username == "" || password == "" {
		return nil, common.ErrValidation
	}

	repo := s.repomanager.Credentials(s.db)

	_, err := repo.Get(ctx, role, username)
	switch {
	case err == nil:
		return nil, common.ErrUsernameTaken
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error checking username: %w", err)
	}

	salt := cryptox.NewSalt()
	user := &models.Identity{
		Role:         role,
		Username:     username,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword([]byte(password), salt),
	}

	// a concurrent registration can still win between Get and Create
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Authenticate returns the identity for matching credentials. Unknown users
// and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, role models.Role, username, password string) (*models.Identity, error) {
	repo := s.repomanager.Credentials(s.db)

	user, err := repo.Get(ctx, role, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error reading user: %w", err)
	}

	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}
