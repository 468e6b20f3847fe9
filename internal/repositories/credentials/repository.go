// Package credentials persists (role, username, salt, password hash) records.
package credentials

import (
	"context"

	"github.com/dmitrijs2005/vaxscheduler/internal/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.Identity) error
	Get(ctx context.Context, role models.Role, username string) (*models.Identity, error)
}
