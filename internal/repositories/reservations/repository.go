// Package reservations persists confirmed appointments and allocates their ids.
package reservations

import (
	"context"

	"github.com/dmitrijs2005/vaxscheduler/internal/models"
)

type Repository interface {
	// NextID draws a fresh id from a monotonic sequence. Ids of rolled back
	// reservations are not reused, so gaps are possible.
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, r *models.Reservation) error
	Get(ctx context.Context, id int64) (*models.Reservation, error)
	Delete(ctx context.Context, id int64) error
	// ListFor returns the reservations where username is the party of the
	// given role, ordered by id.
	ListFor(ctx context.Context, role models.Role, username string) ([]models.Reservation, error)
}
