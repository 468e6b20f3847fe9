// Package vaccines persists the dose inventory.
package vaccines

import (
	"context"

	"github.com/dmitrijs2005/vaxscheduler/internal/models"
)

type Repository interface {
	Get(ctx context.Context, name string) (*models.Vaccine, error)
	// GetForUpdate is Get that also locks the row where the dialect allows it.
	GetForUpdate(ctx context.Context, name string) (*models.Vaccine, error)
	List(ctx context.Context) ([]models.Vaccine, error)
	Create(ctx context.Context, name string, doses int64) error
	Increase(ctx context.Context, name string, delta int64) error
	// Decrement consumes one dose; it fails with common.ErrInsufficientDoses
	// instead of going below zero.
	Decrement(ctx context.Context, name string) error
	HasSufficient(ctx context.Context, name string, n int64) (bool, error)
}
