// Package availabilities persists the (caregiver, date) slots open for booking.
package availabilities

import (
	"context"

	"github.com/dmitrijs2005/vaxscheduler/internal/models"
)

type Repository interface {
	// Add opens a slot. It reports false when the slot was already open.
	Add(ctx context.Context, username string, date models.Date) (bool, error)
	// EarliestCandidate returns the lexicographically smallest caregiver with
	// an open slot on date, or common.ErrorNotFound.
	EarliestCandidate(ctx context.Context, date models.Date) (string, error)
	// Remove closes a slot. It fails with common.ErrConflict when the slot is
	// no longer open, i.e. a concurrent transaction consumed it.
	Remove(ctx context.Context, username string, date models.Date) error
	ListCaregivers(ctx context.Context, date models.Date) ([]string, error)
}
