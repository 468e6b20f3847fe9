package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaxscheduler/internal/common"
	"github.com/dmitrijs2005/vaxscheduler/internal/dbx"
	"github.com/dmitrijs2005/vaxscheduler/internal/models"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/repomanager"
	"github.com/jmoiron/sqlx"
)

// SchedulingService books and cancels appointments. Each booking or
// cancellation touches several ledgers and runs as one transaction: either
// every step is applied or none is.
type SchedulingService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	tx          dbx.TxPolicy
}

func NewSchedulingService(db *sqlx.DB, m repomanager.RepositoryManager, tx dbx.TxPolicy) *SchedulingService {
	return &SchedulingService{db: db, repomanager: m, tx: tx}
}

// Reserve books the patient with the first caregiver (by username) available
// on date and consumes one dose of vaccine.
//
// Errors: common.ErrNotLoggedIn, common.ErrNotAuthorized for non-patients,
// common.ErrNoCaregiverAvailable, common.ErrInsufficientDoses, or a wrapped
// store error. On any error nothing is changed.
func (s *SchedulingService) Reserve(ctx context.Context, user *models.Identity, date models.Date, vaccine string) (*models.Reservation, error) {
	if user == nil {
		return nil, common.ErrNotLoggedIn
	}
	if !user.IsPatient() {
		return nil, common.ErrNotAuthorized
	}
	if date.IsZero() {
		return nil, common.ErrInvalidDate
	}

	var res *models.Reservation
	err := s.tx.Run(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		res = nil

		slots := s.repomanager.Availabilities(tx)
		stock := s.repomanager.Vaccines(tx)
		book := s.repomanager.Reservations(tx)

		caregiver, err := slots.EarliestCandidate(ctx, date)
		if errors.Is(err, common.ErrorNotFound) {
			// slots locked by a concurrent reservation are skipped; if any
			// exist, wait for that transaction instead of reporting none
			open, lerr := slots.ListCaregivers(ctx, date)
			if lerr != nil {
				return fmt.Errorf("error listing caregivers: %w", lerr)
			}
			if len(open) > 0 {
				return fmt.Errorf("slots on %s held by another reservation: %w", date, common.ErrConflict)
			}
			return common.ErrNoCaregiverAvailable
		}
		if err != nil {
			return fmt.Errorf("error finding caregiver: %w", err)
		}

		v, err := stock.GetForUpdate(ctx, vaccine)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInsufficientDoses
			}
			return fmt.Errorf("error reading vaccine: %w", err)
		}
		ok, err := stock.HasSufficient(ctx, v.Name, 1)
		if err != nil {
			return fmt.Errorf("error checking doses: %w", err)
		}
		if !ok {
			return common.ErrInsufficientDoses
		}

		id, err := book.NextID(ctx)
		if err != nil {
			return fmt.Errorf("error allocating reservation id: %w", err)
		}

		r := &models.Reservation{
			ID:                id,
			PatientUsername:   user.Username,
			CaregiverUsername: caregiver,
			VaccineName:       v.Name,
			Date:              date,
		}
		if err := book.Create(ctx, r); err != nil {
			return fmt.Errorf("error creating reservation: %w", err)
		}
		if err := slots.Remove(ctx, caregiver, date); err != nil {
			return fmt.Errorf("error removing availability: %w", err)
		}
		if err := stock.Decrement(ctx, v.Name); err != nil {
			return fmt.Errorf("error decrementing doses: %w", err)
		}

		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Cancel deletes reservation id and reopens the caregiver's slot. The dose
// consumed by the reservation stays consumed. Only the reservation's own
// patient or caregiver may cancel it; anyone else gets common.ErrForbidden.
func (s *SchedulingService) Cancel(ctx context.Context, user *models.Identity, id int64) (*models.Reservation, error) {
	if user == nil {
		return nil, common.ErrNotLoggedIn
	}

	var res *models.Reservation
	err := s.tx.Run(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		res = nil

		book := s.repomanager.Reservations(tx)

		r, err := book.Get(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return err
			}
			return fmt.Errorf("error reading reservation: %w", err)
		}

		if !r.OwnedBy(user) {
			return common.ErrForbidden
		}

		if err := book.Delete(ctx, id); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return err
			}
			return fmt.Errorf("error deleting reservation: %w", err)
		}

		if _, err := s.repomanager.Availabilities(tx).Add(ctx, r.CaregiverUsername, r.Date); err != nil {
			return fmt.Errorf("error restoring availability: %w", err)
		}

		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Appointments lists the reservations of the logged in user, ordered by id.
func (s *SchedulingService) Appointments(ctx context.Context, user *models.Identity) ([]models.Reservation, error) {
	if user == nil {
		return nil, common.ErrNotLoggedIn
	}
	list, err := s.repomanager.Reservations(s.db).ListFor(ctx, user.Role, user.Username)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	return list, nil
}
