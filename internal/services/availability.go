package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vaxscheduler/internal/common"
	"github.com/dmitrijs2005/vaxscheduler/internal/models"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/repomanager"
	"github.com/jmoiron/sqlx"
)

// Schedule is what a patient sees for a date: the caregivers still bookable
// and the current stock of every vaccine.
type Schedule struct {
	Caregivers []string
	Vaccines   []models.Vaccine
}

// AvailabilityService publishes caregiver slots and answers schedule queries.
type AvailabilityService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
}

func NewAvailabilityService(db *sqlx.DB, m repomanager.RepositoryManager) *AvailabilityService {
	return &AvailabilityService{db: db, repomanager: m}
}

// Upload opens a slot for the caregiver on date. Uploading an open slot
// again succeeds without changes; the result reports whether a slot was added.
func (s *AvailabilityService) Upload(ctx context.Context, user *models.Identity, date models.Date) (bool, error) {
	if user == nil {
		return false, common.ErrNotLoggedIn
	}
	if !user.IsCaregiver() {
		return false, common.ErrNotAuthorized
	}
	if date.IsZero() {
		return false, common.ErrInvalidDate
	}

	added, err := s.repomanager.Availabilities(s.db).Add(ctx, user.Username, date)
	if err != nil {
		return false, fmt.Errorf("error adding availability: %w", err)
	}
	return added, nil
}

// Schedule lists caregivers available on date, ordered by username, and all
// vaccines ordered by name.
func (s *AvailabilityService) Schedule(ctx context.Context, date models.Date) (*Schedule, error) {
	caregivers, err := s.repomanager.Availabilities(s.db).ListCaregivers(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("error listing caregivers: %w", err)
	}

	vaccines, err := s.repomanager.Vaccines(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing vaccines: %w", err)
	}

	return &Schedule{Caregivers: caregivers, Vaccines: vaccines}, nil
}
