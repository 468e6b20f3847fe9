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

// InventoryService manages vaccine dose counts.
type InventoryService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	tx          dbx.TxPolicy
}

func NewInventoryService(db *sqlx.DB, m repomanager.RepositoryManager, tx dbx.TxPolicy) *InventoryService {
	return &InventoryService{db: db, repomanager: m, tx: tx}
}

// AddDoses adds n doses of the named vaccine, creating the inventory line on
// first use. Two sessions creating the same vaccine at once end up with the
// sum: the loser's insert fails, and its transaction is retried as an update.
func (s *InventoryService) AddDoses(ctx context.Context, name string, n int64) error {
	if name == "" {
		return common.ErrValidation
	}
	if n < 0 {
		return fmt.Errorf("negative dose count %d: %w", n, common.ErrInvalidNumber)
	}

	return s.tx.Run(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Vaccines(tx)

		_, err := repo.GetForUpdate(ctx, name)
		if errors.Is(err, common.ErrorNotFound) {
			err = repo.Create(ctx, name, n)
			if errors.Is(err, common.ErrAlreadyExists) {
				return fmt.Errorf("vaccine %s created concurrently: %w", name, common.ErrConflict)
			}
			return err
		}
		if err != nil {
			return fmt.Errorf("error reading vaccine: %w", err)
		}
		return repo.Increase(ctx, name, n)
	})
}

// Get returns the inventory line for name or common.ErrorNotFound.
func (s *InventoryService) Get(ctx context.Context, name string) (*models.Vaccine, error) {
	return s.repomanager.Vaccines(s.db).Get(ctx, name)
}

// List returns every vaccine ordered by name.
func (s *InventoryService) List(ctx context.Context) ([]models.Vaccine, error) {
	return s.repomanager.Vaccines(s.db).List(ctx)
}
