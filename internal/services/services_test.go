package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/vaxscheduler/internal/dbx"
	"github.com/dmitrijs2005/vaxscheduler/internal/models"
	"github.com/dmitrijs2005/vaxscheduler/internal/store"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	st           *store.Store
	users        *UserService
	inventory    *InventoryService
	availability *AvailabilityService
	scheduling   *SchedulingService
}

// newFixture opens a migrated SQLite database in a temp dir. goose keeps
// global state, so tests using it must not run in parallel.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "scheduler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	policy := dbx.TxPolicy{Retries: 3}
	return &fixture{
		st:           st,
		users:        NewUserService(st.DB, st.Repos),
		inventory:    NewInventoryService(st.DB, st.Repos, policy),
		availability: NewAvailabilityService(st.DB, st.Repos),
		scheduling:   NewSchedulingService(st.DB, st.Repos, policy),
	}
}

func patient(name string) *models.Identity {
	return &models.Identity{Role: models.RolePatient, Username: name}
}

func caregiver(name string) *models.Identity {
	return &models.Identity{Role: models.RoleCaregiver, Username: name}
}

func (f *fixture) doses(t *testing.T, name string) int64 {
	t.Helper()
	v, err := f.inventory.Get(context.Background(), name)
	require.NoError(t, err)
	return v.Doses
}

func (f *fixture) caregiversOn(t *testing.T, d models.Date) []string {
	t.Helper()
	s, err := f.availability.Schedule(context.Background(), d)
	require.NoError(t, err)
	return s.Caregivers
}

func (f *fixture) upload(t *testing.T, d models.Date, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := f.availability.Upload(context.Background(), caregiver(n), d)
		require.NoError(t, err)
	}
}
