// Package cli implements the scheduler's line-oriented command interface:
// the App wiring, the read-eval-print loop and one handler per command.
// Handlers own every user-facing message; diagnostics go to the logger.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/vaxscheduler/internal/config"
	"github.com/dmitrijs2005/vaxscheduler/internal/dbx"
	"github.com/dmitrijs2005/vaxscheduler/internal/logging"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/repomanager"
	"github.com/dmitrijs2005/vaxscheduler/internal/services"
	"github.com/dmitrijs2005/vaxscheduler/internal/session"
	"github.com/dmitrijs2005/vaxscheduler/internal/store"
)

// command handles one operation; args exclude the operation name.
type command func(ctx context.Context, args []string)

type App struct {
	store        *store.Store
	users        *services.UserService
	inventory    *services.InventoryService
	availability *services.AvailabilityService
	scheduling   *services.SchedulingService
	session      *session.Session
	logger       logging.Logger
	out          io.Writer
	commands     map[string]command
}

// NewApp opens the configured database and wires the services. Output for
// the user is written to out.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, out io.Writer) (*App, error) {
	repomanager.SetLogger(logger)

	st, err := store.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	policy, err := txPolicy(c, st.Repos.Dialect())
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return newApp(st, policy, logger, out), nil
}

// txPolicy derives how mutating commands run their transactions.
func txPolicy(c *config.Config, d dbx.Dialect) (dbx.TxPolicy, error) {
	opts, err := dbx.TxOptionsFor(d, c.TxIsolation)
	if err != nil {
		return dbx.TxPolicy{}, err
	}
	if c.TxRetries < 0 {
		return dbx.TxPolicy{}, fmt.Errorf("negative transaction retries: %d", c.TxRetries)
	}
	return dbx.TxPolicy{Options: opts, Retries: uint64(c.TxRetries), Timeout: c.TxTimeout}, nil
}

func newApp(st *store.Store, policy dbx.TxPolicy, logger logging.Logger, out io.Writer) *App {
	sess := session.New()

	a := &App{
		store:        st,
		users:        services.NewUserService(st.DB, st.Repos),
		inventory:    services.NewInventoryService(st.DB, st.Repos, policy),
		availability: services.NewAvailabilityService(st.DB, st.Repos),
		scheduling:   services.NewSchedulingService(st.DB, st.Repos, policy),
		session:      sess,
		logger:       logger.With("session_id", sess.ID()),
		out:          out,
	}

	a.commands = map[string]command{
		"create_patient":            a.CreatePatient,
		"create_caregiver":          a.CreateCaregiver,
		"login_patient":             a.LoginPatient,
		"login_caregiver":           a.LoginCaregiver,
		"search_caregiver_schedule": a.SearchCaregiverSchedule,
		"reserve":                   a.Reserve,
		"upload_availability":       a.UploadAvailability,
		"cancel":                    a.Cancel,
		"add_doses":                 a.AddDoses,
		"show_appointments":         a.ShowAppointments,
		"logout":                    a.Logout,
	}
	return a
}

// Close releases the database.
func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
