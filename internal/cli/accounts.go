package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vaxscheduler/internal/common"
	"github.com/dmitrijs2005/vaxscheduler/internal/models"
)

type createMessages struct {
	failed string
	taken  string
}

type loginMessages struct {
	already string
	failed  string
	success string
}

var (
	createPatientMsgs   = createMessages{failed: "Create patient failed", taken: "Username taken, try again"}
	createCaregiverMsgs = createMessages{failed: "Failed to create user.", taken: "Username taken, try again!"}

	loginPatientMsgs   = loginMessages{already: "User already logged in, try again", failed: "Login patient failed", success: "Logged in as "}
	loginCaregiverMsgs = loginMessages{already: "User already logged in.", failed: "Login failed.", success: "Logged in as: "}
)

// CreatePatient handles: create_patient <username> <password>
func (a *App) CreatePatient(ctx context.Context, args []string) {
	a.createUser(ctx, "create_patient", models.RolePatient, createPatientMsgs, args)
}

// CreateCaregiver handles: create_caregiver <username> <password>
func (a *App) CreateCaregiver(ctx context.Context, args []string) {
	a.createUser(ctx, "create_caregiver", models.RoleCaregiver, createCaregiverMsgs, args)
}

func (a *App) createUser(ctx context.Context, cmd string, role models.Role, msgs createMessages, args []string) {
	if len(args) != 2 {
		a.fail(ctx, cmd, msgs.failed, nil)
		return
	}
	username, password := args[0], args[1]

	_, err := a.users.Register(ctx, role, username, password)
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			a.fail(ctx, cmd, msgs.taken, err)
			return
		}
		a.fail(ctx, cmd, msgs.failed, err)
		return
	}

	a.logger.Info(ctx, "user created", "role", role, "username", username)
	a.println("Created user " + username)
}

// LoginPatient handles: login_patient <username> <password>
func (a *App) LoginPatient(ctx context.Context, args []string) {
	a.login(ctx, "login_patient", models.RolePatient, loginPatientMsgs, args)
}

// LoginCaregiver handles: login_caregiver <username> <password>
func (a *App) LoginCaregiver(ctx context.Context, args []string) {
	a.login(ctx, "login_caregiver", models.RoleCaregiver, loginCaregiverMsgs, args)
}

func (a *App) login(ctx context.Context, cmd string, role models.Role, msgs loginMessages, args []string) {
	if a.session.LoggedIn() {
		a.fail(ctx, cmd, msgs.already, common.ErrAlreadyLoggedIn)
		return
	}
	if len(args) != 2 {
		a.fail(ctx, cmd, msgs.failed, nil)
		return
	}
	username, password := args[0], args[1]

	user, err := a.users.Authenticate(ctx, role, username, password)
	if err != nil {
		a.fail(ctx, cmd, msgs.failed, err)
		return
	}
	if err := a.session.Login(user); err != nil {
		a.fail(ctx, cmd, msgs.already, err)
		return
	}

	a.logger.Info(ctx, "logged in", "role", role, "username", username)
	a.println(msgs.success + username)
}

// Logout handles: logout
func (a *App) Logout(ctx context.Context, args []string) {
	if !a.session.LoggedIn() {
		a.fail(ctx, "logout", "Please login first", common.ErrNotLoggedIn)
		return
	}
	if len(args) != 0 {
		a.fail(ctx, "logout", "Please try again", nil)
		return
	}
	if err := a.session.Logout(); err != nil {
		a.fail(ctx, "logout", "Please login first", err)
		return
	}
	a.println("Successfully logged out")
}
