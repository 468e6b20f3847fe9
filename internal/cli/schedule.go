package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/vaxscheduler/internal/common"
	"github.com/dmitrijs2005/vaxscheduler/internal/models"
)

// SearchCaregiverSchedule handles: search_caregiver_schedule <date>
//
// It prints the caregivers available on date, one per line, followed by
// "<vaccine> <doses>" for every vaccine.
func (a *App) SearchCaregiverSchedule(ctx context.Context, args []string) {
	const cmd = "search_caregiver_schedule"

	if !a.session.LoggedIn() {
		a.fail(ctx, cmd, "Please login first", common.ErrNotLoggedIn)
		return
	}
	if len(args) != 1 {
		a.fail(ctx, cmd, "Please try again", nil)
		return
	}
	date, err := models.ParseDate(args[0])
	if err != nil {
		a.fail(ctx, cmd, "Please enter a valid date!", common.ErrInvalidDate)
		return
	}

	s, err := a.availability.Schedule(ctx, date)
	if err != nil {
		a.fail(ctx, cmd, "Please try again", err)
		return
	}

	for _, c := range s.Caregivers {
		a.println(c)
	}
	for _, v := range s.Vaccines {
		a.println(fmt.Sprintf("%s %d", v.Name, v.Doses))
	}
}

// Reserve handles: reserve <date> <vaccine>
func (a *App) Reserve(ctx context.Context, args []string) {
	const cmd = "reserve"

	user := a.session.Current()
	if user == nil {
		a.fail(ctx, cmd, "Please login first", common.ErrNotLoggedIn)
		return
	}
	if !user.IsPatient() {
		a.fail(ctx, cmd, "Please login as a patient", common.ErrNotAuthorized)
		return
	}
	if len(args) != 2 {
		a.fail(ctx, cmd, "Please try again", nil)
		return
	}
	date, err := models.ParseDate(args[0])
	if err != nil {
		a.fail(ctx, cmd, "Please enter a valid date!", common.ErrInvalidDate)
		return
	}

	r, err := a.scheduling.Reserve(ctx, user, date, args[1])
	switch {
	case errors.Is(err, common.ErrNoCaregiverAvailable):
		a.fail(ctx, cmd, "No caregiver is available", err)
	case errors.Is(err, common.ErrInsufficientDoses):
		a.fail(ctx, cmd, "Not enough available doses", err)
	case err != nil:
		a.fail(ctx, cmd, "Please try again", err)
	default:
		a.logger.Info(ctx, "reserved", "id", r.ID, "caregiver", r.CaregiverUsername, "vaccine", r.VaccineName)
		a.println(fmt.Sprintf("Appointment ID %d, Caregiver username %s", r.ID, r.CaregiverUsername))
	}
}

// UploadAvailability handles: upload_availability <date>
func (a *App) UploadAvailability(ctx context.Context, args []string) {
	const cmd = "upload_availability"

	user := a.session.Current()
	if !user.IsCaregiver() {
		a.fail(ctx, cmd, "Please login as a caregiver first!", common.ErrNotAuthorized)
		return
	}
	if len(args) != 1 {
		a.fail(ctx, cmd, "Please try again!", nil)
		return
	}
	date, err := models.ParseDate(args[0])
	if err != nil {
		a.fail(ctx, cmd, "Please enter a valid date!", common.ErrInvalidDate)
		return
	}

	if _, err := a.availability.Upload(ctx, user, date); err != nil {
		a.fail(ctx, cmd, "Upload Availability Failed", err)
		return
	}
	a.println("Availability uploaded!")
}

// Cancel handles: cancel <appointment_id>
func (a *App) Cancel(ctx context.Context, args []string) {
	const cmd = "cancel"

	user := a.session.Current()
	if user == nil {
		a.fail(ctx, cmd, "Please login first", common.ErrNotLoggedIn)
		return
	}
	if len(args) != 1 {
		a.fail(ctx, cmd, "Please try again!", nil)
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		a.fail(ctx, cmd, "Invalid appointment ID format!", common.ErrInvalidNumber)
		return
	}

	_, err = a.scheduling.Cancel(ctx, user, id)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		a.fail(ctx, cmd, "Appointment not found!", err)
	case errors.Is(err, common.ErrForbidden):
		a.fail(ctx, cmd, "You are not authorized to cancel this appointment.", err)
	case err != nil:
		a.fail(ctx, cmd, "An error occurred while processing the cancellation.", err)
	default:
		a.logger.Info(ctx, "cancelled", "id", id)
		a.println(fmt.Sprintf("Appointment %d has been canceled successfully.", id))
	}
}

// ShowAppointments handles: show_appointments
//
// Each line is "<id> <vaccine> <date> <counterparty>", ordered by id.
func (a *App) ShowAppointments(ctx context.Context, args []string) {
	const cmd = "show_appointments"

	user := a.session.Current()
	if user == nil {
		a.fail(ctx, cmd, "Please login first", common.ErrNotLoggedIn)
		return
	}
	if len(args) != 0 {
		a.fail(ctx, cmd, "Please try again", nil)
		return
	}

	list, err := a.scheduling.Appointments(ctx, user)
	if err != nil {
		a.fail(ctx, cmd, "Please try again", err)
		return
	}
	for _, r := range list {
		a.println(fmt.Sprintf("%d %s %s %s", r.ID, r.VaccineName, r.Date, r.Counterparty(user.Role)))
	}
}
