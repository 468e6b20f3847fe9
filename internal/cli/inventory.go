package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/vaxscheduler/internal/common"
)

// AddDoses handles: add_doses <vaccine> <number>
func (a *App) AddDoses(ctx context.Context, args []string) {
	const cmd = "add_doses"

	if !a.session.Current().IsCaregiver() {
		a.fail(ctx, cmd, "Please login as a caregiver first!", common.ErrNotAuthorized)
		return
	}
	if len(args) != 2 {
		a.fail(ctx, cmd, "Please try again!", nil)
		return
	}
	n, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || n < 0 {
		a.fail(ctx, cmd, "Please try again!", common.ErrInvalidNumber)
		return
	}

	if err := a.inventory.AddDoses(ctx, args[0], n); err != nil {
		a.fail(ctx, cmd, "Error occurred when adding doses", err)
		return
	}
	a.logger.Info(ctx, "doses added", "vaccine", args[0], "doses", n)
	a.println("Doses updated!")
}
