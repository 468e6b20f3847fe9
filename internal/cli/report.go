package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vaxscheduler/internal/common"
)

// expected are outcomes the user caused; anything else is a store failure.
var expected = []error{
	common.ErrorNotFound,
	common.ErrorUnauthorized,
	common.ErrValidation,
	common.ErrInvalidDate,
	common.ErrInvalidNumber,
	common.ErrNotLoggedIn,
	common.ErrAlreadyLoggedIn,
	common.ErrNotAuthorized,
	common.ErrForbidden,
	common.ErrUsernameTaken,
	common.ErrNoCaregiverAvailable,
	common.ErrInsufficientDoses,
}

func isExpected(err error) bool {
	for _, e := range expected {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// fail prints the single message for a failed command. Store failures are
// logged with their detail; the user only sees msg.
func (a *App) fail(ctx context.Context, cmd, msg string, err error) {
	switch {
	case err == nil:
	case isExpected(err):
		a.logger.Debug(ctx, "command rejected", "command", cmd, "err", err)
	default:
		a.logger.Error(ctx, "command failed", "command", cmd, "err", err)
	}
	a.println(msg)
}
