// Package session tracks who is logged in on one command stream. Each REPL
// (or, later, each client connection) owns its own Session; there is no
// process-wide login state.
package session

import (
	"github.com/dmitrijs2005/vaxscheduler/internal/common"
	"github.com/dmitrijs2005/vaxscheduler/internal/models"
	"github.com/google/uuid"
)

// Session holds at most one authenticated identity. States are anonymous,
// patient and caregiver; login is only allowed from anonymous.
type Session struct {
	id   string
	user *models.Identity
}

func New() *Session {
	return &Session{id: uuid.NewString()}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Login binds user to the session, failing with common.ErrAlreadyLoggedIn
// if anyone (of either role) is already logged in.
func (s *Session) Login(user *models.Identity) error {
	if s.user != nil {
		return common.ErrAlreadyLoggedIn
	}
	s.user = user
	return nil
}

// Logout returns the session to anonymous.
func (s *Session) Logout() error {
	if s.user == nil {
		return common.ErrNotLoggedIn
	}
	s.user = nil
	return nil
}

// Current returns the logged in identity, or nil.
func (s *Session) Current() *models.Identity {
	return s.user
}

func (s *Session) LoggedIn() bool {
	return s.user != nil
}
