// Package models defines the scheduler's persisted data types.
package models

// Role tags an identity space. Patient and caregiver usernames are
// independent: the same string may exist in both.
type Role string

const (
	RolePatient   Role = "patient"
	RoleCaregiver Role = "caregiver"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleCaregiver
}

// Identity is a registered patient or caregiver. The password itself is
// never stored.
type Identity struct {
	Role         Role   `db:"role"`
	Username     string `db:"username"`
	Salt         []byte `db:"salt"`
	PasswordHash []byte `db:"password_hash"`
}

func (i *Identity) IsPatient() bool   { return i != nil && i.Role == RolePatient }
func (i *Identity) IsCaregiver() bool { return i != nil && i.Role == RoleCaregiver }
