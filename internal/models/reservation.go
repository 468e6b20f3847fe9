package models

// AvailabilitySlot is a caregiver declaring themselves bookable on a date.
type AvailabilitySlot struct {
	Username string `db:"username"`
	Date     Date   `db:"available_date"`
}

// Reservation is a confirmed appointment. Creating one consumes an
// AvailabilitySlot and one vaccine dose.
type Reservation struct {
	ID                int64  `db:"id"`
	PatientUsername   string `db:"patient_username"`
	CaregiverUsername string `db:"caregiver_username"`
	VaccineName       string `db:"vaccine_name"`
	Date              Date   `db:"appointment_date"`
}

// Counterparty returns the other party of the appointment from the point of
// view of the given role.
func (r *Reservation) Counterparty(role Role) string {
	if role == RoleCaregiver {
		return r.PatientUsername
	}
	return r.CaregiverUsername
}

// OwnedBy reports whether id is the reservation's party for id's role.
func (r *Reservation) OwnedBy(id *Identity) bool {
	switch {
	case id.IsPatient():
		return r.PatientUsername == id.Username
	case id.IsCaregiver():
		return r.CaregiverUsername == id.Username
	default:
		return false
	}
}
