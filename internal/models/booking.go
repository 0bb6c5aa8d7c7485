package models

import "time"

// BookingDraft is an appointment staged during the two-step booking flow. It
// lives in the session draft store only; the appointment reaches the database
// on confirm. Grade is carried for the confirmation view and never persisted.
type BookingDraft struct {
	Appointment Appointment `json:"appointment"`
	Grade       string      `json:"grade"`
	StagedAt    time.Time   `json:"staged_at"`
}

// GradeLabels lists the grade options offered on the booking form.
func GradeLabels() []string {
	return []string{
		"First", "Second", "Third", "Fourth", "Fifth", "Sixth",
		"Seventh", "Eighth", "Ninth", "Tenth", "Eleventh",
	}
}
