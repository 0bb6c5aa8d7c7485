package models

import "time"

// AppointmentStatus is the closed set of appointment lifecycle states.
type AppointmentStatus string

const (
	StatusPendingAttendance AppointmentStatus = "PendingAttendance"
	StatusRescheduled       AppointmentStatus = "Rescheduled"
	StatusCancelled         AppointmentStatus = "Cancelled"
	StatusAttended          AppointmentStatus = "Attended"
)

// AllStatuses lists every status in declared order. Aggregation and report
// rendering iterate this slice so output ordering stays stable.
func AllStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		StatusPendingAttendance,
		StatusRescheduled,
		StatusCancelled,
		StatusAttended,
	}
}

// Valid reports whether the status belongs to the closed set.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPendingAttendance, StatusRescheduled, StatusCancelled, StatusAttended:
		return true
	}
	return false
}

// AppointmentAction identifies a lifecycle operation on a persisted appointment.
type AppointmentAction string

const (
	ActionReschedule AppointmentAction = "reschedule"
	ActionCancel     AppointmentAction = "cancel"
)

// Transition describes the outcome of an action: the target status and the
// source statuses the action may be applied from.
type Transition struct {
	Target  AppointmentStatus
	Allowed map[AppointmentStatus]bool
}

// TransitionPolicy maps actions to transitions. It is injected into the
// appointment service so a stricter table can replace the default without
// touching callers.
type TransitionPolicy map[AppointmentAction]Transition

// DefaultTransitionPolicy permits reschedule and cancel from every status,
// matching the historically observed behaviour of the booking system.
func DefaultTransitionPolicy() TransitionPolicy {
	anySource := func() map[AppointmentStatus]bool {
		allowed := make(map[AppointmentStatus]bool, 4)
		for _, s := range AllStatuses() {
			allowed[s] = true
		}
		return allowed
	}
	return TransitionPolicy{
		ActionReschedule: {Target: StatusRescheduled, Allowed: anySource()},
		ActionCancel:     {Target: StatusCancelled, Allowed: anySource()},
	}
}

// Resolve returns the target status for applying action to current, or false
// when the policy rejects the pair.
func (p TransitionPolicy) Resolve(current AppointmentStatus, action AppointmentAction) (AppointmentStatus, bool) {
	transition, ok := p[action]
	if !ok {
		return "", false
	}
	if !transition.Allowed[current] {
		return "", false
	}
	return transition.Target, true
}

// Appointment is a tutor visit booked at a partner institution. The requester
// fields are copied from the booking user at creation time, not live-linked.
type Appointment struct {
	ID            int64             `db:"id" json:"id"`
	VisitDate     *time.Time        `db:"visit_date" json:"visit_date,omitempty"`
	VisitTime     *string           `db:"visit_time" json:"visit_time,omitempty"`
	RequesterName string            `db:"requester_name" json:"requester_name"`
	ContactEmail  string            `db:"contact_email" json:"contact_email"`
	ContactPhone  string            `db:"contact_phone" json:"contact_phone"`
	Quantity      int               `db:"quantity" json:"quantity"`
	InstitutionID int64             `db:"institution_id" json:"institution_id"`
	SiteID        int               `db:"site_id" json:"site_id"`
	Status        AppointmentStatus `db:"status" json:"status"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`
}

// ReportScope selects either a single institution or every institution.
// A nil InstitutionID is the "all institutions" sentinel.
type ReportScope struct {
	InstitutionID *int64
}

// ScopeAll covers every institution.
func ScopeAll() ReportScope {
	return ReportScope{}
}

// ScopeInstitution narrows to one institution.
func ScopeInstitution(id int64) ReportScope {
	return ReportScope{InstitutionID: &id}
}

// StatusSummary maps each status to its appointment count. Every status of the
// closed set is present, zero counts included.
type StatusSummary map[AppointmentStatus]int64

// Total sums the counts across all statuses.
func (s StatusSummary) Total() int64 {
	var total int64
	for _, count := range s {
		total += count
	}
	return total
}
