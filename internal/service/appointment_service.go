package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ProyectoMep/Colegiosapp/internal/models"
	appErrors "github.com/ProyectoMep/Colegiosapp/pkg/errors"
)

type appointmentStore interface {
	FindByID(ctx context.Context, id int64) (*models.Appointment, error)
	FindAll(ctx context.Context) ([]models.Appointment, error)
	FindByInstitution(ctx context.Context, institutionID int64) ([]models.Appointment, error)
	FindByInstitutionAndStatus(ctx context.Context, institutionID int64, status models.AppointmentStatus) ([]models.Appointment, error)
	FindByContactEmail(ctx context.Context, email string) ([]models.Appointment, error)
	FindByInstitutionAndDateRange(ctx context.Context, institutionID int64, from, to time.Time) ([]models.Appointment, error)
	Update(ctx context.Context, appointment *models.Appointment) error
}

// AppointmentService applies lifecycle transitions to persisted appointments.
// Valid (status, action) pairs come from the injected transition policy; the
// default policy accepts every pair.
type AppointmentService struct {
	repo   appointmentStore
	policy models.TransitionPolicy
	logger *zap.Logger
}

// NewAppointmentService constructs the appointment service. A nil policy
// falls back to the default permissive table.
func NewAppointmentService(repo appointmentStore, policy models.TransitionPolicy, logger *zap.Logger) *AppointmentService {
	if policy == nil {
		policy = models.DefaultTransitionPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentService{repo: repo, policy: policy, logger: logger}
}

// Reschedule moves an appointment to a new date and time and marks it
// Rescheduled. No mutation happens when the appointment is missing or the
// policy rejects the transition.
func (s *AppointmentService) Reschedule(ctx context.Context, id int64, visitDate, visitTime string) error {
	date, err := parseVisitDate(visitDate)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	clock, err := parseVisitTime(visitTime)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	appointment, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	target, ok := s.policy.Resolve(appointment.Status, models.ActionReschedule)
	if !ok {
		return appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot reschedule an appointment in status %s", appointment.Status))
	}

	appointment.VisitDate = &date
	appointment.VisitTime = &clock
	appointment.Status = target
	if err := s.repo.Update(ctx, appointment); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reschedule appointment")
	}
	s.logger.Info("appointment rescheduled", zap.Int64("appointment_id", id), zap.String("visit_date", visitDate), zap.String("visit_time", clock))
	return nil
}

// Cancel marks an appointment Cancelled. The record is retained, never
// deleted.
func (s *AppointmentService) Cancel(ctx context.Context, id int64) error {
	appointment, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	target, ok := s.policy.Resolve(appointment.Status, models.ActionCancel)
	if !ok {
		return appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot cancel an appointment in status %s", appointment.Status))
	}

	appointment.Status = target
	if err := s.repo.Update(ctx, appointment); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel appointment")
	}
	s.logger.Info("appointment cancelled", zap.Int64("appointment_id", id))
	return nil
}

// Get returns one appointment by id.
func (s *AppointmentService) Get(ctx context.Context, id int64) (*models.Appointment, error) {
	return s.load(ctx, id)
}

// ListByContactEmail returns the appointments booked under a contact email,
// in the store's retrieval order.
func (s *AppointmentService) ListByContactEmail(ctx context.Context, email string) ([]models.Appointment, error) {
	appointments, err := s.repo.FindByContactEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}
	return appointments, nil
}

// List returns appointments for the scope, optionally narrowed to one status.
// The status filter backs the admin report preview.
func (s *AppointmentService) List(ctx context.Context, scope models.ReportScope, status *models.AppointmentStatus) ([]models.Appointment, error) {
	var appointments []models.Appointment
	var err error
	switch {
	case scope.InstitutionID != nil && status != nil:
		appointments, err = s.repo.FindByInstitutionAndStatus(ctx, *scope.InstitutionID, *status)
	case scope.InstitutionID != nil:
		appointments, err = s.repo.FindByInstitution(ctx, *scope.InstitutionID)
	default:
		appointments, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}
	if scope.InstitutionID == nil && status != nil {
		filtered := make([]models.Appointment, 0, len(appointments))
		for _, appointment := range appointments {
			if appointment.Status == *status {
				filtered = append(filtered, appointment)
			}
		}
		return filtered, nil
	}
	return appointments, nil
}

// ListByInstitutionAndDateRange returns an institution's appointments within
// a visit date window.
func (s *AppointmentService) ListByInstitutionAndDateRange(ctx context.Context, institutionID int64, from, to time.Time) ([]models.Appointment, error) {
	appointments, err := s.repo.FindByInstitutionAndDateRange(ctx, institutionID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments by date range")
	}
	return appointments, nil
}

func (s *AppointmentService) load(ctx context.Context, id int64) (*models.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}
	return appointment, nil
}
