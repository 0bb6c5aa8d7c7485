package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ProyectoMep/Colegiosapp/internal/models"
	appErrors "github.com/ProyectoMep/Colegiosapp/pkg/errors"
)

type draftStore interface {
	Put(ctx context.Context, sessionKey string, draft *models.BookingDraft) error
	Get(ctx context.Context, sessionKey string) (*models.BookingDraft, error)
	Delete(ctx context.Context, sessionKey string) error
}

type bookingInstitutionStore interface {
	FindByID(ctx context.Context, id int64) (*models.Institution, error)
}

type bookingAppointmentStore interface {
	Create(ctx context.Context, appointment *models.Appointment) error
}

type bookingUserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// BookingRequest carries the fields of the booking form. Requester contact
// details come from the tutor's profile, not the payload.
type BookingRequest struct {
	InstitutionID int64  `json:"institution_id" binding:"required"`
	VisitDate     string `json:"visit_date" binding:"required"`
	VisitTime     string `json:"visit_time" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,gt=0"`
	Grade         string `json:"grade"`
}

// BookingService runs the two-step booking flow: Draft stages an appointment
// under the caller's session key, Confirm persists it. Nothing reaches the
// database until Confirm, and a confirmed draft cannot be confirmed twice.
type BookingService struct {
	drafts        draftStore
	institutions  bookingInstitutionStore
	appointments  bookingAppointmentStore
	users         bookingUserStore
	defaultSiteID int
	logger        *zap.Logger
}

// NewBookingService constructs the booking service.
func NewBookingService(drafts draftStore, institutions bookingInstitutionStore, appointments bookingAppointmentStore, users bookingUserStore, defaultSiteID int, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		drafts:        drafts,
		institutions:  institutions,
		appointments:  appointments,
		users:         users,
		defaultSiteID: defaultSiteID,
		logger:        logger,
	}
}

// Draft validates the booking request and stages it under the session key
// (the caller's email), replacing any previous draft. The tutor's profile
// supplies the requester contact details. Nothing is staged when the tutor or
// the institution cannot be resolved.
func (s *BookingService) Draft(ctx context.Context, sessionKey string, req BookingRequest) (*models.BookingDraft, error) {
	date, err := parseVisitDate(req.VisitDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	clock, err := parseVisitTime(req.VisitTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	tutor, err := s.users.FindByEmail(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve tutor")
	}

	if _, err := s.institutions.FindByID(ctx, req.InstitutionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify institution")
	}

	draft := &models.BookingDraft{
		Appointment: models.Appointment{
			VisitDate:     &date,
			VisitTime:     &clock,
			RequesterName: tutor.FullName,
			ContactEmail:  tutor.Email,
			ContactPhone:  tutor.Phone,
			Quantity:      req.Quantity,
			InstitutionID: req.InstitutionID,
			SiteID:        s.defaultSiteID,
			Status:        models.StatusPendingAttendance,
		},
		Grade:    req.Grade,
		StagedAt: time.Now().UTC(),
	}
	if err := s.drafts.Put(ctx, sessionKey, draft); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stage booking draft")
	}
	s.logger.Info("booking draft staged",
		zap.String("session_key", sessionKey),
		zap.Int64("institution_id", req.InstitutionID))
	return draft, nil
}

// Current returns the draft staged for the session key.
func (s *BookingService) Current(ctx context.Context, sessionKey string) (*models.BookingDraft, error) {
	draft, err := s.drafts.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, appErrors.ErrNoActiveDraft) {
			return nil, appErrors.ErrNoActiveDraft
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking draft")
	}
	return draft, nil
}

// Confirm persists the staged draft as a pending appointment and clears the
// draft. A session with nothing staged gets ErrNoActiveDraft, so a second
// confirm of the same draft fails rather than double-booking.
func (s *BookingService) Confirm(ctx context.Context, sessionKey string) (*models.Appointment, error) {
	draft, err := s.drafts.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, appErrors.ErrNoActiveDraft) {
			return nil, appErrors.ErrNoActiveDraft
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking draft")
	}

	appointment := draft.Appointment
	appointment.Status = models.StatusPendingAttendance
	if err := s.appointments.Create(ctx, &appointment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create appointment")
	}

	// The appointment is already persisted; a failed cleanup only means the
	// draft lingers until its TTL.
	if err := s.drafts.Delete(ctx, sessionKey); err != nil {
		s.logger.Warn("failed to clear booking draft after confirm",
			zap.String("session_key", sessionKey), zap.Error(err))
	}

	s.logger.Info("appointment confirmed",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int64("institution_id", appointment.InstitutionID))
	return &appointment, nil
}
