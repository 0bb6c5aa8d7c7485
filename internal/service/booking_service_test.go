package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProyectoMep/Colegiosapp/internal/models"
	appErrors "github.com/ProyectoMep/Colegiosapp/pkg/errors"
)

type fakeDraftStore struct {
	drafts    map[string]*models.BookingDraft
	putErr    error
	deleteErr error
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: map[string]*models.BookingDraft{}}
}

func (f *fakeDraftStore) Put(_ context.Context, sessionKey string, draft *models.BookingDraft) error {
	if f.putErr != nil {
		return f.putErr
	}
	clone := *draft
	f.drafts[sessionKey] = &clone
	return nil
}

func (f *fakeDraftStore) Get(_ context.Context, sessionKey string) (*models.BookingDraft, error) {
	draft, ok := f.drafts[sessionKey]
	if !ok {
		return nil, appErrors.ErrNoActiveDraft
	}
	clone := *draft
	return &clone, nil
}

func (f *fakeDraftStore) Delete(_ context.Context, sessionKey string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.drafts, sessionKey)
	return nil
}

type fakeInstitutionFinder struct {
	institutions map[int64]*models.Institution
}

func (f *fakeInstitutionFinder) FindByID(_ context.Context, id int64) (*models.Institution, error) {
	institution, ok := f.institutions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return institution, nil
}

type fakeAppointmentCreator struct {
	created   []*models.Appointment
	createErr error
}

func (f *fakeAppointmentCreator) Create(_ context.Context, appointment *models.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	appointment.ID = int64(len(f.created) + 1)
	clone := *appointment
	f.created = append(f.created, &clone)
	return nil
}

type fakeTutorFinder struct {
	users map[string]*models.User
}

func (f *fakeTutorFinder) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func validBookingRequest() BookingRequest {
	return BookingRequest{
		InstitutionID: 42,
		VisitDate:     "2026-09-20",
		VisitTime:     "08:30",
		Quantity:      25,
		Grade:         "Fifth",
	}
}

func newBookingFixture() (*BookingService, *fakeDraftStore, *fakeAppointmentCreator) {
	drafts := newFakeDraftStore()
	institutions := &fakeInstitutionFinder{institutions: map[int64]*models.Institution{
		42: {ID: 42, Name: "Colegio San Mateo"},
	}}
	users := &fakeTutorFinder{users: map[string]*models.User{
		"tutor@example.com": {
			ID:       "u-1",
			Email:    "tutor@example.com",
			FullName: "Carlos Prieto",
			Phone:    "3001234567",
			Role:     models.RoleTutor,
			Active:   true,
		},
	}}
	appointments := &fakeAppointmentCreator{}
	svc := NewBookingService(drafts, institutions, appointments, users, 1, nil)
	return svc, drafts, appointments
}

func TestBookingServiceDraftConfirmRoundTrip(t *testing.T) {
	svc, drafts, appointments := newBookingFixture()
	ctx := context.Background()

	draft, err := svc.Draft(ctx, "tutor@example.com", validBookingRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingAttendance, draft.Appointment.Status)
	assert.Equal(t, "Fifth", draft.Grade)
	assert.Equal(t, "Carlos Prieto", draft.Appointment.RequesterName)
	assert.Equal(t, "tutor@example.com", draft.Appointment.ContactEmail)
	assert.Equal(t, "3001234567", draft.Appointment.ContactPhone)
	assert.Empty(t, appointments.created, "nothing persists before confirm")

	current, err := svc.Current(ctx, "tutor@example.com")
	require.NoError(t, err)
	assert.Equal(t, draft.Appointment.ContactEmail, current.Appointment.ContactEmail)

	appointment, err := svc.Confirm(ctx, "tutor@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), appointment.ID)
	assert.Equal(t, models.StatusPendingAttendance, appointment.Status)
	assert.Equal(t, int64(42), appointment.InstitutionID)
	assert.Equal(t, 1, appointment.SiteID)
	require.Len(t, appointments.created, 1)
	assert.Empty(t, drafts.drafts, "draft cleared after confirm")
}

func TestBookingServiceDraftUnknownInstitution(t *testing.T) {
	svc, drafts, _ := newBookingFixture()

	req := validBookingRequest()
	req.InstitutionID = 999
	_, err := svc.Draft(context.Background(), "tutor@example.com", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, drafts.drafts, "nothing staged on a failed draft")
}

func TestBookingServiceDraftUnknownTutor(t *testing.T) {
	svc, drafts, _ := newBookingFixture()

	_, err := svc.Draft(context.Background(), "stranger@example.com", validBookingRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, drafts.drafts)
}

func TestBookingServiceDraftInvalidSchedule(t *testing.T) {
	svc, drafts, _ := newBookingFixture()

	req := validBookingRequest()
	req.VisitDate = "20-09-2026"
	_, err := svc.Draft(context.Background(), "tutor@example.com", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, drafts.drafts)
}

func TestBookingServiceConfirmWithoutDraft(t *testing.T) {
	svc, _, appointments := newBookingFixture()

	_, err := svc.Confirm(context.Background(), "tutor@example.com")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoActiveDraft.Code, appErrors.FromError(err).Code)
	assert.Empty(t, appointments.created)
}

func TestBookingServiceSecondConfirmFails(t *testing.T) {
	svc, _, appointments := newBookingFixture()
	ctx := context.Background()

	_, err := svc.Draft(ctx, "tutor@example.com", validBookingRequest())
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, "tutor@example.com")
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, "tutor@example.com")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoActiveDraft.Code, appErrors.FromError(err).Code)
	assert.Len(t, appointments.created, 1, "no double booking")
}

func TestBookingServiceRedraftReplacesPrevious(t *testing.T) {
	svc, drafts, _ := newBookingFixture()
	ctx := context.Background()

	_, err := svc.Draft(ctx, "tutor@example.com", validBookingRequest())
	require.NoError(t, err)

	req := validBookingRequest()
	req.Quantity = 40
	_, err = svc.Draft(ctx, "tutor@example.com", req)
	require.NoError(t, err)

	require.Len(t, drafts.drafts, 1)
	assert.Equal(t, 40, drafts.drafts["tutor@example.com"].Appointment.Quantity)
}
