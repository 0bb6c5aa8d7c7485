package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProyectoMep/Colegiosapp/internal/models"
	appErrors "github.com/ProyectoMep/Colegiosapp/pkg/errors"
)

type fakeAppointmentStore struct {
	appointments map[int64]*models.Appointment
	updated      *models.Appointment
	updateErr    error
}

func (f *fakeAppointmentStore) FindByID(_ context.Context, id int64) (*models.Appointment, error) {
	appointment, ok := f.appointments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *appointment
	return &clone, nil
}

func (f *fakeAppointmentStore) FindAll(context.Context) ([]models.Appointment, error) {
	out := make([]models.Appointment, 0, len(f.appointments))
	for _, appointment := range f.appointments {
		out = append(out, *appointment)
	}
	return out, nil
}

func (f *fakeAppointmentStore) FindByInstitution(_ context.Context, institutionID int64) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, appointment := range f.appointments {
		if appointment.InstitutionID == institutionID {
			out = append(out, *appointment)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) FindByInstitutionAndStatus(_ context.Context, institutionID int64, status models.AppointmentStatus) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, appointment := range f.appointments {
		if appointment.InstitutionID == institutionID && appointment.Status == status {
			out = append(out, *appointment)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) FindByContactEmail(_ context.Context, email string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, appointment := range f.appointments {
		if appointment.ContactEmail == email {
			out = append(out, *appointment)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) FindByInstitutionAndDateRange(context.Context, int64, time.Time, time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentStore) Update(_ context.Context, appointment *models.Appointment) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	clone := *appointment
	f.updated = &clone
	f.appointments[appointment.ID] = &clone
	return nil
}

func TestAppointmentServiceRescheduleFromAnyStatus(t *testing.T) {
	for _, status := range models.AllStatuses() {
		store := &fakeAppointmentStore{appointments: map[int64]*models.Appointment{
			7: {ID: 7, Status: status, InstitutionID: 1},
		}}
		svc := NewAppointmentService(store, nil, nil)

		err := svc.Reschedule(context.Background(), 7, "2026-09-15", "10:30")
		require.NoError(t, err, "status %s", status)

		require.NotNil(t, store.updated)
		assert.Equal(t, models.StatusRescheduled, store.updated.Status)
		require.NotNil(t, store.updated.VisitDate)
		assert.Equal(t, "2026-09-15", store.updated.VisitDate.Format("2006-01-02"))
		require.NotNil(t, store.updated.VisitTime)
		assert.Equal(t, "10:30", *store.updated.VisitTime)
	}
}

func TestAppointmentServiceCancelRetainsRecord(t *testing.T) {
	store := &fakeAppointmentStore{appointments: map[int64]*models.Appointment{
		3: {ID: 3, Status: models.StatusPendingAttendance, RequesterName: "Alicia"},
	}}
	svc := NewAppointmentService(store, nil, nil)

	require.NoError(t, svc.Cancel(context.Background(), 3))

	cancelled, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, "Alicia", cancelled.RequesterName)
}

func TestAppointmentServiceRestrictivePolicy(t *testing.T) {
	policy := models.TransitionPolicy{
		models.ActionCancel: {
			Target:  models.StatusCancelled,
			Allowed: map[models.AppointmentStatus]bool{models.StatusPendingAttendance: true},
		},
	}
	store := &fakeAppointmentStore{appointments: map[int64]*models.Appointment{
		9: {ID: 9, Status: models.StatusAttended},
	}}
	svc := NewAppointmentService(store, policy, nil)

	err := svc.Cancel(context.Background(), 9)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
	assert.Nil(t, store.updated)

	// Reschedule has no entry in this policy at all.
	err = svc.Reschedule(context.Background(), 9, "2026-10-01", "09:00")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestAppointmentServiceNotFound(t *testing.T) {
	store := &fakeAppointmentStore{appointments: map[int64]*models.Appointment{}}
	svc := NewAppointmentService(store, nil, nil)

	err := svc.Cancel(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAppointmentServiceRescheduleValidation(t *testing.T) {
	store := &fakeAppointmentStore{appointments: map[int64]*models.Appointment{
		1: {ID: 1, Status: models.StatusPendingAttendance},
	}}
	svc := NewAppointmentService(store, nil, nil)

	err := svc.Reschedule(context.Background(), 1, "15/09/2026", "10:30")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	err = svc.Reschedule(context.Background(), 1, "2026-09-15", "half past ten")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, store.updated)
}

func TestAppointmentServiceListStatusFilter(t *testing.T) {
	store := &fakeAppointmentStore{appointments: map[int64]*models.Appointment{
		1: {ID: 1, InstitutionID: 5, Status: models.StatusPendingAttendance},
		2: {ID: 2, InstitutionID: 5, Status: models.StatusCancelled},
		3: {ID: 3, InstitutionID: 6, Status: models.StatusPendingAttendance},
	}}
	svc := NewAppointmentService(store, nil, nil)

	pending := models.StatusPendingAttendance
	filtered, err := svc.List(context.Background(), models.ScopeInstitution(5), &pending)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(1), filtered[0].ID)

	all, err := svc.List(context.Background(), models.ScopeAll(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
