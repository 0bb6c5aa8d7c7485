package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ProyectoMep/Colegiosapp/internal/middleware"
	"github.com/ProyectoMep/Colegiosapp/internal/models"
	"github.com/ProyectoMep/Colegiosapp/internal/service"
	appErrors "github.com/ProyectoMep/Colegiosapp/pkg/errors"
)

type draftStoreMock struct {
	drafts map[string]*models.BookingDraft
}

func (m *draftStoreMock) Put(_ context.Context, sessionKey string, draft *models.BookingDraft) error {
	m.drafts[sessionKey] = draft
	return nil
}

func (m *draftStoreMock) Get(_ context.Context, sessionKey string) (*models.BookingDraft, error) {
	draft, ok := m.drafts[sessionKey]
	if !ok {
		return nil, appErrors.ErrNoActiveDraft
	}
	return draft, nil
}

func (m *draftStoreMock) Delete(_ context.Context, sessionKey string) error {
	delete(m.drafts, sessionKey)
	return nil
}

type appointmentCreatorMock struct {
	created int
}

func (m *appointmentCreatorMock) Create(_ context.Context, appointment *models.Appointment) error {
	m.created++
	appointment.ID = int64(m.created)
	return nil
}

type userStoreMock struct {
	users map[string]*models.User
}

func (m *userStoreMock) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func newBookingHandlerFixture() (*BookingHandler, *draftStoreMock) {
	drafts := &draftStoreMock{drafts: map[string]*models.BookingDraft{}}
	institutions := &institutionStoreMock{institutions: []models.Institution{
		{ID: 1, Name: "Colegio San Mateo"},
	}}
	users := &userStoreMock{users: map[string]*models.User{
		"tutor@example.com": {ID: "u-1", Email: "tutor@example.com", FullName: "Carlos Prieto", Phone: "3001234567", Role: models.RoleTutor, Active: true},
	}}
	booking := service.NewBookingService(drafts, institutions, &appointmentCreatorMock{}, users, 1, nil)
	return NewBookingHandler(booking, service.NewMetricsService()), drafts
}

func tutorClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-1", Email: "tutor@example.com", Role: models.RoleTutor}
}

func TestBookingHandlerDraftRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newBookingHandlerFixture()

	c, w := newGinContext(http.MethodPost, "/booking/draft", nil)
	handler.Draft(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandlerDraftAndConfirm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, drafts := newBookingHandlerFixture()

	payload, _ := json.Marshal(service.BookingRequest{
		InstitutionID: 1,
		VisitDate:     "2026-09-20",
		VisitTime:     "08:30",
		Quantity:      25,
		Grade:         "Fifth",
	})
	c, w := newGinContext(http.MethodPost, "/booking/draft", payload)
	c.Set(middleware.ContextUserKey, tutorClaims())
	handler.Draft(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, drafts.drafts, 1)

	c, w = newGinContext(http.MethodPost, "/booking/confirm", nil)
	c.Set(middleware.ContextUserKey, tutorClaims())
	handler.Confirm(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Empty(t, drafts.drafts)
}

func TestBookingHandlerConfirmWithoutDraft(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newBookingHandlerFixture()

	c, w := newGinContext(http.MethodPost, "/booking/confirm", nil)
	c.Set(middleware.ContextUserKey, tutorClaims())
	handler.Confirm(c)

	require.Equal(t, http.StatusConflict, w.Code)
}
