package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ProyectoMep/Colegiosapp/internal/models"
	"github.com/ProyectoMep/Colegiosapp/internal/service"
	appErrors "github.com/ProyectoMep/Colegiosapp/pkg/errors"
	"github.com/ProyectoMep/Colegiosapp/pkg/response"
)

// AppointmentHandler exposes appointment lifecycle and listing endpoints.
type AppointmentHandler struct {
	appointments *service.AppointmentService
}

// NewAppointmentHandler constructs handler.
func NewAppointmentHandler(appointments *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

type rescheduleRequest struct {
	VisitDate string `json:"visit_date" binding:"required"`
	VisitTime string `json:"visit_time" binding:"required"`
}

// List godoc
// @Summary List appointments, optionally by institution and status
// @Tags Appointments
// @Produce json
// @Param institutionId query int false "Institution ID"
// @Param status query string false "Appointment status"
// @Success 200 {object} response.Envelope
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	scope := models.ScopeAll()
	if raw := c.Query("institutionId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "institutionId must be an integer"))
			return
		}
		scope = models.ScopeInstitution(id)
	}

	var status *models.AppointmentStatus
	if raw := c.Query("status"); raw != "" {
		candidate := models.AppointmentStatus(raw)
		if !candidate.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown appointment status"))
			return
		}
		status = &candidate
	}

	appointments, err := h.appointments.List(c.Request.Context(), scope, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appointments)
}

// Mine godoc
// @Summary Appointments booked by the current tutor
// @Tags Appointments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /appointments/mine [get]
func (h *AppointmentHandler) Mine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	appointments, err := h.appointments.ListByContactEmail(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appointments)
}

// Get godoc
// @Summary One appointment by id
// @Tags Appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	appointment, err := h.appointments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appointment)
}

// Reschedule godoc
// @Summary Move an appointment to a new date and time
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id}/reschedule [put]
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reschedule payload"))
		return
	}
	if err := h.appointments.Reschedule(c.Request.Context(), id, req.VisitDate, req.VisitTime); err != nil {
		response.Error(c, err)
		return
	}
	appointment, err := h.appointments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appointment)
}

// Cancel godoc
// @Summary Cancel an appointment, retaining the record
// @Tags Appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id}/cancel [put]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	if err := h.appointments.Cancel(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	appointment, err := h.appointments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appointment)
}

// Range godoc
// @Summary Appointments of an institution within a visit date window
// @Tags Appointments
// @Produce json
// @Param institutionId query int true "Institution ID"
// @Param from query string true "Start date YYYY-MM-DD"
// @Param to query string true "End date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /appointments/range [get]
func (h *AppointmentHandler) Range(c *gin.Context) {
	rawID := c.Query("institutionId")
	institutionID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "institutionId must be an integer"))
		return
	}
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be formatted 2006-01-02"))
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must be formatted 2006-01-02"))
		return
	}

	appointments, err := h.appointments.ListByInstitutionAndDateRange(c.Request.Context(), institutionID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appointments)
}

func appointmentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "appointment id must be an integer"))
		return 0, false
	}
	return id, true
}
