package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ProyectoMep/Colegiosapp/internal/service"
	appErrors "github.com/ProyectoMep/Colegiosapp/pkg/errors"
	"github.com/ProyectoMep/Colegiosapp/pkg/response"
)

// BookingHandler exposes the two-step booking flow. The draft is keyed by the
// authenticated tutor's email, so the caller never supplies a session id.
type BookingHandler struct {
	booking *service.BookingService
	metrics *service.MetricsService
}

// NewBookingHandler constructs handler.
func NewBookingHandler(booking *service.BookingService, metrics *service.MetricsService) *BookingHandler {
	return &BookingHandler{booking: booking, metrics: metrics}
}

// Draft godoc
// @Summary Stage an appointment draft
// @Tags Booking
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /booking/draft [post]
func (h *BookingHandler) Draft(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload"))
		return
	}

	draft, err := h.booking.Draft(c.Request.Context(), claims.Email, req)
	h.metrics.RecordDraftOperation("draft", err == nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft)
}

// Current godoc
// @Summary Staged draft for the current session
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /booking/draft [get]
func (h *BookingHandler) Current(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	draft, err := h.booking.Current(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft)
}

// Confirm godoc
// @Summary Confirm the staged draft as a pending appointment
// @Tags Booking
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /booking/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	appointment, err := h.booking.Confirm(c.Request.Context(), claims.Email)
	h.metrics.RecordDraftOperation("confirm", err == nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, appointment)
}
