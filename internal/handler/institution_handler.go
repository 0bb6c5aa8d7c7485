package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ProyectoMep/Colegiosapp/internal/service"
	appErrors "github.com/ProyectoMep/Colegiosapp/pkg/errors"
	"github.com/ProyectoMep/Colegiosapp/pkg/response"
)

// InstitutionHandler exposes the institution directory endpoints behind the
// booking form.
type InstitutionHandler struct {
	institutions *service.InstitutionService
}

// NewInstitutionHandler constructs handler.
func NewInstitutionHandler(institutions *service.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{institutions: institutions}
}

// List godoc
// @Summary List institutions, optionally by locality
// @Tags Institutions
// @Produce json
// @Param locality query string false "Locality name"
// @Success 200 {object} response.Envelope
// @Router /institutions [get]
func (h *InstitutionHandler) List(c *gin.Context) {
	institutions, err := h.institutions.List(c.Request.Context(), c.Query("locality"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institutions)
}

// Get godoc
// @Summary One institution by id
// @Tags Institutions
// @Produce json
// @Param id path int true "Institution ID"
// @Success 200 {object} response.Envelope
// @Router /institutions/{id} [get]
func (h *InstitutionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "institution id must be an integer"))
		return
	}
	institution, err := h.institutions.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institution)
}

// Register godoc
// @Summary Register an institution
// @Tags Institutions
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /institutions [post]
func (h *InstitutionHandler) Register(c *gin.Context) {
	var req service.RegisterInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid institution payload"))
		return
	}
	institution, err := h.institutions.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, institution)
}

// Localities godoc
// @Summary Distinct localities of the directory
// @Tags Institutions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /institutions/localities [get]
func (h *InstitutionHandler) Localities(c *gin.Context) {
	localities, err := h.institutions.Localities(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, localities)
}

// Grades godoc
// @Summary Grade options offered on the booking form
// @Tags Institutions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /institutions/grades [get]
func (h *InstitutionHandler) Grades(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.institutions.Grades())
}
