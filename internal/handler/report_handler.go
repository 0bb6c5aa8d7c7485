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

// ReportHandler exposes status summaries and report downloads.
type ReportHandler struct {
	summaries *service.SummaryService
	reports   *service.ReportService
	metrics   *service.MetricsService
}

// NewReportHandler constructs handler.
func NewReportHandler(summaries *service.SummaryService, reports *service.ReportService, metrics *service.MetricsService) *ReportHandler {
	return &ReportHandler{summaries: summaries, reports: reports, metrics: metrics}
}

// Summary godoc
// @Summary Appointment counts per status
// @Tags Reports
// @Produce json
// @Param institutionId query int false "Institution ID"
// @Success 200 {object} response.Envelope
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	scope, ok := reportScope(c)
	if !ok {
		return
	}
	summary, err := h.summaries.Summarize(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, map[string]interface{}{"total": summary.Total()})
}

// Download godoc
// @Summary Download the appointment report
// @Tags Reports
// @Produce application/octet-stream
// @Param format query string false "excel or pdf"
// @Param institutionId query int false "Institution ID"
// @Success 200 {file} binary
// @Router /reports/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	scope, ok := reportScope(c)
	if !ok {
		return
	}
	format := service.ParseReportFormat(c.Query("format"))

	start := time.Now()
	artifact, err := h.reports.Generate(c.Request.Context(), format, scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.ObserveReportGeneration(string(format), time.Since(start))

	response.Attachment(c, artifact.Filename, artifact.MimeType, artifact.Data)
}

func reportScope(c *gin.Context) (models.ReportScope, bool) {
	raw := c.Query("institutionId")
	if raw == "" {
		return models.ScopeAll(), true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "institutionId must be an integer"))
		return models.ReportScope{}, false
	}
	return models.ScopeInstitution(id), true
}
