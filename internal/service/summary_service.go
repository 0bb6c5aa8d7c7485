package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ProyectoMep/Colegiosapp/internal/models"
	appErrors "github.com/ProyectoMep/Colegiosapp/pkg/errors"
)

type statusCounter interface {
	CountByStatus(ctx context.Context, institutionID *int64, status models.AppointmentStatus) (int64, error)
}

// SummaryService aggregates appointment counts per status. The summary always
// covers the full status set so zero counts show up explicitly.
type SummaryService struct {
	counter statusCounter
	logger  *zap.Logger
}

// NewSummaryService constructs the summary service.
func NewSummaryService(counter statusCounter, logger *zap.Logger) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{counter: counter, logger: logger}
}

// Summarize counts the appointments of each status within the scope. An
// institution without appointments yields a summary of four zeroes, not an
// error.
func (s *SummaryService) Summarize(ctx context.Context, scope models.ReportScope) (models.StatusSummary, error) {
	summary := make(models.StatusSummary, 4)
	for _, status := range models.AllStatuses() {
		count, err := s.counter.CountByStatus(ctx, scope.InstitutionID, status)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count appointments by status")
		}
		summary[status] = count
	}
	return summary, nil
}
