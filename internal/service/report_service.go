package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ProyectoMep/Colegiosapp/internal/models"
	appErrors "github.com/ProyectoMep/Colegiosapp/pkg/errors"
	"github.com/ProyectoMep/Colegiosapp/pkg/export"
)

// ReportFormat selects the output encoding of a generated report.
type ReportFormat string

const (
	FormatExcel ReportFormat = "excel"
	FormatPDF   ReportFormat = "pdf"
)

// ParseReportFormat maps the raw query value to a format. Matching is
// case-insensitive; anything unrecognized, including the empty string, falls
// back to Excel.
func ParseReportFormat(raw string) ReportFormat {
	if strings.EqualFold(strings.TrimSpace(raw), string(FormatPDF)) {
		return FormatPDF
	}
	return FormatExcel
}

// ReportArtifact is a fully rendered report ready to be sent as a download.
type ReportArtifact struct {
	Data     []byte
	Filename string
	MimeType string
}

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

var detailHeaders = []string{"Id", "Date", "Time", "Name", "Email", "Phone", "Quantity", "Status"}

// Relative column weights of the PDF detail table.
var detailWidths = []float64{8, 14, 12, 26, 28, 20, 12, 16}

type reportInstitutionStore interface {
	FindByID(ctx context.Context, id int64) (*models.Institution, error)
	FindAll(ctx context.Context) ([]models.Institution, error)
}

type reportAppointmentStore interface {
	FindByInstitution(ctx context.Context, institutionID int64) ([]models.Appointment, error)
}

type reportSummarizer interface {
	Summarize(ctx context.Context, scope models.ReportScope) (models.StatusSummary, error)
}

// ReportService resolves a scope to institutions and renders their appointment
// activity in the requested format. Both renderers accumulate the whole
// document in memory and serialize once, so a rendering fault never leaks a
// partial payload.
type ReportService struct {
	institutions  reportInstitutionStore
	appointments  reportAppointmentStore
	summaries     reportSummarizer
	maxDetailRows int
	logger        *zap.Logger
}

// NewReportService constructs the report service. maxDetailRows caps the
// detail rows rendered per institution; zero means unlimited.
func NewReportService(institutions reportInstitutionStore, appointments reportAppointmentStore, summaries reportSummarizer, maxDetailRows int, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		institutions:  institutions,
		appointments:  appointments,
		summaries:     summaries,
		maxDetailRows: maxDetailRows,
		logger:        logger,
	}
}

// Generate renders the report for the scope in the given format.
func (s *ReportService) Generate(ctx context.Context, format ReportFormat, scope models.ReportScope) (*ReportArtifact, error) {
	var (
		data []byte
		ext  string
		mime string
		err  error
	)
	switch format {
	case FormatPDF:
		data, err = s.renderDocument(ctx, scope)
		ext, mime = ".pdf", mimePDF
	default:
		data, err = s.renderWorkbook(ctx, scope)
		ext, mime = ".xlsx", mimeXLSX
	}
	if err != nil {
		return nil, err
	}

	filename := "report"
	if scope.InstitutionID != nil {
		filename = fmt.Sprintf("report_%d", *scope.InstitutionID)
	}
	s.logger.Info("report generated",
		zap.String("format", string(format)),
		zap.String("filename", filename+ext),
		zap.Int("bytes", len(data)))
	return &ReportArtifact{Data: data, Filename: filename + ext, MimeType: mime}, nil
}

// reportSection pairs an institution with its appointments and summary.
type reportSection struct {
	institution  models.Institution
	summary      models.StatusSummary
	appointments []models.Appointment
}

// resolveScope expands the scope into ordered sections. A single-institution
// scope whose id does not resolve yields zero sections and found=false; the
// renderers decide how to present that.
func (s *ReportService) resolveScope(ctx context.Context, scope models.ReportScope) ([]reportSection, bool, error) {
	var institutions []models.Institution
	if scope.InstitutionID != nil {
		institution, err := s.institutions.FindByID(ctx, *scope.InstitutionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, false, nil
			}
			return nil, false, fmt.Errorf("resolve institution: %w", err)
		}
		institutions = []models.Institution{*institution}
	} else {
		all, err := s.institutions.FindAll(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("list institutions: %w", err)
		}
		institutions = all
	}

	sections := make([]reportSection, 0, len(institutions))
	for _, institution := range institutions {
		summary, err := s.summaries.Summarize(ctx, models.ScopeInstitution(institution.ID))
		if err != nil {
			return nil, false, fmt.Errorf("summarize institution %d: %w", institution.ID, err)
		}
		appointments, err := s.appointments.FindByInstitution(ctx, institution.ID)
		if err != nil {
			return nil, false, fmt.Errorf("list appointments of institution %d: %w", institution.ID, err)
		}
		if s.maxDetailRows > 0 && len(appointments) > s.maxDetailRows {
			appointments = appointments[:s.maxDetailRows]
		}
		sections = append(sections, reportSection{
			institution:  institution,
			summary:      summary,
			appointments: appointments,
		})
	}
	return sections, true, nil
}

func (s *ReportService) renderWorkbook(ctx context.Context, scope models.ReportScope) ([]byte, error) {
	sections, _, err := s.resolveScope(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRendering.Code, appErrors.ErrRendering.Status, appErrors.ErrRendering.Message)
	}

	// An unresolved institution id produces an empty workbook, no sheets.
	builder := export.NewWorkbookBuilder()
	for _, section := range sections {
		sheet, err := builder.AddSheet(fmt.Sprintf("Inst_%d", section.institution.ID))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRendering.Code, appErrors.ErrRendering.Status, appErrors.ErrRendering.Message)
		}
		if err := writeInstitutionSheet(sheet, section); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRendering.Code, appErrors.ErrRendering.Status, appErrors.ErrRendering.Message)
		}
	}
	data, err := builder.Bytes()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRendering.Code, appErrors.ErrRendering.Status, appErrors.ErrRendering.Message)
	}
	return data, nil
}

func writeInstitutionSheet(sheet *export.SheetWriter, section reportSection) error {
	if err := sheet.AppendRow("Appointment report for " + section.institution.Name); err != nil {
		return err
	}
	for _, status := range models.AllStatuses() {
		if err := sheet.AppendRow(string(status), section.summary[status]); err != nil {
			return err
		}
	}
	if err := sheet.AppendRow(); err != nil {
		return err
	}
	headerCells := make([]interface{}, len(detailHeaders))
	for i, h := range detailHeaders {
		headerCells[i] = h
	}
	if err := sheet.AppendRow(headerCells...); err != nil {
		return err
	}
	for _, appointment := range section.appointments {
		row := detailRow(appointment, "")
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
		}
		if err := sheet.AppendRow(cells...); err != nil {
			return err
		}
	}
	return sheet.SetColumnWidths(len(detailHeaders), 18)
}

func (s *ReportService) renderDocument(ctx context.Context, scope models.ReportScope) ([]byte, error) {
	sections, found, err := s.resolveScope(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRendering.Code, appErrors.ErrRendering.Status, appErrors.ErrRendering.Message)
	}

	builder := export.NewDocumentBuilder()
	if !found {
		builder.StartSection()
		builder.AddNotice("Institution not found.")
	}
	for _, section := range sections {
		builder.StartSection()
		builder.AddTitle("Appointment report for " + section.institution.Name)

		summaryRows := make([][]string, 0, 4)
		for _, status := range models.AllStatuses() {
			summaryRows = append(summaryRows, []string{
				string(status),
				strconv.FormatInt(section.summary[status], 10),
			})
		}
		if err := builder.AddTable([]string{"Status", "Count"}, []float64{70, 30}, summaryRows, 30); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRendering.Code, appErrors.ErrRendering.Status, appErrors.ErrRendering.Message)
		}

		builder.AddSubtitle("Detail")
		detailRows := make([][]string, 0, len(section.appointments))
		for _, appointment := range section.appointments {
			detailRows = append(detailRows, detailRow(appointment, "-"))
		}
		if err := builder.AddTable(detailHeaders, detailWidths, detailRows, 100); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRendering.Code, appErrors.ErrRendering.Status, appErrors.ErrRendering.Message)
		}
	}

	// gofpdf cannot serialize a zero-page document.
	if builder.PageCount() == 0 {
		builder.StartSection()
	}
	data, err := builder.Bytes()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRendering.Code, appErrors.ErrRendering.Status, appErrors.ErrRendering.Message)
	}
	return data, nil
}

// detailRow renders the eight detail columns of one appointment. placeholder
// substitutes for a missing visit date or time and differs per renderer.
func detailRow(appointment models.Appointment, placeholder string) []string {
	date := placeholder
	if appointment.VisitDate != nil {
		date = appointment.VisitDate.Format("2006-01-02")
	}
	clock := placeholder
	if appointment.VisitTime != nil {
		clock = *appointment.VisitTime
	}
	return []string{
		strconv.FormatInt(appointment.ID, 10),
		date,
		clock,
		appointment.RequesterName,
		appointment.ContactEmail,
		appointment.ContactPhone,
		strconv.Itoa(appointment.Quantity),
		string(appointment.Status),
	}
}
