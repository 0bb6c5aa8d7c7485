package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ProyectoMep/Colegiosapp/internal/models"
)

const appointmentColumns = `id, visit_date, visit_time, requester_name, contact_email, contact_phone, quantity, institution_id, site_id, status, created_at, updated_at`

// AppointmentRepository manages persistence for appointment records.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository constructs an AppointmentRepository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create inserts a new appointment and assigns its identity.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	now := time.Now().UTC()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now
	const query = `INSERT INTO appointments (visit_date, visit_time, requester_name, contact_email, contact_phone, quantity, institution_id, site_id, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id`
	if err := r.db.QueryRowContext(ctx, query,
		appointment.VisitDate,
		appointment.VisitTime,
		appointment.RequesterName,
		appointment.ContactEmail,
		appointment.ContactPhone,
		appointment.Quantity,
		appointment.InstitutionID,
		appointment.SiteID,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	).Scan(&appointment.ID); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// FindByID fetches one appointment. Returns sql.ErrNoRows when absent.
func (r *AppointmentRepository) FindByID(ctx context.Context, id int64) (*models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)
	var appointment models.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// FindAll returns every appointment in natural retrieval order.
func (r *AppointmentRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments ORDER BY id`, appointmentColumns)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

// FindByInstitution returns an institution's appointments in retrieval order.
func (r *AppointmentRepository) FindByInstitution(ctx context.Context, institutionID int64) ([]models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE institution_id = $1 ORDER BY id`, appointmentColumns)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, institutionID); err != nil {
		return nil, fmt.Errorf("list appointments by institution: %w", err)
	}
	return appointments, nil
}

// FindByContactEmail returns the appointments booked under a contact email.
func (r *AppointmentRepository) FindByContactEmail(ctx context.Context, email string) ([]models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE contact_email = $1 ORDER BY id`, appointmentColumns)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, email); err != nil {
		return nil, fmt.Errorf("list appointments by contact email: %w", err)
	}
	return appointments, nil
}

// FindByInstitutionAndStatus narrows an institution's appointments to one status.
func (r *AppointmentRepository) FindByInstitutionAndStatus(ctx context.Context, institutionID int64, status models.AppointmentStatus) ([]models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE institution_id = $1 AND status = $2 ORDER BY id`, appointmentColumns)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, institutionID, status); err != nil {
		return nil, fmt.Errorf("list appointments by institution and status: %w", err)
	}
	return appointments, nil
}

// FindByInstitutionAndDateRange returns an institution's appointments whose
// visit date falls within [from, to].
func (r *AppointmentRepository) FindByInstitutionAndDateRange(ctx context.Context, institutionID int64, from, to time.Time) ([]models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE institution_id = $1 AND visit_date BETWEEN $2 AND $3 ORDER BY id`, appointmentColumns)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, institutionID, from, to); err != nil {
		return nil, fmt.Errorf("list appointments by institution and date range: %w", err)
	}
	return appointments, nil
}

// CountByStatus counts appointments with the given status, optionally narrowed
// to one institution. A nil institutionID counts across all institutions.
func (r *AppointmentRepository) CountByStatus(ctx context.Context, institutionID *int64, status models.AppointmentStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE status = $1`
	args := []interface{}{status}
	if institutionID != nil {
		query += ` AND institution_id = $2`
		args = append(args, *institutionID)
	}
	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count appointments by status: %w", err)
	}
	return count, nil
}

// Update persists mutable appointment fields. The record itself is never
// deleted; cancellation only flips the status.
func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	appointment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE appointments SET visit_date = :visit_date, visit_time = :visit_time, quantity = :quantity, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, appointment); err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}
