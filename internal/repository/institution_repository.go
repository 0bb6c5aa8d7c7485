package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ProyectoMep/Colegiosapp/internal/models"
)

// InstitutionRepository manages persistence for partner institutions.
type InstitutionRepository struct {
	db *sqlx.DB
}

// NewInstitutionRepository constructs an InstitutionRepository.
func NewInstitutionRepository(db *sqlx.DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

// Create registers a new institution.
func (r *InstitutionRepository) Create(ctx context.Context, institution *models.Institution) error {
	institution.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO institutions (name, locality, address, email, phone, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`
	if err := r.db.QueryRowContext(ctx, query,
		institution.Name,
		institution.Locality,
		institution.Address,
		institution.Email,
		institution.Phone,
		institution.CreatedAt,
	).Scan(&institution.ID); err != nil {
		return fmt.Errorf("create institution: %w", err)
	}
	return nil
}

// FindByID fetches one institution. Returns sql.ErrNoRows when absent.
func (r *InstitutionRepository) FindByID(ctx context.Context, id int64) (*models.Institution, error) {
	const query = `SELECT id, name, locality, address, email, phone, created_at FROM institutions WHERE id = $1`
	var institution models.Institution
	if err := r.db.GetContext(ctx, &institution, query, id); err != nil {
		return nil, err
	}
	return &institution, nil
}

// FindAll returns every institution in natural listing order. Multi-section
// reports follow this ordering.
func (r *InstitutionRepository) FindAll(ctx context.Context) ([]models.Institution, error) {
	const query = `SELECT id, name, locality, address, email, phone, created_at FROM institutions ORDER BY id`
	var institutions []models.Institution
	if err := r.db.SelectContext(ctx, &institutions, query); err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	return institutions, nil
}

// FindByLocality returns the institutions located in one locality.
func (r *InstitutionRepository) FindByLocality(ctx context.Context, locality string) ([]models.Institution, error) {
	const query = `SELECT id, name, locality, address, email, phone, created_at FROM institutions WHERE locality = $1 ORDER BY id`
	var institutions []models.Institution
	if err := r.db.SelectContext(ctx, &institutions, query, locality); err != nil {
		return nil, fmt.Errorf("list institutions by locality: %w", err)
	}
	return institutions, nil
}

// ListLocalities returns the distinct localities in alphabetical order.
func (r *InstitutionRepository) ListLocalities(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT locality FROM institutions ORDER BY locality`
	var localities []string
	if err := r.db.SelectContext(ctx, &localities, query); err != nil {
		return nil, fmt.Errorf("list localities: %w", err)
	}
	return localities, nil
}
