package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ProyectoMep/Colegiosapp/internal/models"
	appErrors "github.com/ProyectoMep/Colegiosapp/pkg/errors"
)

type institutionStore interface {
	Create(ctx context.Context, institution *models.Institution) error
	FindByID(ctx context.Context, id int64) (*models.Institution, error)
	FindAll(ctx context.Context) ([]models.Institution, error)
	FindByLocality(ctx context.Context, locality string) ([]models.Institution, error)
	ListLocalities(ctx context.Context) ([]string, error)
}

// RegisterInstitutionRequest is the admin payload for adding an institution.
type RegisterInstitutionRequest struct {
	Name     string `json:"name" validate:"required"`
	Locality string `json:"locality" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
}

// InstitutionService serves the institution directory behind the booking form
// and the admin registration flow.
type InstitutionService struct {
	repo      institutionStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstitutionService constructs the institution service.
func NewInstitutionService(repo institutionStore, validate *validator.Validate, logger *zap.Logger) *InstitutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &InstitutionService{repo: repo, validator: validate, logger: logger}
}

// Register adds an institution to the directory.
func (s *InstitutionService) Register(ctx context.Context, req RegisterInstitutionRequest) (*models.Institution, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid institution payload")
	}
	institution := &models.Institution{
		Name:     req.Name,
		Locality: req.Locality,
		Address:  req.Address,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := s.repo.Create(ctx, institution); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create institution")
	}
	s.logger.Info("institution registered", zap.Int64("institution_id", institution.ID), zap.String("name", institution.Name))
	return institution, nil
}

// Get returns one institution by id.
func (s *InstitutionService) Get(ctx context.Context, id int64) (*models.Institution, error) {
	institution, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load institution")
	}
	return institution, nil
}

// List returns institutions, optionally narrowed to one locality.
func (s *InstitutionService) List(ctx context.Context, locality string) ([]models.Institution, error) {
	var (
		institutions []models.Institution
		err          error
	)
	if locality != "" {
		institutions, err = s.repo.FindByLocality(ctx, locality)
	} else {
		institutions, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list institutions")
	}
	return institutions, nil
}

// Localities returns the distinct localities of the directory, for the
// booking form's first dropdown.
func (s *InstitutionService) Localities(ctx context.Context) ([]string, error) {
	localities, err := s.repo.ListLocalities(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list localities")
	}
	return localities, nil
}

// Grades returns the grade options offered on the booking form.
func (s *InstitutionService) Grades() []string {
	return models.GradeLabels()
}
