package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/app/repositories"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
)

// FacultyService defines the interface for faculty directory operations
type FacultyService interface {
	Create(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error)
	GetByID(ctx context.Context, id int64) (*models.Faculty, error)
	Update(ctx context.Context, id int64, faculty *models.Faculty) (*models.Faculty, error)
	Delete(ctx context.Context, id int64) (*models.Faculty, error)
	FindByColor(ctx context.Context, color *string) ([]*models.Faculty, error)
	FindByColorOrName(ctx context.Context, term string) ([]*models.Faculty, error)
}

// facultyServiceImpl implements the FacultyService interface
type facultyServiceImpl struct {
	facultyRepo *repositories.FacultyRepository
}

// NewFacultyService creates a new faculty service instance
func NewFacultyService(facultyRepo *repositories.FacultyRepository) FacultyService {
	return &facultyServiceImpl{
		facultyRepo: facultyRepo,
	}
}

// validateFaculty validates faculty data before database operations
func validateFaculty(faculty *models.Faculty) error {
	if faculty == nil {
		return fmt.Errorf("%w: faculty is nil", apperrors.ErrValidationFailed)
	}

	if strings.TrimSpace(faculty.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	if strings.TrimSpace(faculty.Color) == "" {
		return fmt.Errorf("%w: color cannot be empty", apperrors.ErrValidationFailed)
	}

	return nil
}

// Create persists a new faculty, copying only name and color from the
// caller. A caller-supplied id round-trips (duplicate ids conflict).
func (s *facultyServiceImpl) Create(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error) {
	if err := validateFaculty(faculty); err != nil {
		return nil, err
	}

	created, err := s.facultyRepo.Create(ctx, faculty)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a faculty by ID
func (s *facultyServiceImpl) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	if id <= 0 {
		return nil, apperrors.NewFacultyNotFound(id)
	}
	return s.facultyRepo.GetByID(ctx, id)
}

// Update overwrites the name and color of an existing faculty and
// returns the updated record. The id never changes.
func (s *facultyServiceImpl) Update(ctx context.Context, id int64, faculty *models.Faculty) (*models.Faculty, error) {
	if err := validateFaculty(faculty); err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = faculty.Name
	existing.Color = faculty.Color
	if err := s.facultyRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a faculty and returns the removed record. A faculty
// with enrolled students is rejected with a conflict.
func (s *facultyServiceImpl) Delete(ctx context.Context, id int64) (*models.Faculty, error) {
	if id <= 0 {
		return nil, apperrors.NewFacultyNotFound(id)
	}
	return s.facultyRepo.Delete(ctx, id)
}

// FindByColor lists all faculties when color is nil, otherwise only
// exact (case-sensitive) color matches.
func (s *facultyServiceImpl) FindByColor(ctx context.Context, color *string) ([]*models.Faculty, error) {
	if color == nil {
		return s.facultyRepo.FindAll(ctx)
	}
	return s.facultyRepo.FindByColor(ctx, *color)
}

// FindByColorOrName lists faculties whose color or name contains the
// term, case-insensitively.
func (s *facultyServiceImpl) FindByColorOrName(ctx context.Context, term string) ([]*models.Faculty, error) {
	return s.facultyRepo.FindByColorOrName(ctx, term)
}
