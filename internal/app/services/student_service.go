package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/app/repositories"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
)

// StudentService defines the interface for student directory operations
type StudentService interface {
	Create(ctx context.Context, student *models.Student) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Update(ctx context.Context, id int64, student *models.Student) (*models.Student, error)
	Delete(ctx context.Context, id int64) (*models.Student, error)
	FindByAge(ctx context.Context, age *int) ([]*models.Student, error)
	FindByAgeBetween(ctx context.Context, ageFrom, ageTo int) ([]*models.Student, error)
	FacultyOf(ctx context.Context, id int64) (*models.Faculty, error)
	UploadAvatar(ctx context.Context, id int64, fileHeader *multipart.FileHeader) (*models.Student, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo   *repositories.StudentRepository
	facultyRepo   *repositories.FacultyRepository
	avatarService AvatarService
	baseURL       string
}

// NewStudentService creates a new student service instance. baseURL is
// the externally reachable server root embedded into avatar URLs.
func NewStudentService(
	studentRepo *repositories.StudentRepository,
	facultyRepo *repositories.FacultyRepository,
	avatarService AvatarService,
	baseURL string,
) StudentService {
	return &studentServiceImpl{
		studentRepo:   studentRepo,
		facultyRepo:   facultyRepo,
		avatarService: avatarService,
		baseURL:       strings.TrimRight(baseURL, "/"),
	}
}

// validateStudent validates student data before database operations
func validateStudent(student *models.Student) error {
	if student == nil {
		return fmt.Errorf("%w: student is nil", apperrors.ErrValidationFailed)
	}

	if strings.TrimSpace(student.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	if student.Age < 0 {
		return fmt.Errorf("%w: age cannot be negative", apperrors.ErrValidationFailed)
	}

	return nil
}

// requireFaculty confirms a referenced faculty exists before a student
// row starts pointing at it.
func (s *studentServiceImpl) requireFaculty(ctx context.Context, facultyID int64) error {
	if _, err := s.facultyRepo.GetByID(ctx, facultyID); err != nil {
		return err
	}
	return nil
}

// Create persists a new student, copying name, age and the optional
// faculty reference. The referenced faculty must exist. The avatar URL
// is never caller-settable and starts out null.
func (s *studentServiceImpl) Create(ctx context.Context, student *models.Student) (*models.Student, error) {
	if err := validateStudent(student); err != nil {
		return nil, err
	}

	if student.FacultyID != nil {
		if err := s.requireFaculty(ctx, *student.FacultyID); err != nil {
			return nil, err
		}
	}

	return s.studentRepo.Create(ctx, student)
}

// GetByID retrieves a student by ID
func (s *studentServiceImpl) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	if id <= 0 {
		return nil, apperrors.NewStudentNotFound(id)
	}
	return s.studentRepo.GetByID(ctx, id)
}

// Update overwrites name and age of an existing student. A present
// facultyId re-points the student after the target faculty is confirmed
// to exist; an absent facultyId leaves the association unchanged. The
// id and avatar URL never change here.
func (s *studentServiceImpl) Update(ctx context.Context, id int64, student *models.Student) (*models.Student, error) {
	if err := validateStudent(student); err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = student.Name
	existing.Age = student.Age
	if student.FacultyID != nil {
		if err := s.requireFaculty(ctx, *student.FacultyID); err != nil {
			return nil, err
		}
		existing.FacultyID = student.FacultyID
	}

	if err := s.studentRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a student and returns the removed record. The avatar
// row and its stored file go first; the store has no automatic cascade.
func (s *studentServiceImpl) Delete(ctx context.Context, id int64) (*models.Student, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.avatarService.DeleteForStudent(ctx, id); err != nil {
		return nil, err
	}

	return s.studentRepo.Delete(ctx, id)
}

// FindByAge lists all students when age is nil, otherwise only exact
// age matches.
func (s *studentServiceImpl) FindByAge(ctx context.Context, age *int) ([]*models.Student, error) {
	if age == nil {
		return s.studentRepo.FindAll(ctx)
	}
	return s.studentRepo.FindByAge(ctx, *age)
}

// FindByAgeBetween lists students with age in [ageFrom, ageTo], both
// bounds inclusive.
func (s *studentServiceImpl) FindByAgeBetween(ctx context.Context, ageFrom, ageTo int) ([]*models.Student, error) {
	return s.studentRepo.FindByAgeBetween(ctx, ageFrom, ageTo)
}

// FacultyOf resolves a student's faculty. A missing student is an
// error; a student without a faculty yields nil without error.
func (s *studentServiceImpl) FacultyOf(ctx context.Context, id int64) (*models.Faculty, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if student.FacultyID == nil {
		return nil, nil
	}

	return s.facultyRepo.GetByID(ctx, *student.FacultyID)
}

// UploadAvatar ingests an avatar for a student, then stores the derived
// retrieval URL on the student record. Ingestion and the student update
// are two separate commits, as in the original design: a crash between
// them leaves a retrievable avatar whose URL was never published.
func (s *studentServiceImpl) UploadAvatar(ctx context.Context, id int64, fileHeader *multipart.FileHeader) (*models.Student, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	avatar, err := s.avatarService.Create(ctx, student, fileHeader)
	if err != nil {
		return nil, err
	}

	avatarURL := fmt.Sprintf("%s/avatars/%d/from-db", s.baseURL, avatar.ID)
	if err := s.studentRepo.UpdateAvatarURL(ctx, id, avatarURL); err != nil {
		return nil, err
	}

	student.AvatarURL = &avatarURL
	return student, nil
}
