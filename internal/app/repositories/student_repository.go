package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

const studentColumns = "id, name, age, faculty_id, avatar_url"

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{}
	err := row.Scan(&student.ID, &student.Name, &student.Age, &student.FacultyID, &student.AvatarURL)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// Create persists a new student with the same identity pass-through
// policy as faculties: an explicit positive id round-trips or
// conflicts, otherwise the store assigns one. An explicit id also
// advances the identity sequence past itself.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (*models.Student, error) {
	builder := r.sb.Insert("students").Suffix("RETURNING id")
	if student.ID > 0 {
		builder = builder.Columns("id", "name", "age", "faculty_id").
			Values(student.ID, student.Name, student.Age, student.FacultyID)
	} else {
		builder = builder.Columns("name", "age", "faculty_id").
			Values(student.Name, student.Age, student.FacultyID)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create student query: %w", err)
	}

	created := &models.Student{Name: student.Name, Age: student.Age, FacultyID: student.FacultyID}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&created.ID)
	if err != nil {
		if isDuplicateKeyError(err) && student.ID > 0 {
			return nil, apperrors.NewConflictError(fmt.Sprintf("student with id = %d already exists", student.ID))
		}
		logger.Error().Err(err).Msg("Error executing create student query")
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	if student.ID > 0 {
		if err := advanceIdentitySequence(ctx, r.db, "students"); err != nil {
			logger.Warn().Err(err).Int64("studentID", created.ID).Msg("Failed to advance student identity sequence")
		}
	}

	return created, nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns).
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStudentNotFound(id)
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// FindAll retrieves all students in insertion order.
func (r *StudentRepository) FindAll(ctx context.Context) ([]*models.Student, error) {
	return r.findWhere(ctx, nil)
}

// FindByAge retrieves students matching an exact age.
func (r *StudentRepository) FindByAge(ctx context.Context, age int) ([]*models.Student, error) {
	return r.findWhere(ctx, squirrel.Eq{"age": age})
}

// FindByAgeBetween retrieves students with age in [ageFrom, ageTo],
// both bounds inclusive.
func (r *StudentRepository) FindByAgeBetween(ctx context.Context, ageFrom, ageTo int) ([]*models.Student, error) {
	return r.findWhere(ctx, squirrel.And{
		squirrel.GtOrEq{"age": ageFrom},
		squirrel.LtOrEq{"age": ageTo},
	})
}

func (r *StudentRepository) findWhere(ctx context.Context, pred interface{}) ([]*models.Student, error) {
	builder := r.sb.Select(studentColumns).
		From("students").
		OrderBy("id ASC")
	if pred != nil {
		builder = builder.Where(pred)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// Update overwrites name, age and the faculty reference of an existing
// student, never its id or avatar URL.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"name":       student.Name,
			"age":        student.Age,
			"faculty_id": student.FacultyID,
		}).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewStudentNotFound(student.ID)
	}

	return nil
}

// UpdateAvatarURL sets the derived avatar URL after an upload.
func (r *StudentRepository) UpdateAvatarURL(ctx context.Context, id int64, avatarURL string) error {
	sql, args, err := r.sb.Update("students").
		Set("avatar_url", avatarURL).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update avatar url query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing update avatar url query")
		return fmt.Errorf("error updating student avatar url: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewStudentNotFound(id)
	}

	return nil
}

// Delete removes a student and returns the removed row. The avatar row
// must be gone first (the store has no cascade); the service layer
// enforces that ordering together with the file cleanup.
func (r *StudentRepository) Delete(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + studentColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStudentNotFound(id)
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return nil, fmt.Errorf("error deleting student: %w", err)
	}

	return student, nil
}
