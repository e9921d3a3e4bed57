package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

// FacultyRepository handles faculty database operations
type FacultyRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFacultyRepository creates a new FacultyRepository
func NewFacultyRepository(db *pgxpool.Pool) *FacultyRepository {
	return &FacultyRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation error.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // 23505 is unique_violation
}

// Create persists a new faculty. A caller-supplied positive id is
// inserted as-is (the identity column is GENERATED BY DEFAULT), so the
// id round-trips; a duplicate id is a conflict. With no id the store
// assigns one. After an explicit-id insert the identity sequence is
// advanced past it so later store-assigned ids cannot collide.
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error) {
	builder := r.sb.Insert("faculties").Suffix("RETURNING id")
	if faculty.ID > 0 {
		builder = builder.Columns("id", "name", "color").
			Values(faculty.ID, faculty.Name, faculty.Color)
	} else {
		builder = builder.Columns("name", "color").
			Values(faculty.Name, faculty.Color)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create faculty query: %w", err)
	}

	created := &models.Faculty{Name: faculty.Name, Color: faculty.Color}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&created.ID)
	if err != nil {
		if isDuplicateKeyError(err) && faculty.ID > 0 {
			return nil, apperrors.NewConflictError(fmt.Sprintf("faculty with id = %d already exists", faculty.ID))
		}
		logger.Error().Err(err).Msg("Error executing create faculty query")
		return nil, fmt.Errorf("error creating faculty: %w", err)
	}

	if faculty.ID > 0 {
		if err := advanceIdentitySequence(ctx, r.db, "faculties"); err != nil {
			logger.Warn().Err(err).Int64("facultyID", created.ID).Msg("Failed to advance faculty identity sequence")
		}
	}

	return created, nil
}

// GetByID retrieves a faculty by ID
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	sql, args, err := r.sb.Select("id", "name", "color").
		From("faculties").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get faculty query: %w", err)
	}

	faculty := &models.Faculty{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&faculty.ID, &faculty.Name, &faculty.Color)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewFacultyNotFound(id)
		}
		logger.Error().Err(err).Int64("facultyID", id).Msg("Error scanning faculty row")
		return nil, fmt.Errorf("error getting faculty by ID: %w", err)
	}

	return faculty, nil
}

// FindAll retrieves all faculties in insertion order.
func (r *FacultyRepository) FindAll(ctx context.Context) ([]*models.Faculty, error) {
	return r.findWhere(ctx, nil)
}

// FindByColor retrieves faculties whose color matches exactly (case-sensitive).
func (r *FacultyRepository) FindByColor(ctx context.Context, color string) ([]*models.Faculty, error) {
	return r.findWhere(ctx, squirrel.Eq{"color": color})
}

// FindByColorOrName retrieves faculties whose color or name contains
// the term, case-insensitively. A single query returns each row once
// even when both fields match.
func (r *FacultyRepository) FindByColorOrName(ctx context.Context, term string) ([]*models.Faculty, error) {
	pattern := "%" + term + "%"
	return r.findWhere(ctx, squirrel.Or{
		squirrel.ILike{"color": pattern},
		squirrel.ILike{"name": pattern},
	})
}

func (r *FacultyRepository) findWhere(ctx context.Context, pred interface{}) ([]*models.Faculty, error) {
	builder := r.sb.Select("id", "name", "color").
		From("faculties").
		OrderBy("id ASC")
	if pred != nil {
		builder = builder.Where(pred)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list faculties query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list faculties query")
		return nil, fmt.Errorf("error querying faculties: %w", err)
	}
	defer rows.Close()

	faculties := []*models.Faculty{}
	for rows.Next() {
		faculty := &models.Faculty{}
		if err := rows.Scan(&faculty.ID, &faculty.Name, &faculty.Color); err != nil {
			return nil, fmt.Errorf("error scanning faculty row: %w", err)
		}
		faculties = append(faculties, faculty)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating faculty rows: %w", err)
	}

	return faculties, nil
}

// Update overwrites the name and color of an existing faculty, never the id.
func (r *FacultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	sql, args, err := r.sb.Update("faculties").
		SetMap(map[string]interface{}{
			"name":  faculty.Name,
			"color": faculty.Color,
		}).
		Where(squirrel.Eq{"id": faculty.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update faculty query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("facultyID", faculty.ID).Msg("Error executing update faculty query")
		return fmt.Errorf("error updating faculty: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewFacultyNotFound(faculty.ID)
	}

	return nil
}

// Delete removes a faculty and returns the removed row so callers can
// confirm what was deleted. A faculty that still has students is not
// removed; the caller gets a conflict instead.
func (r *FacultyRepository) Delete(ctx context.Context, id int64) (*models.Faculty, error) {
	var hasStudents bool
	checkSql, checkArgs, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"faculty_id": id}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build check students query: %w", err)
	}

	err = r.db.QueryRow(ctx, checkSql, checkArgs...).Scan(&hasStudents)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("facultyID", id).Msg("Error checking enrolled students")
		return nil, fmt.Errorf("error checking enrolled students: %w", err)
	}

	if hasStudents {
		return nil, apperrors.NewConflictError(fmt.Sprintf("faculty with id = %d still has enrolled students", id))
	}

	sql, args, err := r.sb.Delete("faculties").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, name, color").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete faculty query: %w", err)
	}

	faculty := &models.Faculty{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&faculty.ID, &faculty.Name, &faculty.Color)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewFacultyNotFound(id)
		}
		logger.Error().Err(err).Int64("facultyID", id).Msg("Error executing delete faculty query")
		return nil, fmt.Errorf("error deleting faculty: %w", err)
	}

	return faculty, nil
}
