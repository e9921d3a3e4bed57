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

// AvatarRepository handles avatar database operations. Avatar rows are
// written only by the ingestion flow, never by directory CRUD.
type AvatarRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAvatarRepository creates a new AvatarRepository
func NewAvatarRepository(db *pgxpool.Pool) *AvatarRepository {
	return &AvatarRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert inserts the avatar row for a student or overwrites the
// existing one in place. The UNIQUE constraint on student_id keeps the
// row count at one per student regardless of how many uploads race.
func (r *AvatarRepository) Upsert(ctx context.Context, avatar *models.Avatar) (*models.Avatar, error) {
	sql, args, err := r.sb.Insert("avatars").
		Columns("student_id", "file_path", "file_size", "media_type", "preview_data", "preview_media_type").
		Values(avatar.StudentID, avatar.FilePath, avatar.FileSize, avatar.MediaType, avatar.PreviewData, avatar.PreviewMediaType).
		Suffix(`ON CONFLICT (student_id) DO UPDATE SET
			file_path = EXCLUDED.file_path,
			file_size = EXCLUDED.file_size,
			media_type = EXCLUDED.media_type,
			preview_data = EXCLUDED.preview_data,
			preview_media_type = EXCLUDED.preview_media_type
		RETURNING id`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build upsert avatar query: %w", err)
	}

	stored := *avatar
	err = r.db.QueryRow(ctx, sql, args...).Scan(&stored.ID)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", avatar.StudentID).Msg("Error executing upsert avatar query")
		return nil, fmt.Errorf("error upserting avatar: %w", err)
	}

	return &stored, nil
}

// GetByID retrieves a full avatar row, preview bytes included.
func (r *AvatarRepository) GetByID(ctx context.Context, id int64) (*models.Avatar, error) {
	sql, args, err := r.sb.Select("id", "student_id", "file_path", "file_size", "media_type", "preview_data", "preview_media_type").
		From("avatars").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get avatar query: %w", err)
	}

	avatar := &models.Avatar{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&avatar.ID, &avatar.StudentID, &avatar.FilePath, &avatar.FileSize,
		&avatar.MediaType, &avatar.PreviewData, &avatar.PreviewMediaType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAvatarNotFound(id)
		}
		logger.Error().Err(err).Int64("avatarID", id).Msg("Error scanning avatar row")
		return nil, fmt.Errorf("error getting avatar by ID: %w", err)
	}

	return avatar, nil
}

// GetByStudentID retrieves the avatar row for a student, or nil when
// the student has none. Absence is not an error here: callers use this
// to decide between cleanup and a no-op.
func (r *AvatarRepository) GetByStudentID(ctx context.Context, studentID int64) (*models.Avatar, error) {
	sql, args, err := r.sb.Select("id", "student_id", "file_path", "file_size", "media_type", "preview_data", "preview_media_type").
		From("avatars").
		Where(squirrel.Eq{"student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get avatar by student query: %w", err)
	}

	avatar := &models.Avatar{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&avatar.ID, &avatar.StudentID, &avatar.FilePath, &avatar.FileSize,
		&avatar.MediaType, &avatar.PreviewData, &avatar.PreviewMediaType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning avatar row")
		return nil, fmt.Errorf("error getting avatar by student ID: %w", err)
	}

	return avatar, nil
}

// DeleteByStudentID removes the avatar row of a student. Deleting when
// the student has no avatar is a no-op.
func (r *AvatarRepository) DeleteByStudentID(ctx context.Context, studentID int64) error {
	sql, args, err := r.sb.Delete("avatars").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete avatar query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing delete avatar query")
		return fmt.Errorf("error deleting avatar: %w", err)
	}

	return nil
}
