package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
	"github.com/yigit/hogwarts/internal/pkg/filestorage"
	"github.com/yigit/hogwarts/internal/pkg/imaging"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

// AvatarService defines avatar ingestion and retrieval. The original
// upload lives on the file store, the generated preview lives in the
// avatar row; both are written per upload.
type AvatarService interface {
	Create(ctx context.Context, student *models.Student, fileHeader *multipart.FileHeader) (*models.Avatar, error)
	GetByID(ctx context.Context, id int64) (*models.Avatar, error)
	OpenOriginal(ctx context.Context, id int64) (*models.Avatar, io.ReadSeekCloser, error)
	DeleteForStudent(ctx context.Context, studentID int64) error
}

// AvatarStore is the persistence surface avatar ingestion relies on,
// satisfied by repositories.AvatarRepository.
type AvatarStore interface {
	Upsert(ctx context.Context, avatar *models.Avatar) (*models.Avatar, error)
	GetByID(ctx context.Context, id int64) (*models.Avatar, error)
	GetByStudentID(ctx context.Context, studentID int64) (*models.Avatar, error)
	DeleteByStudentID(ctx context.Context, studentID int64) error
}

// avatarServiceImpl implements the AvatarService interface
type avatarServiceImpl struct {
	avatarRepo    AvatarStore
	storage       filestorage.FileStorage
	maxUploadSize int64
	previewSize   int
}

// NewAvatarService creates a new avatar service instance
func NewAvatarService(avatarRepo AvatarStore, storage filestorage.FileStorage, maxUploadSize int64, previewSize int) AvatarService {
	return &avatarServiceImpl{
		avatarRepo:    avatarRepo,
		storage:       storage,
		maxUploadSize: maxUploadSize,
		previewSize:   previewSize,
	}
}

// extensionFor maps a decoded media type to the stored file extension.
// Derived from the decoded format rather than the uploaded filename so
// the destination path stays deterministic per student.
func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

// Create ingests an upload for a student: validates it, derives the
// preview, writes the original to the file store and upserts the single
// avatar row. The row is written only after the file write succeeded,
// so a storage failure never leaves a half-written row.
func (s *avatarServiceImpl) Create(ctx context.Context, student *models.Student, fileHeader *multipart.FileHeader) (*models.Avatar, error) {
	if fileHeader == nil || fileHeader.Size == 0 {
		return nil, fmt.Errorf("%w: upload is empty", apperrors.ErrInvalidUpload)
	}
	if fileHeader.Size > s.maxUploadSize {
		return nil, fmt.Errorf("%w: upload of %d bytes exceeds the %d byte limit",
			apperrors.ErrInvalidUpload, fileHeader.Size, s.maxUploadSize)
	}

	// Decode before anything touches the disk: a corrupt payload must
	// not clobber the previously stored original.
	preview, err := s.decodePreview(fileHeader)
	if err != nil {
		return nil, err
	}

	prev, err := s.avatarRepo.GetByStudentID(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open upload: %v", apperrors.ErrStorageUnavailable, err)
	}
	defer src.Close()

	filename := fmt.Sprintf("student_%d%s", student.ID, extensionFor(preview.MediaType))
	path, written, err := s.storage.Save(filename, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	avatar := &models.Avatar{
		StudentID:        student.ID,
		FilePath:         path,
		FileSize:         written,
		MediaType:        preview.MediaType,
		PreviewData:      preview.Data,
		PreviewMediaType: preview.MediaType,
	}

	stored, err := s.avatarRepo.Upsert(ctx, avatar)
	if err != nil {
		return nil, err
	}

	// A re-upload in a different format leaves the old original behind
	// under its old extension; remove it once the row points elsewhere.
	if prev != nil && prev.FilePath != path {
		if err := s.storage.Delete(prev.FilePath); err != nil {
			logger.Warn().Err(err).Str("path", prev.FilePath).Msg("Failed to remove superseded avatar file")
		}
	}

	return stored, nil
}

func (s *avatarServiceImpl) decodePreview(fileHeader *multipart.FileHeader) (*imaging.Preview, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open upload: %v", apperrors.ErrInvalidUpload, err)
	}
	defer src.Close()

	preview, err := imaging.GeneratePreview(src, s.previewSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidUpload, err)
	}
	return preview, nil
}

// GetByID retrieves an avatar row, preview bytes included.
func (s *avatarServiceImpl) GetByID(ctx context.Context, id int64) (*models.Avatar, error) {
	if id <= 0 {
		return nil, apperrors.NewAvatarNotFound(id)
	}
	return s.avatarRepo.GetByID(ctx, id)
}

// OpenOriginal resolves the avatar row and opens its stored file for
// streaming. A row whose file has gone missing is an inconsistency and
// surfaces as a storage failure rather than empty bytes.
func (s *avatarServiceImpl) OpenOriginal(ctx context.Context, id int64) (*models.Avatar, io.ReadSeekCloser, error) {
	avatar, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	file, err := s.storage.Open(avatar.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Error().Int64("avatarID", id).Str("path", avatar.FilePath).Msg("Avatar row exists but file is missing")
			return nil, nil, fmt.Errorf("%w: avatar file is missing at %s", apperrors.ErrStorageUnavailable, avatar.FilePath)
		}
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	return avatar, file, nil
}

// DeleteForStudent removes a student's avatar row and its stored file.
// Called only from student deletion; the row goes first so the foreign
// key never blocks the student delete, the file after, best-effort.
func (s *avatarServiceImpl) DeleteForStudent(ctx context.Context, studentID int64) error {
	avatar, err := s.avatarRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return err
	}
	if avatar == nil {
		return nil
	}

	if err := s.avatarRepo.DeleteByStudentID(ctx, studentID); err != nil {
		return err
	}

	if err := s.storage.Delete(avatar.FilePath); err != nil {
		logger.Warn().Err(err).Str("path", avatar.FilePath).Msg("Failed to remove avatar file during student deletion")
	}

	return nil
}
