package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

// LocalStorage stores files on the local filesystem under one root
// directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating
// the directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// Save writes src to a uuid-named temporary file in the storage root
// and renames it to the final name only after the copy succeeded, so a
// failed upload never leaves a servable partial file. The temporary
// file is removed on every failure path.
func (ls *LocalStorage) Save(filename string, src io.Reader) (string, int64, error) {
	dstPath := filepath.Join(ls.basePath, filename)
	tmpPath := filepath.Join(ls.basePath, ".tmp-"+uuid.New().String())

	tmp, err := os.Create(tmpPath)
	if err != nil {
		logger.Error().Err(err).Str("path", tmpPath).Msg("Failed to create temporary file")
		return "", 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	written, err := io.Copy(tmp, src)
	if err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("path", tmpPath).Msg("Failed to copy uploaded content")
		return "", 0, fmt.Errorf("failed to save file content: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", 0, fmt.Errorf("failed to flush file content: %w", err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to move file into place")
		return "", 0, fmt.Errorf("failed to move file into place: %w", err)
	}

	logger.Info().Str("path", dstPath).Int64("bytes", written).Msg("File saved")
	return dstPath, written, nil
}

// Open returns a reader over a stored file.
func (ls *LocalStorage) Open(path string) (io.ReadSeekCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a stored file. A missing file is treated as already
// deleted.
func (ls *LocalStorage) Delete(path string) error {
	if path == "" {
		return nil
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", path).Msg("File deleted")
	return nil
}
