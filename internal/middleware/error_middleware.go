package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

// HandleAPIError translates service errors into HTTP responses.
// Not-found bodies are plain strings, not a JSON envelope: clients
// match them byte-for-byte ("{Noun} с id = {id} не найден!"), so the
// error's own message is written untouched.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.String(http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrInvalidUpload):
		c.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		c.String(http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Storage failure")
		c.String(http.StatusServiceUnavailable, "storage unavailable")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.String(http.StatusInternalServerError, "internal server error")
	}
}
