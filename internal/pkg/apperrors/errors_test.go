package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundMessages(t *testing.T) {
	assert.Equal(t, "Студент с id = 7 не найден!", NewStudentNotFound(7).Error())
	assert.Equal(t, "Факультет с id = 3 не найден!", NewFacultyNotFound(3).Error())
	assert.Equal(t, "Аватар с id = 12 не найден!", NewAvatarNotFound(12).Error())
}

func TestNotFoundUnwrapsToSentinel(t *testing.T) {
	err := NewStudentNotFound(1)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))

	var nfe *NotFoundError
	require.True(t, errors.As(err, &nfe))
	assert.Equal(t, NounStudent, nfe.Noun)
	assert.Equal(t, int64(1), nfe.ID)
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("faculty with id = 5 still has enrolled students")
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "faculty with id = 5 still has enrolled students", err.Error())
}

func TestWrappedSentinelsSurviveFmtErrorf(t *testing.T) {
	err := fmt.Errorf("%w: upload is empty", ErrInvalidUpload)
	assert.True(t, errors.Is(err, ErrInvalidUpload))
}
