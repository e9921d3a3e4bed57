package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotFound is the sentinel for any entity absent from the store.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned for duplicate identities and for deleting
	// a faculty that still has students.
	ErrConflict = errors.New("conflict")
	// ErrValidationFailed is returned for malformed directory input.
	ErrValidationFailed = errors.New("validation failed")
	// ErrInvalidUpload is returned for empty, oversized or undecodable
	// avatar payloads.
	ErrInvalidUpload = errors.New("invalid upload")
	// ErrStorageUnavailable is returned when the file store fails or a
	// row points at a file that no longer exists.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// EntityNoun is the localized noun used in not-found messages. The
// wire format of these messages is part of the API contract, so the
// nouns are fixed constants rather than derived names.
type EntityNoun string

const (
	NounStudent EntityNoun = "Студент"
	NounFaculty EntityNoun = "Факультет"
	NounAvatar  EntityNoun = "Аватар"
)

// NotFoundError carries the entity kind and id so the HTTP layer can
// render the exact localized message the clients depend on.
type NotFoundError struct {
	Noun EntityNoun
	ID   int64
}

// Error renders the message byte-for-byte as served to clients:
// "{Noun} с id = {id} не найден!".
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s с id = %d не найден!", e.Noun, e.ID)
}

// Unwrap makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewStudentNotFound reports an absent student.
func NewStudentNotFound(id int64) error {
	return &NotFoundError{Noun: NounStudent, ID: id}
}

// NewFacultyNotFound reports an absent faculty.
func NewFacultyNotFound(id int64) error {
	return &NotFoundError{Noun: NounFaculty, ID: id}
}

// NewAvatarNotFound reports an absent avatar.
func NewAvatarNotFound(id int64) error {
	return &NotFoundError{Noun: NounAvatar, ID: id}
}

// ConflictError wraps ErrConflict with a caller-facing message.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError creates a conflict error with a message.
func NewConflictError(message string) error {
	return &ConflictError{Message: message}
}
