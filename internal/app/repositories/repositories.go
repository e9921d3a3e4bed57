package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	FacultyRepository *FacultyRepository
	StudentRepository *StudentRepository
	AvatarRepository  *AvatarRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		FacultyRepository: NewFacultyRepository(db),
		StudentRepository: NewStudentRepository(db),
		AvatarRepository:  NewAvatarRepository(db),
	}
}

// advanceIdentitySequence moves a table's identity sequence past the
// highest existing id. Inserting a caller-supplied id into a GENERATED
// BY DEFAULT column leaves the sequence behind, so without this a later
// store-assigned id would collide with it. The table name is an
// internal constant, never caller input.
func advanceIdentitySequence(ctx context.Context, db *pgxpool.Pool, table string) error {
	sql := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))",
		table, table,
	)
	if _, err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to advance %s identity sequence: %w", table, err)
	}
	return nil
}
