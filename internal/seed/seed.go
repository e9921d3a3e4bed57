package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/hogwarts/internal/app/models"
	appRepos "github.com/yigit/hogwarts/internal/app/repositories"
)

// defaultFaculties are the canonical houses created on first startup.
var defaultFaculties = []appModels.Faculty{
	{Name: "Gryffindor", Color: "red"},
	{Name: "Slytherin", Color: "green"},
	{Name: "Ravenclaw", Color: "blue"},
	{Name: "Hufflepuff", Color: "yellow"},
}

// CreateDefaultData seeds the faculties table with the default houses
// when it is empty. An already populated table is left untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	facultyRepo := appRepos.NewFacultyRepository(dbPool)

	existing, err := facultyRepo.FindAll(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking existing faculties before seeding")
		return err
	}

	if len(existing) > 0 {
		lgr.Debug().Int("count", len(existing)).Msg("Faculties already present, skipping seed")
		return nil
	}

	for _, faculty := range defaultFaculties {
		created, err := facultyRepo.Create(ctx, &faculty)
		if err != nil {
			lgr.Error().Err(err).Str("name", faculty.Name).Msg("Error seeding faculty")
			return err
		}
		lgr.Info().Int64("id", created.ID).Str("name", created.Name).Msg("Seeded faculty")
	}

	return nil
}
