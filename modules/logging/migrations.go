package logging

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	"github.com/go-faster/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed infrastructure/persistence/migrations/*.sql
var MigrationFiles embed.FS

const migrationsDir = "infrastructure/persistence/migrations"

// Migrate applies the pending activity log migrations to the database at dsn
// and returns the versions it applied.
func Migrate(ctx context.Context, dsn string) ([]int64, error) {
	migrations, err := fs.Sub(MigrationFiles, migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "migrations dir")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	defer func() { _ = db.Close() }()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return nil, errors.Wrap(err, "goose provider")
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "apply migrations")
	}
	applied := make([]int64, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Version)
	}
	return applied, nil
}
