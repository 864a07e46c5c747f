package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/turiddu25/cobble-economy/internal/pkg/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const PgxDriverName = "pgx"

// MigrateDatabase applies every pending goose migration found under dir and logs the applied versions.
func MigrateDatabase(ctx context.Context, databaseURL string, migrations fs.FS, dir string, logger logging.Logger) error {
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations dir %q: %w", dir, err)
	}

	db, err := sql.Open(PgxDriverName, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, res := range results {
		logger.Info("applied migration", "version", res.Source.Version, "duration", res.Duration)
	}

	return nil
}
