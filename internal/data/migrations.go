package data

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/rosterd/rosterd/internal/migrate"
)

// RunMigrations brings the schema this package reads and writes up to date.
// Callers outside the storage layer go through here instead of importing
// the migrate package directly.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	return migrate.Run(ctx, db, logger)
}
