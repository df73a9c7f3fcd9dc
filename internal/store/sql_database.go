package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/migrations"
)

const (
	dialectSQLite   = "sqlite3"
	dialectPostgres = "pgx"

	maxAttempts = 3
)

// DB wraps *sql.DB with the dialect-specific error classifier used to decide
// whether a failed statement is worth retrying.
type DB struct {
	*sql.DB
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the schema of the connection's dialect.
func (db *DB) Migrate() error {
	if db.dialect == dialectPostgres {
		return migrations.MigrateServer(db.DB)
	}
	return migrations.MigrateClient(db.DB)
}

// withRetry runs op until it succeeds, fails with a non-retryable error or
// maxAttempts is reached. Waits grow linearly between attempts and stop early
// if ctx is done.
func (db *DB) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = op()
		if err == nil || db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "DB.withRetry").
			Int("attempt", attempt).
			Msg("retryable database error")

		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
	return err
}
