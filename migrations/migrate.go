// Package migrations embeds the goose schema migrations of both binaries:
// the client mirror store (SQLite) and the document server (PostgreSQL).
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed client/*.sql server/*.sql
var embedMigrations embed.FS

var errNilDB = errors.New("migration error: db is nil")

// MigrateClient applies the client mirror schema to a SQLite database.
func MigrateClient(db *sql.DB) error {
	return migrate(db, "sqlite3", "client")
}

// MigrateServer applies the document schema to a PostgreSQL database opened
// through the pgx stdlib driver.
func MigrateServer(db *sql.DB) error {
	return migrate(db, "pgx", "server")
}

func migrate(db *sql.DB, dialect, dir string) error {
	if db == nil {
		return errNilDB
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
