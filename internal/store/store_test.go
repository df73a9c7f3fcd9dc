package store

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// newDBFromSQL создаёт DB из существующего *sql.DB (для тестов).
func newDBFromSQL(db *sql.DB, dialect string) *DB {
	var classifier ErrorClassificator = NewPostgresErrorClassifier()
	if dialect == dialectSQLite {
		classifier = NewSQLiteErrorClassifier()
	}
	return &DB{
		DB:                 db,
		dialect:            dialect,
		errorClassificator: classifier,
		logger:             logger.Nop(),
	}
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}
