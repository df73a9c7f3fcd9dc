package store

import (
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

const (
	selectMirrorSQL = `SELECT value FROM mirror_entries WHERE key = ?`
	upsertMirrorSQL = `INSERT INTO mirror_entries (key,value,updated_at) VALUES (?,?,?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	deleteMirrorSQL = `DELETE FROM mirror_entries WHERE key = ?`
)

func TestSQLiteKeyValueStore_Get(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(mock sqlmock.Sqlmock)
		wantValue string
		wantFound bool
		wantErr   error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(selectMirrorSQL)).
					WithArgs("ns-u1").
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"items":[]}`))
			},
			wantValue: `{"items":[]}`,
			wantFound: true,
		},
		{
			name: "absent",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(selectMirrorSQL)).
					WithArgs("ns-u1").
					WillReturnRows(sqlmock.NewRows([]string{"value"}))
			},
		},
		{
			name: "query error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(selectMirrorSQL)).
					WithArgs("ns-u1").
					WillReturnError(errors.New("disk I/O error"))
			},
			wantErr: ErrExecutingQuery,
		},
		{
			name: "busy is retried",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(selectMirrorSQL)).
					WithArgs("ns-u1").
					WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})
				mock.ExpectQuery(regexp.QuoteMeta(selectMirrorSQL)).
					WithArgs("ns-u1").
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("v"))
			},
			wantValue: "v",
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			tt.setup(mock)
			kv := NewSQLiteKeyValueStore(newDBFromSQL(db, dialectSQLite))

			value, found, err := kv.Get(testContext(), "ns-u1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantFound, found)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLiteKeyValueStore_Set(t *testing.T) {
	t.Run("upsert", func(t *testing.T) {
		db, mock := newTestDB(t)
		mock.ExpectExec(regexp.QuoteMeta(upsertMirrorSQL)).
			WithArgs("ns-u1", "payload", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := NewSQLiteKeyValueStore(newDBFromSQL(db, dialectSQLite)).Set(testContext(), "ns-u1", "payload")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("quota exceeded", func(t *testing.T) {
		db, mock := newTestDB(t)
		mock.ExpectExec(regexp.QuoteMeta(upsertMirrorSQL)).
			WillReturnError(sqlite3.Error{Code: sqlite3.ErrFull})

		err := NewSQLiteKeyValueStore(newDBFromSQL(db, dialectSQLite)).Set(testContext(), "ns-u1", "payload")

		assert.ErrorIs(t, err, ErrExecutingStatement)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLiteKeyValueStore_Remove(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectExec(regexp.QuoteMeta(deleteMirrorSQL)).
		WithArgs("ns-u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewSQLiteKeyValueStore(newDBFromSQL(db, dialectSQLite)).Remove(testContext(), "ns-u1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSQLiteKeyValueStore_File runs the full store against a real SQLite file
// opened through NewMirrorStore, migrations included.
func TestSQLiteKeyValueStore_File(t *testing.T) {
	ctx := testContext()
	path := filepath.Join(t.TempDir(), "nested", "mirror.db")

	kv, err := NewMirrorStore(ctx, config.Mirror{Backend: config.MirrorBackendSQLite, Path: path}, logger.Nop())
	require.NoError(t, err)
	defer kv.Close()

	_, found, err := kv.Get(ctx, "ns-u1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "ns-u1", "first"))
	require.NoError(t, kv.Set(ctx, "ns-u1", "second"))

	value, found, err := kv.Get(ctx, "ns-u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", value)

	require.NoError(t, kv.Remove(ctx, "ns-u1"))
	require.NoError(t, kv.Remove(ctx, "ns-u1"))
	_, found, err = kv.Get(ctx, "ns-u1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewMirrorStore_UnknownBackend(t *testing.T) {
	kv, err := NewMirrorStore(testContext(), config.Mirror{Backend: "redis", Path: "x"}, logger.Nop())

	assert.Nil(t, kv)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
