package store

import (
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-list-keeper/models"
)

var testDocumentColumns = []string{
	"id", "owner_id", "name", "quantity", "description", "child_items", "created_at", "updated_at",
}

func newTestDocumentRepository(t *testing.T) (DocumentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return NewDocumentRepository(newDBFromSQL(db, dialectPostgres)), mock
}

// ── FindByOwner ─────────────────────────────────────────────────────────────

func TestDocumentRepository_FindByOwner(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("returns documents in order", func(t *testing.T) {
		repo, mock := newTestDocumentRepository(t)
		mock.ExpectQuery(`SELECT (.+) FROM documents WHERE collection = \$1 AND owner_id = \$2 ORDER BY created_at, id`).
			WithArgs("shopping-items", "u1").
			WillReturnRows(sqlmock.NewRows(testDocumentColumns).
				AddRow("a", "u1", "Groceries", 2, "weekly", `[{"id":"child-milk-1","title":"Milk","price":1.5}]`, ts, ts).
				AddRow("b", "u1", "Hardware", 1, "", `[]`, ts, ts))

		docs, err := repo.FindByOwner(testContext(), "shopping-items", "u1")

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "a", docs[0].ID)
		assert.Equal(t, "u1", docs[0].UserID)
		assert.Equal(t, 2, docs[0].Quantity)
		assert.Equal(t, []models.LineItem{{ID: "child-milk-1", Title: "Milk", Price: 1.5}}, docs[0].ChildItems)
		assert.Equal(t, []models.LineItem{}, docs[1].ChildItems)
		require.NotNil(t, docs[1].CreatedAt)
		assert.True(t, ts.Equal(*docs[1].CreatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result", func(t *testing.T) {
		repo, mock := newTestDocumentRepository(t)
		mock.ExpectQuery(`SELECT (.+) FROM documents`).
			WillReturnRows(sqlmock.NewRows(testDocumentColumns))

		docs, err := repo.FindByOwner(testContext(), "shopping-items", "u1")

		require.NoError(t, err)
		assert.Empty(t, docs)
		assert.NotNil(t, docs)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newTestDocumentRepository(t)
		mock.ExpectQuery(`SELECT (.+) FROM documents`).
			WillReturnError(errors.New("syntax error"))

		_, err := repo.FindByOwner(testContext(), "shopping-items", "u1")

		assert.ErrorIs(t, err, ErrExecutingQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries connection failure", func(t *testing.T) {
		repo, mock := newTestDocumentRepository(t)
		mock.ExpectQuery(`SELECT (.+) FROM documents`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ConnectionFailure})
		mock.ExpectQuery(`SELECT (.+) FROM documents`).
			WillReturnRows(sqlmock.NewRows(testDocumentColumns).AddRow("a", "u1", "n", 1, "", `[]`, ts, ts))

		docs, err := repo.FindByOwner(testContext(), "shopping-items", "u1")

		require.NoError(t, err)
		assert.Len(t, docs, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// ── FindByID ────────────────────────────────────────────────────────────────

func TestDocumentRepository_FindByID(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newTestDocumentRepository(t)
		mock.ExpectQuery(`SELECT (.+) FROM documents WHERE collection = \$1 AND id = \$2`).
			WithArgs("shopping-items", "a").
			WillReturnRows(sqlmock.NewRows(testDocumentColumns).AddRow("a", "u1", "Groceries", 1, "", nil, ts, ts))

		doc, err := repo.FindByID(testContext(), "shopping-items", "a")

		require.NoError(t, err)
		assert.Equal(t, "Groceries", doc.Name)
		assert.Equal(t, []models.LineItem{}, doc.ChildItems)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newTestDocumentRepository(t)
		mock.ExpectQuery(`SELECT (.+) FROM documents`).
			WillReturnRows(sqlmock.NewRows(testDocumentColumns))

		_, err := repo.FindByID(testContext(), "shopping-items", "missing")

		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("corrupt child items", func(t *testing.T) {
		repo, mock := newTestDocumentRepository(t)
		mock.ExpectQuery(`SELECT (.+) FROM documents`).
			WillReturnRows(sqlmock.NewRows(testDocumentColumns).AddRow("a", "u1", "n", 1, "", `{not json`, ts, ts))

		_, err := repo.FindByID(testContext(), "shopping-items", "a")

		assert.ErrorIs(t, err, ErrScanningRow)
	})
}

// ── Insert ──────────────────────────────────────────────────────────────────

func TestDocumentRepository_Insert(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := models.Document{
		ID:         "a",
		UserID:     "u1",
		Name:       "Groceries",
		Quantity:   1,
		ChildItems: nil,
		CreatedAt:  &ts,
		UpdatedAt:  &ts,
	}
	insertSQL := regexp.QuoteMeta(`INSERT INTO documents (id,collection,owner_id,name,quantity,description,child_items,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`)

	t.Run("success", func(t *testing.T) {
		repo, mock := newTestDocumentRepository(t)
		mock.ExpectExec(insertSQL).
			WithArgs("a", "shopping-items", "u1", "Groceries", 1, "", "[]", &ts, &ts).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Insert(testContext(), "shopping-items", doc))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate id", func(t *testing.T) {
		repo, mock := newTestDocumentRepository(t)
		mock.ExpectExec(insertSQL).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		assert.ErrorIs(t, repo.Insert(testContext(), "shopping-items", doc), ErrDocumentExists)
	})

	t.Run("other error", func(t *testing.T) {
		repo, mock := newTestDocumentRepository(t)
		mock.ExpectExec(insertSQL).
			WillReturnError(errors.New("boom"))

		assert.ErrorIs(t, repo.Insert(testContext(), "shopping-items", doc), ErrExecutingStatement)
	})
}

// ── Update ──────────────────────────────────────────────────────────────────

func TestDocumentRepository_Update(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	name := "Renamed"
	items := []models.LineItem{{ID: "c1", Title: "Bread", Price: 2}}
	patch := models.DocumentPatch{
		ListUpdate: models.ListUpdate{Name: &name, ChildItems: &items},
		UpdatedAt:  &ts,
	}

	t.Run("returns updated document", func(t *testing.T) {
		repo, mock := newTestDocumentRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE documents SET updated_at = $1, name = $2, child_items = $3 WHERE collection = $4 AND id = $5 RETURNING id, owner_id`)).
			WithArgs(ts, "Renamed", `[{"id":"c1","title":"Bread","price":2}]`, "shopping-items", "a").
			WillReturnRows(sqlmock.NewRows(testDocumentColumns).
				AddRow("a", "u1", "Renamed", 3, "d", `[{"id":"c1","title":"Bread","price":2}]`, ts, ts))

		doc, err := repo.Update(testContext(), "shopping-items", "a", patch)

		require.NoError(t, err)
		assert.Equal(t, "Renamed", doc.Name)
		assert.Equal(t, 3, doc.Quantity)
		assert.Equal(t, items, doc.ChildItems)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newTestDocumentRepository(t)
		mock.ExpectQuery(`UPDATE documents SET`).
			WillReturnRows(sqlmock.NewRows(testDocumentColumns))

		_, err := repo.Update(testContext(), "shopping-items", "missing", patch)

		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})
}

// ── Delete ──────────────────────────────────────────────────────────────────

func TestDocumentRepository_Delete(t *testing.T) {
	deleteSQL := regexp.QuoteMeta(`DELETE FROM documents WHERE collection = $1 AND id = $2`)

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "deleted",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(deleteSQL).WithArgs("shopping-items", "a").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(deleteSQL).WithArgs("shopping-items", "a").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: ErrDocumentNotFound,
		},
		{
			name: "exec error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(deleteSQL).WillReturnError(errors.New("boom"))
			},
			wantErr: ErrExecutingStatement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestDocumentRepository(t)
			tt.setup(mock)

			err := repo.Delete(testContext(), "shopping-items", "a")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
