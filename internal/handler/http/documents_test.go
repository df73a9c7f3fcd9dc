// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-list-keeper/models"
)

func groceries() models.Document {
	return models.Document{
		Name:     "Groceries",
		Quantity: 2,
		ChildItems: []models.LineItem{
			{ID: "child-milk-1", Title: "Milk", Price: 1.5},
		},
	}
}

// createAs создаёт документ и возвращает его id.
func (s *testServer) createAs(t *testing.T, userID string, doc models.Document) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, documentsURL(""), userID, doc)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decodeJSON[models.CreatedResponse](t, rr)
	require.NotEmpty(t, created.ID)
	return created.ID
}

// ── list ────────────────────────────────────────────────────────────────────

func TestListDocuments(t *testing.T) {
	srv := newTestServer(t)
	id := srv.createAs(t, testUser, groceries())
	srv.createAs(t, otherUser, models.Document{Name: "Hardware", Quantity: 1})

	rr := srv.do(t, http.MethodGet, documentsURL("?owner="+testUser), testUser, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	docs := decodeJSON[[]models.Document](t, rr)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)
	assert.Equal(t, testUser, docs[0].UserID)
	assert.Equal(t, "Groceries", docs[0].Name)
	assert.Equal(t, groceries().ChildItems, docs[0].ChildItems)
}

func TestListDocuments_Rejections(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		userID     string
		wantStatus int
	}{
		{"no token", documentsURL("?owner=" + testUser), "", http.StatusUnauthorized},
		{"missing owner", documentsURL(""), testUser, http.StatusBadRequest},
		{"foreign owner", documentsURL("?owner=" + otherUser), testUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := srv.do(t, http.MethodGet, tt.target, tt.userID, nil)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotEmpty(t, decodeJSON[models.ErrorResponse](t, rr).Error)
		})
	}
}

func TestListDocuments_EmptyIsArray(t *testing.T) {
	srv := newTestServer(t)

	rr := srv.do(t, http.MethodGet, documentsURL("?owner="+testUser), testUser, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

// ── get ─────────────────────────────────────────────────────────────────────

func TestGetDocument(t *testing.T) {
	srv := newTestServer(t)
	id := srv.createAs(t, testUser, groceries())

	t.Run("own document", func(t *testing.T) {
		rr := srv.do(t, http.MethodGet, documentsURL("/"+id), testUser, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		doc := decodeJSON[models.Document](t, rr)
		assert.Equal(t, id, doc.ID)
		assert.NotNil(t, doc.CreatedAt)
	})

	t.Run("absent document", func(t *testing.T) {
		rr := srv.do(t, http.MethodGet, documentsURL("/missing"), testUser, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("someone else's document", func(t *testing.T) {
		rr := srv.do(t, http.MethodGet, documentsURL("/"+id), otherUser, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

// ── create ──────────────────────────────────────────────────────────────────

func TestCreateDocument_Rejections(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"empty name", models.Document{Quantity: 1}, http.StatusBadRequest},
		{"negative quantity", models.Document{Name: "x", Quantity: -1}, http.StatusBadRequest},
		{"negative price", models.Document{Name: "x", ChildItems: []models.LineItem{{ID: "c", Title: "t", Price: -1}}}, http.StatusBadRequest},
		{"foreign owner", models.Document{UserID: otherUser, Name: "x"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := srv.do(t, http.MethodPost, documentsURL(""), testUser, tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

// ── update ──────────────────────────────────────────────────────────────────

func TestUpdateDocument(t *testing.T) {
	srv := newTestServer(t)
	id := srv.createAs(t, testUser, groceries())

	name := "Weekend groceries"
	rr := srv.do(t, http.MethodPatch, documentsURL("/"+id), testUser,
		models.DocumentPatch{ListUpdate: models.ListUpdate{Name: &name}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	updated := decodeJSON[models.Document](t, rr)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, 2, updated.Quantity, "fields outside the patch are kept")
	assert.Equal(t, groceries().ChildItems, updated.ChildItems)
}

func TestUpdateDocument_Rejections(t *testing.T) {
	srv := newTestServer(t)
	id := srv.createAs(t, testUser, groceries())
	negative := -5

	tests := []struct {
		name       string
		target     string
		userID     string
		body       any
		wantStatus int
	}{
		{"invalid quantity", documentsURL("/" + id), testUser, models.DocumentPatch{ListUpdate: models.ListUpdate{Quantity: &negative}}, http.StatusBadRequest},
		{"malformed json", documentsURL("/" + id), testUser, `[`, http.StatusBadRequest},
		{"absent document", documentsURL("/missing"), testUser, models.DocumentPatch{}, http.StatusNotFound},
		{"someone else's document", documentsURL("/" + id), otherUser, models.DocumentPatch{}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := srv.do(t, http.MethodPatch, tt.target, tt.userID, tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

// ── delete ──────────────────────────────────────────────────────────────────

func TestDeleteDocument(t *testing.T) {
	srv := newTestServer(t)
	id := srv.createAs(t, testUser, groceries())

	// чужой пользователь удалить не может
	rr := srv.do(t, http.MethodDelete, documentsURL("/"+id), otherUser, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = srv.do(t, http.MethodDelete, documentsURL("/"+id), testUser, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, rr.Body.Len())

	rr = srv.do(t, http.MethodDelete, documentsURL("/"+id), testUser, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
