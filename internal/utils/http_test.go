package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-list-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	data := models.CreatedResponse{ID: "doc-1"}

	n, err := WriteJSON(w, data, http.StatusCreated)

	require.NoError(t, err)
	assert.NotZero(t, n)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"doc-1"}`, w.Body.String())
}

func TestWriteJSON_InvalidData(t *testing.T) {
	w := httptest.NewRecorder()

	// channels cannot be marshaled to JSON
	_, err := WriteJSON(w, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteJSON_NilData(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, nil, http.StatusOK)

	require.NoError(t, err)
	assert.Equal(t, "null", w.Body.String())
}

func TestWriteJSON_Documents(t *testing.T) {
	w := httptest.NewRecorder()
	docs := []models.Document{{ID: "a1", UserID: "u1", Name: "Groceries", Quantity: 1, ChildItems: []models.LineItem{}}}

	_, err := WriteJSON(w, docs, http.StatusOK)
	require.NoError(t, err)

	var got []models.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, docs, got)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    string
	}{
		{name: "custom message", status: http.StatusForbidden, message: "owner mismatch", want: "owner mismatch"},
		{name: "default message", status: http.StatusNotFound, want: "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.status, tt.message)

			assert.Equal(t, tt.status, w.Code)
			var body models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Error)
		})
	}
}
