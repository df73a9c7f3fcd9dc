package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter_WriteHeaderOnce(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusCreated, w.status)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestResponseWriter_WriteCountsBytes(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	_, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = w.Write([]byte("de"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.status, "write implies 200")
	assert.Equal(t, 5, w.size)
	assert.Equal(t, "abcde", rr.Body.String())
}

func TestResponseWriter_Flush(t *testing.T) {
	rr := httptest.NewRecorder()
	(&responseWriter{ResponseWriter: rr}).Flush()
	assert.True(t, rr.Flushed)
}

// httptest.ResponseRecorder не умеет Hijack
func TestResponseWriter_HijackUnsupported(t *testing.T) {
	w := &responseWriter{ResponseWriter: httptest.NewRecorder()}

	_, _, err := w.Hijack()

	assert.ErrorIs(t, err, errHijackNotSupported)
	assert.False(t, w.hijacked)
	assert.Zero(t, w.status)
}
