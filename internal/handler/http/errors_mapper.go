package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/internal/store"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
)

// checked in order: wrapped errors may match more than one entry
var errorStatuses = []struct {
	err    error
	status int
}{
	{ErrNoOwner, http.StatusBadRequest},
	{ErrInvalidJSON, http.StatusBadRequest},
	{ErrNoUserIDInContext, http.StatusUnauthorized},

	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrTokenIsExpired, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},

	{store.ErrDocumentNotFound, http.StatusNotFound},
	{store.ErrDocumentExists, http.StatusConflict},

	{store.ErrBuildingSQLQuery, http.StatusInternalServerError},
	{store.ErrExecutingQuery, http.StatusInternalServerError},
	{store.ErrExecutingStatement, http.StatusInternalServerError},
	{store.ErrScanningRow, http.StatusInternalServerError},
	{store.ErrScanningRows, http.StatusInternalServerError},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeServiceError logs err and answers with the matching status. Internal
// failures are not described to the caller.
func writeServiceError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	ev := log.Warn()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).Str("func", fn).Int("status", status).Msg("request failed")

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = ""
	}
	utils.WriteError(w, status, message)
}
