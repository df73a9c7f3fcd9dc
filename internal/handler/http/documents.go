// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
	"github.com/MKhiriev/go-list-keeper/models"
)

const maxDocumentBodySize = 1 << 20

// GET /api/collections/{collection}/documents?owner={userID}
func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "*Handler.listDocuments", err)
		return
	}

	owner := r.URL.Query().Get("owner")
	if owner == "" {
		utils.WriteError(w, http.StatusBadRequest, ErrNoOwner.Error())
		return
	}

	docs, err := h.services.DocumentService.List(r.Context(), userID, chi.URLParam(r, "collection"), owner)
	if err != nil {
		writeServiceError(w, r, "*Handler.listDocuments", err)
		return
	}

	h.writeJSON(w, r, "*Handler.listDocuments", docs, http.StatusOK)
}

// GET /api/collections/{collection}/documents/{id}
func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "*Handler.getDocument", err)
		return
	}

	doc, err := h.services.DocumentService.Get(r.Context(), userID, chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "*Handler.getDocument", err)
		return
	}

	h.writeJSON(w, r, "*Handler.getDocument", doc, http.StatusOK)
}

// POST /api/collections/{collection}/documents
func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "*Handler.createDocument", err)
		return
	}

	var doc models.Document
	if !decodeBody(w, r, "*Handler.createDocument", &doc) {
		return
	}

	id, err := h.services.DocumentService.Create(r.Context(), userID, chi.URLParam(r, "collection"), doc)
	if err != nil {
		writeServiceError(w, r, "*Handler.createDocument", err)
		return
	}

	h.writeJSON(w, r, "*Handler.createDocument", models.CreatedResponse{ID: id}, http.StatusCreated)
}

// PATCH /api/collections/{collection}/documents/{id}
func (h *Handler) updateDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "*Handler.updateDocument", err)
		return
	}

	var patch models.DocumentPatch
	if !decodeBody(w, r, "*Handler.updateDocument", &patch) {
		return
	}

	doc, err := h.services.DocumentService.Update(r.Context(), userID, chi.URLParam(r, "collection"), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, r, "*Handler.updateDocument", err)
		return
	}

	h.writeJSON(w, r, "*Handler.updateDocument", doc, http.StatusOK)
}

// DELETE /api/collections/{collection}/documents/{id}
func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "*Handler.deleteDocument", err)
		return
	}

	err = h.services.DocumentService.Delete(r.Context(), userID, chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "*Handler.deleteDocument", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, fn string, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBodySize))
	if err := dec.Decode(dst); err != nil {
		logger.FromRequest(r).Err(err).Str("func", fn).Msg("Invalid JSON was passed")
		utils.WriteError(w, http.StatusBadRequest, ErrInvalidJSON.Error())
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, fn string, data any, status int) {
	if _, err := utils.WriteJSON(w, data, status); err != nil {
		logger.FromRequest(r).Err(err).Str("func", fn).Msg("failed to write response")
	}
}
