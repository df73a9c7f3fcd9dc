// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newMethodCheckRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/version", okHandler)
	r.Route("/api/collections/{collection}", func(r chi.Router) {
		r.Get("/documents", okHandler)
		r.Post("/documents", okHandler)
		r.Delete("/documents/{id}", okHandler)
	})
	r.MethodNotAllowed(CheckHTTPMethod(r))
	return r
}

func TestCheckHTTPMethod(t *testing.T) {
	router := newMethodCheckRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"registered static route", http.MethodGet, "/api/version", http.StatusOK},
		{"wrong method on static route", http.MethodPost, "/api/version", http.StatusNotFound},
		{"registered nested route", http.MethodPost, "/api/collections/c/documents", http.StatusOK},
		{"wrong method on nested route", http.MethodPut, "/api/collections/c/documents", http.StatusNotFound},
		{"registered param route", http.MethodDelete, "/api/collections/c/documents/42", http.StatusOK},
		{"wrong method on param route", http.MethodPatch, "/api/collections/c/documents/42", http.StatusNotFound},
		{"unknown path", http.MethodGet, "/api/nothing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

// Вызов напрямую с методом, который роутер обслуживает, передаёт запрос дальше.
func TestCheckHTTPMethod_ForwardsServableRequests(t *testing.T) {
	router := newMethodCheckRouter()

	rr := httptest.NewRecorder()
	CheckHTTPMethod(router)(rr, httptest.NewRequest(http.MethodGet, "/api/collections/c/documents", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}
